package navigation

import (
	"errors"

	"github.com/atomicstack/erp-navstate/internal/metadata"
)

var (
	ErrWindowNotFound      = errors.New("window not open")
	ErrTabNotFound         = errors.New("tab not found")
	ErrMetadataUnavailable = errors.New("window metadata unavailable")
	ErrInvalidMode         = errors.New("invalid tab mode")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrInvalidWindowID     = errors.New("invalid window id")
)

// ErrorKind groups navigation errors for display.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidParameters ErrorKind = "invalid_parameters"
	KindMetadata          ErrorKind = "metadata"
	KindUnknown           ErrorKind = "unknown"
)

// Classify maps err onto an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWindowNotFound), errors.Is(err, ErrTabNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidMode), errors.Is(err, ErrInvalidSelection), errors.Is(err, ErrInvalidWindowID):
		return KindInvalidParameters
	case errors.Is(err, ErrMetadataUnavailable), errors.Is(err, metadata.ErrUnavailable):
		return KindMetadata
	default:
		return KindUnknown
	}
}
