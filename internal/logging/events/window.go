package events

import "github.com/atomicstack/erp-navstate/internal/logging"

type WindowTracer struct{}

type windowReason string

const (
	ReasonReuse    windowReason = "reuse"
	ReasonCreate   windowReason = "create"
	ReasonInstance windowReason = "instance"
)

var Window = WindowTracer{}

func (WindowTracer) Open(windowID, identifier string, order int, reason windowReason) {
	logging.Trace("window.open", map[string]interface{}{
		"window":     windowID,
		"identifier": identifier,
		"order":      order,
		"reason":     string(reason),
	})
}

func (WindowTracer) Activate(identifier string) {
	logging.Trace("window.activate", map[string]interface{}{"identifier": identifier})
}

func (WindowTracer) Close(identifier, next string) {
	logging.Trace("window.close", map[string]interface{}{"identifier": identifier, "next": next})
}

func (WindowTracer) Home() {
	logging.Trace("window.home", nil)
}
