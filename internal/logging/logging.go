package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pkt.systems/pslog"
)

const defaultLogFile = "navstate.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      string
	logFile      io.Closer
	logOut       io.Writer = io.Discard
	logger                 = newLogger(io.Discard, false)
)

// ownLogger is false once SetLogger installs a logger this package did not
// build; SetTraceEnabled then leaves it alone.
var ownLogger = true

func newLogger(w io.Writer, trace bool) pslog.Logger {
	minLevel := pslog.DebugLevel
	if trace {
		minLevel = pslog.TraceLevel
	}
	return pslog.NewWithOptions(w, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: minLevel,
	})
}

// Logger returns the shared structured logger. Until Configure is called
// everything written to it is discarded.
func Logger() pslog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// SetLogger replaces the shared logger, typically with one writing to a test
// buffer.
func SetLogger(l pslog.Logger) {
	mu.Lock()
	logger = l
	ownLogger = false
	mu.Unlock()
}

// Error writes errors to the shared log.
func Error(err error) {
	if err == nil {
		return
	}
	Logger().Error("error", "err", err)
}

// SetTraceEnabled toggles emission of structured trace entries. The shared
// logger is rebuilt so its minimum level follows: TraceLevel when enabled,
// DebugLevel otherwise.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	traceEnabled = enabled
	if ownLogger {
		logger = newLogger(logOut, enabled)
	}
}

// TraceEnabled reports whether trace entries are emitted.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	enabled := traceEnabled
	l := logger
	mu.Unlock()
	if !enabled {
		return
	}
	if payload == nil {
		l.Trace(event)
		return
	}
	l.Trace(event, "payload", payload)
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		path = defaultLogFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
			path = defaultLogFile
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	logOut = f
	logPath = path
	logger = newLogger(f, traceEnabled)
	ownLogger = true
}

// Path returns the active log file path, or "" before Configure.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close releases the log file and reverts to discarding output.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logPath = ""
	logOut = io.Discard
	logger = newLogger(io.Discard, traceEnabled)
	ownLogger = true
}
