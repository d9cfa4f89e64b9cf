package events

import "github.com/atomicstack/erp-navstate/internal/logging"

type SelectionTracer struct{}

var Selection = SelectionTracer{}

func (SelectionTracer) Emit(event, window, tab string, listeners int) {
	logging.Trace("selection.emit", map[string]interface{}{
		"event":     event,
		"window":    window,
		"tab":       tab,
		"listeners": listeners,
	})
}

func (SelectionTracer) Rebuild(tabs []string) {
	logging.Trace("selection.rebuild", map[string]interface{}{"tabs": tabs})
}
