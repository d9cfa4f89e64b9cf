package events

import "github.com/atomicstack/erp-navstate/internal/logging"

type URLTracer struct{}

var URL = URLTracer{}

func (URLTracer) Commit(query string) {
	logging.Trace("url.commit", map[string]interface{}{"query": query})
}

func (URLTracer) Malformed(key, value, reason string) {
	logging.Trace("url.malformed", map[string]interface{}{"key": key, "value": value, "reason": reason})
}

func (URLTracer) Changed(query string) {
	logging.Trace("url.changed", map[string]interface{}{"query": query})
}
