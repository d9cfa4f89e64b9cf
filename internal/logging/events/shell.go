package events

import "github.com/atomicstack/erp-navstate/internal/logging"

type ShellTracer struct{}

var Shell = ShellTracer{}

func (ShellTracer) Load(count int) {
	logging.Trace("shell.load", map[string]interface{}{"count": count})
}

func (ShellTracer) Save(count int) {
	logging.Trace("shell.save", map[string]interface{}{"count": count})
}
