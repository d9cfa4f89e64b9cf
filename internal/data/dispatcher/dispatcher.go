package dispatcher

import (
	"github.com/atomicstack/erp-navstate/internal/backend"
	"github.com/atomicstack/erp-navstate/internal/recovery"
)

// Syncer recovers window state from the committed URL.
type Syncer interface {
	Sync() []recovery.Run
}

type Result struct {
	WindowsUpdated bool
	Query          string
	Runs           []recovery.Run
	Failed         []string
}

type Dispatcher struct {
	syncer Syncer
}

func New(s Syncer) *Dispatcher {
	return &Dispatcher{syncer: s}
}

// Handle runs recovery for a URL change event.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil || d.syncer == nil {
		return res
	}
	switch evt.Kind {
	case backend.KindURL:
		res.Query = evt.Query
		res.Runs = d.syncer.Sync()
		res.WindowsUpdated = true
		for _, run := range res.Runs {
			if run.Status == recovery.StatusFailed {
				res.Failed = append(res.Failed, run.Identifier)
			}
		}
	}
	return res
}
