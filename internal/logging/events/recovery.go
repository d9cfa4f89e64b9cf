package events

import "github.com/atomicstack/erp-navstate/internal/logging"

type RecoveryTracer struct{}

type HierarchyTracer struct{}

var (
	Recovery  = RecoveryTracer{}
	Hierarchy = HierarchyTracer{}
)

func (RecoveryTracer) Start(identifier, signature string, trivial bool) {
	logging.Trace("recovery.start", map[string]interface{}{
		"identifier": identifier,
		"signature":  signature,
		"trivial":    trivial,
	})
}

func (RecoveryTracer) Skip(identifier, status string) {
	logging.Trace("recovery.skip", map[string]interface{}{"identifier": identifier, "status": status})
}

func (RecoveryTracer) Complete(identifier string, activeLevels []int) {
	logging.Trace("recovery.complete", map[string]interface{}{"identifier": identifier, "levels": activeLevels})
}

func (RecoveryTracer) Fail(identifier string, err error) {
	payload := map[string]interface{}{"identifier": identifier}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("recovery.fail", payload)
}

func (RecoveryTracer) Unmount(identifier string) {
	logging.Trace("recovery.unmount", map[string]interface{}{"identifier": identifier})
}

func (HierarchyTracer) Discard(windowID string, tabIDs []string) {
	logging.Trace("hierarchy.discard", map[string]interface{}{"window": windowID, "tabs": tabIDs})
}
