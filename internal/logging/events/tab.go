package events

import "github.com/atomicstack/erp-navstate/internal/logging"

type TabTracer struct{}

var Tab = TabTracer{}

func (TabTracer) Select(identifier, tabID, recordID string, cleared []string) {
	logging.Trace("tab.select", map[string]interface{}{
		"identifier": identifier,
		"tab":        tabID,
		"record":     recordID,
		"cleared":    cleared,
	})
}

func (TabTracer) Clear(identifier string, tabIDs []string) {
	logging.Trace("tab.clear", map[string]interface{}{"identifier": identifier, "tabs": tabIDs})
}

func (TabTracer) Mode(identifier, tabID, mode, recordID string) {
	logging.Trace("tab.mode", map[string]interface{}{
		"identifier": identifier,
		"tab":        tabID,
		"mode":       mode,
		"record":     recordID,
	})
}
