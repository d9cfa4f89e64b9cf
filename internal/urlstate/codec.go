package urlstate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/atomicstack/erp-navstate/internal/logging"
	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/state"
)

const (
	keyWindow     = "w"
	keyOrder      = "o"
	keyIdentifier = "wi"
	keySelected   = "s"
	keyFormRecord = "tf"
	keyTabMode    = "tm"
	keyFormMode   = "tfm"

	ValueActive   = "active"
	ValueInactive = "inactive"
)

// Param is one query-string pair.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query-string pairs.
type Params []Param

// Encode renders the params as a query string, preserving their order.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

// Values converts the params into url.Values.
func (p Params) Values() url.Values {
	values := make(url.Values, len(p))
	for _, param := range p {
		values.Add(param.Key, param.Value)
	}
	return values
}

// Get returns the value for key, or "".
func (p Params) Get(key string) string {
	for _, param := range p {
		if param.Key == key {
			return param.Value
		}
	}
	return ""
}

// Malformed describes a key or value that decode skipped.
type Malformed struct {
	Key    string
	Value  string
	Reason string
}

func (m Malformed) String() string {
	return fmt.Sprintf("%s=%q: %s", m.Key, m.Value, m.Reason)
}

// Encode renders windows as ordered query params. Windows are emitted by
// order then identifier; within a window the w_, o_ and wi_ keys come first,
// followed by each tab (sorted by id) as s_, tf_, tm_, tfm_.
func Encode(windows []Window) Params {
	sorted := CloneAll(windows)
	Sort(sorted)
	params := make(Params, 0, len(sorted)*4)
	for _, w := range sorted {
		params = appendWindow(params, w)
	}
	return params
}

// EncodeQuery is Encode followed by Params.Encode.
func EncodeQuery(windows []Window) string {
	return Encode(windows).Encode()
}

func appendWindow(params Params, w Window) Params {
	slot := w.Identifier
	activation := ValueInactive
	if w.Active {
		activation = ValueActive
	}
	params = append(params,
		Param{Key: windowKey(keyWindow, slot), Value: activation},
		Param{Key: windowKey(keyOrder, slot), Value: strconv.Itoa(w.Order)},
		Param{Key: windowKey(keyIdentifier, slot), Value: w.Identifier},
	)
	return appendTabs(params, w)
}

func appendTabs(params Params, w Window) Params {
	slot := w.Identifier
	for _, tabID := range w.TabIDs() {
		tab := w.Tabs[tabID]
		if tab.Selected != "" {
			params = append(params, Param{Key: tabKey(keySelected, slot, tabID), Value: tab.Selected})
		}
		if tab.FormRecordID != "" {
			params = append(params, Param{Key: tabKey(keyFormRecord, slot, tabID), Value: tab.FormRecordID})
		}
		if tab.Mode != "" {
			params = append(params, Param{Key: tabKey(keyTabMode, slot, tabID), Value: string(tab.Mode)})
		}
		if tab.FormMode != "" {
			params = append(params, Param{Key: tabKey(keyFormMode, slot, tabID), Value: string(tab.FormMode)})
		}
	}
	return params
}

func windowKey(prefix, slot string) string {
	return prefix + "_" + slot
}

func tabKey(prefix, slot, tabID string) string {
	return prefix + "_" + slot + "_" + tabID
}

// Decode parses query values into windows. Unknown keys are ignored and
// malformed values are skipped with a warning. At most one window comes back
// active: the first by order then identifier.
func Decode(values url.Values) []Window {
	windows, malformed := DecodeReport(values)
	if len(malformed) > 0 {
		log := logging.Logger()
		for _, m := range malformed {
			log.Warn("ignoring malformed url key", "key", m.Key, "value", m.Value, "reason", m.Reason)
			events.URL.Malformed(m.Key, m.Value, m.Reason)
		}
	}
	return windows
}

// DecodeQuery parses a raw query string (with or without a leading '?').
func DecodeQuery(raw string) ([]Window, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return Decode(values), nil
}

// DecodeReport is Decode without logging: the skipped entries are returned.
func DecodeReport(values url.Values) ([]Window, []Malformed) {
	d := decoder{slots: make(map[string]*Window)}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var tabKeys []string
	for _, key := range keys {
		prefix, rest, ok := splitKey(key)
		if !ok {
			continue
		}
		switch prefix {
		case keyWindow, keyOrder, keyIdentifier:
			d.windowKey(prefix, rest, key, values.Get(key))
		case keySelected, keyFormRecord, keyTabMode, keyFormMode:
			tabKeys = append(tabKeys, key)
		}
	}

	d.sortSlots()
	for _, key := range tabKeys {
		prefix, rest, _ := splitKey(key)
		d.tabKey(prefix, rest, key, values.Get(key))
	}
	return d.windows(), d.malformed
}

func splitKey(key string) (string, string, bool) {
	idx := strings.Index(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}

type decoder struct {
	slots     map[string]*Window
	bySize    []string
	malformed []Malformed
}

func (d *decoder) skip(key, value, reason string) {
	d.malformed = append(d.malformed, Malformed{Key: key, Value: value, Reason: reason})
}

func (d *decoder) slot(name string) *Window {
	w, ok := d.slots[name]
	if !ok {
		nw := NewWindow(state.WindowIDFromIdentifier(name), name, 0)
		w = &nw
		d.slots[name] = w
	}
	return w
}

func (d *decoder) windowKey(prefix, slot, key, value string) {
	w := d.slot(slot)
	switch prefix {
	case keyWindow:
		switch value {
		case ValueActive:
			w.Active = true
		case ValueInactive:
		default:
			d.skip(key, value, "unknown activation value")
		}
	case keyOrder:
		order, err := strconv.Atoi(value)
		if err != nil {
			d.skip(key, value, "order is not an integer")
			return
		}
		w.Order = order
	case keyIdentifier:
		if value == "" {
			d.skip(key, value, "empty window identifier")
			return
		}
		w.Identifier = value
	}
}

func (d *decoder) sortSlots() {
	d.bySize = make([]string, 0, len(d.slots))
	for slot := range d.slots {
		d.bySize = append(d.bySize, slot)
	}
	sort.Slice(d.bySize, func(i, j int) bool {
		if len(d.bySize[i]) != len(d.bySize[j]) {
			return len(d.bySize[i]) > len(d.bySize[j])
		}
		return d.bySize[i] < d.bySize[j]
	})
}

// matchSlot finds the longest known slot that prefixes rest and returns the
// remaining tab id.
func (d *decoder) matchSlot(rest string) (*Window, string, bool) {
	for _, slot := range d.bySize {
		if len(rest) > len(slot)+1 && strings.HasPrefix(rest, slot+"_") {
			return d.slots[slot], rest[len(slot)+1:], true
		}
	}
	return nil, "", false
}

func (d *decoder) tabKey(prefix, rest, key, value string) {
	w, tabID, ok := d.matchSlot(rest)
	if !ok {
		d.skip(key, value, "no window for tab key")
		return
	}
	if value == "" {
		d.skip(key, value, "empty value")
		return
	}
	tab := w.Tabs[tabID]
	switch prefix {
	case keySelected:
		tab.Selected = value
	case keyFormRecord:
		tab.FormRecordID = value
	case keyTabMode:
		mode := state.TabMode(value)
		if !mode.Valid() {
			d.skip(key, value, "unknown tab mode")
			return
		}
		tab.Mode = mode
	case keyFormMode:
		sub := state.FormMode(value)
		if !sub.Valid() {
			d.skip(key, value, "unknown form mode")
			return
		}
		tab.FormMode = sub
	}
	w.Tabs[tabID] = tab
}

func (d *decoder) windows() []Window {
	out := make([]Window, 0, len(d.slots))
	seen := make(map[string]string, len(d.slots))
	slots := make([]string, 0, len(d.slots))
	for slot := range d.slots {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		w := d.slots[slot]
		if prev, dup := seen[w.Identifier]; dup {
			d.skip(windowKey(keyIdentifier, slot), w.Identifier, "identifier already used by "+prev)
			continue
		}
		seen[w.Identifier] = slot
		out = append(out, *w)
	}
	Sort(out)
	active := false
	for i := range out {
		if !out[i].Active {
			continue
		}
		if active {
			out[i].Active = false
			d.skip(windowKey(keyWindow, seen[out[i].Identifier]), ValueActive, "another window is already active")
			continue
		}
		active = true
	}
	return out
}

// Signature hashes the recovery-relevant part of a window's URL slice: its
// identifier and every tab key. Activation and order are excluded.
func Signature(w Window) string {
	params := appendTabs(Params{{Key: keyIdentifier, Value: w.Identifier}}, w)
	sum := sha256.Sum256([]byte(params.Encode()))
	return hex.EncodeToString(sum[:])
}
