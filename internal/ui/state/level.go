package state

// Kind identifies which part of the navigation tree a level browses.
type Kind int

const (
	KindWindows Kind = iota
	KindTabs
	KindRecords
)

func (k Kind) String() string {
	switch k {
	case KindWindows:
		return "windows"
	case KindTabs:
		return "tabs"
	case KindRecords:
		return "records"
	default:
		return "unknown"
	}
}

// Level holds the cursor, filter and viewport of one browser level.
type Level struct {
	ID             string
	Title          string
	Kind           Kind
	Window         string
	Tab            string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	MultiSelect    bool
	Selected       map[string]struct{}
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a Level showing items.
func NewLevel(id, title string, kind Kind, items []Item) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Kind:       kind,
		Cursor:     0,
		LastCursor: -1,
		Selected:   make(map[string]struct{}),
	}
	l.UpdateItems(items)
	return l
}

// WindowsLevel lists open instances and the catalog.
func WindowsLevel(items []Item) *Level {
	return NewLevel("windows", "windows", KindWindows, items)
}

// TabsLevel lists the tabs of one window instance.
func TabsLevel(window, title string, items []Item) *Level {
	l := NewLevel("tabs:"+window, title, KindTabs, items)
	l.Window = window
	return l
}

// RecordsLevel lists the records of one tab; several may be marked at once.
func RecordsLevel(window, tab, title string, items []Item) *Level {
	l := NewLevel("records:"+window+":"+tab, title, KindRecords, items)
	l.Window = window
	l.Tab = tab
	l.MultiSelect = true
	return l
}

// IndexOf returns the index for a given item identifier.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the item under the cursor.
func (l *Level) Current() (Item, bool) {
	if l == nil || l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the items, keeping the cursor on the same item id
// when it is still present.
func (l *Level) UpdateItems(items []Item) {
	prevOffset := l.ViewportOffset
	focused := ""
	if item, ok := l.Current(); ok {
		focused = item.ID
	}
	l.Full = CloneItems(items)
	l.CleanupSelections()
	l.applyFilter()
	if idx := l.IndexOf(focused); idx >= 0 {
		l.Cursor = idx
	}
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		prevOffset = 0
	}
	l.ViewportOffset = prevOffset
}
