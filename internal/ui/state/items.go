package state

// ItemKind tells the browser what an entry stands for.
type ItemKind int

const (
	ItemInstance ItemKind = iota
	ItemCatalog
	ItemTab
	ItemRecord
)

// Item is one selectable row of a level.
type Item struct {
	ID     string
	Label  string
	Detail string
	Kind   ItemKind
	Window string
	Tab    string
	Record string
	Active bool
}

func (i Item) searchText() string {
	if i.Detail == "" {
		return i.Label
	}
	return i.Label + " " + i.Detail
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
