package state

// CleanupSelections drops marks for items that are no longer listed.
func (l *Level) CleanupSelections() {
	if len(l.Selected) == 0 {
		return
	}
	valid := make(map[string]struct{}, len(l.Full))
	for _, item := range l.Full {
		valid[item.ID] = struct{}{}
	}
	for id := range l.Selected {
		if _, ok := valid[id]; !ok {
			delete(l.Selected, id)
		}
	}
}

// IsSelected reports whether the given id is marked.
func (l *Level) IsSelected(id string) bool {
	_, ok := l.Selected[id]
	return ok
}

// ToggleCurrentSelection toggles the mark on the item under the cursor.
func (l *Level) ToggleCurrentSelection() bool {
	item, ok := l.Current()
	if !l.MultiSelect || !ok {
		return false
	}
	if l.Selected == nil {
		l.Selected = make(map[string]struct{})
	}
	if _, marked := l.Selected[item.ID]; marked {
		delete(l.Selected, item.ID)
	} else {
		l.Selected[item.ID] = struct{}{}
	}
	return true
}

// ClearSelection clears all marks.
func (l *Level) ClearSelection() {
	for id := range l.Selected {
		delete(l.Selected, id)
	}
}

// SelectedItems returns the marked items in list order, including ones hidden
// by the current filter.
func (l *Level) SelectedItems() []Item {
	if len(l.Selected) == 0 {
		return nil
	}
	selected := make([]Item, 0, len(l.Selected))
	for _, item := range l.Full {
		if l.IsSelected(item.ID) {
			selected = append(selected, item)
		}
	}
	return selected
}
