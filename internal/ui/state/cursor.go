package state

// MoveCursor moves the cursor by one step, wrapping at either end.
func (l *Level) MoveCursor(down bool) bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	old := l.Cursor
	switch {
	case down && l.Cursor >= n-1:
		l.Cursor = 0
	case down:
		l.Cursor++
	case l.Cursor <= 0:
		l.Cursor = n - 1
	default:
		l.Cursor--
	}
	return old != l.Cursor
}

// MoveCursorHome moves the cursor to the first item.
func (l *Level) MoveCursorHome() bool {
	return l.moveCursorTo(0)
}

// MoveCursorEnd moves the cursor to the last item.
func (l *Level) MoveCursorEnd() bool {
	return l.moveCursorTo(len(l.Items) - 1)
}

// MoveCursorPageUp moves the cursor up by the given page size.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.moveCursorTo(l.Cursor - l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by the given page size.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	start := l.Cursor
	if start < 0 {
		start = 0
	}
	return l.moveCursorTo(start + l.pageSize(maxVisible))
}

func (l *Level) moveCursorTo(target int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(target, 0, len(l.Items)-1)
	return l.Cursor != old
}

func (l *Level) pageSize(maxVisible int) int {
	total := len(l.Items)
	if maxVisible <= 0 || maxVisible > total {
		return total
	}
	return maxVisible
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := clamp(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < offset {
		offset = l.Cursor
	}
	if l.Cursor > offset+maxVisible-1 {
		offset = clamp(l.Cursor-maxVisible+1, 0, maxOffset)
	}
	l.ViewportOffset = offset
}

// Visible returns the items inside the viewport and the index of the first.
func (l *Level) Visible(maxVisible int) ([]Item, int) {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		return l.Items, 0
	}
	start := clamp(l.ViewportOffset, 0, len(l.Items)-maxVisible)
	l.ViewportOffset = start
	return l.Items[start : start+maxVisible], start
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
