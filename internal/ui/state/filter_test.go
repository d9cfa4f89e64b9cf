package state

import (
	"reflect"
	"testing"
)

func tabItems() []Item {
	return []Item{
		{ID: "186", Label: "Header", Detail: "SO-1001", Kind: ItemTab, Tab: "186"},
		{ID: "187", Label: "Lines", Detail: "L-10", Kind: ItemTab, Tab: "187"},
		{ID: "188", Label: "Taxes", Kind: ItemTab, Tab: "188"},
		{ID: "189", Label: "Line Taxes", Kind: ItemTab, Tab: "189"},
	}
}

func recordLevel(records ...string) *Level {
	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, Item{ID: r, Label: r, Kind: ItemRecord, Record: r})
	}
	return RecordsLevel("143_a", "186", "Header", items)
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestFilterItems(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"186", "187", "188", "189"}},
		{"  ", []string{"186", "187", "188", "189"}},
		{"lines", []string{"187", "189"}},
		{"SO-1001", []string{"186"}},
		{"tx", []string{"188", "189"}},
		{"zzz", []string{}},
	}
	for _, tc := range cases {
		got := ids(FilterItems(tabItems(), tc.query))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("FilterItems(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestFilterItemsReturnsCopy(t *testing.T) {
	items := tabItems()
	filtered := FilterItems(items, "")
	filtered[0].Label = "changed"
	if items[0].Label != "Header" {
		t.Fatalf("expected source items untouched, got %q", items[0].Label)
	}
}

func TestBestMatchIndex(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"exact label", "Lines", 1},
		{"label prefix", "line", 1},
		{"later prefix", "tax", 2},
		{"detail substring", "l-10", 1},
		{"no match", "zzz", 0},
		{"blank", " ", 0},
	}
	for _, tc := range cases {
		if got := BestMatchIndex(tabItems(), tc.query); got != tc.want {
			t.Fatalf("%s: BestMatchIndex(%q) = %d, want %d", tc.name, tc.query, got, tc.want)
		}
	}
	if got := BestMatchIndex(nil, "anything"); got != -1 {
		t.Fatalf("expected -1 without items, got %d", got)
	}
	records := recordLevel("SO-1001", "SO-1002", "SO-1003")
	if got := BestMatchIndex(records.Full, "so-1002"); got != 1 {
		t.Fatalf("expected record match at 1, got %d", got)
	}
}

func TestSetFilterRemembersCursor(t *testing.T) {
	l := recordLevel("SO-1001", "SO-1002", "SO-1003")
	l.Cursor = 2
	l.SetFilter("1002", 4)

	if got := ids(l.Items); !reflect.DeepEqual(got, []string{"SO-1002"}) {
		t.Fatalf("unexpected filtered records %v", got)
	}
	if l.Cursor != 0 || l.LastCursor != 2 {
		t.Fatalf("expected cursor 0 remembering 2, got %d/%d", l.Cursor, l.LastCursor)
	}

	// narrowing further keeps the remembered position
	l.SetFilter("10022", 5)
	if l.LastCursor != 2 {
		t.Fatalf("expected remembered cursor kept, got %d", l.LastCursor)
	}

	l.SetFilter("", 0)
	if len(l.Items) != 3 {
		t.Fatalf("expected every record back, got %v", ids(l.Items))
	}
	if l.Cursor != 2 || l.LastCursor != -1 {
		t.Fatalf("expected cursor restored to 2, got %d/%d", l.Cursor, l.LastCursor)
	}
}

func TestFilterEditing(t *testing.T) {
	l := recordLevel("L-10", "L-20")
	steps := []struct {
		name   string
		apply  func() bool
		ok     bool
		filter string
		cursor int
	}{
		{"insert", func() bool { return l.InsertFilterText("L-2") }, true, "L-2", 3},
		{"insert nothing", func() bool { return l.InsertFilterText("") }, false, "L-2", 3},
		{"left", func() bool { return l.MoveFilterCursor(-1) }, true, "L-2", 2},
		{"insert middle", func() bool { return l.InsertFilterText("x") }, true, "L-x2", 3},
		{"backspace", func() bool { return l.DeleteFilterRuneBackward() }, true, "L-2", 2},
		{"home", l.MoveFilterCursorStart, true, "L-2", 0},
		{"home again", l.MoveFilterCursorStart, false, "L-2", 0},
		{"backspace at start", l.DeleteFilterRuneBackward, false, "L-2", 0},
		{"end", l.MoveFilterCursorEnd, true, "L-2", 3},
		{"right at end", func() bool { return l.MoveFilterCursor(1) }, false, "L-2", 3},
		{"append word", func() bool { return l.InsertFilterText(" 20") }, true, "L-2 20", 6},
		{"delete word", l.DeleteFilterWordBackward, true, "L-2 ", 4},
		{"delete word over space", l.DeleteFilterWordBackward, true, "", 0},
		{"delete word empty", l.DeleteFilterWordBackward, false, "", 0},
	}
	for _, step := range steps {
		if got := step.apply(); got != step.ok {
			t.Fatalf("%s: expected %v, got %v", step.name, step.ok, got)
		}
		if l.Filter != step.filter || l.FilterCursorPos() != step.cursor {
			t.Fatalf("%s: expected %q/%d, got %q/%d", step.name, step.filter, step.cursor, l.Filter, l.FilterCursorPos())
		}
	}
}

func TestSetFilterClampsCursor(t *testing.T) {
	l := recordLevel("L-10")
	l.SetFilter("L-1", 99)
	if l.FilterCursor != 3 {
		t.Fatalf("expected cursor clamped to 3, got %d", l.FilterCursor)
	}
}
