package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/erp-navstate/internal/shell"
)

func TestBootstrapRecoversURL(t *testing.T) {
	env, err := Bootstrap(Config{URL: "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001", Storage: shell.KindMemory})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer env.Close()
	ws, ok := env.Session.WindowState("143")
	if !ok || ws.Tabs["186"].SelectedRecord != "SO-1001" {
		t.Fatalf("expected recovered selection, got %#v", ws)
	}
	tabs := env.Session.ShellTabs()
	if len(tabs) != 2 || tabs[1].WindowID != "143" {
		t.Fatalf("expected home plus 143 in tab bar, got %#v", tabs)
	}
}

func TestBootstrapSQLiteStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navstate.db")
	env, err := Bootstrap(Config{URL: "w_123=active&o_123=1&wi_123=123", Storage: shell.KindSQLite, StoragePath: path})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestBootstrapRejectsBadInputs(t *testing.T) {
	if _, err := Bootstrap(Config{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected missing catalog to fail")
	}
	if _, err := Bootstrap(Config{Storage: "redis"}); err == nil {
		t.Fatalf("expected unknown storage to fail")
	}
	if _, err := Bootstrap(Config{URL: "%zz"}); err == nil {
		t.Fatalf("expected malformed url to fail")
	}
}

func TestBootstrapRestoresPreviousTabBar(t *testing.T) {
	dir := t.TempDir()
	first, err := Bootstrap(Config{URL: "w_143=active&o_143=1&wi_143=143", Storage: shell.KindFile, StoragePath: dir})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if len(first.Restored) != 0 {
		t.Fatalf("expected nothing restored on a fresh store, got %#v", first.Restored)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Bootstrap(Config{Storage: shell.KindFile, StoragePath: dir})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer second.Close()
	if len(second.Restored) != 2 || second.Restored[1].WindowID != "143" {
		t.Fatalf("expected home plus 143 restored, got %#v", second.Restored)
	}
	if got := second.Session.RestoredTabs(); len(got) != 2 {
		t.Fatalf("expected session to keep the restored tabs, got %#v", got)
	}
	if got := second.Session.ShellTabs(); len(got) != 1 {
		t.Fatalf("expected the empty URL saved after recovery, got %#v", got)
	}
}
