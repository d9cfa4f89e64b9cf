package command

import (
	"errors"
	"testing"
)

func TestExecuteReturnsResult(t *testing.T) {
	bus := New()
	cmd := bus.Execute(Request{ID: "window:open", Label: "Sales Order", Run: func() (Result, error) {
		return Result{Window: "143", Info: "opened"}, nil
	}})
	msg := cmd()
	res, ok := msg.(Result)
	if !ok {
		t.Fatalf("expected Result, got %T", msg)
	}
	if res.ID != "window:open" || res.Label != "Sales Order" || res.Window != "143" || res.Err != nil {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestExecuteCarriesError(t *testing.T) {
	boom := errors.New("boom")
	cmd := New().Execute(Request{ID: "x", Run: func() (Result, error) { return Result{}, boom }})
	res := cmd().(Result)
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected error to be carried, got %v", res.Err)
	}
}

func TestExecuteWithoutRun(t *testing.T) {
	res := New().Execute(Request{ID: "noop", Label: "noop"})().(Result)
	if res.Err != nil || res.ID != "noop" {
		t.Fatalf("unexpected result %#v", res)
	}
}
