package command

import (
	"github.com/atomicstack/erp-navstate/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Result is delivered back to the model once a request has run.
type Result struct {
	ID    string
	Label string
	Info  string
	// Window is the instance the action touched, when there is one.
	Window string
	// Back asks the browser to pop the current level.
	Back bool
	Err  error
}

// Request encapsulates one navigation action.
type Request struct {
	ID    string
	Label string
	Run   func() (Result, error)
}

// Bus coordinates the execution of navigation actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
// The returned message is always a Result.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return Result{ID: req.ID, Label: req.Label}
		}
		res, err := req.Run()
		res.ID = req.ID
		if res.Label == "" {
			res.Label = req.Label
		}
		if err != nil {
			res.Err = err
		}
		events.Command.Result(req.ID, res.Label, res.Err != nil)
		return res
	}
}
