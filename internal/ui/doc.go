// Package ui contains the Bubble Tea program that browses the navigation
// state of a session: open window instances, the tabs of one instance, and
// the records of one tab.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Each tea.Msg is
//     routed through a typed handler registry so key presses, resize events,
//     action results and backend events are handled by focused functions.
//   - Navigation helpers (navigation.go) own the stack of browser levels and
//     cursor movement. Filter helpers (input.go) keep text entry isolated
//     from the event loop.
//
// State ownership:
//   - Level state lives in internal/ui/state.Level, which tracks items,
//     filtering, marks and viewport calculations.
//   - Window state is owned by the session. Items are rebuilt from it after
//     every action and every backend event (refreshLevels), so the browser
//     never holds navigation state of its own.
//   - Mutations run through the command bus (internal/ui/command) and come
//     back as command.Result messages.
//
// Backend interactions:
//   - A backend.Watcher reports URL changes. They are handed to the
//     dispatcher, which runs recovery through the session before the levels
//     are refreshed.
package ui
