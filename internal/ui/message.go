package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ymx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgActionComplete
)

// actionOutcome is what a finished [Action] reports back to the model.
type actionOutcome struct {
	summary string
	err     error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// actionCompleteMsg is the constructor for [MsgActionComplete]
func actionCompleteMsg(summary string, err error) Msg {
	return Msg{kind: MsgActionComplete, data: actionOutcome{summary: summary, err: err}}
}
