package ui

import (
	tea "github.com/charmbracelet/bubbletea"
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
	MsgPageLoaded MsgKind = iota
	MsgReverseStep
	MsgOpened
)

// pageLoadedMsg is the constructor for [MsgPageLoaded]. gen ties it to the load that scheduled it.
// The pager has already grown by the time it arrives.
func pageLoadedMsg(gen int) Msg {
	return Msg{kind: MsgPageLoaded, data: gen}
}

// reverseStepMsg is the constructor for [MsgReverseStep]
func reverseStepMsg(step int) Msg {
	return Msg{kind: MsgReverseStep, data: step}
}

// openedMsg is the constructor for [MsgOpened]
func openedMsg(url string, err error) Msg {
	return Msg{
		kind: MsgOpened,
		data: struct {
			url string
			err error
		}{url, err},
	}
}
