package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = actionItem{}
)

// actionItem wraps an [Action] to implement [list.Item].
type actionItem struct {
	index  int
	action Action
}

func (i actionItem) FilterValue() string { return i.action.Title }
func (i actionItem) Title() string       { return fmt.Sprintf("%d. %s", i.index+1, i.action.Title) }
func (i actionItem) Description() string { return i.action.Description }
