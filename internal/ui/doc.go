// Package ui implements the interactive menu using bubbletea's Elm architecture.
//
// Each menu entry is an [Action] supplied by the caller. Selecting one walks through:
//  1. [MenuView] : Pick an action by number or with the cursor
//  2. [InputView] : Enter a playlist or path when the action asks for one
//  3. [ConfirmView] : Confirm actions that write to the library
//  4. [RunningView] : Follow progress updates; ctrl+c cancels
//  5. [ResultView] : Read the summary, then return to the menu
//
// Progress updates flow through a channel from the running action and are relayed one message at a time.
package ui
