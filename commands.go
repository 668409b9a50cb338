package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type command int

const (
	cmdNone command = iota
	cmdSummary
	cmdBrowse
	cmdDelete
	cmdExit
	cmdListExtensions
	cmdRefresh
	cmdChangeRoot
	cmdHelp
)

type menuKeyMap struct {
	Summary    key.Binding
	Browse     key.Binding
	Delete     key.Binding
	Exit       key.Binding
	List       key.Binding
	Refresh    key.Binding
	ChangeRoot key.Binding
	Help       key.Binding
}

func newMenuKeyMap() menuKeyMap {
	return menuKeyMap{
		Summary: key.NewBinding(
			key.WithKeys("1", "s", "summary"),
			key.WithHelp("1/s", "file counts by extension"),
		),
		Browse: key.NewBinding(
			key.WithKeys("2", "b", "browse"),
			key.WithHelp("2/b", "browse files by extension"),
		),
		Delete: key.NewBinding(
			key.WithKeys("3", "d", "delete"),
			key.WithHelp("3/d", "move files of an extension to trash"),
		),
		Exit: key.NewBinding(
			key.WithKeys("4", "q", "quit", "exit"),
			key.WithHelp("4/q", "exit"),
		),
		List: key.NewBinding(
			key.WithKeys("5", "l", "list"),
			key.WithHelp("5/l", "list extensions"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("6", "r", "refresh"),
			key.WithHelp("6/r", "rescan root"),
		),
		ChangeRoot: key.NewBinding(
			key.WithKeys("7", "c", "cd"),
			key.WithHelp("7/c", "change root"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h", "help"),
			key.WithHelp("?", "show menu"),
		),
	}
}

func (k menuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Summary, k.Browse, k.Delete, k.Exit, k.Help}
}

func (k menuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Summary, k.Browse, k.Delete, k.Exit}, {k.List, k.Refresh, k.ChangeRoot, k.Help}}
}

func (k menuKeyMap) bindings() []struct {
	binding key.Binding
	cmd     command
} {
	return []struct {
		binding key.Binding
		cmd     command
	}{
		{k.Summary, cmdSummary},
		{k.Browse, cmdBrowse},
		{k.Delete, cmdDelete},
		{k.Exit, cmdExit},
		{k.List, cmdListExtensions},
		{k.Refresh, cmdRefresh},
		{k.ChangeRoot, cmdChangeRoot},
		{k.Help, cmdHelp},
	}
}

// parse maps a line of operator input to a command. Unknown input yields
// cmdNone.
func (k menuKeyMap) parse(input string) command {
	input = strings.TrimSpace(input)
	if input == "" {
		return cmdNone
	}
	for _, item := range k.bindings() {
		for _, candidate := range item.binding.Keys() {
			if strings.EqualFold(input, candidate) {
				return item.cmd
			}
		}
	}
	return cmdNone
}

type pageAction int

const (
	pageUnknown pageAction = iota
	pageNext
	pageQuit
)

func parsePageAction(input string) pageAction {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "n", "next":
		return pageNext
	case "q", "quit":
		return pageQuit
	default:
		return pageUnknown
	}
}

type answer int

const (
	answerUnknown answer = iota
	answerYes
	answerNo
)

func parseYesNo(input string) answer {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return answerYes
	case "n", "no":
		return answerNo
	default:
		return answerUnknown
	}
}
