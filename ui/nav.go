package ui

import (
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type pushMsg struct{ screen tea.Model }

type popMsg struct{}

// dataChangedMsg is broadcast after a successful write so list screens
// further down the stack can reload.
type dataChangedMsg struct{}

// Push returns a command that puts screen on top of the navigation stack.
func Push(screen tea.Model) tea.Cmd {
	return func() tea.Msg { return pushMsg{screen: screen} }
}

// Pop removes the top screen. Popping the last screen quits.
func Pop() tea.Msg { return popMsg{} }

func dataChanged() tea.Msg { return dataChangedMsg{} }

// backHandler is implemented by screens that use the back key themselves,
// e.g. to close an open panel.
type backHandler interface {
	HandlesBack() bool
}

var screenSeq atomic.Int64

// nextScreenID hands out the owner id that async results are tagged with, so a
// result only lands on the screen that asked for it.
func nextScreenID() int64 { return screenSeq.Add(1) }

// Navigator is the root model. Key presses go to the top screen only; every
// other message is broadcast so screens below the top keep receiving their
// async results.
type Navigator struct {
	stack []tea.Model
	keys  KeyMap
	size  *tea.WindowSizeMsg
}

func NewNavigator(root tea.Model, keys KeyMap) Navigator {
	return Navigator{stack: []tea.Model{root}, keys: keys}
}

func (n Navigator) Init() tea.Cmd {
	return n.stack[0].Init()
}

// Depth is the number of screens on the stack.
func (n Navigator) Depth() int { return len(n.stack) }

// Top returns the visible screen.
func (n Navigator) Top() tea.Model { return n.stack[len(n.stack)-1] }

func (n Navigator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pushMsg:
		n.stack = append(n.stack[:len(n.stack):len(n.stack)], msg.screen)
		cmds := []tea.Cmd{msg.screen.Init()}
		if n.size != nil {
			size := *n.size
			cmds = append(cmds, func() tea.Msg { return size })
		}
		return n, tea.Batch(cmds...)

	case popMsg:
		if len(n.stack) == 1 {
			return n, tea.Quit
		}
		n.stack = n.stack[: len(n.stack)-1 : len(n.stack)-1]
		return n, nil

	case tea.KeyMsg:
		if key.Matches(msg, n.keys.Quit) {
			return n, tea.Quit
		}
		top := n.Top()
		if key.Matches(msg, n.keys.Back) {
			if h, ok := top.(backHandler); !ok || !h.HandlesBack() {
				return n.Update(popMsg{})
			}
		}
		m, cmd := top.Update(msg)
		n.stack = n.replaceTop(m)
		return n, cmd

	case tea.WindowSizeMsg:
		n.size = &msg
	}

	stack := make([]tea.Model, len(n.stack))
	cmds := make([]tea.Cmd, 0, len(n.stack))
	for i, s := range n.stack {
		m, cmd := s.Update(msg)
		stack[i] = m
		cmds = append(cmds, cmd)
	}
	n.stack = stack
	return n, tea.Batch(cmds...)
}

func (n Navigator) replaceTop(m tea.Model) []tea.Model {
	stack := make([]tea.Model, len(n.stack))
	copy(stack, n.stack)
	stack[len(stack)-1] = m
	return stack
}

func (n Navigator) View() string {
	return n.Top().View()
}
