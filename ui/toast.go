package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type ToastStyle int

const (
	ToastAnimated ToastStyle = iota
	ToastSuccess
	ToastFailure
)

func (s ToastStyle) String() string {
	switch s {
	case ToastAnimated:
		return "animated"
	case ToastSuccess:
		return "success"
	case ToastFailure:
		return "failure"
	}
	return "unknown"
}

// Toast is a transient status notice. An animated toast is usually turned
// into a success or failure once the work behind it finishes.
type Toast struct {
	Style   ToastStyle
	Title   string
	Message string
}

// toaster owns the status bar of a screen. It keeps every toast it showed so
// tests can inspect them.
type toaster struct {
	current *Toast
	history []*Toast
	spinner spinner.Model
}

func newToaster() toaster {
	return toaster{spinner: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

// Show displays t and returns a handle that can be updated in place.
func (t *toaster) Show(toast Toast) (*Toast, tea.Cmd) {
	p := &toast
	t.current = p
	t.history = append(t.history, p)
	if toast.Style == ToastAnimated {
		return p, t.spinner.Tick
	}
	return p, nil
}

func (t *toaster) Fail(title, message string) tea.Cmd {
	_, cmd := t.Show(Toast{Style: ToastFailure, Title: title, Message: message})
	return cmd
}

func (t *toaster) Succeed(title, message string) tea.Cmd {
	_, cmd := t.Show(Toast{Style: ToastSuccess, Title: title, Message: message})
	return cmd
}

// Toasts returns every toast shown so far, oldest first.
func (t toaster) Toasts() []Toast {
	out := make([]Toast, 0, len(t.history))
	for _, p := range t.history {
		out = append(out, *p)
	}
	return out
}

func (t *toaster) Update(msg tea.Msg) tea.Cmd {
	if t.current == nil || t.current.Style != ToastAnimated {
		return nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return cmd
}

func (t toaster) View() string {
	if t.current == nil {
		return ""
	}
	line := t.current.Title
	if t.current.Message != "" {
		line += ": " + t.current.Message
	}
	switch t.current.Style {
	case ToastAnimated:
		return t.spinner.View() + " " + line
	case ToastSuccess:
		return successStyle.Render("✔ " + line)
	default:
		return errorStyle.Render("✖ " + line)
	}
}
