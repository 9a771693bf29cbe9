package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/forPelevin/gomoji"
)

type Option struct {
	Value string
	Title string
	Color lipgloss.Color
}

// Select is a single choice dropdown. It shows a loading state until its
// options arrive; a value set before that is applied once they do.
type Select struct {
	label        string
	options      []Option
	index        int
	loading      bool
	focused      bool
	pending      string
	pendingTitle string
	keys         KeyMap
}

func NewSelect(label string, keys KeyMap) Select {
	return Select{label: label, index: -1, keys: keys}
}

func (s *Select) SetLoading(loading bool) { s.loading = loading }

func (s Select) Loading() bool { return s.loading }

// SetOptions replaces the options and selects the pending value. A pending
// value missing from opts is kept as an extra option so it is never swapped
// for another one. Without a pending value the first option is selected, as a
// dropdown without a default does.
func (s *Select) SetOptions(opts []Option) {
	s.options = opts
	s.loading = false
	s.index = -1
	if s.pending != "" {
		if s.index = s.find(s.pending); s.index < 0 {
			title := s.pendingTitle
			if title == "" {
				title = s.pending
			}
			s.options = append(opts[:len(opts):len(opts)], Option{Value: s.pending, Title: title})
			s.index = len(s.options) - 1
		}
	}
	if s.index < 0 && len(opts) > 0 {
		s.index = 0
	}
	s.pending, s.pendingTitle = "", ""
}

// LoadFailed ends the loading state without options. The pending value stays
// the field's value.
func (s *Select) LoadFailed() { s.loading = false }

func (s Select) find(value string) int {
	for i, o := range s.options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

// SetValue selects the option with the given value. Before options are
// loaded the value is kept and applied later.
func (s *Select) SetValue(value string) {
	s.SetCurrent(value, "")
}

// SetCurrent is SetValue with the title to show for value should the loaded
// options not include it.
func (s *Select) SetCurrent(value, title string) {
	if s.options == nil {
		s.pending, s.pendingTitle = value, title
		return
	}
	if i := s.find(value); i >= 0 {
		s.index = i
	}
}

func (s Select) Value() string {
	if o, ok := s.Selected(); ok {
		return o.Value
	}
	return s.pending
}

func (s Select) Selected() (Option, bool) {
	if s.index < 0 || s.index >= len(s.options) {
		return Option{}, false
	}
	return s.options[s.index], true
}

func (s *Select) Focus()       { s.focused = true }
func (s *Select) Blur()        { s.focused = false }
func (s Select) Focused() bool { return s.focused }

func (s Select) Update(msg tea.Msg) (Select, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused || len(s.options) == 0 {
		return s, nil
	}
	switch {
	case key.Matches(km, s.keys.Left):
		s.index = (s.index - 1 + len(s.options)) % len(s.options)
	case key.Matches(km, s.keys.Right):
		s.index = (s.index + 1) % len(s.options)
	case km.Type == tea.KeyRunes && len(km.Runes) == 1:
		s.jumpTo(strings.ToLower(string(km.Runes)))
	}
	return s, nil
}

// jumpTo moves to the next option whose title starts with prefix, ignoring
// emoji and case.
func (s *Select) jumpTo(prefix string) {
	n := len(s.options)
	for i := 1; i <= n; i++ {
		j := (s.index + i + n) % n
		title := strings.ToLower(strings.TrimSpace(gomoji.RemoveEmojis(s.options[j].Title)))
		if strings.HasPrefix(title, prefix) {
			s.index = j
			return
		}
	}
}

func (s Select) View() string {
	var value string
	switch o, ok := s.Selected(); {
	case s.loading:
		value = subtleStyle.Render("loading…")
	case !ok && s.pending != "":
		title := s.pendingTitle
		if title == "" {
			title = s.pending
		}
		value = subtleStyle.Render(title)
	case !ok:
		value = subtleStyle.Render("none")
	case o.Color != "":
		value = tagStyle(o.Color).Render(o.Title)
	default:
		value = o.Title
	}
	if s.focused {
		value = "‹ " + value + " ›"
	}
	return value
}
