package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func testOptions() []Option {
	return []Option{
		{Value: "1", Title: "🏠 Rent"},
		{Value: "2", Title: "Groceries"},
		{Value: "3", Title: "Gas"},
	}
}

func TestSelect_PendingValue(t *testing.T) {
	s := NewSelect("Category", DefaultKeyMap())
	s.SetLoading(true)
	s.SetValue("3")
	assert.Equal(t, "3", s.Value())
	assert.Equal(t, "loading…", s.View())

	s.SetOptions(testOptions())
	assert.False(t, s.Loading())
	o, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Gas", o.Title)
}

func TestSelect_DefaultsToFirst(t *testing.T) {
	s := NewSelect("Payee", DefaultKeyMap())
	s.SetOptions(testOptions())
	assert.Equal(t, "1", s.Value())

	s.SetOptions(nil)
	assert.Equal(t, "", s.Value())
}

func TestSelect_Cycling(t *testing.T) {
	s := NewSelect("Payee", DefaultKeyMap())
	s.SetOptions(testOptions())

	s, _ = s.Update(keyMsg(tea.KeyRight))
	assert.Equal(t, "1", s.Value(), "ignored while blurred")

	s.Focus()
	s, _ = s.Update(keyMsg(tea.KeyLeft))
	assert.Equal(t, "3", s.Value())
	s, _ = s.Update(keyMsg(tea.KeyRight))
	assert.Equal(t, "1", s.Value())
}

func TestSelect_TypeAhead(t *testing.T) {
	s := NewSelect("Category", DefaultKeyMap())
	s.SetOptions(testOptions())
	s.Focus()

	s, _ = s.Update(runeMsg('g'))
	assert.Equal(t, "2", s.Value())
	s, _ = s.Update(runeMsg('g'))
	assert.Equal(t, "3", s.Value())
	s, _ = s.Update(runeMsg('r'))
	assert.Equal(t, "1", s.Value(), "emoji is ignored")
	s, _ = s.Update(runeMsg('z'))
	assert.Equal(t, "1", s.Value())
}

func TestSelect_MissingPendingIsKept(t *testing.T) {
	s := NewSelect("Payee", DefaultKeyMap())
	s.SetCurrent("9", "Closed Shop")
	s.SetOptions(testOptions())

	assert.Equal(t, "9", s.Value())
	o, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Closed Shop", o.Title)
	assert.Len(t, s.options, 4)

	s.SetValue("2")
	assert.Equal(t, "2", s.Value())
}

func TestSelect_LoadFailedKeepsPending(t *testing.T) {
	s := NewSelect("Payee", DefaultKeyMap())
	s.SetLoading(true)
	s.SetCurrent("9", "Closed Shop")

	s.LoadFailed()
	assert.False(t, s.Loading())
	assert.Equal(t, "9", s.Value())
	assert.Contains(t, s.View(), "Closed Shop")
}
