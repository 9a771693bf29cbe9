package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the screens react to. The named shortcuts can be
// overridden from the config file.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding

	Actions              key.Binding
	Submit               key.Binding
	ShowBudgetProgress   key.Binding
	EditBudgetCategory   key.Binding
	CreateNewTransaction key.Binding
	OpenInYNAB           key.Binding
	SuggestCategory      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous option")),
		Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Actions:              key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "actions")),
		Submit:               key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		ShowBudgetProgress:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "toggle progress")),
		EditBudgetCategory:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit category")),
		CreateNewTransaction: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new transaction")),
		OpenInYNAB:           key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open in YNAB")),
		SuggestCategory:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "suggest category")),
	}
}

func (k *KeyMap) byName(name string) *key.Binding {
	switch name {
	case "actions":
		return &k.Actions
	case "submit":
		return &k.Submit
	case "show_budget_progress":
		return &k.ShowBudgetProgress
	case "edit_budget_category":
		return &k.EditBudgetCategory
	case "create_new_transaction":
		return &k.CreateNewTransaction
	case "open_in_ynab":
		return &k.OpenInYNAB
	case "suggest_category":
		return &k.SuggestCategory
	}
	return nil
}

// Override rebinds named shortcuts. Values are comma separated key names,
// e.g. "ctrl+p,alt+p".
func (k *KeyMap) Override(shortcuts map[string]string) error {
	for name, keys := range shortcuts {
		b := k.byName(name)
		if b == nil {
			return fmt.Errorf("unknown shortcut %q", name)
		}
		var list []string
		for _, s := range strings.Split(keys, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		if len(list) == 0 {
			return fmt.Errorf("shortcut %q has no keys", name)
		}
		b.SetKeys(list...)
		b.SetHelp(list[0], b.Help().Desc)
	}
	return nil
}
