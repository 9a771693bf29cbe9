package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/helpcomp/ynab-tui/ynab"
)

// BudgetPicker lists the user's budgets. Choosing one stores it as the active
// budget and opens its categories.
type BudgetPicker struct {
	id      int64
	session *Session

	budgets []ynab.BudgetSummary
	loading bool
	cursor  int
	saving  bool

	toasts toaster
	help   help.Model
}

func NewBudgetPicker(s *Session) BudgetPicker {
	return BudgetPicker{
		id:      nextScreenID(),
		session: s,
		loading: true,
		toasts:  newToaster(),
		help:    help.New(),
	}
}

func (m BudgetPicker) Init() tea.Cmd {
	return loadBudgets(m.session, m.id)
}

func (m BudgetPicker) Toasts() []Toast { return m.toasts.Toasts() }

func (m BudgetPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetsMsg:
		if msg.owner != m.id {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load budgets")
			cmd := m.toasts.Fail("Failed to load budgets", apiDetail(msg.err))
			return m, cmd
		}
		m.budgets = msg.budgets
		for i, b := range m.budgets {
			if b.ID == m.session.BudgetID {
				m.cursor = i
			}
		}
		return m, nil

	case activeBudgetMsg:
		if msg.owner != m.id {
			return m, nil
		}
		m.saving = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to store active budget")
			cmd := m.toasts.Fail("Failed to set active budget", msg.err.Error())
			return m, cmd
		}
		m.session.BudgetID = msg.budget.ID
		m.session.Currency = msg.budget.CurrencyFormat
		log.Info().Str("budget", msg.budget.ID).Msg("Active budget changed")
		cmd := m.toasts.Succeed("Active budget set to "+msg.budget.Name, "")
		return m, tea.Batch(cmd, Push(NewBudgetScreen(m.session)))

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		keys := m.session.Keys
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, keys.Down):
			m.cursor = min(m.cursor+1, max(len(m.budgets)-1, 0))
		case key.Matches(msg, keys.Select):
			if m.saving || m.cursor >= len(m.budgets) {
				return m, nil
			}
			m.saving = true
			return m, m.activate(m.budgets[m.cursor])
		}
		return m, nil
	}

	cmd := m.toasts.Update(msg)
	return m, cmd
}

func (m BudgetPicker) activate(b ynab.BudgetSummary) tea.Cmd {
	ctx, prefs, owner := m.session.context(), m.session.Prefs, m.id
	return func() tea.Msg {
		if prefs == nil {
			return activeBudgetMsg{owner: owner, budget: b}
		}
		return activeBudgetMsg{owner: owner, budget: b, err: prefs.SetActiveBudget(ctx, b.ID, b.CurrencyFormat)}
	}
}

func (m BudgetPicker) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Budgets"))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(subtleStyle.Render("Loading budgets…") + "\n")
	}
	for i, budget := range m.budgets {
		line := "  " + budget.Name
		if i == m.cursor {
			line = selectedStyle.Render("> " + budget.Name)
		}
		if budget.ID == m.session.BudgetID {
			line += " " + successStyle.Render("✔")
		}
		if budget.CurrencyFormat != nil {
			line += " " + subtleStyle.Render(budget.CurrencyFormat.ISOCode)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.toasts.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.session.Keys.Select, m.session.Keys.Quit}))
	return b.String()
}
