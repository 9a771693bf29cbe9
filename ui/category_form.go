package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"
)

// CategoryEditForm changes how much is budgeted to a category this month.
type CategoryEditForm struct {
	id       int64
	session  *Session
	category ynab.Category

	budgeted   textinput.Model
	amountErr  string
	toasts     toaster
	saving     *Toast
	submitting bool
	help       help.Model
}

func NewCategoryEditForm(s *Session, c ynab.Category) CategoryEditForm {
	m := CategoryEditForm{
		id:       nextScreenID(),
		session:  s,
		category: c,
		budgeted: textinput.New(),
		toasts:   newToaster(),
		help:     help.New(),
	}
	m.budgeted.Placeholder = "0.00"
	m.budgeted.SetValue(money.Editable(c.Budgeted, s.digits()))
	m.budgeted.Focus()
	return m
}

func (m CategoryEditForm) Init() tea.Cmd { return textinput.Blink }

func (m CategoryEditForm) AmountError() string { return m.amountErr }

func (m CategoryEditForm) Toasts() []Toast { return m.toasts.Toasts() }

func (m CategoryEditForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categorySavedMsg:
		if msg.owner != m.id {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			log.Error().Err(msg.err).Str("category", m.category.ID).Msg("Failed to update category")
			m.saving.Style = ToastFailure
			m.saving.Title = "Failed to update category"
			m.saving.Message = apiDetail(msg.err)
			return m, nil
		}
		m.category = msg.category
		m.saving.Style = ToastSuccess
		m.saving.Title = "Category updated"
		return m, dataChanged

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		keys := m.session.Keys
		switch {
		case key.Matches(msg, keys.Submit):
			return m.submit()
		case key.Matches(msg, keys.Next), key.Matches(msg, keys.Prev):
			// Single field: tabbing away is the blur.
			m.amountErr = amountError(strings.TrimSpace(m.budgeted.Value()))
			return m, nil
		}
	}

	cmd := m.toasts.Update(msg)
	var inputCmd tea.Cmd
	m.budgeted, inputCmd = m.budgeted.Update(msg)
	return m, tea.Batch(cmd, inputCmd)
}

func (m CategoryEditForm) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	value := strings.TrimSpace(m.budgeted.Value())
	budgeted, err := money.ToMilliunits(value)
	if err != nil {
		m.amountErr = amountError(value)
		if !errors.Is(err, money.ErrInvalidAmount) {
			m.amountErr = err.Error()
		}
		cmd := m.toasts.Fail("Invalid amount", m.amountErr)
		return m, cmd
	}
	m.amountErr = ""

	m.submitting = true
	var cmd tea.Cmd
	m.saving, cmd = m.toasts.Show(Toast{Style: ToastAnimated, Title: "Updating Category"})

	ctx, api, budgetID, categoryID, owner := m.session.context(), m.session.API, m.session.BudgetID, m.category.ID, m.id
	return m, tea.Batch(cmd, func() tea.Msg {
		c, err := api.UpdateCategoryBudgeted(ctx, budgetID, categoryID, budgeted)
		return categorySavedMsg{owner: owner, category: c, err: err}
	})
}

func (m CategoryEditForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit " + m.category.Name))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Balance " + money.Format(m.category.Balance, m.session.Currency)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(selectedStyle.Render("Budgeted")))
	b.WriteString(m.budgeted.View())
	if m.amountErr != "" {
		b.WriteString("\n" + labelStyle.Render("") + errorStyle.Render(m.amountErr))
	}
	b.WriteString("\n\n")
	b.WriteString(m.toasts.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.session.Keys.Submit, m.session.Keys.Back}))
	return b.String()
}
