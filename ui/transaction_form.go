package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"
)

type formField int

const (
	fieldAccount formField = iota
	fieldDate
	fieldAmount
	fieldPayee
	fieldCategory
	fieldMemo
	fieldFlag
)

var fieldLabels = map[formField]string{
	fieldAccount:  "Account",
	fieldDate:     "Date",
	fieldAmount:   "Amount",
	fieldPayee:    "Payee",
	fieldCategory: "Category",
	fieldMemo:     "Memo",
	fieldFlag:     "Flag",
}

var flagColors = map[ynab.FlagColor]lipgloss.Color{
	ynab.FlagRed:    colorRed,
	ynab.FlagOrange: colorOrange,
	ynab.FlagYellow: colorYellow,
	ynab.FlagGreen:  colorGreen,
	ynab.FlagBlue:   colorBlue,
	ynab.FlagPurple: colorPurple,
}

func flagOptions() []Option {
	opts := []Option{{Value: "", Title: "No Flag"}}
	for _, f := range ynab.FlagColors {
		name := string(f)
		opts = append(opts, Option{Value: name, Title: strings.ToUpper(name[:1]) + name[1:], Color: flagColors[f]})
	}
	return opts
}

// apiDetail prefers the detail YNAB sent over the full error text.
func apiDetail(err error) string {
	var apiErr *ynab.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

// TransactionForm edits an existing transaction or creates a new one. Payees,
// categories and, when creating, accounts load in the background.
type TransactionForm struct {
	id       int64
	session  *Session
	original *ynab.Transaction

	fields []formField
	focus  int

	account  Select
	date     textinput.Model
	amount   textinput.Model
	payee    Select
	category Select
	memo     textarea.Model
	flag     Select

	amountErr  string
	categories []ynab.Category

	toasts     toaster
	saving     *Toast
	suggesting *Toast
	submitting bool
	help       help.Model
}

func newTransactionForm(s *Session, fields []formField) TransactionForm {
	m := TransactionForm{
		id:       nextScreenID(),
		session:  s,
		fields:   fields,
		account:  NewSelect("Account", s.Keys),
		payee:    NewSelect("Payee", s.Keys),
		category: NewSelect("Category", s.Keys),
		flag:     NewSelect("Flag", s.Keys),
		date:     textinput.New(),
		amount:   textinput.New(),
		memo:     textarea.New(),
		toasts:   newToaster(),
		help:     help.New(),
	}
	m.date.Placeholder = "YYYY-MM-DD"
	m.date.CharLimit = 10
	m.amount.Placeholder = "0.00"
	m.memo.Placeholder = "Memo"
	m.memo.ShowLineNumbers = false
	m.memo.SetHeight(3)
	m.memo.SetWidth(48)

	m.payee.SetLoading(true)
	m.category.SetLoading(true)
	m.flag.SetOptions(flagOptions())
	return m
}

// NewTransactionEditForm prefills the form from t. Submitting replaces t.
func NewTransactionEditForm(s *Session, t ynab.Transaction) TransactionForm {
	m := newTransactionForm(s, []formField{fieldDate, fieldAmount, fieldPayee, fieldCategory, fieldMemo, fieldFlag})
	m.original = &t

	date := t.Date
	if len(date) > len(time.DateOnly) {
		date = date[:len(time.DateOnly)]
	}
	m.date.SetValue(date)
	m.amount.SetValue(money.Editable(t.Amount, s.digits()))
	m.payee.SetCurrent(ynab.Deref(t.PayeeID), ynab.Deref(t.PayeeName))
	m.category.SetCurrent(ynab.Deref(t.CategoryID), ynab.Deref(t.CategoryName))
	m.memo.SetValue(ynab.Deref(t.Memo))
	if t.FlagColor != nil {
		m.flag.SetValue(string(*t.FlagColor))
	}
	m.setFocus()
	return m
}

// NewTransactionCreationForm starts a blank transaction dated today in
// categoryID.
func NewTransactionCreationForm(s *Session, categoryID string) TransactionForm {
	m := newTransactionForm(s, []formField{fieldAccount, fieldDate, fieldAmount, fieldPayee, fieldCategory, fieldMemo, fieldFlag})
	m.account.SetLoading(true)
	m.date.SetValue(time.Now().Format(time.DateOnly))
	m.category.SetValue(categoryID)
	m.setFocus()
	return m
}

func (m TransactionForm) creating() bool { return m.original == nil }

func (m TransactionForm) required() []RequiredField {
	if m.creating() {
		return createRequired
	}
	return editRequired
}

func (m TransactionForm) Init() tea.Cmd {
	cmds := []tea.Cmd{loadPayees(m.session, m.id), loadCategoryGroups(m.session, m.id), textinput.Blink}
	if m.creating() {
		cmds = append(cmds, loadAccounts(m.session, m.id))
	}
	return tea.Batch(cmds...)
}

// Values is what the form would submit right now.
func (m TransactionForm) Values() FormValues {
	v := FormValues{
		Date:       parseFormDate(m.date.Value()),
		Amount:     strings.TrimSpace(m.amount.Value()),
		PayeeID:    m.payee.Value(),
		CategoryID: m.category.Value(),
		Memo:       m.memo.Value(),
		FlagColor:  m.flag.Value(),
	}
	if m.creating() {
		v.AccountID = m.account.Value()
	}
	return v
}

func (m TransactionForm) AmountError() string { return m.amountErr }

func (m TransactionForm) Toasts() []Toast { return m.toasts.Toasts() }

func (m *TransactionForm) setFocus() tea.Cmd {
	m.account.Blur()
	m.date.Blur()
	m.amount.Blur()
	m.payee.Blur()
	m.category.Blur()
	m.memo.Blur()
	m.flag.Blur()

	switch m.fields[m.focus] {
	case fieldAccount:
		m.account.Focus()
	case fieldDate:
		return m.date.Focus()
	case fieldAmount:
		return m.amount.Focus()
	case fieldPayee:
		m.payee.Focus()
	case fieldCategory:
		m.category.Focus()
	case fieldMemo:
		return m.memo.Focus()
	case fieldFlag:
		m.flag.Focus()
	}
	return nil
}

// moveFocus blurs the current field, validating the amount when it is the
// one being left.
func (m *TransactionForm) moveFocus(delta int) tea.Cmd {
	if m.fields[m.focus] == fieldAmount {
		m.amountErr = amountError(strings.TrimSpace(m.amount.Value()))
	}
	n := len(m.fields)
	m.focus = (m.focus + delta + n) % n
	return m.setFocus()
}

func (m TransactionForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case payeesMsg:
		if msg.owner != m.id {
			return m, nil
		}
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load payees")
			m.payee.LoadFailed()
			cmd := m.toasts.Fail("Failed to load payees", apiDetail(msg.err))
			return m, cmd
		}
		opts := make([]Option, 0, len(msg.payees))
		for _, p := range msg.payees {
			opts = append(opts, Option{Value: p.ID, Title: p.Name})
		}
		m.payee.SetOptions(opts)
		return m, nil

	case categoryGroupsMsg:
		if msg.owner != m.id {
			return m, nil
		}
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load categories")
			m.category.LoadFailed()
			cmd := m.toasts.Fail("Failed to load categories", apiDetail(msg.err))
			return m, cmd
		}
		m.categories = nil
		opts := []Option{{Value: "", Title: "Uncategorized"}}
		// Hidden categories stay selectable since transactions can sit in
		// them. Suggestions only pick from visible ones.
		for _, g := range msg.groups {
			for _, c := range g.Categories {
				opts = append(opts, Option{Value: c.ID, Title: c.Name})
				if !c.Hidden {
					m.categories = append(m.categories, c)
				}
			}
		}
		m.category.SetOptions(opts)
		return m, nil

	case accountsMsg:
		if msg.owner != m.id {
			return m, nil
		}
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load accounts")
			m.account.LoadFailed()
			cmd := m.toasts.Fail("Failed to load accounts", apiDetail(msg.err))
			return m, cmd
		}
		opts := make([]Option, 0, len(msg.accounts))
		for _, a := range msg.accounts {
			opts = append(opts, Option{Value: a.ID, Title: a.Name})
		}
		m.account.SetOptions(opts)
		return m, nil

	case transactionSavedMsg:
		if msg.owner != m.id {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to save transaction")
			m.saving.Style = ToastFailure
			m.saving.Title = "Failed to " + m.verb() + " transaction"
			m.saving.Message = apiDetail(msg.err)
			return m, nil
		}
		log.Info().Str("transaction", msg.transaction.ID).Msg("Saved transaction")
		m.saving.Style = ToastSuccess
		m.saving.Title = "Transaction " + m.verb() + "d"
		if !m.creating() {
			t := msg.transaction
			m.original = &t
		}
		return m, dataChanged

	case suggestionMsg:
		if msg.owner != m.id {
			return m, nil
		}
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("Category suggestion failed")
			m.suggesting.Style = ToastFailure
			m.suggesting.Title = "No category suggested"
			m.suggesting.Message = msg.err.Error()
			return m, nil
		}
		m.category.SetValue(msg.category.ID)
		m.suggesting.Style = ToastSuccess
		m.suggesting.Title = "Suggested " + msg.category.Name
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.memo.SetWidth(min(max(msg.Width-labelStyle.GetWidth()-4, 20), 80))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmds := []tea.Cmd{m.toasts.Update(msg)}
	var cmd tea.Cmd
	switch m.fields[m.focus] {
	case fieldDate:
		m.date, cmd = m.date.Update(msg)
	case fieldAmount:
		m.amount, cmd = m.amount.Update(msg)
	case fieldMemo:
		m.memo, cmd = m.memo.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m TransactionForm) verb() string {
	if m.creating() {
		return "create"
	}
	return "update"
}

func (m TransactionForm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.session.Keys
	switch {
	case key.Matches(msg, keys.Submit):
		return m.submit()
	case key.Matches(msg, keys.SuggestCategory):
		return m.suggest()
	case key.Matches(msg, keys.Next):
		cmd := m.moveFocus(1)
		return m, cmd
	case key.Matches(msg, keys.Prev):
		cmd := m.moveFocus(-1)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.fields[m.focus] {
	case fieldAccount:
		m.account, cmd = m.account.Update(msg)
	case fieldDate:
		m.date, cmd = m.date.Update(msg)
	case fieldAmount:
		m.amount, cmd = m.amount.Update(msg)
	case fieldPayee:
		m.payee, cmd = m.payee.Update(msg)
	case fieldCategory:
		m.category, cmd = m.category.Update(msg)
	case fieldMemo:
		m.memo, cmd = m.memo.Update(msg)
	case fieldFlag:
		m.flag, cmd = m.flag.Update(msg)
	}
	return m, cmd
}

func (m TransactionForm) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	values := m.Values()
	var cmds []tea.Cmd
	notify := func(t Toast) {
		_, cmd := m.toasts.Show(t)
		cmds = append(cmds, cmd)
	}
	if !IsValidFormSubmission(values, m.required(), notify) {
		return m, tea.Batch(cmds...)
	}

	base := ynab.SaveTransaction{Cleared: "uncleared"}
	if m.original != nil {
		base = m.original.ToSave()
	}
	payload, err := BuildSaveTransaction(base, values)
	if err != nil {
		switch {
		case errors.Is(err, money.ErrInvalidAmount):
			m.amountErr = amountError(values.Amount)
			cmd := m.toasts.Fail("Invalid amount", m.amountErr)
			return m, cmd
		case errors.Is(err, errInvalidDate):
			cmd := m.toasts.Fail("Invalid date", "Use the YYYY-MM-DD format.")
			return m, cmd
		}
		cmd := m.toasts.Fail("Invalid transaction", err.Error())
		return m, cmd
	}

	m.submitting = true
	title := "Updating Transaction"
	if m.creating() {
		title = "Creating Transaction"
	}
	var cmd tea.Cmd
	m.saving, cmd = m.toasts.Show(Toast{Style: ToastAnimated, Title: title})
	return m, tea.Batch(cmd, m.save(payload))
}

func (m TransactionForm) save(payload ynab.SaveTransaction) tea.Cmd {
	ctx, api, budgetID, owner := m.session.context(), m.session.API, m.session.BudgetID, m.id
	if m.original != nil {
		id := m.original.ID
		return func() tea.Msg {
			t, err := api.UpdateTransaction(ctx, budgetID, id, payload)
			return transactionSavedMsg{owner: owner, transaction: t, err: err}
		}
	}
	return func() tea.Msg {
		t, err := api.CreateTransaction(ctx, budgetID, payload)
		return transactionSavedMsg{owner: owner, transaction: t, err: err}
	}
}

func (m TransactionForm) suggest() (tea.Model, tea.Cmd) {
	if m.session.Suggester == nil {
		cmd := m.toasts.Fail("Category suggestions are disabled", "Set OPENAI_API_KEY to enable them.")
		return m, cmd
	}
	payee, ok := m.payee.Selected()
	if !ok {
		cmd := m.toasts.Fail("Choose a payee first", "")
		return m, cmd
	}
	if len(m.categories) == 0 {
		cmd := m.toasts.Fail("Categories are still loading", "")
		return m, cmd
	}

	var cmd tea.Cmd
	m.suggesting, cmd = m.toasts.Show(Toast{Style: ToastAnimated, Title: "Suggesting Category"})
	ctx, suggester, owner := m.session.context(), m.session.Suggester, m.id
	categories := append([]ynab.Category(nil), m.categories...)
	return m, tea.Batch(cmd, func() tea.Msg {
		c, err := suggester.SuggestCategory(ctx, payee.Title, categories)
		return suggestionMsg{owner: owner, category: c, err: err}
	})
}

func (m TransactionForm) View() string {
	var b strings.Builder
	if m.creating() {
		b.WriteString(titleStyle.Render("Create Transaction"))
	} else {
		b.WriteString(titleStyle.Render("Edit Transaction"))
		b.WriteString("\n")
		desc := m.original.AccountName
		if p := ynab.Deref(m.original.PayeeName); p != "" {
			desc = p + " · " + desc
		}
		b.WriteString(subtleStyle.Render(desc))
	}
	b.WriteString("\n\n")

	for i, f := range m.fields {
		label := fieldLabels[f]
		if i == m.focus {
			label = selectedStyle.Render(label)
		}
		b.WriteString(labelStyle.Render(label))
		switch f {
		case fieldAccount:
			b.WriteString(m.account.View())
		case fieldDate:
			b.WriteString(m.date.View())
		case fieldAmount:
			b.WriteString(m.amount.View())
			if m.amountErr != "" {
				b.WriteString("\n" + labelStyle.Render("") + errorStyle.Render(m.amountErr))
			}
		case fieldPayee:
			b.WriteString(m.payee.View())
		case fieldCategory:
			b.WriteString(m.category.View())
		case fieldMemo:
			b.WriteString("\n" + m.memo.View())
		case fieldFlag:
			b.WriteString(m.flag.View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.toasts.View())
	b.WriteString("\n")
	keys := m.session.Keys
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Submit, keys.SuggestCategory, keys.Next, keys.Left, keys.Right, keys.Back}))
	return b.String()
}
