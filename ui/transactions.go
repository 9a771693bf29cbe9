package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const defaultLookback = 30 * 24 * time.Hour

// TransactionList shows recent transactions, newest first.
type TransactionList struct {
	id      int64
	session *Session

	transactions []ynab.Transaction
	loading      bool
	cursor       int

	toasts toaster
	help   help.Model
	height int
}

func NewTransactionList(s *Session) TransactionList {
	return TransactionList{
		id:      nextScreenID(),
		session: s,
		loading: true,
		toasts:  newToaster(),
		help:    help.New(),
	}
}

func (m TransactionList) since() time.Time {
	lookback := m.session.Lookback
	if lookback <= 0 {
		lookback = defaultLookback
	}
	return time.Now().Add(-lookback)
}

func (m TransactionList) Init() tea.Cmd {
	return loadTransactions(m.session, m.id, m.since())
}

func (m TransactionList) Transactions() []ynab.Transaction { return m.transactions }

func (m TransactionList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case transactionsMsg:
		if msg.owner != m.id {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load transactions")
			cmd := m.toasts.Fail("Failed to load transactions", apiDetail(msg.err))
			return m, cmd
		}
		txs := append([]ynab.Transaction(nil), msg.transactions...)
		slices.SortStableFunc(txs, func(a, b ynab.Transaction) int {
			return strings.Compare(b.Date, a.Date)
		})
		m.transactions = txs
		m.cursor = min(m.cursor, max(len(txs)-1, 0))
		return m, nil

	case dataChangedMsg:
		return m, loadTransactions(m.session, m.id, m.since())

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		keys := m.session.Keys
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, keys.Down):
			m.cursor = min(m.cursor+1, max(len(m.transactions)-1, 0))
		case key.Matches(msg, keys.Select):
			if m.cursor < len(m.transactions) {
				return m, Push(NewTransactionEditForm(m.session, m.transactions[m.cursor]))
			}
		case key.Matches(msg, keys.CreateNewTransaction):
			return m, Push(NewTransactionCreationForm(m.session, ""))
		}
		return m, nil
	}

	cmd := m.toasts.Update(msg)
	return m, cmd
}

func (m TransactionList) renderRow(t ynab.Transaction, selected bool) string {
	payee := ynab.Deref(t.PayeeName)
	if selected {
		payee = selectedStyle.Render("> " + payee)
	} else {
		payee = "  " + payee
	}
	amountColor := colorGreen
	if t.Amount < 0 {
		amountColor = colorRed
	}
	flag := " "
	if t.FlagColor != nil {
		flag = tagStyle(flagColors[*t.FlagColor]).Render("⚑")
	}
	category := ynab.Deref(t.CategoryName)
	if category == "" {
		category = "Uncategorized"
	}
	return strings.Join([]string{
		subtleStyle.Render(t.Date),
		lipgloss.NewStyle().Width(32).Render(payee),
		lipgloss.NewStyle().Width(24).Render(category),
		tagStyle(amountColor).Width(14).Align(lipgloss.Right).Render(money.Format(t.Amount, m.session.Currency)),
		flag,
	}, " ")
}

func (m TransactionList) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Transactions"))
	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(subtleStyle.Render("Loading transactions…") + "\n")
	case len(m.transactions) == 0:
		b.WriteString(subtleStyle.Render("No transactions since "+m.since().Format(time.DateOnly)) + "\n")
	}

	lines := make([]string, 0, len(m.transactions))
	for i, t := range m.transactions {
		lines = append(lines, m.renderRow(t, i == m.cursor))
	}
	b.WriteString(strings.Join(window(lines, m.cursor, m.height-6), "\n"))
	b.WriteString("\n\n")
	b.WriteString(m.toasts.View())
	b.WriteString("\n")
	keys := m.session.Keys
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Select, keys.CreateNewTransaction, keys.Back}))
	return b.String()
}
