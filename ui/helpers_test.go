package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/helpcomp/ynab-tui/ynab"
)

type fakeAPI struct {
	budgets      []ynab.BudgetSummary
	month        ynab.MonthDetail
	groups       []ynab.CategoryGroup
	payees       []ynab.Payee
	accounts     []ynab.Account
	transactions []ynab.Transaction
	saveErr      error
	payeesErr    error

	since    time.Time
	updates  []ynab.SaveTransaction
	creates  []ynab.SaveTransaction
	budgeted map[string]int64
}

func (f *fakeAPI) Budgets(context.Context) ([]ynab.BudgetSummary, error) { return f.budgets, nil }

func (f *fakeAPI) CurrentMonth(context.Context, string) (ynab.MonthDetail, error) {
	return f.month, nil
}

func (f *fakeAPI) CategoryGroups(context.Context, string) ([]ynab.CategoryGroup, error) {
	return f.groups, nil
}

func (f *fakeAPI) UpdateCategoryBudgeted(_ context.Context, _, categoryID string, budgeted int64) (ynab.Category, error) {
	if f.saveErr != nil {
		return ynab.Category{}, f.saveErr
	}
	if f.budgeted == nil {
		f.budgeted = map[string]int64{}
	}
	f.budgeted[categoryID] = budgeted
	return ynab.Category{ID: categoryID, Budgeted: budgeted}, nil
}

func (f *fakeAPI) Payees(context.Context, string) ([]ynab.Payee, error) {
	return f.payees, f.payeesErr
}

func (f *fakeAPI) Accounts(context.Context, string) ([]ynab.Account, error) { return f.accounts, nil }

func (f *fakeAPI) Transactions(_ context.Context, _ string, since time.Time) ([]ynab.Transaction, error) {
	f.since = since
	return f.transactions, nil
}

func (f *fakeAPI) UpdateTransaction(_ context.Context, _, id string, t ynab.SaveTransaction) (ynab.Transaction, error) {
	f.updates = append(f.updates, t)
	if f.saveErr != nil {
		return ynab.Transaction{}, f.saveErr
	}
	return ynab.Transaction{ID: id, Date: t.Date, Amount: t.Amount, PayeeID: t.PayeeID}, nil
}

func (f *fakeAPI) CreateTransaction(_ context.Context, _ string, t ynab.SaveTransaction) (ynab.Transaction, error) {
	f.creates = append(f.creates, t)
	if f.saveErr != nil {
		return ynab.Transaction{}, f.saveErr
	}
	return ynab.Transaction{ID: "new", Date: t.Date, Amount: t.Amount}, nil
}

func newTestSession(api *fakeAPI) *Session {
	return &Session{
		Ctx:      context.Background(),
		API:      api,
		BudgetID: "b1",
		Keys:     DefaultKeyMap(),
	}
}

// collect runs cmd and every command batched inside it, returning the
// resulting messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// feed delivers msgs to m in order and drops the commands they produce.
func feed(m tea.Model, msgs []tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runeMsg(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func ptr[T any](v T) *T { return &v }

func groupsFixture() []ynab.CategoryGroup {
	goal := ynab.GoalMonthlyFunding
	return []ynab.CategoryGroup{
		{ID: "internal", Name: internalGroupName, Categories: []ynab.Category{
			{ID: "rta", Name: "Inflow: Ready to Assign", Balance: 100000},
		}},
		{ID: "g1", Name: "Bills", Categories: []ynab.Category{
			{ID: "rent", Name: "Rent", Balance: 1200000, GoalType: &goal, GoalTarget: ptr[int64](1200000), GoalPercentageComplete: ptr(45)},
			{ID: "old", Name: "Old", Hidden: true},
			{ID: "power", Name: "Power", Balance: -5000},
		}},
		{ID: "g2", Name: "Fun", Categories: []ynab.Category{
			{ID: "games", Name: "Games", Balance: 0},
		}},
	}
}

var _ API = (*fakeAPI)(nil)
