package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editFixture() ynab.Transaction {
	flag := ynab.FlagBlue
	return ynab.Transaction{
		ID:          "t1",
		Date:        "2024-03-01",
		Amount:      -12340,
		Memo:        ptr("lunch"),
		Cleared:     "cleared",
		AccountID:   "a1",
		AccountName: "Checking",
		PayeeID:     ptr("p2"),
		PayeeName:   ptr("Cafe"),
		CategoryID:  ptr("rent"),
		FlagColor:   &flag,
	}
}

func formAPI() *fakeAPI {
	return &fakeAPI{
		groups:   groupsFixture(),
		payees:   []ynab.Payee{{ID: "p1", Name: "Grocer"}, {ID: "p2", Name: "Cafe"}},
		accounts: []ynab.Account{{ID: "a1", Name: "Checking"}, {ID: "a2", Name: "Savings"}},
	}
}

func loadedForm(t *testing.T, m TransactionForm) TransactionForm {
	t.Helper()
	return feed(m, collect(m.Init())).(TransactionForm)
}

func update(t *testing.T, m TransactionForm, msg tea.Msg) (TransactionForm, tea.Cmd) {
	t.Helper()
	out, cmd := m.Update(msg)
	return out.(TransactionForm), cmd
}

func TestTransactionEditForm_Prefills(t *testing.T) {
	m := NewTransactionEditForm(newTestSession(formAPI()), editFixture())
	assert.True(t, m.payee.Loading())
	assert.Contains(t, m.View(), "loading…")

	m = loadedForm(t, m)
	v := m.Values()
	assert.Equal(t, "-12.34", v.Amount)
	assert.Equal(t, "p2", v.PayeeID)
	assert.Equal(t, "rent", v.CategoryID)
	assert.Equal(t, "lunch", v.Memo)
	assert.Equal(t, "blue", v.FlagColor)
	assert.Equal(t, "2024-03-01", v.Date.Format("2006-01-02"))
	assert.False(t, m.payee.Loading())
}

func TestTransactionEditForm_AmountValidatedOnBlur(t *testing.T) {
	m := NewTransactionEditForm(newTestSession(formAPI()), editFixture())

	m, _ = update(t, m, keyMsg(tea.KeyTab))
	require.Equal(t, fieldAmount, m.fields[m.focus])
	m.amount.SetValue("abc")
	assert.Empty(t, m.AmountError(), "no validation until blur")

	m, _ = update(t, m, keyMsg(tea.KeyTab))
	assert.Equal(t, `"abc "is not a valid number`, m.AmountError())

	m, _ = update(t, m, keyMsg(tea.KeyShiftTab))
	m.amount.SetValue("")
	m, _ = update(t, m, keyMsg(tea.KeyTab))
	assert.Equal(t, "Enter a valid number", m.AmountError())

	m, _ = update(t, m, keyMsg(tea.KeyShiftTab))
	m.amount.SetValue("12.50")
	m, _ = update(t, m, keyMsg(tea.KeyTab))
	assert.Empty(t, m.AmountError())
}

func TestTransactionEditForm_RequiresPayee(t *testing.T) {
	api := formAPI()
	api.payees = nil
	tx := editFixture()
	tx.PayeeID = nil

	m := loadedForm(t, NewTransactionEditForm(newTestSession(api), tx))
	require.Equal(t, "", m.Values().PayeeID)

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	collect(cmd)

	assert.Empty(t, api.updates)
	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastFailure, toasts[0].Style)
	assert.Equal(t, "The Payee is required", toasts[0].Title)
	assert.Equal(t, "Please enter a valid value for the field.", toasts[0].Message)
}

func TestTransactionEditForm_Submit(t *testing.T) {
	api := formAPI()
	m := loadedForm(t, NewTransactionEditForm(newTestSession(api), editFixture()))
	m.memo.SetValue("")
	m.flag.SetValue("")

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastAnimated, toasts[0].Style)
	assert.Equal(t, "Updating Transaction", toasts[0].Title)

	// A second submit while the first is in flight is ignored.
	m, again := update(t, m, keyMsg(tea.KeyCtrlS))
	assert.Nil(t, again)

	msgs := collect(cmd)
	require.Len(t, api.updates, 1)
	got := api.updates[0]
	assert.Equal(t, "a1", got.AccountID)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", got.Date)
	assert.Equal(t, int64(-12340), got.Amount)
	assert.Equal(t, ptr("p2"), got.PayeeID)
	assert.Nil(t, got.Memo)
	assert.Nil(t, got.FlagColor)
	assert.Equal(t, "cleared", got.Cleared)

	saved, ok := find[transactionSavedMsg](msgs)
	require.True(t, ok)
	m, cmd = update(t, m, saved)
	toasts = m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastSuccess, toasts[0].Style)
	assert.Equal(t, "Transaction updated", toasts[0].Title)
	_, ok = find[dataChangedMsg](collect(cmd))
	assert.True(t, ok)
	assert.False(t, m.submitting)
}

func TestTransactionEditForm_KeepsHiddenCategory(t *testing.T) {
	api := formAPI()
	tx := editFixture()
	tx.CategoryID = ptr("old")
	m := loadedForm(t, NewTransactionEditForm(newTestSession(api), tx))
	assert.Equal(t, "old", m.Values().CategoryID)

	m.memo.SetValue("split")
	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	collect(cmd)
	require.Len(t, api.updates, 1)
	assert.Equal(t, ptr("old"), api.updates[0].CategoryID)
	assert.Equal(t, ptr("split"), api.updates[0].Memo)
	assert.Len(t, m.categories, 4, "hidden categories are not suggested")
}

func TestTransactionEditForm_KeepsUnknownPayee(t *testing.T) {
	api := formAPI()
	tx := editFixture()
	tx.PayeeID = ptr("p-gone")
	tx.PayeeName = ptr("Old Cafe")
	m := loadedForm(t, NewTransactionEditForm(newTestSession(api), tx))
	assert.Equal(t, "p-gone", m.Values().PayeeID)
	assert.Contains(t, m.View(), "Old Cafe")

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	collect(cmd)
	require.Len(t, api.updates, 1)
	assert.Equal(t, ptr("p-gone"), api.updates[0].PayeeID)
}

func TestTransactionEditForm_PayeeLoadFailure(t *testing.T) {
	api := formAPI()
	api.payeesErr = &ynab.APIError{Status: 500, Detail: "internal error"}
	m := loadedForm(t, NewTransactionEditForm(newTestSession(api), editFixture()))
	assert.False(t, m.payee.Loading())
	assert.Equal(t, "p2", m.Values().PayeeID)
	assert.Contains(t, m.View(), "Cafe")
	require.NotEmpty(t, m.Toasts())
	assert.Equal(t, "Failed to load payees", m.Toasts()[0].Title)

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	collect(cmd)
	require.Len(t, api.updates, 1)
	assert.Equal(t, ptr("p2"), api.updates[0].PayeeID)
	for _, toast := range m.Toasts() {
		assert.NotEqual(t, "The Payee is required", toast.Title)
	}
}

func TestTransactionEditForm_SubmitFailure(t *testing.T) {
	api := formAPI()
	api.saveErr = &ynab.APIError{Status: 400, ID: "400", Name: "bad_request", Detail: "date is invalid"}
	m := loadedForm(t, NewTransactionEditForm(newTestSession(api), editFixture()))

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	m = feed(m, collect(cmd)).(TransactionForm)

	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastFailure, toasts[0].Style)
	assert.Equal(t, "Failed to update transaction", toasts[0].Title)
	assert.Equal(t, "date is invalid", toasts[0].Message)
	assert.False(t, m.submitting)
}

func TestTransactionEditForm_InvalidAmountBlocksSubmit(t *testing.T) {
	api := formAPI()
	m := loadedForm(t, NewTransactionEditForm(newTestSession(api), editFixture()))
	m.amount.SetValue("1.2.3")

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	collect(cmd)
	assert.Empty(t, api.updates)
	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Invalid amount", toasts[0].Title)
	assert.Equal(t, `"1.2.3 "is not a valid number`, m.AmountError())
}

func TestTransactionCreationForm(t *testing.T) {
	api := formAPI()
	m := loadedForm(t, NewTransactionCreationForm(newTestSession(api), "games"))
	v := m.Values()
	assert.Equal(t, "a1", v.AccountID)
	assert.Equal(t, "games", v.CategoryID)
	assert.False(t, v.Date.IsZero())

	m, _ = update(t, m, keyMsg(tea.KeyRight))
	assert.Equal(t, "a2", m.Values().AccountID)

	m.amount.SetValue("20")
	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	collect(cmd)
	require.Len(t, api.creates, 1)
	assert.Equal(t, "a2", api.creates[0].AccountID)
	assert.Equal(t, int64(20000), api.creates[0].Amount)
	assert.Equal(t, ptr("games"), api.creates[0].CategoryID)
	assert.Equal(t, ptr("p1"), api.creates[0].PayeeID)
	assert.Equal(t, "uncleared", api.creates[0].Cleared)
	assert.Equal(t, "Creating Transaction", m.Toasts()[0].Title)
}

type stubSuggester struct {
	category ynab.Category
	err      error
	payee    string
}

func (s *stubSuggester) SuggestCategory(_ context.Context, payee string, _ []ynab.Category) (ynab.Category, error) {
	s.payee = payee
	return s.category, s.err
}

func TestTransactionForm_Suggest(t *testing.T) {
	sugg := &stubSuggester{category: ynab.Category{ID: "games", Name: "Games"}}
	s := newTestSession(formAPI())
	s.Suggester = sugg
	m := loadedForm(t, NewTransactionEditForm(s, editFixture()))

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlG))
	m = feed(m, collect(cmd)).(TransactionForm)

	assert.Equal(t, "Cafe", sugg.payee)
	assert.Equal(t, "games", m.Values().CategoryID)
	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, ToastSuccess, toasts[0].Style)
	assert.Equal(t, "Suggested Games", toasts[0].Title)
}

func TestTransactionForm_SuggestFailure(t *testing.T) {
	s := newTestSession(formAPI())
	s.Suggester = &stubSuggester{err: errors.New("no matching category")}
	m := loadedForm(t, NewTransactionEditForm(s, editFixture()))

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlG))
	m = feed(m, collect(cmd)).(TransactionForm)
	assert.Equal(t, "rent", m.Values().CategoryID)
	assert.Equal(t, ToastFailure, m.Toasts()[0].Style)
}

func TestTransactionForm_SuggestDisabled(t *testing.T) {
	m := loadedForm(t, NewTransactionEditForm(newTestSession(formAPI()), editFixture()))
	m, _ = update(t, m, keyMsg(tea.KeyCtrlG))
	assert.Equal(t, "Category suggestions are disabled", m.Toasts()[0].Title)
}
