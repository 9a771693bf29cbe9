// Package ui holds the terminal screens. Each screen is a Bubble Tea model;
// data comes in through messages and every remote call runs as a tea.Cmd.
package ui

import (
	"context"
	"time"

	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
)

// API is the part of the YNAB client the screens use.
type API interface {
	Budgets(ctx context.Context) ([]ynab.BudgetSummary, error)
	CurrentMonth(ctx context.Context, budgetID string) (ynab.MonthDetail, error)
	CategoryGroups(ctx context.Context, budgetID string) ([]ynab.CategoryGroup, error)
	UpdateCategoryBudgeted(ctx context.Context, budgetID, categoryID string, budgeted int64) (ynab.Category, error)
	Payees(ctx context.Context, budgetID string) ([]ynab.Payee, error)
	Accounts(ctx context.Context, budgetID string) ([]ynab.Account, error)
	Transactions(ctx context.Context, budgetID string, since time.Time) ([]ynab.Transaction, error)
	UpdateTransaction(ctx context.Context, budgetID, transactionID string, t ynab.SaveTransaction) (ynab.Transaction, error)
	CreateTransaction(ctx context.Context, budgetID string, t ynab.SaveTransaction) (ynab.Transaction, error)
}

// Preferences persists the active budget.
type Preferences interface {
	SetActiveBudget(ctx context.Context, budgetID string, cf *ynab.CurrencyFormat) error
}

type CategorySuggester interface {
	SuggestCategory(ctx context.Context, payee string, categories []ynab.Category) (ynab.Category, error)
}

// Session is the context every screen is built with: the active budget and
// the collaborators to reach it. Suggester, Prefs and OpenURL may be nil.
type Session struct {
	Ctx       context.Context
	API       API
	Prefs     Preferences
	Suggester CategorySuggester
	OpenURL   func(url string) error

	BudgetID string
	Currency *ynab.CurrencyFormat
	Keys     KeyMap

	ExcludedGroup string
	Lookback      time.Duration
}

func (s *Session) context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

func (s *Session) digits() int {
	if s.Currency == nil {
		return money.DefaultFormat.DecimalDigits
	}
	return s.Currency.DecimalDigits
}

func (s *Session) excludedGroup() string {
	if s.ExcludedGroup == "" {
		return internalGroupName
	}
	return s.ExcludedGroup
}
