package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/helpcomp/ynab-tui/ynab"
)

// Results of async calls. owner is the id of the screen that issued the call.

type categoryGroupsMsg struct {
	owner  int64
	groups []ynab.CategoryGroup
	err    error
}

type monthMsg struct {
	owner int64
	month ynab.MonthDetail
	err   error
}

type payeesMsg struct {
	owner  int64
	payees []ynab.Payee
	err    error
}

type accountsMsg struct {
	owner    int64
	accounts []ynab.Account
	err      error
}

type transactionsMsg struct {
	owner        int64
	transactions []ynab.Transaction
	err          error
}

type budgetsMsg struct {
	owner   int64
	budgets []ynab.BudgetSummary
	err     error
}

type transactionSavedMsg struct {
	owner       int64
	transaction ynab.Transaction
	err         error
}

type categorySavedMsg struct {
	owner    int64
	category ynab.Category
	err      error
}

type suggestionMsg struct {
	owner    int64
	category ynab.Category
	err      error
}

type activeBudgetMsg struct {
	owner  int64
	budget ynab.BudgetSummary
	err    error
}

type openedMsg struct {
	owner int64
	err   error
}

func loadCategoryGroups(s *Session, owner int64) tea.Cmd {
	ctx, api, budgetID := s.context(), s.API, s.BudgetID
	return func() tea.Msg {
		groups, err := api.CategoryGroups(ctx, budgetID)
		return categoryGroupsMsg{owner: owner, groups: groups, err: err}
	}
}

func loadMonth(s *Session, owner int64) tea.Cmd {
	ctx, api, budgetID := s.context(), s.API, s.BudgetID
	return func() tea.Msg {
		month, err := api.CurrentMonth(ctx, budgetID)
		return monthMsg{owner: owner, month: month, err: err}
	}
}

func loadPayees(s *Session, owner int64) tea.Cmd {
	ctx, api, budgetID := s.context(), s.API, s.BudgetID
	return func() tea.Msg {
		payees, err := api.Payees(ctx, budgetID)
		return payeesMsg{owner: owner, payees: payees, err: err}
	}
}

func loadAccounts(s *Session, owner int64) tea.Cmd {
	ctx, api, budgetID := s.context(), s.API, s.BudgetID
	return func() tea.Msg {
		accounts, err := api.Accounts(ctx, budgetID)
		return accountsMsg{owner: owner, accounts: accounts, err: err}
	}
}

func loadTransactions(s *Session, owner int64, since time.Time) tea.Cmd {
	ctx, api, budgetID := s.context(), s.API, s.BudgetID
	return func() tea.Msg {
		txs, err := api.Transactions(ctx, budgetID, since)
		return transactionsMsg{owner: owner, transactions: txs, err: err}
	}
}

func loadBudgets(s *Session, owner int64) tea.Cmd {
	ctx, api := s.context(), s.API
	return func() tea.Msg {
		budgets, err := api.Budgets(ctx)
		return budgetsMsg{owner: owner, budgets: budgets, err: err}
	}
}

func openURL(s *Session, owner int64, url string) tea.Cmd {
	open := s.OpenURL
	return func() tea.Msg {
		if open == nil {
			return openedMsg{owner: owner, err: errNoBrowser}
		}
		return openedMsg{owner: owner, err: open(url)}
	}
}
