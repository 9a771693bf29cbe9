package ynab

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type User struct {
	ID string `json:"id"`
}

type CurrencyFormat struct {
	ISOCode          string `json:"iso_code"`
	ExampleFormat    string `json:"example_format"`
	DecimalDigits    int    `json:"decimal_digits"`
	DecimalSeparator string `json:"decimal_separator"`
	SymbolFirst      bool   `json:"symbol_first"`
	GroupSeparator   string `json:"group_separator"`
	CurrencySymbol   string `json:"currency_symbol"`
	DisplaySymbol    bool   `json:"display_symbol"`
}

type BudgetSummary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	LastModifiedOn string          `json:"last_modified_on"`
	CurrencyFormat *CurrencyFormat `json:"currency_format"`
}

// MonthDetail is the budget summary for a single month.
type MonthDetail struct {
	Month        string  `json:"month"`
	Note         *string `json:"note"`
	Income       int64   `json:"income"`
	Budgeted     int64   `json:"budgeted"`
	Activity     int64   `json:"activity"`
	ToBeBudgeted int64   `json:"to_be_budgeted"`
	AgeOfMoney   *int    `json:"age_of_money"`
}

type GoalType string

const (
	GoalTargetBalance       GoalType = "TB"
	GoalTargetBalanceByDate GoalType = "TBD"
	GoalMonthlyFunding      GoalType = "MF"
	GoalPlanYourSpending    GoalType = "NEED"
	GoalDebt                GoalType = "DEBT"
)

type Category struct {
	ID                     string    `json:"id"`
	CategoryGroupID        string    `json:"category_group_id"`
	Name                   string    `json:"name"`
	Hidden                 bool      `json:"hidden"`
	Deleted                bool      `json:"deleted"`
	Note                   *string   `json:"note"`
	Budgeted               int64     `json:"budgeted"`
	Activity               int64     `json:"activity"`
	Balance                int64     `json:"balance"`
	GoalType               *GoalType `json:"goal_type"`
	GoalTarget             *int64    `json:"goal_target"`
	GoalTargetMonth        *string   `json:"goal_target_month"`
	GoalPercentageComplete *int      `json:"goal_percentage_complete"`
	GoalUnderFunded        *int64    `json:"goal_under_funded"`
	GoalOverallLeft        *int64    `json:"goal_overall_left"`
}

// HasGoal reports whether a goal type is set on the category.
func (c Category) HasGoal() bool {
	return c.GoalType != nil && *c.GoalType != ""
}

type CategoryGroup struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hidden     bool       `json:"hidden"`
	Deleted    bool       `json:"deleted"`
	Categories []Category `json:"categories"`
}

type Payee struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	TransferAccountID *string `json:"transfer_account_id"`
	Deleted           bool    `json:"deleted"`
}

type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	OnBudget bool   `json:"on_budget"`
	Closed   bool   `json:"closed"`
	Balance  int64  `json:"balance"`
	Deleted  bool   `json:"deleted"`
}

type FlagColor string

const (
	FlagRed    FlagColor = "red"
	FlagOrange FlagColor = "orange"
	FlagYellow FlagColor = "yellow"
	FlagGreen  FlagColor = "green"
	FlagBlue   FlagColor = "blue"
	FlagPurple FlagColor = "purple"
)

// FlagColors lists every flag colour in the order YNAB shows them.
var FlagColors = []FlagColor{FlagRed, FlagOrange, FlagYellow, FlagGreen, FlagBlue, FlagPurple}

// ParseFlagColor returns nil for an empty string, which YNAB reads as "no flag".
func ParseFlagColor(s string) (*FlagColor, error) {
	if s == "" {
		return nil, nil
	}
	c := FlagColor(s)
	if !slices.Contains(FlagColors, c) {
		return nil, fmt.Errorf("invalid flag color %q", s)
	}
	return &c, nil
}

type Transaction struct {
	ID                string     `json:"id"`
	Date              string     `json:"date"`
	Amount            int64      `json:"amount"`
	Memo              *string    `json:"memo"`
	Cleared           string     `json:"cleared"`
	Approved          bool       `json:"approved"`
	FlagColor         *FlagColor `json:"flag_color"`
	AccountID         string     `json:"account_id"`
	AccountName       string     `json:"account_name"`
	PayeeID           *string    `json:"payee_id"`
	PayeeName         *string    `json:"payee_name"`
	CategoryID        *string    `json:"category_id"`
	CategoryName      *string    `json:"category_name"`
	TransferAccountID *string    `json:"transfer_account_id"`
	Deleted           bool       `json:"deleted"`
}

// SaveTransaction is the full replacement payload for creating or updating a
// transaction. Nil pointers are sent as JSON null.
type SaveTransaction struct {
	AccountID  string     `json:"account_id"`
	Date       string     `json:"date"`
	Amount     int64      `json:"amount"`
	PayeeID    *string    `json:"payee_id"`
	CategoryID *string    `json:"category_id"`
	Memo       *string    `json:"memo"`
	Cleared    string     `json:"cleared,omitempty"`
	Approved   bool       `json:"approved"`
	FlagColor  *FlagColor `json:"flag_color"`
}

// ToSave copies the writable fields of t into a save payload.
func (t Transaction) ToSave() SaveTransaction {
	return SaveTransaction{
		AccountID:  t.AccountID,
		Date:       t.Date,
		Amount:     t.Amount,
		PayeeID:    t.PayeeID,
		CategoryID: t.CategoryID,
		Memo:       t.Memo,
		Cleared:    t.Cleared,
		Approved:   t.Approved,
		FlagColor:  t.FlagColor,
	}
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NilIfEmpty returns nil for "", otherwise a pointer to s.
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
