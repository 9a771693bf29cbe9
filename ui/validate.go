package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
)

// isoTimestamp is how form dates are sent: UTC with milliseconds.
const isoTimestamp = "2006-01-02T15:04:05.000Z"

var errInvalidDate = errors.New("invalid date")

// RequiredField maps a form key to the label shown when it is missing.
type RequiredField struct {
	Key   string
	Label string
}

var (
	editRequired   = []RequiredField{{Key: "payee_id", Label: "Payee"}}
	createRequired = []RequiredField{{Key: "account_id", Label: "Account"}, {Key: "payee_id", Label: "Payee"}}
)

// FormValues is what a transaction form holds at submit time.
type FormValues struct {
	AccountID  string
	Date       time.Time
	Amount     string
	PayeeID    string
	CategoryID string
	Memo       string
	FlagColor  string
}

type formEntry struct {
	key   string
	value any
}

func (v FormValues) entries() []formEntry {
	return []formEntry{
		{"account_id", v.AccountID},
		{"date", v.Date},
		{"amount", v.Amount},
		{"payee_id", v.PayeeID},
		{"category_id", v.CategoryID},
		{"memo", v.Memo},
		{"flag_color", v.FlagColor},
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case time.Time:
		return x.IsZero()
	}
	return false
}

// IsValidFormSubmission checks every value against required. Each required
// value that is empty produces one failure toast through notify.
func IsValidFormSubmission(v FormValues, required []RequiredField, notify func(Toast)) bool {
	valid := true
	for _, e := range v.entries() {
		for _, r := range required {
			if r.Key != e.key || !isEmpty(e.value) {
				continue
			}
			valid = false
			notify(Toast{
				Style:   ToastFailure,
				Title:   fmt.Sprintf("The %s is required", r.Label),
				Message: "Please enter a valid value for the field.",
			})
		}
	}
	return valid
}

// amountError is the inline message for a blurred amount field, or "" when
// the value is a number.
func amountError(v string) string {
	switch {
	case money.IsNumber(v):
		return ""
	case v == "":
		return "Enter a valid number"
	default:
		return fmt.Sprintf(`"%s "is not a valid number`, v)
	}
}

// BuildSaveTransaction overlays the form values on base. Empty optional
// strings become null.
func BuildSaveTransaction(base ynab.SaveTransaction, v FormValues) (ynab.SaveTransaction, error) {
	if v.Date.IsZero() {
		return ynab.SaveTransaction{}, errInvalidDate
	}
	amount, err := money.ToMilliunits(v.Amount)
	if err != nil {
		return ynab.SaveTransaction{}, err
	}
	flag, err := ynab.ParseFlagColor(v.FlagColor)
	if err != nil {
		return ynab.SaveTransaction{}, err
	}

	out := base
	if v.AccountID != "" {
		out.AccountID = v.AccountID
	}
	out.Date = v.Date.UTC().Format(isoTimestamp)
	out.Amount = amount
	out.PayeeID = ynab.NilIfEmpty(v.PayeeID)
	out.CategoryID = ynab.NilIfEmpty(v.CategoryID)
	out.Memo = ynab.NilIfEmpty(strings.TrimRight(v.Memo, "\n"))
	out.FlagColor = flag
	return out, nil
}

func parseFormDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
