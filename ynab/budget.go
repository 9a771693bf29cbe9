package ynab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

func (y *YNAB) Budgets(ctx context.Context) ([]BudgetSummary, error) {
	var res struct {
		Budgets []BudgetSummary `json:"budgets"`
	}
	if err := y.do(ctx, http.MethodGet, "/budgets?include_accounts=false", nil, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch Budgets: %w", err)
	}
	return res.Budgets, nil
}

func (y *YNAB) CurrentMonth(ctx context.Context, budgetID string) (MonthDetail, error) {
	if budgetID == "" {
		return MonthDetail{}, ErrMissingID
	}
	var res struct {
		Month MonthDetail `json:"month"`
	}
	path := fmt.Sprintf("/budgets/%s/months/current", url.PathEscape(budgetID))
	if err := y.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return MonthDetail{}, fmt.Errorf("failed to fetch current Month: %w", err)
	}
	return res.Month, nil
}

// CategoryGroups lists the category groups of a budget. Deleted groups and
// categories are dropped; hidden ones are kept for the caller to filter.
func (y *YNAB) CategoryGroups(ctx context.Context, budgetID string) ([]CategoryGroup, error) {
	if budgetID == "" {
		return nil, ErrMissingID
	}
	var res struct {
		CategoryGroups []CategoryGroup `json:"category_groups"`
	}
	path := fmt.Sprintf("/budgets/%s/categories", url.PathEscape(budgetID))
	if err := y.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch Categories: %w", err)
	}

	groups := make([]CategoryGroup, 0, len(res.CategoryGroups))
	for _, g := range res.CategoryGroups {
		if g.Deleted {
			continue
		}
		cats := g.Categories[:0]
		for _, c := range g.Categories {
			if !c.Deleted {
				cats = append(cats, c)
			}
		}
		g.Categories = cats
		groups = append(groups, g)
	}
	log.Debug().Str("budget", budgetID).Int("groups", len(groups)).Msg("Fetched category groups")
	return groups, nil
}

// UpdateCategoryBudgeted sets the amount budgeted to a category in the
// current month.
func (y *YNAB) UpdateCategoryBudgeted(ctx context.Context, budgetID, categoryID string, budgeted int64) (Category, error) {
	if budgetID == "" || categoryID == "" {
		return Category{}, ErrMissingID
	}
	doc := struct {
		Category struct {
			Budgeted int64 `json:"budgeted"`
		} `json:"category"`
	}{}
	doc.Category.Budgeted = budgeted

	var res struct {
		Category Category `json:"category"`
	}
	path := fmt.Sprintf("/budgets/%s/months/current/categories/%s", url.PathEscape(budgetID), url.PathEscape(categoryID))
	if err := y.do(ctx, http.MethodPatch, path, doc, &res); err != nil {
		return Category{}, fmt.Errorf("could not update category: %w", err)
	}
	return res.Category, nil
}

func (y *YNAB) Payees(ctx context.Context, budgetID string) ([]Payee, error) {
	if budgetID == "" {
		return nil, ErrMissingID
	}
	var res struct {
		Payees []Payee `json:"payees"`
	}
	path := fmt.Sprintf("/budgets/%s/payees", url.PathEscape(budgetID))
	if err := y.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch Payees: %w", err)
	}

	payees := res.Payees[:0]
	for _, p := range res.Payees {
		if !p.Deleted {
			payees = append(payees, p)
		}
	}
	return payees, nil
}

func (y *YNAB) Accounts(ctx context.Context, budgetID string) ([]Account, error) {
	if budgetID == "" {
		return nil, ErrMissingID
	}
	var res struct {
		Accounts []Account `json:"accounts"`
	}
	path := fmt.Sprintf("/budgets/%s/accounts", url.PathEscape(budgetID))
	if err := y.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch Accounts: %w", err)
	}

	accounts := res.Accounts[:0]
	for _, a := range res.Accounts {
		if a.Deleted || a.Closed {
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// LastUsedBudget is the API alias for the most recently opened budget.
const LastUsedBudget = "last-used"

// WebURL is the YNAB web app page for a budget. The web app has no page for
// the last used alias, so that opens the app root.
func WebURL(budgetID string) string {
	if budgetID == "" || budgetID == LastUsedBudget {
		return "https://app.ynab.com/"
	}
	return "https://app.ynab.com/" + strings.TrimSpace(budgetID) + "/budget"
}
