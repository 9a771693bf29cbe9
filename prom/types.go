// Package prom exposes budget state as Prometheus metrics.
package prom

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/prometheus/client_golang/prometheus"
)

// Source is the subset of the YNAB client the exporter scrapes.
type Source interface {
	CategoryGroups(ctx context.Context, budgetID string) ([]ynab.CategoryGroup, error)
	CurrentMonth(ctx context.Context, budgetID string) (ynab.MonthDetail, error)
	Stats() ynab.Stats
}

type Exporter struct {
	CategoryBalance        *prometheus.Desc
	CategoryBudgeted       *prometheus.Desc
	CategoryActivity       *prometheus.Desc
	CategoryGoalPercentage *prometheus.Desc
	MonthToBeBudgeted      *prometheus.Desc
	MonthIncome            *prometheus.Desc
	MonthAgeOfMoney        *prometheus.Desc
	APICalls               *prometheus.Desc
	APIErrors              *prometheus.Desc
	ScrapeErrors           *prometheus.Desc

	source        Source
	budgetID      string
	excludedGroup string
	timeout       time.Duration
	scrapeErrors  atomic.Uint64
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.CategoryBalance
	ch <- e.CategoryBudgeted
	ch <- e.CategoryActivity
	ch <- e.CategoryGoalPercentage
	ch <- e.MonthToBeBudgeted
	ch <- e.MonthIncome
	ch <- e.MonthAgeOfMoney
	ch <- e.APICalls
	ch <- e.APIErrors
	ch <- e.ScrapeErrors
}

// NewExporter scrapes budgetID on every collection. Categories in
// excludedGroup are skipped.
func NewExporter(namespace string, source Source, budgetID, excludedGroup string) *Exporter {
	return &Exporter{
		CategoryBalance: categoryDesc(
			namespace,
			"balance",
			"Balance of the category in the current month",
		),
		CategoryBudgeted: categoryDesc(
			namespace,
			"budgeted",
			"Amount budgeted to the category in the current month",
		),
		CategoryActivity: categoryDesc(
			namespace,
			"activity",
			"Activity of the category in the current month",
		),
		CategoryGoalPercentage: prometheus.NewDesc(
			prometheus.BuildFQName(
				namespace,
				"category",
				"goal_percentage",
			),
			"Goal completion of the category in percent",
			[]string{"category_id", "category_name", "group", "goal_type"},
			nil,
		),
		MonthToBeBudgeted: monthDesc(
			namespace,
			"to_be_budgeted",
			"Money left to assign in the current month",
		),
		MonthIncome: monthDesc(
			namespace,
			"income",
			"Income of the current month",
		),
		MonthAgeOfMoney: monthDesc(
			namespace,
			"age_of_money_days",
			"Age of money in days",
		),
		APICalls: statusDesc(
			namespace,
			"api_calls",
			"Count of API calls",
			[]string{"type"},
		),
		APIErrors: statusDesc(
			namespace,
			"api_errors",
			"Count of API errors",
			[]string{"type"},
		),
		ScrapeErrors: statusDesc(
			namespace,
			"scrape_errors",
			"Count of failed scrapes",
			nil,
		),
		source:        source,
		budgetID:      budgetID,
		excludedGroup: excludedGroup,
		timeout:       30 * time.Second,
	}
}

func categoryDesc(namespace string, metric string, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(
			namespace,
			"category",
			metric,
		),
		help,
		[]string{"category_id", "category_name", "group"},
		nil,
	)
}

func monthDesc(namespace string, metric string, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(
			namespace,
			"month",
			metric,
		),
		help,
		[]string{"month"},
		nil,
	)
}

func statusDesc(namespace string, metric string, help string, labels []string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(
			namespace,
			"status",
			metric,
		),
		help,
		labels,
		nil,
	)
}
