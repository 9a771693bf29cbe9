package prom

import (
	"context"
	"sync"

	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.CollectCategories(ctx, ch)
	}()
	go func() {
		defer wg.Done()
		e.CollectMonth(ctx, ch)
	}()
	wg.Wait()

	// Last, so the counters include the calls made by this scrape.
	e.CollectSys(ch)
}

// CollectCategories emits one series per visible category.
func (e *Exporter) CollectCategories(ctx context.Context, ch chan<- prometheus.Metric) {
	groups, err := e.source.CategoryGroups(ctx, e.budgetID)
	if err != nil {
		e.scrapeErrors.Add(1)
		log.Error().Err(err).Msg("Failed to scrape category groups")
		return
	}

	for _, group := range groups {
		if group.Name == e.excludedGroup || group.Hidden {
			continue
		}
		for _, c := range group.Categories {
			if c.Hidden {
				continue
			}
			ch <- prometheus.MustNewConstMetric(
				e.CategoryBalance,
				prometheus.GaugeValue,
				amount(c.Balance),
				c.ID, c.Name, group.Name,
			)
			ch <- prometheus.MustNewConstMetric(
				e.CategoryBudgeted,
				prometheus.GaugeValue,
				amount(c.Budgeted),
				c.ID, c.Name, group.Name,
			)
			ch <- prometheus.MustNewConstMetric(
				e.CategoryActivity,
				prometheus.GaugeValue,
				amount(c.Activity),
				c.ID, c.Name, group.Name,
			)
			if !c.HasGoal() {
				continue
			}
			pct := 0
			if c.GoalPercentageComplete != nil {
				pct = *c.GoalPercentageComplete
			}
			ch <- prometheus.MustNewConstMetric(
				e.CategoryGoalPercentage,
				prometheus.GaugeValue,
				float64(pct),
				c.ID, c.Name, group.Name, string(*c.GoalType),
			)
		}
	}
}

func (e *Exporter) CollectMonth(ctx context.Context, ch chan<- prometheus.Metric) {
	month, err := e.source.CurrentMonth(ctx, e.budgetID)
	if err != nil {
		e.scrapeErrors.Add(1)
		log.Error().Err(err).Msg("Failed to scrape current month")
		return
	}

	ch <- prometheus.MustNewConstMetric(
		e.MonthToBeBudgeted,
		prometheus.GaugeValue,
		amount(month.ToBeBudgeted),
		month.Month,
	)
	ch <- prometheus.MustNewConstMetric(
		e.MonthIncome,
		prometheus.GaugeValue,
		amount(month.Income),
		month.Month,
	)
	if month.AgeOfMoney != nil {
		ch <- prometheus.MustNewConstMetric(
			e.MonthAgeOfMoney,
			prometheus.GaugeValue,
			float64(*month.AgeOfMoney),
			month.Month,
		)
	}
}

// CollectSys reports client counters.
func (e *Exporter) CollectSys(ch chan<- prometheus.Metric) {
	stats := e.source.Stats()
	ch <- prometheus.MustNewConstMetric(
		e.APICalls,
		prometheus.CounterValue,
		float64(stats.Calls),
		"ynab",
	)
	ch <- prometheus.MustNewConstMetric(
		e.APIErrors,
		prometheus.CounterValue,
		float64(stats.Errors),
		"ynab",
	)
	ch <- prometheus.MustNewConstMetric(
		e.ScrapeErrors,
		prometheus.CounterValue,
		float64(e.scrapeErrors.Load()),
	)
}

// amount converts milliunits to currency units.
func amount(milliunits int64) float64 {
	return money.FromMilliunits(milliunits).InexactFloat64()
}

var _ prometheus.Collector = (*Exporter)(nil)

var _ Source = (*ynab.YNAB)(nil)
