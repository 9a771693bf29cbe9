package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
)

type GoalShape int

const (
	ShapeNeutral GoalShape = iota
	ShapeFunded
	ShapeUnderfunded
	ShapeOverspent
)

// AssessGoalShape classifies a category by how its balance and goal stand.
func AssessGoalShape(c ynab.Category) GoalShape {
	if c.Balance < 0 {
		return ShapeOverspent
	}
	if !c.HasGoal() {
		if c.Balance > 0 {
			return ShapeFunded
		}
		return ShapeNeutral
	}
	if c.GoalPercentageComplete != nil && *c.GoalPercentageComplete >= 100 {
		return ShapeFunded
	}
	if c.GoalUnderFunded != nil && *c.GoalUnderFunded == 0 {
		return ShapeFunded
	}
	return ShapeUnderfunded
}

func GoalColor(shape GoalShape) lipgloss.Color {
	switch shape {
	case ShapeOverspent:
		return colorRed
	case ShapeUnderfunded:
		return colorYellow
	case ShapeFunded:
		return colorGreen
	}
	return colorGray
}

// GoalIcon is a one glyph hint for the goal type.
func GoalIcon(c ynab.Category) string {
	if !c.HasGoal() {
		return ""
	}
	switch *c.GoalType {
	case ynab.GoalTargetBalance:
		return "◎"
	case ynab.GoalTargetBalanceByDate:
		return "◷"
	case ynab.GoalMonthlyFunding:
		return "↻"
	case ynab.GoalPlanYourSpending:
		return "◔"
	case ynab.GoalDebt:
		return "⇩"
	}
	return "•"
}

// GoalTooltip describes the goal in words, e.g. "Monthly Funding of $50.00".
func GoalTooltip(c ynab.Category, cf *ynab.CurrencyFormat) string {
	if !c.HasGoal() {
		return ""
	}
	var target string
	if c.GoalTarget != nil {
		target = money.Format(*c.GoalTarget, cf)
	}
	by := ""
	if c.GoalTargetMonth != nil {
		if t, err := time.Parse(time.DateOnly, *c.GoalTargetMonth); err == nil {
			by = " by " + t.Format("January 2006")
		}
	}

	switch *c.GoalType {
	case ynab.GoalTargetBalance:
		return fmt.Sprintf("Target Category Balance of %s", target)
	case ynab.GoalTargetBalanceByDate:
		return fmt.Sprintf("Target Category Balance of %s%s", target, by)
	case ynab.GoalMonthlyFunding:
		return fmt.Sprintf("Monthly Funding of %s", target)
	case ynab.GoalPlanYourSpending:
		return fmt.Sprintf("Plan Your Spending of %s%s", target, by)
	case ynab.GoalDebt:
		return fmt.Sprintf("Monthly Debt Payment of %s", target)
	}
	return string(*c.GoalType)
}
