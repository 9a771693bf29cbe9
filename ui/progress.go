package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/helpcomp/ynab-tui/ynab"
)

const (
	fullSymbol  = "●"
	emptySymbol = "○"
	symbolCount = 10
)

// ProgressTitle renders goal completion as a ten symbol bar followed by the
// right aligned percentage, or "N/A" when the category has no goal.
func ProgressTitle(c ynab.Category) string {
	if !c.HasGoal() {
		return "N/A"
	}
	pct := 0
	if c.GoalPercentageComplete != nil {
		pct = *c.GoalPercentageComplete
	}
	full := int(math.Round(float64(pct) * symbolCount / 100))
	full = min(max(full, 0), symbolCount)

	return strings.Repeat(fullSymbol, full) +
		strings.Repeat(emptySymbol, symbolCount-full) +
		" " + fmt.Sprintf("%3d%%", pct)
}
