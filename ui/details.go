package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"
)

type detailRow struct {
	label string
	value string
}

func renderDetails(title string, rows []detailRow) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(r.value)
		b.WriteString("\n")
	}
	return b.String()
}

type CategoryDetails struct {
	session  *Session
	category ynab.Category
}

func NewCategoryDetails(s *Session, c ynab.Category) CategoryDetails {
	return CategoryDetails{session: s, category: c}
}

func (m CategoryDetails) Init() tea.Cmd { return nil }

func (m CategoryDetails) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

// Rows is the detail table shown for the category.
func (m CategoryDetails) Rows() []detailRow {
	c, cf := m.category, m.session.Currency
	shape := AssessGoalShape(c)
	rows := []detailRow{
		{"Balance", tagStyle(GoalColor(shape)).Render(money.Format(c.Balance, cf))},
		{"Budgeted", money.Format(c.Budgeted, cf)},
		{"Activity", money.Format(c.Activity, cf)},
	}
	if c.HasGoal() {
		rows = append(rows,
			detailRow{"Goal", GoalIcon(c) + " " + GoalTooltip(c, cf)},
			detailRow{"Goal Progress", ProgressTitle(c)},
		)
		if c.GoalUnderFunded != nil {
			rows = append(rows, detailRow{"Underfunded", money.Format(*c.GoalUnderFunded, cf)})
		}
		if c.GoalOverallLeft != nil {
			rows = append(rows, detailRow{"Left Overall", money.Format(*c.GoalOverallLeft, cf)})
		}
	} else {
		rows = append(rows, detailRow{"Goal", "None"})
	}
	if note := ynab.Deref(c.Note); note != "" {
		rows = append(rows, detailRow{"Note", note})
	}
	return rows
}

func (m CategoryDetails) View() string {
	return renderDetails(m.category.Name, m.Rows()) + "\n" + subtleStyle.Render("esc back")
}

// BudgetDetails shows the summary of the current month.
type BudgetDetails struct {
	id      int64
	session *Session
	month   *ynab.MonthDetail
	err     error
}

func NewBudgetDetails(s *Session) BudgetDetails {
	return BudgetDetails{id: nextScreenID(), session: s}
}

func (m BudgetDetails) Init() tea.Cmd {
	return loadMonth(m.session, m.id)
}

func (m BudgetDetails) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case monthMsg:
		if msg.owner != m.id {
			return m, nil
		}
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load month")
			m.err = msg.err
			return m, nil
		}
		m.month = &msg.month
	case dataChangedMsg:
		return m, loadMonth(m.session, m.id)
	}
	return m, nil
}

func (m BudgetDetails) Rows() []detailRow {
	if m.month == nil {
		return nil
	}
	cf := m.session.Currency
	age := "Unknown"
	if m.month.AgeOfMoney != nil {
		age = fmt.Sprintf("%d days", *m.month.AgeOfMoney)
	}
	rows := []detailRow{
		{"Income", money.Format(m.month.Income, cf)},
		{"Budgeted", money.Format(m.month.Budgeted, cf)},
		{"Activity", money.Format(m.month.Activity, cf)},
		{"To Be Budgeted", money.Format(m.month.ToBeBudgeted, cf)},
		{"Age of Money", age},
	}
	if note := ynab.Deref(m.month.Note); note != "" {
		rows = append(rows, detailRow{"Note", note})
	}
	return rows
}

func (m BudgetDetails) View() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Failed to load month: "+m.err.Error()) + "\n"
	case m.month == nil:
		return subtleStyle.Render("Loading month…") + "\n"
	}
	title := "Monthly Budget"
	if t, err := time.Parse(time.DateOnly, m.month.Month); err == nil {
		title = t.Format("January 2006")
	}
	return renderDetails(title, m.Rows()) + "\n" + subtleStyle.Render("esc back")
}
