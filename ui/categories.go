package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"
)

const internalGroupName = "Internal Master Category"

var errNoBrowser = errors.New("no browser configured")

type Accessory struct {
	Icon    string
	Tooltip string
	Text    string
	Color   lipgloss.Color
}

type ListItem struct {
	Category    ynab.Category
	Title       string
	Accessories []Accessory
}

type ListSection struct {
	Title    string
	Subtitle string
	Items    []ListItem
}

// CategorySections lays out groups as list sections. The excluded group is
// skipped, as are hidden categories. Groups may be nil while loading.
func CategorySections(groups []ynab.CategoryGroup, cf *ynab.CurrencyFormat, showProgress bool, excluded string) []ListSection {
	sections := make([]ListSection, 0, len(groups))
	for _, g := range groups {
		if g.Name == excluded {
			continue
		}
		s := ListSection{
			Title:    g.Name,
			Subtitle: fmt.Sprintf("%d Categories", len(g.Categories)),
		}
		for _, c := range g.Categories {
			if c.Hidden {
				continue
			}
			s.Items = append(s.Items, categoryItem(c, cf, showProgress))
		}
		sections = append(sections, s)
	}
	return sections
}

func categoryItem(c ynab.Category, cf *ynab.CurrencyFormat, showProgress bool) ListItem {
	item := ListItem{Category: c, Title: c.Name}
	if c.HasGoal() && !showProgress {
		item.Accessories = append(item.Accessories, Accessory{Icon: GoalIcon(c), Tooltip: GoalTooltip(c, cf)})
	}
	tag := money.Format(c.Balance, cf)
	if showProgress {
		tag = ProgressTitle(c)
	}
	item.Accessories = append(item.Accessories, Accessory{Text: tag, Color: GoalColor(AssessGoalShape(c))})
	return item
}

type actionKind int

const (
	actShowCategory actionKind = iota
	actShowMonth
	actOpenInYNAB
	actToggleProgress
	actEditCategory
	actNewTransaction
)

type Action struct {
	Kind     actionKind
	Title    string
	Shortcut *key.Binding
}

type ActionSection struct {
	Title   string
	Actions []Action
}

// CategoryActions lists what can be done with a category row.
func CategoryActions(keys KeyMap, showProgress bool) []ActionSection {
	toggle := "Show Progress"
	if showProgress {
		toggle = "Hide Progress"
	}
	return []ActionSection{
		{
			Title: "Inspect Budget",
			Actions: []Action{
				{Kind: actShowCategory, Title: "Show Category"},
				{Kind: actShowMonth, Title: "Show Monthly Budget"},
				{Kind: actOpenInYNAB, Title: "Open in YNAB", Shortcut: &keys.OpenInYNAB},
				{Kind: actToggleProgress, Title: toggle, Shortcut: &keys.ShowBudgetProgress},
			},
		},
		{
			Title: "Modify List View",
			Actions: []Action{
				{Kind: actEditCategory, Title: "Edit Category", Shortcut: &keys.EditBudgetCategory},
				{Kind: actNewTransaction, Title: "Create New Transaction", Shortcut: &keys.CreateNewTransaction},
			},
		},
	}
}

// BudgetScreen lists the categories of the active budget for the current
// month.
type BudgetScreen struct {
	id      int64
	session *Session

	groups  []ynab.CategoryGroup
	month   *ynab.MonthDetail
	loading bool

	showProgress bool
	cursor       int
	actionsOpen  bool
	actionCursor int

	toasts toaster
	help   help.Model
	height int
}

func NewBudgetScreen(s *Session) BudgetScreen {
	return BudgetScreen{
		id:      nextScreenID(),
		session: s,
		loading: true,
		toasts:  newToaster(),
		help:    help.New(),
	}
}

func (m BudgetScreen) Init() tea.Cmd {
	return m.reload()
}

func (m BudgetScreen) reload() tea.Cmd {
	return tea.Batch(loadCategoryGroups(m.session, m.id), loadMonth(m.session, m.id))
}

func (m BudgetScreen) HandlesBack() bool { return m.actionsOpen }

func (m BudgetScreen) Sections() []ListSection {
	return CategorySections(m.groups, m.session.Currency, m.showProgress, m.session.excludedGroup())
}

func (m BudgetScreen) items() []ListItem {
	var items []ListItem
	for _, s := range m.Sections() {
		items = append(items, s.Items...)
	}
	return items
}

// Selected returns the category under the cursor.
func (m BudgetScreen) Selected() (ynab.Category, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return ynab.Category{}, false
	}
	return items[m.cursor].Category, true
}

func (m BudgetScreen) actions() []Action {
	var out []Action
	for _, s := range CategoryActions(m.session.Keys, m.showProgress) {
		out = append(out, s.Actions...)
	}
	return out
}

func (m BudgetScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoryGroupsMsg:
		if msg.owner != m.id {
			break
		}
		m.loading = false
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load category groups")
			cmd := m.toasts.Fail("Failed to load categories", msg.err.Error())
			return m, cmd
		}
		m.groups = msg.groups
		if n := len(m.items()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, nil

	case monthMsg:
		if msg.owner != m.id {
			break
		}
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to load current month")
			return m, nil
		}
		m.month = &msg.month
		return m, nil

	case openedMsg:
		if msg.owner != m.id {
			break
		}
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("Failed to open browser")
			cmd := m.toasts.Fail("Could not open YNAB", msg.err.Error())
			return m, cmd
		}
		return m, nil

	case dataChangedMsg:
		return m, m.reload()

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmd := m.toasts.Update(msg)
	return m, cmd
}

func (m BudgetScreen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.session.Keys

	if m.actionsOpen {
		actions := m.actions()
		switch {
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Actions):
			m.actionsOpen = false
			return m, nil
		case key.Matches(msg, keys.Up):
			m.actionCursor = max(m.actionCursor-1, 0)
			return m, nil
		case key.Matches(msg, keys.Down):
			m.actionCursor = min(m.actionCursor+1, len(actions)-1)
			return m, nil
		case key.Matches(msg, keys.Select):
			m.actionsOpen = false
			return m.perform(actions[m.actionCursor].Kind)
		}
	}

	switch {
	case key.Matches(msg, keys.Actions):
		if _, ok := m.Selected(); ok {
			m.actionsOpen = true
			m.actionCursor = 0
		}
	case key.Matches(msg, keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.items())-1, 0))
	case key.Matches(msg, keys.Select):
		return m.perform(actShowCategory)
	case key.Matches(msg, keys.ShowBudgetProgress):
		return m.perform(actToggleProgress)
	case key.Matches(msg, keys.OpenInYNAB):
		return m.perform(actOpenInYNAB)
	case key.Matches(msg, keys.EditBudgetCategory):
		return m.perform(actEditCategory)
	case key.Matches(msg, keys.CreateNewTransaction):
		return m.perform(actNewTransaction)
	}
	return m, nil
}

func (m BudgetScreen) perform(kind actionKind) (tea.Model, tea.Cmd) {
	switch kind {
	case actToggleProgress:
		m.showProgress = !m.showProgress
		return m, nil
	case actOpenInYNAB:
		return m, openURL(m.session, m.id, ynab.WebURL(m.session.BudgetID))
	case actShowMonth:
		return m, Push(NewBudgetDetails(m.session))
	}

	c, ok := m.Selected()
	if !ok {
		return m, nil
	}
	switch kind {
	case actShowCategory:
		return m, Push(NewCategoryDetails(m.session, c))
	case actEditCategory:
		return m, Push(NewCategoryEditForm(m.session, c))
	case actNewTransaction:
		return m, Push(NewTransactionCreationForm(m.session, c.ID))
	}
	return m, nil
}

func (m BudgetScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Budget"))
	b.WriteString("\n")
	if m.month != nil {
		b.WriteString(subtleStyle.Render("To be budgeted: " + money.Format(m.month.ToBeBudgeted, m.session.Currency)))
		b.WriteString("\n\n")
	}

	if m.loading && m.groups == nil {
		b.WriteString(subtleStyle.Render("Loading categories…"))
		b.WriteString("\n")
	}

	var lines []string
	cursorLine, i := 0, 0
	for _, s := range m.Sections() {
		lines = append(lines, sectionStyle.Render(s.Title)+"  "+subtleStyle.Render(s.Subtitle))
		for _, item := range s.Items {
			if i == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderItem(item, i == m.cursor))
			i++
		}
		lines = append(lines, "")
	}
	b.WriteString(strings.Join(window(lines, cursorLine, m.height-8), "\n"))

	if m.actionsOpen {
		b.WriteString("\n")
		b.WriteString(m.renderActions())
	}

	b.WriteString("\n")
	b.WriteString(m.toasts.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{
		m.session.Keys.Select, m.session.Keys.Actions, m.session.Keys.ShowBudgetProgress,
		m.session.Keys.EditBudgetCategory, m.session.Keys.CreateNewTransaction, m.session.Keys.Quit,
	}))
	return b.String()
}

func (m BudgetScreen) renderItem(item ListItem, selected bool) string {
	title := "  " + item.Title
	if selected {
		title = selectedStyle.Render("> " + item.Title)
	}
	parts := []string{lipgloss.NewStyle().Width(36).Render(title)}
	for _, a := range item.Accessories {
		switch {
		case a.Icon != "" && selected:
			parts = append(parts, a.Icon+" "+subtleStyle.Render(a.Tooltip))
		case a.Icon != "":
			parts = append(parts, a.Icon)
		case a.Text != "":
			parts = append(parts, tagStyle(a.Color).Render(a.Text))
		}
	}
	return strings.Join(parts, " ")
}

func (m BudgetScreen) renderActions() string {
	var b strings.Builder
	i := 0
	for si, s := range CategoryActions(m.session.Keys, m.showProgress) {
		if si > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.Title))
		for _, a := range s.Actions {
			line := "  " + a.Title
			if i == m.actionCursor {
				line = selectedStyle.Render("> " + a.Title)
			}
			if a.Shortcut != nil {
				line += "  " + subtleStyle.Render(a.Shortcut.Help().Key)
			}
			b.WriteString("\n" + line)
			i++
		}
	}
	return panelStyle.Render(b.String())
}

// window returns at most height lines around focus. A height of zero or less
// means the terminal size is unknown and everything is returned.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := max(focus-height/2, 0)
	end := min(start+height, len(lines))
	start = max(end-height, 0)
	return lines[start:end]
}
