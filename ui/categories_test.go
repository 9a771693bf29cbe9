package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/helpcomp/ynab-tui/money"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySections(t *testing.T) {
	sections := CategorySections(groupsFixture(), nil, false, internalGroupName)
	require.Len(t, sections, 2)

	bills := sections[0]
	assert.Equal(t, "Bills", bills.Title)
	assert.Equal(t, "3 Categories", bills.Subtitle)
	require.Len(t, bills.Items, 2, "hidden categories are skipped")

	rent := bills.Items[0]
	assert.Equal(t, "Rent", rent.Title)
	require.Len(t, rent.Accessories, 2)
	assert.Equal(t, "↻", rent.Accessories[0].Icon)
	assert.Equal(t, "Monthly Funding of $1,200.00", rent.Accessories[0].Tooltip)
	assert.Equal(t, money.Format(1200000, nil), rent.Accessories[1].Text)

	power := bills.Items[1]
	require.Len(t, power.Accessories, 1)
	assert.Equal(t, colorRed, power.Accessories[0].Color)
}

func TestCategorySections_Progress(t *testing.T) {
	sections := CategorySections(groupsFixture(), nil, true, internalGroupName)
	rent := sections[0].Items[0]
	require.Len(t, rent.Accessories, 1, "no goal icon in progress mode")
	assert.Equal(t, "●●●●●○○○○○  45%", rent.Accessories[0].Text)
	assert.Equal(t, "N/A", sections[0].Items[1].Accessories[0].Text)
}

func TestCategorySections_NilGroups(t *testing.T) {
	assert.Empty(t, CategorySections(nil, nil, false, internalGroupName))
}

func TestCategoryActions(t *testing.T) {
	keys := DefaultKeyMap()
	sections := CategoryActions(keys, false)
	require.Len(t, sections, 2)
	assert.Equal(t, "Inspect Budget", sections[0].Title)
	assert.Equal(t, "Show Progress", sections[0].Actions[3].Title)
	assert.Equal(t, "Modify List View", sections[1].Title)
	assert.Equal(t, "Hide Progress", CategoryActions(keys, true)[0].Actions[3].Title)
}

func loadedBudgetScreen(t *testing.T, api *fakeAPI) BudgetScreen {
	t.Helper()
	m := NewBudgetScreen(newTestSession(api))
	out := feed(m, collect(m.Init()))
	return out.(BudgetScreen)
}

func TestBudgetScreen_Loads(t *testing.T) {
	api := &fakeAPI{groups: groupsFixture()}
	api.month.ToBeBudgeted = 42000

	m := loadedBudgetScreen(t, api)
	c, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "rent", c.ID)
	require.NotNil(t, m.month)
	assert.Contains(t, m.View(), "To be budgeted: $42.00")
	assert.NotContains(t, m.View(), "Ready to Assign")
}

func TestBudgetScreen_IgnoresOtherOwners(t *testing.T) {
	m := NewBudgetScreen(newTestSession(&fakeAPI{}))
	out, _ := m.Update(categoryGroupsMsg{owner: m.id + 1000, groups: groupsFixture()})
	assert.Empty(t, out.(BudgetScreen).Sections())
}

func TestBudgetScreen_ToggleProgress(t *testing.T) {
	m := loadedBudgetScreen(t, &fakeAPI{groups: groupsFixture()})
	out, _ := m.Update(keyMsg(tea.KeyCtrlP))
	m = out.(BudgetScreen)
	assert.True(t, m.showProgress)
	assert.Contains(t, m.View(), "●●●●●○○○○○  45%")
}

func TestBudgetScreen_Navigation(t *testing.T) {
	m := loadedBudgetScreen(t, &fakeAPI{groups: groupsFixture()})

	out, _ := m.Update(keyMsg(tea.KeyDown))
	m = out.(BudgetScreen)
	c, _ := m.Selected()
	assert.Equal(t, "power", c.ID)

	_, cmd := m.Update(keyMsg(tea.KeyCtrlE))
	push, ok := find[pushMsg](collect(cmd))
	require.True(t, ok)
	form, ok := push.screen.(CategoryEditForm)
	require.True(t, ok)
	assert.Equal(t, "power", form.category.ID)

	_, cmd = m.Update(keyMsg(tea.KeyCtrlN))
	push, ok = find[pushMsg](collect(cmd))
	require.True(t, ok)
	create := push.screen.(TransactionForm)
	assert.Equal(t, "power", create.Values().CategoryID)
}

func TestBudgetScreen_ActionPanel(t *testing.T) {
	m := loadedBudgetScreen(t, &fakeAPI{groups: groupsFixture()})

	out, _ := m.Update(keyMsg(tea.KeyCtrlK))
	m = out.(BudgetScreen)
	require.True(t, m.HandlesBack())

	// Fourth entry is the progress toggle.
	for i := 0; i < 3; i++ {
		out, _ = m.Update(keyMsg(tea.KeyDown))
		m = out.(BudgetScreen)
	}
	out, _ = m.Update(keyMsg(tea.KeyEnter))
	m = out.(BudgetScreen)
	assert.False(t, m.actionsOpen)
	assert.True(t, m.showProgress)

	out, _ = m.Update(keyMsg(tea.KeyCtrlK))
	m = out.(BudgetScreen)
	out, _ = m.Update(keyMsg(tea.KeyEsc))
	assert.False(t, out.(BudgetScreen).HandlesBack())
}

func TestBudgetScreen_OpenInYNAB(t *testing.T) {
	var opened string
	s := newTestSession(&fakeAPI{groups: groupsFixture()})
	s.OpenURL = func(url string) error {
		opened = url
		return nil
	}
	m := NewBudgetScreen(s)

	_, cmd := m.Update(keyMsg(tea.KeyCtrlO))
	msgs := collect(cmd)
	assert.Equal(t, "https://app.ynab.com/b1/budget", opened)
	res, ok := find[openedMsg](msgs)
	require.True(t, ok)
	assert.NoError(t, res.err)
}

func TestBudgetScreen_OpenLastUsedBudget(t *testing.T) {
	var opened string
	s := newTestSession(&fakeAPI{groups: groupsFixture()})
	s.BudgetID = ynab.LastUsedBudget
	s.OpenURL = func(url string) error {
		opened = url
		return nil
	}

	_, cmd := NewBudgetScreen(s).Update(keyMsg(tea.KeyCtrlO))
	collect(cmd)
	assert.Equal(t, "https://app.ynab.com/", opened)
}

func TestBudgetScreen_OpenWithoutBrowser(t *testing.T) {
	m := NewBudgetScreen(newTestSession(&fakeAPI{}))
	_, cmd := m.Update(keyMsg(tea.KeyCtrlO))
	out := feed(m, collect(cmd)).(BudgetScreen)
	toasts := out.toasts.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Could not open YNAB", toasts[0].Title)
}
