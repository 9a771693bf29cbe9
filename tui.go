package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/helpcomp/ynab-tui/ui"
	"github.com/rs/zerolog/log"
)

type CategoriesCmd struct{}

type BudgetsCmd struct{}

type TransactionsCmd struct{}

type EditTransactionCmd struct {
	ID string `arg:"" help:"Transaction ID"`
}

func (c *CategoriesCmd) Run(g *Globals) error {
	return g.runTUI(func(_ context.Context, a *app) (tea.Model, error) {
		return ui.NewBudgetScreen(a.session), nil
	})
}

func (c *BudgetsCmd) Run(g *Globals) error {
	return g.runTUI(func(_ context.Context, a *app) (tea.Model, error) {
		return ui.NewBudgetPicker(a.session), nil
	})
}

func (c *TransactionsCmd) Run(g *Globals) error {
	return g.runTUI(func(_ context.Context, a *app) (tea.Model, error) {
		return ui.NewTransactionList(a.session), nil
	})
}

func (c *EditTransactionCmd) Run(g *Globals) error {
	return g.runTUI(func(ctx context.Context, a *app) (tea.Model, error) {
		t, err := a.client.Transaction(ctx, a.session.BudgetID, c.ID)
		if err != nil {
			return nil, fmt.Errorf("load transaction %s: %w", c.ID, err)
		}
		return ui.NewTransactionEditForm(a.session, t), nil
	})
}

// runTUI builds the root screen and runs it until the user quits.
func (g *Globals) runTUI(root func(context.Context, *app) (tea.Model, error)) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := g.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	screen, err := root(ctx, a)
	if err != nil {
		log.Error().Err(err).Msg("Could not open screen")
		return err
	}

	p := tea.NewProgram(ui.NewNavigator(screen, a.session.Keys), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("Terminal UI failed")
		return err
	}
	log.Info().Msg("Exiting")
	return nil
}
