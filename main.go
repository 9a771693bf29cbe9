package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/helpcomp/ynab-tui/config"
	"github.com/helpcomp/ynab-tui/storage"
	"github.com/helpcomp/ynab-tui/suggest"
	"github.com/helpcomp/ynab-tui/ui"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/pkg/browser"
	"github.com/prometheus/common/version"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const AppName = "ynab-tui"
const AppDesc = "Terminal companion for YNAB. Browse budget categories and goal progress, edit and create transactions, and export budget metrics to Prometheus."

type Globals struct {
	YNABToken    string `env:"YNAB_TOKEN" help:"${env} - YNAB personal access token" required:""`
	YNABURL      string `env:"YNAB_API_URL" help:"${env} - YNAB API base URL" default:"https://api.ynab.com/v1"`
	BudgetID     string `env:"YNAB_BUDGET_ID" help:"${env} - Budget to open. Defaults to the stored active budget"`
	ConfigPath   string `env:"CONFIG_PATH" help:"${env} - Path to config file" default:"./config.yml"`
	StorePath    string `env:"STORE_PATH" help:"${env} - Path to the local store" default:"${store_path}"`
	LogFile      string `env:"LOG_FILE" help:"${env} - Log file used while the terminal UI is running" default:"${log_file}"`
	LogLevel     string `env:"LOG_LEVEL" help:"${env} - Log level" default:"info" enum:"trace,debug,info,warn,error"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY" help:"${env} - API Key for OpenAI. If none is provided, category suggestions are disabled"`
	OpenAIModel  string `env:"OPENAI_MODEL" help:"${env} - OpenAI model used for category suggestions. Overrides the config file"`
}

var cli struct {
	Globals

	Categories      CategoriesCmd      `cmd:"" default:"1" help:"Browse the categories of the active budget"`
	Budgets         BudgetsCmd         `cmd:"" help:"Choose the active budget"`
	Transactions    TransactionsCmd    `cmd:"" help:"List recent transactions"`
	EditTransaction EditTransactionCmd `cmd:"" name:"edit-transaction" help:"Edit a single transaction"`
	Exporter        ExporterCmd        `cmd:"" help:"Serve budget metrics for Prometheus"`
}

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	ctx := kong.Parse(&cli,
		kong.Name(AppName),
		kong.Description(AppDesc),
		kong.UsageOnError(),
		kong.Vars{
			"store_path": home + "/.local/share/ynab-tui/store.db",
			"log_file":   home + "/.local/state/ynab-tui/ynab-tui.log",
		},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}

// setupLogging points the global logger at w.
func (g *Globals) setupLogging(w io.Writer) error {
	level, err := zerolog.ParseLevel(g.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(w).With().Caller().Logger()
	return nil
}

// logToFile is used by the terminal UI, which owns stdout and stderr.
func (g *Globals) logToFile() (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(g.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := g.setupLogging(zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.RFC3339}); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (g *Globals) client() *ynab.YNAB {
	return ynab.New(&http.Client{Timeout: time.Second * 30}, g.YNABToken, g.YNABURL)
}

type budgetLister interface {
	Budgets(ctx context.Context) ([]ynab.BudgetSummary, error)
}

type budgetForgetter interface {
	ClearActiveBudget(ctx context.Context) error
}

// checkBudget confirms the budget exists and takes its currency from YNAB. A
// stored budget that was deleted is forgotten and the last used one opens
// instead. An unreachable API leaves everything as it was.
func checkBudget(ctx context.Context, client budgetLister, store budgetForgetter, id string, stored bool, currency *ynab.CurrencyFormat) (string, *ynab.CurrencyFormat, error) {
	if id == ynab.LastUsedBudget {
		return id, currency, nil
	}
	budgets, err := client.Budgets(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not check the active budget")
		return id, currency, nil
	}
	for _, b := range budgets {
		if b.ID != id {
			continue
		}
		if b.CurrencyFormat != nil {
			currency = b.CurrencyFormat
		}
		return id, currency, nil
	}
	if !stored {
		return id, nil, nil
	}
	log.Warn().Str("budget", id).Msg("Stored budget no longer exists, using the last used budget")
	if err := store.ClearActiveBudget(ctx); err != nil {
		return "", nil, err
	}
	return ynab.LastUsedBudget, nil, nil
}

func (g *Globals) suggester(cfg *config.MasterConfig) ui.CategorySuggester {
	if g.OpenAIAPIKey == "" {
		log.Info().Msg("OPENAI_API_KEY not set, category suggestions are disabled")
		return nil
	}
	model := g.OpenAIModel
	if model == "" {
		model = cfg.OpenAI.Model
	}
	return suggest.New(openai.NewClient(g.OpenAIAPIKey), model)
}

// activeBudget resolves the budget to open: the flag, then the store, then
// YNAB's last used budget. stored reports whether the id came from the store.
func (g *Globals) activeBudget(ctx context.Context, store *storage.Store) (id string, currency *ynab.CurrencyFormat, stored bool, err error) {
	if g.BudgetID != "" {
		return g.BudgetID, nil, false, nil
	}
	if id, err = store.ActiveBudgetID(ctx); err != nil {
		return "", nil, false, err
	}
	if id == "" {
		return ynab.LastUsedBudget, nil, false, nil
	}
	if currency, err = store.ActiveBudgetCurrency(ctx); err != nil {
		return "", nil, false, err
	}
	return id, currency, true, nil
}

// app bundles what every terminal UI command needs.
type app struct {
	store   *storage.Store
	session *ui.Session
	client  *ynab.YNAB
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Error().Err(err).Msg("Close failed")
		}
	}
}

func (g *Globals) newApp(ctx context.Context) (*app, error) {
	a := &app{}
	logFile, err := g.logToFile()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, logFile)

	log.Info().Str("version", version.Info()).Msg("Starting " + AppName)

	cfg, err := config.InitConfig(g.ConfigPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	keys := ui.DefaultKeyMap()
	if err := keys.Override(cfg.Shortcuts); err != nil {
		a.Close()
		return nil, fmt.Errorf("config shortcuts: %w", err)
	}
	lookback, _ := cfg.Lookback()

	a.store, err = storage.Open(g.StorePath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, a.store)

	a.client = g.client()
	budgetID, currency, stored, err := g.activeBudget(ctx, a.store)
	if err == nil {
		budgetID, currency, err = checkBudget(ctx, a.client, a.store, budgetID, stored, currency)
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	// The browser launcher would otherwise write over the terminal UI.
	browser.Stdout, browser.Stderr = io.Discard, io.Discard

	a.session = &ui.Session{
		Ctx:           ctx,
		API:           a.client,
		Prefs:         a.store,
		Suggester:     g.suggester(cfg),
		OpenURL:       browser.OpenURL,
		BudgetID:      budgetID,
		Currency:      currency,
		Keys:          keys,
		ExcludedGroup: cfg.ExcludedGroup(),
		Lookback:      lookback,
	}
	return a, nil
}
