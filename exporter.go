package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/helpcomp/ynab-tui/config"
	"github.com/helpcomp/ynab-tui/prom"
	"github.com/helpcomp/ynab-tui/storage"
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/prometheus/exporter-toolkit/web"
	"github.com/rs/zerolog/log"
)

type ExporterCmd struct {
	MetricsPath   string `env:"EXPORTER_METRICS_PATH" help:"${env} - Path under which to expose metrics" default:"/metrics"`
	ListenAddress string `env:"EXPORTER_LISTEN_ADDRESS" help:"${env} - Port to listen on for web interface and telemetry" default:"9717"`
}

func (c *ExporterCmd) Run(g *Globals) error {
	if err := g.setupLogging(os.Stderr); err != nil {
		return err
	}
	log.Logger.Info().
		Str("version", version.Info()).
		Msg("Starting " + AppName + " exporter")

	cfg, err := config.InitConfig(g.ConfigPath)
	if err != nil {
		return err
	}

	store, err := storage.Open(g.StorePath)
	if err != nil {
		return err
	}
	client := g.client()
	budgetID, currency, stored, err := g.activeBudget(context.Background(), store)
	if err == nil {
		budgetID, _, err = checkBudget(context.Background(), client, store, budgetID, stored, currency)
	}
	store.Close()
	if err != nil {
		return err
	}

	// Create a channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	// Metric Registration
	prometheus.MustRegister(
		versioncollector.NewCollector("ynab"),
		prom.NewExporter("ynab", client, budgetID, cfg.ExcludedGroup()),
	)

	// HTTP Server
	http.Handle(c.MetricsPath, promhttp.Handler())
	http.Handle("/health", prom.HealthHandler(client))
	if c.MetricsPath != "/" && c.MetricsPath != "" {
		landingConfig := web.LandingConfig{
			Name:        AppName,
			Description: AppDesc,
			Version:     version.Print(AppName),
			Links: []web.LandingLinks{
				{
					Address: c.MetricsPath,
					Text:    "Metrics",
				},
				{
					Address: "/health",
					Text:    "Health",
				},
			},
		}
		landingPage, err := web.NewLandingPage(landingConfig)
		if err != nil {
			return err
		}
		http.Handle("/", landingPage)
	}

	log.Info().Str("budget", budgetID).Msgf("Starting HTTP server on listen address :%s and metric path %s", c.ListenAddress, c.MetricsPath)

	server := &http.Server{
		Addr:         ":" + c.ListenAddress,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error().Err(err).Msg("Error starting HTTP server")
		return err
	case sig := <-sigChan:
		log.Info().Msgf("Received signal %s. Shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("Shutdown Complete; Exiting...")
	return nil
}
