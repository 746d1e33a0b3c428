package main

import (
	"fmt"
	"os"

	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/i18n"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/jonathan/portfolio-site/internal/server"
	"github.com/jonathan/portfolio-site/internal/session"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portfolio web server",
		Long:  `Start an HTTP server that renders the portfolio page and exposes the JSON API.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx := cmd.Context()
			logger := observability.NewLogger(os.Stderr, cfg.Log.Format, cfg.Log.Level)

			client, err := newLLMClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			store, closeStore, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			translator, err := i18n.New()
			if err != nil {
				return fmt.Errorf("failed to load translations: %w", err)
			}

			flow := session.NewFlow(store, newAnalyzer(client, cfg, types.LangES), cat,
				session.WithLanguageInferer(types.LangEN, newAnalyzer(client, cfg, types.LangEN)),
				session.WithLogger(logger),
				session.WithObserver(func(tr session.Transition) {
					logger.Debug("session status changed", "session", tr.SessionID, "from", tr.From, "to", tr.To)
				}),
			)

			srv, err := server.New(server.Config{
				Port:            cfg.Server.Port,
				MaxUploadBytes:  cfg.Server.MaxUploadBytes,
				SecureCookie:    cfg.Server.SecureCookie,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				RateLimit:       cfg.RateLimiterConfig(),
			}, flow, cat, translator, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			logger.Info("starting server", "port", cfg.Server.Port, "provider", cfg.LLM.Provider, "store", cfg.Session.Store)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides server.port)")
	return cmd
}
