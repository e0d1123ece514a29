package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"moderation/internal/api"
	"moderation/internal/api/handler/v1handler"
	"moderation/internal/auth"
	"moderation/internal/config"
	"moderation/internal/service"
	"moderation/internal/worker"
	"moderation/pkg/audit/httpprobe"
	"moderation/pkg/logger"
	"moderation/pkg/storage/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// buildDeps wires the service layer over the given storage and bundles it for
// the HTTP handlers.
func buildDeps(ctx context.Context, cfg *config.Config, strg *postgres.PgSQL) api.Deps {
	opts := service.NewOptions(cfg)

	deps := api.Deps{Deps: v1handler.Deps{
		Websites:       service.NewWebsites(strg, opts),
		Webpages:       service.NewWebpages(strg, opts),
		Tags:           service.NewTags(strg, opts),
		WebsiteTags:    service.NewWebsiteTags(strg, opts),
		WebsiteReports: service.NewWebsiteReports(strg, opts),
		WebpageReports: service.NewWebpageReports(strg, opts),
		UserReports:    service.NewUserReports(strg, opts),
		ReportMessages: service.NewReportMessages(strg, opts),
		Users:          service.NewUsers(strg, strg, opts),
		Statistics:     service.NewStatistics(strg, opts),
	}}

	// the server can run without a private key; the token endpoint then
	// reports minting as unconfigured
	if cfg.JWT.PrivateKey != "" {
		minter, err := auth.NewMinter([]byte(cfg.JWT.PrivateKey), cfg.JWT.TokenTTL)
		if err != nil {
			logger.Fatal(ctx, "could not create token minter", zap.Error(err))
		}
		deps.Minter = minter
	}

	return deps
}

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...")
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background scan workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			stopWebserver := setupServer(ctx, cfg, buildDeps(ctx, cfg, strg))

			auditor := httpprobe.New(&http.Client{Timeout: cfg.Scan.ProbeTimeout})
			riverClient, err := worker.Start(ctx, strg.Pool, strg, auditor, cfg.Scan.MaxWorkers)
			if err != nil {
				logger.Fatal(ctx, "could not start scan workers", zap.Error(err))
			}

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(ctx, "stopping scan workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(ctx, "could not stop scan workers", zap.Error(err))
			}
		},
	}

	return cmd
}
