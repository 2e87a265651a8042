package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mandalnilabja/goatlate/internal/app"
	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/provider"
	"github.com/mandalnilabja/goatlate/internal/tokenizer"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler"
	"github.com/mandalnilabja/goatlate/web"
)

func main() {
	logger := setupLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// 1. Configuration
	config.LoadDotEnv()
	if err := config.EnsureConfigFile(); err != nil {
		logger.Warn("could not create default config file", "error", err)
	}
	cfg := config.Load()
	checkConfig(cfg, logger)

	// 2. Upstream provider
	prov, err := provider.New(cfg)
	if err != nil {
		return err
	}

	// 3. Usage ledger
	store, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}

	// 4. Cache
	cache, err := newCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	// 5. Handlers and router
	repo := handler.NewRepo(handler.Deps{
		Config:    cfg,
		Provider:  prov,
		Storage:   store,
		Tokenizer: tokenizer.New(),
		Cache:     cache,
		WebFS:     web.FS,
		Logger:    logger,
	})

	router := app.NewRouter(repo, &app.RouterOptions{
		EnableWebUI:       cfg.EnableWebUI,
		AdminPasswordHash: cfg.AdminPasswordHash,
		AuthCache:         cache,
		Logger:            logger,
	})

	// 6. Serve until interrupted
	printStartupBanner(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := app.NewServer(cfg, router, logger)
	serveErr := srv.Run(ctx)

	// Let pending ledger writes land before closing the database
	repo.Relay.Wait()
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close usage log", "error", err)
		}
	}
	return serveErr
}
