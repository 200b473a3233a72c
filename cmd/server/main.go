package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdugdh24/party-match-backend/internal/config"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/container"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "party-match: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize dependency injection container
	app, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Error("error closing application", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(app.Server.Start)
	g.Go(func() error {
		return app.Scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return app.Server.Shutdown(context.Background())
	})

	app.Logger.Info("party-match started", "addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), "storage", cfg.Storage.Type)

	if err := g.Wait(); err != nil {
		return err
	}
	app.Logger.Info("party-match stopped")
	return nil
}
