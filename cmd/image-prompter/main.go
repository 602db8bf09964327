package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-prompter/internal/api/handlers/imagefetch"
	"github.com/aliskhannn/image-prompter/internal/api/handlers/prompt"
	"github.com/aliskhannn/image-prompter/internal/api/router"
	"github.com/aliskhannn/image-prompter/internal/api/server"
	"github.com/aliskhannn/image-prompter/internal/coze"
	"github.com/aliskhannn/image-prompter/internal/config"
	"github.com/aliskhannn/image-prompter/internal/fetcher"
	promptsvc "github.com/aliskhannn/image-prompter/internal/service/prompt"
)

func main() {
	// Context & signals: used for graceful shutdown on system interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfg := config.MustLoad("./config/config.yml")

	// Retry strategy for the asset-upload call.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	// Workflow client, remote image proxy, and the orchestrating service.
	cozeClient := coze.NewClient(cfg.Coze, strategy)
	imageFetcher := fetcher.New(cfg.Fetch.Timeout)
	service := promptsvc.NewService(cozeClient)

	// HTTP handlers for prompt and image-proxy routes.
	promptHandler := prompt.NewHandler(service)
	fetchHandler := imagefetch.NewHandler(imageFetcher)

	// Start HTTP server in a separate goroutine.
	r := router.Setup(promptHandler, fetchHandler)
	s := server.New(":"+cfg.Server.HTTPPort, r)
	go func() {
		zlog.Logger.Info().Str("port", cfg.Server.HTTPPort).Msg("starting server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Block until context is canceled (SIGINT/SIGTERM).
	<-ctx.Done()

	// Graceful shutdown with timeout for HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}
}
