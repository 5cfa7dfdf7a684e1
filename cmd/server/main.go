package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/boxscore/backend/internal/app"
	"github.com/boxscore/backend/internal/config"
	"github.com/boxscore/backend/internal/logger"
)

func main() {
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, lg)
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
