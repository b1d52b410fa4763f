package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/materna-health/materna/internal/cli"
	"github.com/materna-health/materna/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("failed to start: %s", err)
	}
	app.Run(ctx)
}
