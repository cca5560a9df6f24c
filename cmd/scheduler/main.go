package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go-leadscout/internal/config"
	"go-leadscout/internal/logging"
	"go-leadscout/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logging.New("info")
		fallback.Fatal().Err(err).Msg("config load failed")
	}
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.NewRunner(cfg, log).Start(ctx)
}
