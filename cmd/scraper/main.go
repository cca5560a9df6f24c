package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-leadscout/internal/config"
	"go-leadscout/internal/logging"
	"go-leadscout/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	timeout := flag.Duration("timeout", 30*time.Minute, "hard cap on run duration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logging.New("info")
		fallback.Fatal().Err(err).Msg("config load failed")
	}
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	summary, err := pipeline.RunOnce(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Str("run_id", summary.RunID).Msg("run failed")
		os.Exit(1)
	}
}
