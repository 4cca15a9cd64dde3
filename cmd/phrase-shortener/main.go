package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vadimbarashkov/phrase-shortener/internal/app"
	"github.com/vadimbarashkov/phrase-shortener/internal/config"
	"github.com/vadimbarashkov/phrase-shortener/pkg/logger"
)

const defaultConfigPath = "./configs/config.yml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional outside local development.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	l, closer, err := logger.New("phrase-shortener", logger.Options{
		JSON:       cfg.Env == config.EnvProd,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := app.Run(ctx, cfg, l); err != nil {
		l.Error("application stopped with error", "err", err)
		return err
	}

	l.Info("application stopped")

	return nil
}
