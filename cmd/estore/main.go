package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/estore/internal/app"
	"github.com/vladislavdragonenkov/estore/internal/version"
)

func main() {
	// .env опционален: живые переменные окружения имеют приоритет.
	_ = godotenv.Load()

	cfg, err := app.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	setupLogger(cfg.LogLevel)

	log.WithField("version", version.String()).Info("estore starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("service failed")
	}
}

func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stdout)

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
