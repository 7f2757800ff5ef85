package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airtrack/config"
	"github.com/Domenick1991/airtrack/internal/email"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/logger"
	"github.com/Domenick1991/airtrack/internal/sms"
	"github.com/Domenick1991/airtrack/internal/worker"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(cfg.Log).With(slog.String("component", "worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.SMS.Enabled() {
		log.Warn("sms provider credentials are empty, delay messages will be dropped")
	}

	mailer, err := email.NewSender(cfg.Email, log)
	if err != nil {
		log.Error("init email sender", slog.Any("error", err))
		os.Exit(1)
	}
	dispatcher := worker.NewDispatcher(mailer, sms.NewTwilioSender(cfg.SMS), log)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	log.Info("consuming notifications", slog.String("topic", cfg.Kafka.NotificationsTopic))
	if err := consumer.Consume(ctx, dispatcher.Handle); err != nil {
		log.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("worker stopped")
}
