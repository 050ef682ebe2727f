package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/account-api/internal/adapter/notification"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/config"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/mailer"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/messaging"
	"github.com/marcos-nsantos/account-api/internal/infrastructure/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadNotifier()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format, zap.String("service", "notifier"))
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue, err := messaging.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.EmailQueue)
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer func() { _ = queue.Close() }()

	deliveries, err := queue.Consume(cfg.RabbitMQ.Prefetch)
	if err != nil {
		logger.Fatal("failed to start consumer", zap.Error(err))
	}

	sender := mailer.NewMailgun(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, cfg.Mailgun.Sender)
	worker := notification.NewWorker(sender, cfg.App.Name, cfg.RabbitMQ.RetryDelay, logger)

	logger.Info("email worker listening", zap.String("queue", queue.Name()))
	worker.Run(ctx, deliveries)
	logger.Info("email worker stopped")
}
