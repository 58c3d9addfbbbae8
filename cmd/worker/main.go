package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/aviasales/config"
	"github.com/Domenick1991/aviasales/internal/email"
	"github.com/Domenick1991/aviasales/internal/journal"
	"github.com/Domenick1991/aviasales/internal/kafka"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/internal/worker"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLog, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	workerLog := zapLog.With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, workerLog)
	stop()
	if err != nil {
		workerLog.Error("worker stopped", "error", err)
		_ = zapLog.Sync()
		os.Exit(1)
	}
	workerLog.Info("worker stopped")
	_ = zapLog.Sync()
}

// run consumes booking events until ctx is done or a message cannot be handled.
func run(ctx context.Context, cfg *config.Config, workerLog logger.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	mongoClient, err := journal.NewMongoClient(ctx, cfg.Mongo.URI)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			workerLog.Warn("mongo disconnect failed", "error", err)
		}
	}()

	eventJournal, err := journal.NewMongoJournal(ctx, mongoClient.Database(cfg.Mongo.Database), cfg.Mongo.Collection)
	if err != nil {
		return fmt.Errorf("prepare journal: %w", err)
	}

	handler := worker.NewEventHandler(
		eventJournal,
		repository.NewPassengerRepository(pool),
		email.NewSender(workerLog),
		workerLog,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, workerLog)
	defer consumer.Close()

	workerLog.Info("consuming booking events", "topic", cfg.Kafka.BookingEventsTopic, "group", cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, handler.Handle); err != nil {
		return fmt.Errorf("consume %s: %w", cfg.Kafka.BookingEventsTopic, err)
	}
	return nil
}
