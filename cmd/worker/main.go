package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/orderdesk/orderdesk/internal/messaging"
	"github.com/orderdesk/orderdesk/internal/telemetry"
	"github.com/orderdesk/orderdesk/internal/worker"
)

func main() {
	ctx := context.Background()
	logger := slog.New(telemetry.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "orderdesk-worker", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	_, shutdownMeter, err := telemetry.InitMeterProvider("orderdesk-worker", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	brokers := strings.Split(kafkaBrokers, ",")
	consumer := messaging.NewConsumer(brokers, messaging.TopicOrderPaid, "billing-audit")
	defer func() { _ = consumer.Close() }()

	auditHandler, err := worker.NewAuditHandler(logger)
	if err != nil {
		logger.Error("failed to create audit handler", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting billing audit worker", "brokers", brokers)

	if err := consumer.Consume(ctx, auditHandler.Handle); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
