package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/orderdesk/orderdesk/internal/billing"
	"github.com/orderdesk/orderdesk/internal/catalog"
	"github.com/orderdesk/orderdesk/internal/messaging"
	"github.com/orderdesk/orderdesk/internal/orders"
	"github.com/orderdesk/orderdesk/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(telemetry.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "orderdesk", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("orderdesk", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, messaging.TopicOrderPaid)
		defer func() { _ = producer.Close() }()
	}

	var productCache *catalog.ProductCache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		productCache = catalog.NewProductCache(redisAddr, 5*time.Minute)
		defer func() { _ = productCache.Close() }()
	}

	policy, err := orders.ParseTransitionPolicy(os.Getenv("ORDER_TRANSITION_POLICY"))
	if err != nil {
		logger.Error("invalid ORDER_TRANSITION_POLICY", "error", err)
		os.Exit(1)
	}

	productRepo := catalog.NewProductRepository(db)
	orderRepo := orders.NewOrderRepository(db)
	billRepo := billing.NewBillRepository(db)

	assembler := orders.NewAssembler(productRepo, orderRepo)
	transitioner := orders.NewTransitioner(orderRepo, billRepo, publisherOrNil(producer), policy, logger)

	catalogHandler := catalog.NewHandler(productRepo, productCache, logger)
	orderHandler := orders.NewHandler(assembler, transitioner, orderRepo, logger)
	billHandler := billing.NewHandler(billRepo, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(catalogHandler.HandleCreate))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(catalogHandler.HandleList))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(catalogHandler.HandleGet))
	mux.HandleFunc("DELETE /products", telemetry.WithHTTPRoute(catalogHandler.HandleDeleteAll))
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.HandleFunc("DELETE /orders", telemetry.WithHTTPRoute(orderHandler.HandleDeleteAll))
	mux.HandleFunc("PATCH /orders/{id}/status", telemetry.WithHTTPRoute(orderHandler.HandleUpdateStatus))
	mux.HandleFunc("GET /bills", telemetry.WithHTTPRoute(billHandler.HandleList))
	mux.HandleFunc("GET /bills/{id}", telemetry.WithHTTPRoute(billHandler.HandleGet))
	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "orderdesk",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting orderdesk server", "port", port, "transition_policy", policy)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

// publisherOrNil keeps the transitioner's publisher a true nil when no
// producer is configured; a typed nil inside the interface would dodge
// the nil check.
func publisherOrNil(p *messaging.Producer) orders.Publisher {
	if p == nil {
		return nil
	}
	return p
}
