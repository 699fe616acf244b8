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
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/joao-fontenele/shopflow/internal/auth"
	"github.com/joao-fontenele/shopflow/internal/cart"
	"github.com/joao-fontenele/shopflow/internal/catalog"
	"github.com/joao-fontenele/shopflow/internal/checkout"
	"github.com/joao-fontenele/shopflow/internal/config"
	"github.com/joao-fontenele/shopflow/internal/customers"
	"github.com/joao-fontenele/shopflow/internal/messaging"
	"github.com/joao-fontenele/shopflow/internal/notify"
	"github.com/joao-fontenele/shopflow/internal/orders"
	"github.com/joao-fontenele/shopflow/internal/payment"
	"github.com/joao-fontenele/shopflow/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.PostgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}
	if cfg.TokenSecret == "" {
		logger.Error("TOKEN_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.PaymentGatewayURL == "" {
		logger.Error("PAYMENT_GATEWAY_URL environment variable is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "api", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("api", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var cartCache cart.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = redisClient.Close() }()
		cartCache = cart.NewRedisCache(redisClient)
	}

	var producer *messaging.Producer
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, messaging.TopicOrderPaid)
		defer func() { _ = producer.Close() }()
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	var notifier checkout.Notifier
	if cfg.EmailServiceURL != "" {
		notifier = notify.NewClient(cfg.EmailServiceURL, httpClient)
	}

	cartRepo := cart.NewRepository(db)
	orderRepo := orders.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	customerRepo := customers.NewRepository(db)
	gateway := payment.NewClient(cfg.PaymentGatewayURL, httpClient)
	tokens := auth.NewTokens(cfg.TokenSecret)

	var publisher checkout.Publisher
	if producer != nil {
		publisher = producer
	}

	checkoutService, err := checkout.NewService(cartRepo, orderRepo, catalogRepo, gateway, notifier, publisher, customerRepo, logger)
	if err != nil {
		logger.Error("failed to create checkout service", "error", err)
		os.Exit(1)
	}

	cartHandler := cart.NewHandler(cartRepo, cartCache, catalogRepo, logger)
	orderHandler := orders.NewHandler(orderRepo, logger)
	catalogHandler := catalog.NewHandler(catalogRepo, logger)
	customerHandler := customers.NewHandler(customerRepo, tokens, logger)
	checkoutHandler := checkout.NewHandler(checkoutService, logger)

	authed := auth.Middleware(tokens)
	route := telemetry.WithHTTPRoute

	mux := http.NewServeMux()
	mux.HandleFunc("POST /customers", route(customerHandler.HandleRegister))
	mux.HandleFunc("POST /customers/login", route(customerHandler.HandleLogin))
	mux.HandleFunc("GET /customers/me", route(authed(customerHandler.HandleProfile)))

	mux.HandleFunc("GET /products", route(catalogHandler.HandleListProducts))
	mux.HandleFunc("GET /products/{id}", route(catalogHandler.HandleGetProduct))
	mux.HandleFunc("GET /shipping/options", route(catalogHandler.HandleListShippingOptions))
	mux.HandleFunc("GET /shipping/options/{id}", route(catalogHandler.HandleGetShippingOption))
	mux.HandleFunc("GET /tax", route(catalogHandler.HandleListTaxOptions))
	mux.HandleFunc("GET /tax/{id}", route(catalogHandler.HandleGetTaxOption))

	mux.HandleFunc("GET /cart/id", route(cartHandler.HandleGenerateID))
	mux.HandleFunc("POST /cart/items", route(cartHandler.HandleAddItem))
	mux.HandleFunc("GET /cart/{cartId}", route(cartHandler.HandleGetCart))
	mux.HandleFunc("PUT /cart/items/{itemId}", route(cartHandler.HandleUpdateItem))
	mux.HandleFunc("DELETE /cart/items/{itemId}", route(cartHandler.HandleRemoveItem))
	mux.HandleFunc("DELETE /cart/{cartId}", route(cartHandler.HandleEmptyCart))

	mux.HandleFunc("POST /orders", route(authed(checkoutHandler.HandleCreateOrder)))
	mux.HandleFunc("GET /orders", route(authed(orderHandler.HandleList)))
	mux.HandleFunc("GET /orders/{id}", route(authed(orderHandler.HandleGet)))
	mux.HandleFunc("POST /payments/charge", route(authed(checkoutHandler.HandleCharge)))

	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, "api",
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
		logger.Info("starting api service", "port", cfg.Port)
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
