package main

import (
	"context"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/doctorbook/libs/config"
	"github.com/md-rashed-zaman/doctorbook/libs/httpx"
	otelx "github.com/md-rashed-zaman/doctorbook/libs/otel"
	"github.com/md-rashed-zaman/doctorbook/libs/runtime"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/bookings"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/handlers"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8083")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service, config.String("LOG_LEVEL", "info"))

	fetchTimeout, err := config.Duration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		panic(err)
	}
	ratePerMinute, err := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		panic(err)
	}

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	backend, err := openBackend(ctx, logger)
	if err != nil {
		logger.Error("storage init failed", "err", err)
		panic(err)
	}
	defer backend.close()

	publisher, brokerChecks, closePublisher := openPublisher(logger)
	defer closePublisher()
	checks := append(backend.checks, brokerChecks...)

	store := bookings.NewStore(backend.kv, logger)
	bookingHandler := handlers.NewBookingHandler(newSource(fetchTimeout), store, publisher, logger)

	mux := runtime.NewBaseMuxWithReady(checks...)
	bookingHandler.Register(mux)

	trustProxy := config.Bool("TRUST_PROXY_HEADERS", false)
	var rateLimit httpx.Middleware
	if backend.rdb != nil {
		rateLimit = httpx.NewRedisRateLimiter(backend.rdb, ratePerMinute, time.Minute, service+":ratelimit").
			TrustProxyHeaders(trustProxy).
			Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
	} else {
		rateLimit = httpx.NewRateLimiter(ratePerMinute, time.Minute).TrustProxyHeaders(trustProxy).Middleware()
	}

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
			ExposedHeaders: []string{httpx.RequestIDHeader, "Retry-After"},
			MaxAge:         10 * time.Minute,
		}),
		rateLimit,
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(fetchTimeout+5*time.Second),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := runtime.Serve(ctx, srv, logger, 10*time.Second); err != nil {
		logger.Error("booking service exited", "err", err)
	}
}
