package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/bookstore-orders/internal/auth"
	"github.com/ariefcatur/bookstore-orders/internal/config"
	"github.com/ariefcatur/bookstore-orders/internal/httpx"
	kafkax "github.com/ariefcatur/bookstore-orders/internal/kafka"
	"github.com/ariefcatur/bookstore-orders/internal/orders"
	"github.com/ariefcatur/bookstore-orders/internal/redisx"
	"github.com/ariefcatur/bookstore-orders/internal/storage"
	"github.com/ariefcatur/bookstore-orders/internal/telemetry"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := telemetry.InitLogger(os.Stdout, cfg.LogLevel, cfg.ServiceName)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	startCtx, startCancel := context.WithTimeout(ctx, 15*time.Second)
	backend, err := storage.Open(startCtx, cfg, log)
	startCancel()
	if err != nil {
		log.Error("store connect", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	svc := &orders.Service{
		Store:             backend.Orders,
		Owners:            backend.Owners,
		History:           backend.History,
		Pricing:           &orders.Pricing{TaxRate: cfg.TaxRate, Tolerance: cfg.TotalsTolerance},
		OpenStatusUpdates: !cfg.StatusUpdateRequiresAdmin,
		Log:               log,
	}

	// Redis: snapshot cache + idempotency claims
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			log.Warn("redis unreachable, continuing; cache calls will fail open", "addr", cfg.RedisAddr, "error", err)
		}
		svc.Cache = &redisx.OrderCache{RDB: rdb}
	} else {
		log.Info("REDIS_ADDR empty, order cache and idempotency disabled")
	}

	// Kafka producer
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, cfg.EventsTopic, 1024)
		prod.Start(ctx)
		svc.Events = &kafkax.OrderPublisher{Producer: prod, Service: cfg.ServiceName}
	} else {
		log.Info("KAFKA_BROKERS empty, order events disabled")
	}

	router := httpx.NewRouter(log)
	oh := &httpx.OrdersHandler{
		Service: svc,
		Auth:    auth.NewVerifier(cfg.JWTSecret),
		Log:     log,
	}
	oh.Register(router)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
}
