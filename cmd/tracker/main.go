package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/bookstore-orders/internal/config"
	kafkax "github.com/ariefcatur/bookstore-orders/internal/kafka"
	"github.com/ariefcatur/bookstore-orders/internal/redisx"
	"github.com/ariefcatur/bookstore-orders/internal/storage"
	"github.com/ariefcatur/bookstore-orders/internal/telemetry"
	"github.com/ariefcatur/bookstore-orders/internal/tracking"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "order-tracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	flagSet := pflag.NewFlagSet("order-tracker", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.TrackerGroup, "group", cfg.TrackerGroup, "kafka consumer group (env TRACKER_GROUP)")
	flagSet.IntVar(&cfg.TrackerWorkers, "workers", cfg.TrackerWorkers, "concurrent handlers (env TRACKER_WORKERS)")
	flagSet.StringVar(&cfg.EventsTopic, "topic", cfg.EventsTopic, "order events topic (env ORDER_EVENTS_TOPIC)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.ValidateTracker(); err != nil {
		return err
	}

	service := cfg.ServiceName + "-tracker"
	log := telemetry.InitLogger(os.Stdout, cfg.LogLevel, service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 15*time.Second)
	backend, err := storage.Open(startCtx, cfg, log)
	startCancel()
	if err != nil {
		return fmt.Errorf("store connect: %w", err)
	}
	defer backend.Close()

	svc := &tracking.Service{
		History:     backend.History,
		ServiceName: service,
		Log:         log,
	}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			return err
		}
		svc.Redis = rdb
	} else {
		log.Info("REDIS_ADDR empty, relying on the history store to drop redeliveries")
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.TrackerGroup, cfg.EventsTopic, cfg.TrackerWorkers)
	done := make(chan error, 1)
	go func() {
		log.Info("tracker consuming", "group", cfg.TrackerGroup, "topic", cfg.EventsTopic, "workers", cfg.TrackerWorkers)
		done <- cons.Start(ctx, svc.HandleOrderEvent)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer")
		cancel()
		return <-done
	case err := <-done:
		if err != nil {
			return fmt.Errorf("consumer exit: %w", err)
		}
		return nil
	}
}
