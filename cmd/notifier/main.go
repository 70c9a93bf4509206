package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dmtzv/ecommerce-api/internal/config"
	kafkax "github.com/dmtzv/ecommerce-api/internal/kafka"
	"github.com/dmtzv/ecommerce-api/internal/notifier"
	"github.com/dmtzv/ecommerce-api/internal/orders"
	"github.com/dmtzv/ecommerce-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), 4)

	// one consumer per order topic, both feeding the same handler
	consCreated := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCreated, workers)
	consStatus := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderStatusChanged, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderCreated, workers)
		return consCreated.Start(gctx, svc.HandleEvent)
	})
	g.Go(func() error {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderStatusChanged, workers)
		return consStatus.Start(gctx, svc.HandleEvent)
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Println("shutting down notifier...")
		cancel()
	case <-gctx.Done():
	}

	if err := g.Wait(); err != nil {
		log.Printf("consumer exit: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
