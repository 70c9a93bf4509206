package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmtzv/ecommerce-api/internal/auth"
	"github.com/dmtzv/ecommerce-api/internal/catalog"
	"github.com/dmtzv/ecommerce-api/internal/config"
	"github.com/dmtzv/ecommerce-api/internal/httpx"
	kafkax "github.com/dmtzv/ecommerce-api/internal/kafka"
	"github.com/dmtzv/ecommerce-api/internal/orders"
	"github.com/dmtzv/ecommerce-api/internal/postgres"
	"github.com/dmtzv/ecommerce-api/internal/redisx"
	"github.com/dmtzv/ecommerce-api/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	prodOrder := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prodOrder.Start(ctx)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	prodStatus.Start(ctx)

	// Repos
	userRepo := &users.Repo{DB: db}
	productCache := &catalog.CachedRepo{Repo: &catalog.Repo{DB: db}, Redis: rdb}
	orderRepo := &orders.Repo{DB: db}

	tokens := &auth.Tokens{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.JWTTTL,
		Issuer: cfg.ServiceName,
	}

	router := httpx.NewRouter()
	h := &httpx.Handlers{
		Auth:     &httpx.AuthHandler{Store: userRepo, Tokens: tokens, Debug: cfg.Debug},
		Products: &httpx.ProductsHandler{Store: productCache, Debug: cfg.Debug},
		Orders: &httpx.OrdersHandler{
			Store:          orderRepo,
			ProducerOrder:  prodOrder,
			ProducerStatus: prodStatus,
			Cache:          productCache,
			Service:        cfg.ServiceName,
			Debug:          cfg.Debug,
		},
		Users: &httpx.UsersHandler{Store: userRepo, Debug: cfg.Debug},
		Authn: httpx.Authenticator(tokens, userRepo),
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodOrder.Close()
	prodStatus.Close()
	cancel()
	prodOrder.WaitClosed()
	prodStatus.WaitClosed()
}
