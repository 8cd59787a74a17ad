package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger/internal/cache"
	"ledger/internal/config"
	"ledger/internal/db"
	"ledger/internal/event"
	"ledger/internal/handlers"
	"ledger/internal/idempotency"
	"ledger/internal/lock"
	"ledger/internal/ratelimit"
	"ledger/internal/services"
	"ledger/internal/store"
	"ledger/internal/websocket"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid redis url: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}

	accounts := store.NewAccountStore(database)
	balances := store.NewBalanceStore(database)
	transfers := store.NewTransferStore(database)
	txRunner := db.NewTxRunner(database)

	readCache := cache.NewRedis(redisClient)
	hub := websocket.NewHub()
	dispatcher := event.NewDispatcher()
	dispatcher.Subscribe(event.LogCompleted)
	dispatcher.Subscribe(func(evt event.TransferCompleted) {
		ctx := context.Background()
		if err := readCache.Invalidate(ctx, "balance_"+evt.FromAccountID); err != nil {
			log.Printf("failed to invalidate balance cache for %s: %v", evt.FromAccountID, err)
		}
		if err := readCache.Invalidate(ctx, "balance_"+evt.ToAccountID); err != nil {
			log.Printf("failed to invalidate balance cache for %s: %v", evt.ToAccountID, err)
		}
	})
	dispatcher.Subscribe(func(evt event.TransferCompleted) {
		amount := evt.Amount.StringFixed(2)
		hub.BroadcastTransfer(evt.FromAccountID, websocket.TransferUpdate{
			TransferID: evt.TransferID,
			AccountID:  evt.FromAccountID,
			Direction:  "out",
			Amount:     amount,
			Currency:   evt.Currency,
		})
		hub.BroadcastTransfer(evt.ToAccountID, websocket.TransferUpdate{
			TransferID: evt.TransferID,
			AccountID:  evt.ToAccountID,
			Direction:  "in",
			Amount:     amount,
			Currency:   evt.Currency,
		})
	})

	service := services.NewTransferService(
		txRunner,
		accounts,
		balances,
		transfers,
		idempotency.NewRedis(redisClient),
		lock.NewRedis(redisClient),
		dispatcher,
		cfg.LockTTL,
		cfg.IdempotencyTTL,
	)

	handler := handlers.New(
		cfg,
		txRunner,
		accounts,
		balances,
		transfers,
		service,
		readCache,
		ratelimit.NewRedis(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow),
		hub,
	)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("ledger API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
