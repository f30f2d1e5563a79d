package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/bookshop/internal/adapter/event"
	"github.com/rl1809/bookshop/internal/adapter/handler"
	"github.com/rl1809/bookshop/internal/adapter/storage"
	"github.com/rl1809/bookshop/internal/config"
	"github.com/rl1809/bookshop/internal/core/domain"
	"github.com/rl1809/bookshop/internal/core/service"
	"github.com/rl1809/bookshop/internal/port"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Inventory store: MySQL when configured, in-memory otherwise.
	var repo port.InventoryRepository
	var db *sqlx.DB
	if cfg.MySQLDSN != "" {
		db, err = sqlx.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to open mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		logger.Info("connected to mysql")
		repo = storage.NewMySQLAdapter(db)
	} else {
		mem := storage.NewMemoryAdapter()
		seedCatalog(mem)
		repo = mem
		logger.Info("using in-memory inventory store")
	}

	// Idempotency cache, optional.
	var cache port.CacheRepository
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		logger.Info("connected to redis")
		cache = storage.NewRedisAdapter(rdb)
	}

	// Order notifications: Kafka when configured, log-only otherwise.
	var publisher port.EventPublisher
	if cfg.KafkaBroker != "" {
		publisher = event.NewKafkaPublisher(cfg.KafkaBroker, cfg.OrderTopic)
		logger.Info("publishing order events to kafka",
			zap.String("broker", cfg.KafkaBroker),
			zap.String("topic", cfg.OrderTopic))
	} else {
		publisher = event.NewLogPublisher(logger)
	}

	orderService := service.NewOrderService(repo, cache, publisher, logger)
	catalogService := service.NewCatalogService(repo)

	httpHandler := handler.NewHTTPHandler(orderService, catalogService)
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	if err := publisher.Close(); err != nil {
		logger.Error("failed to close publisher", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("connections closed")
}

// seedCatalog loads a small demo catalog into the in-memory store.
func seedCatalog(mem *storage.MemoryAdapter) {
	authors := []domain.Author{
		{ID: 101, Name: "Emily Brontë"},
		{ID: 107, Name: "Charlotte Brontë"},
		{ID: 150, Name: "Edgar Allen Poe"},
		{ID: 170, Name: "Richard Carpenter"},
	}
	for _, a := range authors {
		mem.PutAuthor(a)
	}

	now := time.Now()
	books := []domain.Book{
		{ID: 201, Title: "Wuthering Heights", AuthorID: 101, Price: decimal.NewFromFloat(11.11), Stock: 12, CreatedAt: now, UpdatedAt: now},
		{ID: 207, Title: "Jane Eyre", AuthorID: 107, Price: decimal.NewFromFloat(12.34), Stock: 11, CreatedAt: now, UpdatedAt: now},
		{ID: 251, Title: "The Raven", AuthorID: 150, Price: decimal.NewFromFloat(13.13), Stock: 333, CreatedAt: now, UpdatedAt: now},
		{ID: 252, Title: "Eleonora", AuthorID: 150, Price: decimal.NewFromFloat(14), Stock: 555, CreatedAt: now, UpdatedAt: now},
		{ID: 271, Title: "Catweazle", AuthorID: 170, Price: decimal.NewFromFloat(150), Stock: 22, CreatedAt: now, UpdatedAt: now},
	}
	for _, b := range books {
		mem.PutBook(b)
	}
}
