package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/idempotency"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/seed"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

func main() {
	cfg, err := config.Load(config.Env("STOREFRONT_CONFIG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{
		Component: cfg.App.Name,
		Level:     cfg.App.LogLevel,
		File:      cfg.App.LogFile,
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fatal error", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	deps := httpapi.Deps{
		Logger:           logger,
		RequestTimeout:   cfg.HTTP.RequestTimeout,
		CORSAllowOrigins: httpapi.SplitOrigins(cfg.HTTP.CORSAllowOrigins),
	}
	seqRepo := sequence.NewMemory()

	// --- storage ---
	if cfg.Database.DSN != "" {
		if cfg.Database.RunMigrations {
			if err := db.RunMigrations(cfg.Database.DSN, logger); err != nil {
				return fmt.Errorf("db migrate: %w", err)
			}
		}
		pool, err := db.NewPool(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()

		sqlDB, err := db.OpenSQL(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer sqlDB.Close()

		deps.Users = user.NewPostgresRepository(pool)
		deps.Catalog = catalog.NewPostgresRepository(pool)
		deps.Orders = order.NewPostgresRepository(pool)
		seqRepo = sequence.NewRepository(sqlDB)
		logger.Info("storage ready", "backend", "postgres")
	} else {
		users := user.NewMemoryRepository()
		products := catalog.NewMemoryRepository()
		if cfg.App.SeedSampleData {
			if err := seed.Load(ctx, users, products); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
		deps.Users = users
		deps.Catalog = products
		deps.Orders = order.NewMemoryRepository()
		logger.Info("storage ready", "backend", "memory", "seeded", cfg.App.SeedSampleData)
	}

	// --- idempotency ---
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		deps.Idempotency = idempotency.NewRedisStore(rdb, cfg.Redis.IdempotencyTTL)
	} else {
		deps.Idempotency = idempotency.NewMemoryStore(cfg.Redis.IdempotencyTTL)
	}

	// --- AMQP ---
	if cfg.RabbitMQ.URL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			return fmt.Errorf("rabbit dial: %w", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, seqRepo, events.PublisherOptions{Exchange: cfg.RabbitMQ.Exchange})
		if err != nil {
			return fmt.Errorf("rabbit publisher: %w", err)
		}
		defer pub.Close()
		deps.Publisher = pub
	} else {
		logger.Warn("rabbitmq.url not set, order events are not published")
		deps.Publisher = events.NoopPublisher{}
	}

	// --- metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.NewServerMetrics(reg)
	deps.Gatherer = reg

	// --- HTTP ---
	httpServer := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(deps)),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.App.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
