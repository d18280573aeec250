package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/estore/internal/auth"
	"github.com/vladislavdragonenkov/estore/internal/domain"
	"github.com/vladislavdragonenkov/estore/internal/health"
	"github.com/vladislavdragonenkov/estore/internal/idgen"
	"github.com/vladislavdragonenkov/estore/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/estore/internal/metrics"
	customersvc "github.com/vladislavdragonenkov/estore/internal/service/customer"
	ordersvc "github.com/vladislavdragonenkov/estore/internal/service/order"
	productsvc "github.com/vladislavdragonenkov/estore/internal/service/product"
	"github.com/vladislavdragonenkov/estore/internal/storage/memory"
	"github.com/vladislavdragonenkov/estore/internal/storage/postgres"
	"github.com/vladislavdragonenkov/estore/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/estore/internal/version"
)

const shutdownTimeout = 10 * time.Second

// repositories — набор репозиториев одного бэкенда хранилища.
type repositories struct {
	store     domain.Store
	orders    domain.OrderItemRepository
	customers domain.CustomerRepository
	products  domain.ProductRepository
}

// Run собирает сервис по конфигурации и работает до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	logger.WithFields(log.Fields{
		"storage": cfg.StorageBackend,
		"version": version.String(),
	}).Info("starting estore")

	healthHandler := health.NewHandler(version.String())

	repos, cleanup, err := buildStorage(ctx, cfg, healthHandler)
	if err != nil {
		return err
	}
	defer cleanup()

	ids, err := idgen.NewSnowflake(cfg.IDNodeID)
	if err != nil {
		return fmt.Errorf("init id allocator: %w", err)
	}

	orderService := ordersvc.New(
		repos.store, repos.orders, repos.customers, repos.products,
		ids, metrics.NewOrderMetrics(),
	)
	customerService := customersvc.New(repos.store, repos.customers, ids)
	productService := productsvc.New(repos.store, repos.products, ids)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return fmt.Errorf("init kafka producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.WithError(err).Error("close kafka producer")
			}
		}()
		orderService.SetEventPublisher(producer)
		logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer enabled")
	}

	tokenStore, err := buildTokenStore(ctx, cfg, healthHandler)
	if err != nil {
		return err
	}
	authService := auth.New(tokenStore, cfg.TokenTTL)

	api := httpapi.New(orderService, customerService, productService, authService)

	apiServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	opsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           opsMux(healthHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http api listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http api server: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", cfg.MetricsAddr).Info("metrics server listening")
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http api shutdown")
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("metrics server shutdown")
	}

	logger.Info("estore stopped")
	return nil
}

func buildStorage(ctx context.Context, cfg Config, healthHandler *health.Handler) (repositories, func(), error) {
	switch cfg.StorageBackend {
	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return repositories{}, nil, fmt.Errorf("ensure schema: %w", err)
		}
		healthHandler.Register("postgres", store.Ping)
		return repositories{
			store:     store,
			orders:    postgres.NewOrderItemRepository(store),
			customers: postgres.NewCustomerRepository(store),
			products:  postgres.NewProductRepository(store),
		}, func() { _ = store.Close() }, nil
	default:
		store := memory.NewStore()
		return repositories{
			store:     store,
			orders:    memory.NewOrderItemRepository(store),
			customers: memory.NewCustomerRepository(store),
			products:  memory.NewProductRepository(store),
		}, func() {}, nil
	}
}

func buildTokenStore(ctx context.Context, cfg Config, healthHandler *health.Handler) (auth.TokenStore, error) {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryTokenStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	healthHandler.Register("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	return auth.NewRedisTokenStore(client), nil
}

func opsMux(healthHandler *health.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/health", healthHandler)
	mux.HandleFunc("/live", health.Liveness)
	mux.HandleFunc("/ready", healthHandler.Readiness)
	return mux
}
