package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Бэкенды хранилища.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config — конфигурация сервиса. Источник — переменные окружения с
// префиксом ESTORE_; значения по умолчанию подходят для локального запуска
// без внешних зависимостей.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageBackend string
	PostgresDSN    string

	// RedisAddr пустой — токены хранятся в памяти процесса.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// KafkaBrokers пустой — события не публикуются.
	KafkaBrokers []string

	// IDNodeID — номер узла snowflake-генератора, уникальный среди
	// работающих экземпляров.
	IDNodeID int64

	TokenTTL time.Duration

	LogLevel string
}

// Load читает конфигурацию из окружения.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:       envOr("ESTORE_HTTP_ADDR", ":8080"),
		MetricsAddr:    envOr("ESTORE_METRICS_ADDR", ":9090"),
		StorageBackend: strings.ToLower(envOr("ESTORE_STORAGE", StorageMemory)),
		PostgresDSN:    os.Getenv("ESTORE_POSTGRES_DSN"),
		RedisAddr:      os.Getenv("ESTORE_REDIS_ADDR"),
		RedisPassword:  os.Getenv("ESTORE_REDIS_PASSWORD"),
		LogLevel:       envOr("ESTORE_LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("ESTORE_KAFKA_BROKERS"); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	nodeID, err := envInt64("ESTORE_ID_NODE", 1)
	if err != nil {
		return Config{}, err
	}
	cfg.IDNodeID = nodeID

	redisDB, err := envInt64("ESTORE_REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = int(redisDB)

	ttl, err := envDuration("ESTORE_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.TokenTTL = ttl

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("ESTORE_POSTGRES_DSN is required for postgres storage")
		}
	default:
		return fmt.Errorf("unsupported storage backend %q (use memory|postgres)", c.StorageBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return v, nil
}
