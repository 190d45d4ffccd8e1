package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort int
	HTTPPort int

	ShutdownTimeout time.Duration

	Cart    CartConfig
	Redis   RedisConfig
	Pg      PostgresConfig
	Dynamo  DynamoConfig
	Kafka   KafkaConfig
	Catalog CatalogConfig
}

type CartConfig struct {
	Backend string
	SlotKey string
	DataDir string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
}

type DynamoConfig struct {
	Table  string
	Region string
}

type KafkaConfig struct {
	// Brokers is empty when publishing is disabled.
	Brokers []string
	Topic   string
}

type CatalogConfig struct {
	// Path overrides the built-in catalog when set.
	Path string
}

func Load() Config {
	return Config{
		AppEnv:          getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		GRPCPort:        getEnvInt("GRPC_PORT", 8081),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Cart: CartConfig{
			Backend: strings.ToLower(getEnv("CART_BACKEND", BackendFile)),
			SlotKey: getEnv("CART_SLOT_KEY", "cart"),
			DataDir: getEnv("CART_DATA_DIR", "./data"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Pg: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "shopping"),
			Password: getEnv("POSTGRES_PASSWORD", "shoppingpassword"),
			DB:       getEnv("POSTGRES_DB", "shopping_db"),
		},
		Dynamo: DynamoConfig{
			Table:  getEnv("DYNAMODB_TABLE_NAME", "cart_slots"),
			Region: getEnv("AWS_REGION", "us-east-1"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "cart.events"),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
