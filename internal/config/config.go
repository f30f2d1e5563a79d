// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server and backing stores.
// Empty MySQLDSN selects the in-memory store; empty KafkaBroker selects
// log-only order notifications.
type Config struct {
	HTTPAddr        string
	MySQLDSN        string
	RedisAddr       string
	KafkaBroker     string
	OrderTopic      string
	MaxOpenConns    int
	MaxIdleConns    int
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		MySQLDSN:        getenv("MYSQL_DSN", ""),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		KafkaBroker:     getenv("KAFKA_BROKER", ""),
		OrderTopic:      getenv("ORDER_TOPIC", "orders.fulfilled"),
		MaxOpenConns:    atoienv("MYSQL_MAX_OPEN_CONNS", 50),
		MaxIdleConns:    atoienv("MYSQL_MAX_IDLE_CONNS", 25),
		ShutdownTimeout: time.Duration(atoienv("SHUTDOWN_TIMEOUT", 5)) * time.Second,
	}
}
