package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.OrderTopic != "orders.fulfilled" {
		t.Errorf("expected default topic orders.fulfilled, got %s", cfg.OrderTopic)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected default shutdown timeout 5s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_BROKER", "localhost:9092")
	t.Setenv("MYSQL_MAX_OPEN_CONNS", "7")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-number")

	cfg := Load()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTPAddr)
	}
	if cfg.KafkaBroker != "localhost:9092" {
		t.Errorf("expected broker override, got %s", cfg.KafkaBroker)
	}
	if cfg.MaxOpenConns != 7 {
		t.Errorf("expected 7 open conns, got %d", cfg.MaxOpenConns)
	}
	// malformed values fall back to defaults
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected default shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}
