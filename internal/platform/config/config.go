package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Device describes one kiosk this daemon controls. ReaderPath is the
// character device of its tag reader; empty means stdin (keyboard wedge).
type Device struct {
	ID         string
	Type       string
	ReaderPath string
}

// RedisConfig tunes the session-store client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig points the attendance-ledger publisher at its brokers.
type KafkaConfig struct {
	SeedBrokers []string
	Topic       string
}

// Config captures everything kioskd reads from the environment.
type Config struct {
	OpsAddr     string
	Devices     []Device
	PostgresDSN string
	Redis       RedisConfig
	Kafka       KafkaConfig
	// Action is what a successful scan records for this deployment run,
	// "check_in" or "check_out".
	Action      string
	ConfirmTTL  time.Duration
	PinLength   int
	AuditBuffer int
}

// FromEnv builds the daemon config from KIOSKGATE_* environment variables
// with development defaults so main stays lean. KIOSKGATE_DEVICES is a
// comma-separated list of id:type[:readerpath] entries, e.g.
// "bus-14:bus:/dev/ttyUSB0,gate-1:gate".
func FromEnv() Config {
	cfg := Config{
		OpsAddr:     envOr("KIOSKGATE_OPS_ADDR", ":9090"),
		PostgresDSN: os.Getenv("KIOSKGATE_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("KIOSKGATE_REDIS_URL"),
			PoolSize:     envInt("KIOSKGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("KIOSKGATE_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("KIOSKGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("KIOSKGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("KIOSKGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			SeedBrokers: splitList(os.Getenv("KIOSKGATE_KAFKA_BROKERS")),
			Topic:       envOr("KIOSKGATE_KAFKA_TOPIC", "kioskgate.attendance.events"),
		},
		Action:      envOr("KIOSKGATE_ACTION", "check_in"),
		ConfirmTTL:  envDuration("KIOSKGATE_CONFIRM_TTL", 30*time.Second),
		PinLength:   envInt("KIOSKGATE_PIN_LENGTH", 4),
		AuditBuffer: envInt("KIOSKGATE_AUDIT_BUFFER", 256),
	}

	cfg.Devices = parseDevices(envOr("KIOSKGATE_DEVICES", "bus-1:bus"))
	return cfg
}

func parseDevices(raw string) []Device {
	var out []Device
	for _, entry := range splitList(raw) {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 || parts[0] == "" {
			continue
		}
		dev := Device{ID: parts[0], Type: parts[1]}
		if len(parts) == 3 {
			dev.ReaderPath = parts[2]
		}
		out = append(out, dev)
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
