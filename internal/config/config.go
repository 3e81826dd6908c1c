package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the service configuration resolved from the environment.
type Config struct {
	Port         string
	DBDSN        string
	AMQPURL      string
	AMQPExchange string
	Environment  string
	OTLPEndpoint string

	ShareTTL       time.Duration
	ShareSingleUse bool
	ShareRetention time.Duration
	SweepInterval  time.Duration

	DebugRoutes bool
}

// Load reads configuration from the environment, picking up a local .env
// file when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBDSN:          getEnv("DB_DSN", ""),
		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "whisper.audit"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ShareTTL:       getDuration("SHARE_TTL", 7*24*time.Hour),
		ShareSingleUse: getBool("SHARE_SINGLE_USE", false),
		ShareRetention: getDuration("SHARE_RETENTION", 30*24*time.Hour),
		SweepInterval:  getDuration("SWEEP_INTERVAL", time.Hour),
		DebugRoutes:    getBool("DEBUG_ROUTES", false),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("invalid bool for %s: %q, using default", key, val)
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default", key, val)
		return fallback
	}
	return parsed
}
