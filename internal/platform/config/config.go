package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "chronicle/pkg/platform/strings"
)

// Config captures process-level configuration for the archival engine.
type Config struct {
	// PostgresDSN points at the database holding the audit log, retention
	// policies and archives. Required.
	PostgresDSN string

	// RedisURL enables the read-path record cache when set.
	RedisURL       string
	RecordCacheTTL time.Duration

	// KafkaSeeds enables lifecycle notices for the compliance-report
	// generator when set.
	KafkaSeeds []string
	KafkaTopic string

	// Archival settings
	SerializationFormat  string
	CompressionAlgorithm string
	CompressionLevel     int
	VerifyIntegrity      bool
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		PostgresDSN:          os.Getenv("CHRONICLE_POSTGRES_DSN"),
		RedisURL:             os.Getenv("CHRONICLE_REDIS_URL"),
		RecordCacheTTL:       15 * time.Minute,
		KafkaTopic:           envDefault("CHRONICLE_KAFKA_TOPIC", "chronicle.lifecycle"),
		SerializationFormat:  envDefault("CHRONICLE_FORMAT", "json"),
		CompressionAlgorithm: envDefault("CHRONICLE_COMPRESSION", "gzip"),
		VerifyIntegrity:      envDefault("CHRONICLE_VERIFY_INTEGRITY", "true") == "true",
	}

	if seeds := os.Getenv("CHRONICLE_KAFKA_SEEDS"); seeds != "" {
		cfg.KafkaSeeds = platformstrings.DedupeAndTrim(strings.Split(seeds, ","))
	}
	if level, err := strconv.Atoi(os.Getenv("CHRONICLE_COMPRESSION_LEVEL")); err == nil {
		cfg.CompressionLevel = level
	}
	if ttl, err := time.ParseDuration(os.Getenv("CHRONICLE_CACHE_TTL")); err == nil {
		cfg.RecordCacheTTL = ttl
	}
	return cfg
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
