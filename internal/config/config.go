package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Annotation store connection
	AnnostoreURL    string
	AnnostoreAPIKey string

	// Auth
	AnchorAPIKey string

	// Worker pool
	WorkerCount          int
	MaxQueueSize         int
	MaxConcurrentResolve int
	MaxConcurrentStore   int

	// Input limits
	MaxUploadBytes   int64
	MaxDocumentBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		AnnostoreURL:    envOr("ANNOSTORE_URL", "http://localhost:8080"),
		AnnostoreAPIKey: os.Getenv("ANNOSTORE_API_KEY"),

		AnchorAPIKey: os.Getenv("ANCHOR_API_KEY"),

		WorkerCount:          envInt("WORKER_COUNT", 4),
		MaxQueueSize:         envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentResolve: envInt("MAX_CONCURRENT_RESOLVE", 8),
		MaxConcurrentStore:   envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes:   envInt64("MAX_UPLOAD_BYTES", 52428800),   // 50MB
		MaxDocumentBytes: envInt64("MAX_DOCUMENT_BYTES", 10485760), // 10MB of inline HTML

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentResolve <= 0 {
		cfg.MaxConcurrentResolve = 8
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.AnchorAPIKey == "" {
		return fmt.Errorf("ANCHOR_API_KEY is required")
	}
	if c.AnnostoreAPIKey == "" {
		return fmt.Errorf("ANNOSTORE_API_KEY is required")
	}
	return nil
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
