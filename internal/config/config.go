package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables request authentication.
	ServiceAPIKey string

	// Anthropic models, picked by query complexity.
	AnthropicAPIKey string
	ModelSimple     string
	ModelModerate   string
	ModelComplex    string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// MaxToolRounds bounds the agent's tool-use loop per query.
	MaxToolRounds int

	// Output artifacts
	OutputDir string
	// NodeDir is where the pptx helper script runs; pptxgenjs must be
	// installed there.
	NodeDir string
	Author  string

	// External lookups
	SearchCacheTTL time.Duration
	WikiCacheTTL   time.Duration

	// Job state
	JobTTL      time.Duration
	PPTXTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ServiceAPIKey: os.Getenv("RESEARCHD_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ModelSimple:     envOr("MODEL_SIMPLE", "claude-3-5-haiku-20241022"),
		ModelModerate:   envOr("MODEL_MODERATE", "claude-sonnet-4-20250514"),
		ModelComplex:    envOr("MODEL_COMPLEX", "claude-sonnet-4-20250514"),

		WorkerCount:   envInt("WORKER_COUNT", 2),
		MaxQueueSize:  envInt("MAX_QUEUE_SIZE", 50),
		MaxToolRounds: envInt("MAX_TOOL_ROUNDS", 10),

		OutputDir: envOr("OUTPUT_DIR", "output"),
		NodeDir:   envOr("NODE_DIR", "."),
		Author:    envOr("REPORT_AUTHOR", "Research Service"),

		SearchCacheTTL: envDuration("SEARCH_CACHE_TTL", 15*time.Minute),
		WikiCacheTTL:   envDuration("WIKI_CACHE_TTL", 1*time.Hour),

		JobTTL:      envDuration("JOB_TTL", 2*time.Hour),
		PPTXTimeout: envDuration("PPTX_TIMEOUT", 2*time.Minute),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 10
	}
	if cfg.SearchCacheTTL <= 0 {
		cfg.SearchCacheTTL = 15 * time.Minute
	}
	if cfg.WikiCacheTTL <= 0 {
		cfg.WikiCacheTTL = 1 * time.Hour
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 2 * time.Hour
	}
	if cfg.PPTXTimeout <= 0 {
		cfg.PPTXTimeout = 2 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
