package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultConfirmTimeout      = 60 * time.Second
	defaultConfirmPollInterval = 500 * time.Millisecond
	defaultMaxBodyBytes        = 20 << 20
)

// Config holds the application configuration.
// Vendor credentials are read here but never checked at startup; a missing key
// only surfaces when the corresponding outbound call fails.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Image generation
	ImageProvider    string // "openai" (default) or "gemini"
	OpenAIAPIKey     string
	OpenAIImageModel string
	GeminiAPIKey     string
	GeminiImageModel string

	// Solana
	SolanaRPCURL        string
	ServerKeypair       string // base58 private key; empty generates an ephemeral identity
	ConfirmTimeout      time.Duration
	ConfirmPollInterval time.Duration

	// Blob storage for minted artifacts
	StorageBackend       string // "memory" (default) or "s3"
	StorageBucket        string
	StoragePublicBaseURL string

	// Mint ledger (optional)
	DatabaseURL string

	// HTTP
	SessionSecret      string
	CORSAllowedOrigins []string
	MaxBodyBytes       int64

	// Observability
	SentryDSN         string
	LangfusePublicKey string
	LangfuseSecretKey string
	LangfuseHost      string
	LangfuseEnabled   bool
}

func Load() *Config {
	return &Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		Port:                 getEnv("PORT", "8080"),
		ImageProvider:        getEnv("IMAGE_PROVIDER", "openai"),
		OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
		OpenAIImageModel:     getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiImageModel:     getEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		SolanaRPCURL:         getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
		ServerKeypair:        getEnv("SERVER_KEYPAIR", ""),
		ConfirmTimeout:       getDuration("CONFIRM_TIMEOUT", defaultConfirmTimeout),
		ConfirmPollInterval:  getDuration("CONFIRM_POLL_INTERVAL", defaultConfirmPollInterval),
		StorageBackend:       getEnv("STORAGE_BACKEND", "memory"),
		StorageBucket:        getEnv("STORAGE_BUCKET", ""),
		StoragePublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SessionSecret:        getEnv("SESSION_SECRET", "artisanhub-dev-session-secret"),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxBodyBytes:         getInt64("MAX_BODY_BYTES", defaultMaxBodyBytes),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:    getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:    getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:         getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:      getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LedgerEnabled reports whether mint attempts are persisted
func (c *Config) LedgerEnabled() bool {
	return c.DatabaseURL != ""
}
