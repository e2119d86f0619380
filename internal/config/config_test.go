package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IMAGE_PROVIDER", "")
	t.Setenv("CONFIRM_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	assert.Equal(t, "openai", cfg.ImageProvider)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.SolanaRPCURL)
	assert.Equal(t, 60*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.LedgerEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CONFIRM_TIMEOUT", "15s")
	t.Setenv("CONFIRM_POLL_INTERVAL", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("DATABASE_URL", "postgres://localhost/artisanhub")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ConfirmPollInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.True(t, cfg.LedgerEnabled())
}
