package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db       *gorm.DB
	identity solana.PublicKey
	storage  string
}

// NewHealthHandler creates a health handler; db may be nil when the ledger is disabled
func NewHealthHandler(db *gorm.DB, identity solana.PublicKey, storageBackend string) *HealthHandler {
	return &HealthHandler{db: db, identity: identity, storage: storageBackend}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	database := "disabled"

	if h.db != nil {
		database = "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			database = "unreachable"
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": database,
		"storage":  h.storage,
		"identity": h.identity.String(),
	})
}
