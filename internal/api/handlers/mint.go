package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/artisanhub/artisanhub-api/internal/apperrors"
	"github.com/artisanhub/artisanhub-api/internal/chain"
	"github.com/artisanhub/artisanhub-api/internal/models"
	"github.com/artisanhub/artisanhub-api/internal/services"
	"github.com/gin-gonic/gin"
)

const maxMintsPageSize = 100

type MintHandler struct {
	service *services.MintService
	ledger  services.MintLedger
}

func NewMintHandler(service *services.MintService, ledger services.MintLedger) *MintHandler {
	if ledger == nil {
		ledger = services.NoopMintLedger{}
	}
	return &MintHandler{service: service, ledger: ledger}
}

type MintRequest struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublicKey   string `json:"publicKey"`
	Signature   string `json:"signature"`
	Message     string `json:"message"`

	SkipSignatureVerification bool `json:"skipSignatureVerification"`
}

type MintResponse struct {
	Success     bool   `json:"success"`
	NFTAddress  string `json:"nftAddress"`
	MetadataURI string `json:"metadataUri"`
	ImageURI    string `json:"imageUri"`
	Signature   string `json:"signature,omitempty"`
}

// Mint handles POST /api/mint-nft
func (h *MintHandler) Mint(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.service.Mint(c.Request.Context(), services.MintInput{
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		PublicKey:   req.PublicKey,
		Signature:   req.Signature,
		Message:     req.Message,

		SkipSignatureVerification: req.SkipSignatureVerification,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Set("wallet", req.PublicKey)

	c.JSON(http.StatusOK, MintResponse{
		Success:     true,
		NFTAddress:  result.AssetAddress,
		MetadataURI: result.MetadataURI,
		ImageURI:    result.ImageURI,
		Signature:   result.Signature,
	})
}

type MintListResponse struct {
	Mints []models.MintRecord `json:"mints"`
}

// List handles GET /api/mints?creator=<public key>
func (h *MintHandler) List(c *gin.Context) {
	creator := c.Query("creator")
	if creator == "" {
		respondError(c, apperrors.MissingFields("creator is required"))
		return
	}
	if _, err := chain.ParsePublicKey(creator); err != nil {
		respondError(c, apperrors.InvalidPublicKey("Invalid public key", err))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, apperrors.InvalidRequest("limit must be a positive integer"))
			return
		}
		limit = min(n, maxMintsPageSize)
	}

	records, err := h.ledger.ListByCreator(c.Request.Context(), creator, limit)
	if errors.Is(err, services.ErrLedgerDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Mint history is not available", "details": err.Error()})
		return
	}
	if err != nil {
		respondError(c, apperrors.Upstream("Failed to list mints", err))
		return
	}
	c.JSON(http.StatusOK, MintListResponse{Mints: records})
}
