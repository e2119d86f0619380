package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/artisanhub/artisanhub-api/internal/services"
	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	service *services.TransferService
}

func NewTransferHandler(service *services.TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

type TransferRequest struct {
	From      string      `json:"from"`
	To        string      `json:"to"`
	Amount    json.Number `json:"amount"` // number or decimal string, in SOL
	Signature string      `json:"signature"`

	// RecentBlockhash is the blockhash the client signed against. Clients
	// must send it: without it the server uses the latest blockhash, which
	// no client signature can cover, and the transfer is rejected with 400.
	RecentBlockhash string `json:"recentBlockhash"`
}

type TransferResponse struct {
	Success  bool   `json:"success"`
	TxID     string `json:"txid"`
	Lamports uint64 `json:"lamports"`
}

// Transfer handles POST /api/transfer
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.service.Transfer(c.Request.Context(), services.TransferInput{
		From:            req.From,
		To:              req.To,
		Amount:          req.Amount.String(),
		Signature:       req.Signature,
		RecentBlockhash: req.RecentBlockhash,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Set("wallet", req.From)

	c.JSON(http.StatusOK, TransferResponse{
		Success:  true,
		TxID:     result.TransactionID,
		Lamports: result.Lamports,
	})
}
