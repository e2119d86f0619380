package handlers

import (
	"net/http"

	"github.com/artisanhub/artisanhub-api/internal/apperrors"
	"github.com/artisanhub/artisanhub-api/internal/storage"
	"github.com/artisanhub/artisanhub-api/internal/wallet"
	"github.com/gin-gonic/gin"
)

// WalletHandler keeps the browser wallet session in a session cookie
type WalletHandler struct {
	cookies *storage.CookieFactory
}

func NewWalletHandler(cookies *storage.CookieFactory) *WalletHandler {
	return &WalletHandler{cookies: cookies}
}

type WalletSessionRequest struct {
	PublicAddress        string `json:"publicAddress"`
	SmartWalletAuthority string `json:"smartWalletAuthority"`
}

func (h *WalletHandler) manager(c *gin.Context, provider wallet.Provider) *wallet.Manager {
	return wallet.NewManager(provider, h.cookies.ForRequest(c.Writer, c.Request, storage.ScopeSession))
}

// Session handles GET /api/wallet/session
func (h *WalletHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager(c, nil).Session())
}

// Connect handles POST /api/wallet/session with an account the wallet approved
func (h *WalletHandler) Connect(c *gin.Context) {
	var req WalletSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	if req.PublicAddress == "" {
		respondError(c, apperrors.MissingFields("publicAddress is required"))
		return
	}

	provider, err := wallet.NewStaticProvider(req.PublicAddress, req.SmartWalletAuthority)
	if err != nil {
		respondError(c, apperrors.InvalidPublicKey("Invalid public key", err))
		return
	}

	session, err := h.manager(c, provider).Connect(c.Request.Context())
	if err != nil {
		respondError(c, apperrors.Upstream("Failed to connect wallet", err))
		return
	}
	c.Set("wallet", session.PublicAddress)
	c.JSON(http.StatusOK, session)
}

// Disconnect handles DELETE /api/wallet/session
func (h *WalletHandler) Disconnect(c *gin.Context) {
	h.manager(c, nil).Disconnect()
	c.JSON(http.StatusOK, wallet.Session{})
}
