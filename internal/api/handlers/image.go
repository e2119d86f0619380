package handlers

import (
	"net/http"

	"github.com/artisanhub/artisanhub-api/internal/apperrors"
	"github.com/artisanhub/artisanhub-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	service *services.ImageService
}

func NewImageHandler(service *services.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

type GenerateImageRequest struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type GenerateImageResponse struct {
	Image string `json:"image"` // data URL
}

// Generate handles POST /api/generate-image. Errors carry only {error}.
func (h *ImageHandler) Generate(c *gin.Context) {
	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidBodyMessage})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), services.GenerateImageInput{
		Prompt:  req.Prompt,
		Style:   req.Style,
		Size:    req.Size,
		Quality: req.Quality,
	})
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": errorDetails(err)})
		return
	}

	mimeType := result.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	c.JSON(http.StatusOK, GenerateImageResponse{
		Image: "data:" + mimeType + ";base64," + result.ImageData,
	})
}
