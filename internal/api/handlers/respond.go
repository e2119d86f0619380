package handlers

import (
	"errors"

	"github.com/artisanhub/artisanhub-api/internal/apperrors"
	"github.com/gin-gonic/gin"
)

const invalidBodyMessage = "Invalid request body"

// respondError writes {error, details} with the status for err's kind
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"error":   errorMessage(err),
		"details": errorDetails(err),
	})
}

func errorMessage(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func errorDetails(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Details()
	}
	return err.Error()
}

func bindError(err error) error {
	return apperrors.InvalidValue(invalidBodyMessage, err)
}
