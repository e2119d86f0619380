package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid request", InvalidRequest("prompt is required"), http.StatusBadRequest},
		{"invalid public key", InvalidPublicKey("bad key", errors.New("decode")), http.StatusBadRequest},
		{"invalid signature", InvalidSignature("bad signature"), http.StatusBadRequest},
		{"signature mismatch", SignatureMismatch("mismatch", "send recentBlockhash"), http.StatusBadRequest},
		{"upstream", Upstream("vendor down", errors.New("503")), http.StatusInternalServerError},
		{"timeout", Timeout("not confirmed", nil), http.StatusGatewayTimeout},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("handler: %w", InvalidRequest("missing")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorDetails(t *testing.T) {
	err := Upstream("Failed to mint NFT", errors.New("insufficient funds"))
	assert.Equal(t, "insufficient funds", err.Details())
	assert.Equal(t, "Failed to mint NFT: insufficient funds", err.Error())

	plain := InvalidRequest("Prompt is required")
	assert.Equal(t, "Prompt is required", plain.Details())
	assert.Equal(t, "invalid_request", plain.Kind.String())
}
