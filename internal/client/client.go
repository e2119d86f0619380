// Package client calls the ArtisanHub HTTP API. It is what the artisan CLI
// composes its commands from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artisanhub/artisanhub-api/internal/api/handlers"
	"github.com/artisanhub/artisanhub-api/internal/artstyle"
)

const defaultTimeout = 2 * time.Minute

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" && e.Details != e.Message {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL. A zero timeout uses the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Styles lists the art style catalog
func (c *Client) Styles(ctx context.Context) ([]artstyle.Style, error) {
	var resp struct {
		Styles []artstyle.Style `json:"styles"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/styles", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Styles, nil
}

// GenerateImage returns the generated image as a data URL
func (c *Client) GenerateImage(ctx context.Context, req handlers.GenerateImageRequest) (string, error) {
	var resp handlers.GenerateImageResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate-image", req, &resp); err != nil {
		return "", err
	}
	return resp.Image, nil
}

func (c *Client) Mint(ctx context.Context, req handlers.MintRequest) (*handlers.MintResponse, error) {
	var resp handlers.MintResponse
	if err := c.do(ctx, http.MethodPost, "/api/mint-nft", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Transfer(ctx context.Context, req handlers.TransferRequest) (*handlers.TransferResponse, error) {
	var resp handlers.TransferResponse
	if err := c.do(ctx, http.MethodPost, "/api/transfer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
