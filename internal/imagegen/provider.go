package imagegen

import (
	"context"
	"errors"
)

// ErrNoImageData is returned when a vendor answers without an image payload
var ErrNoImageData = errors.New("no image data received from provider")

// Provider defines the interface for image-generation vendors.
// Implementations request exactly one image per call and never retry.
type Provider interface {
	// Generate creates one image for the request and returns it base64 encoded
	Generate(ctx context.Context, request *ImageRequest) (*ImageResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string

	// Model returns the vendor model used for standard-quality requests
	Model() string
}

// ImageRequest is the vendor-neutral request handed to a provider
type ImageRequest struct {
	Prompt     string  // full prompt, style suffix already applied
	Size       Size    // requested frame
	Quality    Quality // requested quality tier
	Dimensions string  // pixel dimensions derived from Size, e.g. "1024x1024"
}

// ImageResponse carries the generated image
type ImageResponse struct {
	B64Data       string
	MIMEType      string
	Model         string
	RevisedPrompt string
}
