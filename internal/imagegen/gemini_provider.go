package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini      = "gemini"
	defaultGeminiModel      = "imagen-4.0-generate-001"
	defaultGeminiUltraModel = "imagen-4.0-ultra-generate-001"
)

// GeminiProvider implements Provider with Imagen models through the Gemini API.
// The SDK client is created on first use so a missing key fails the call, not startup.
type GeminiProvider struct {
	apiKey     string
	model      string
	ultraModel string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini image provider
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		ultraModel: defaultGeminiUltraModel,
	}
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Model returns the standard-quality model
func (p *GeminiProvider) Model() string {
	return p.model
}

// modelFor selects the Imagen model for a quality tier
func (p *GeminiProvider) modelFor(q Quality) string {
	if q == QualityHigh {
		return p.ultraModel
	}
	return p.model
}

func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	p.client = client
	return client, nil
}

// Generate requests a single PNG image
func (p *GeminiProvider) Generate(ctx context.Context, request *ImageRequest) (*ImageResponse, error) {
	model := p.modelFor(request.Quality)

	transaction := sentry.StartTransaction(ctx, "gemini.images.generate")
	defer transaction.Finish()
	transaction.SetTag("model", model)
	transaction.SetTag("provider", providerNameGemini)

	client, err := p.getClient(ctx)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	start := time.Now()
	resp, err := client.Models.GenerateImages(ctx, model, request.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    AspectRatio(request.Size),
		OutputMIMEType: mimeTypePNG,
	})
	if err != nil {
		log.Printf("❌ GEMINI IMAGE REQUEST FAILED after %v: %v", time.Since(start), err)
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini image request failed: %w", err)
	}

	out, err := imageFromGeminiResponse(resp)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}
	out.Model = model
	transaction.SetTag("success", "true")
	return out, nil
}

func imageFromGeminiResponse(resp *genai.GenerateImagesResponse) (*ImageResponse, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, ErrNoImageData
	}
	generated := resp.GeneratedImages[0]
	if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		if generated != nil && generated.RAIFilteredReason != "" {
			return nil, fmt.Errorf("%w: filtered: %s", ErrNoImageData, generated.RAIFilteredReason)
		}
		return nil, ErrNoImageData
	}

	mimeType := generated.Image.MIMEType
	if mimeType == "" {
		mimeType = mimeTypePNG
	}
	return &ImageResponse{
		B64Data:  base64.StdEncoding.EncodeToString(generated.Image.ImageBytes),
		MIMEType: mimeType,
	}, nil
}
