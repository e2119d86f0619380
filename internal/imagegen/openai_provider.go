package imagegen

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	providerNameOpenAI = "openai"
	defaultOpenAIModel = "dall-e-3"
	responseFormatB64  = "b64_json"
)

// OpenAIProvider implements Provider with the OpenAI Images API
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider. SDK retries are disabled so
// every request results in exactly one billed vendor call.
func NewOpenAIProvider(apiKey, model string, opts ...option.RequestOption) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := openai.NewClient(reqOpts...)
	return &OpenAIProvider{
		client: &client,
		model:  model,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Model returns the image model
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Generate requests a single base64 image
func (p *OpenAIProvider) Generate(ctx context.Context, request *ImageRequest) (*ImageResponse, error) {
	transaction := sentry.StartTransaction(ctx, "openai.images.generate")
	defer transaction.Finish()

	transaction.SetTag("model", p.model)
	transaction.SetTag("provider", providerNameOpenAI)
	transaction.SetTag("size", request.Dimensions)

	params := p.buildParams(request)

	span := transaction.StartChild("openai.api_call")
	start := time.Now()
	resp, err := p.client.Images.Generate(ctx, params)
	span.Finish()

	if err != nil {
		log.Printf("❌ OPENAI IMAGE REQUEST FAILED after %v: %v", time.Since(start), err)
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai image request failed: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		transaction.SetTag("success", "false")
		return nil, ErrNoImageData
	}

	transaction.SetTag("success", "true")
	return &ImageResponse{
		B64Data:       resp.Data[0].B64JSON,
		MIMEType:      mimeTypePNG,
		Model:         p.model,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

func (p *OpenAIProvider) buildParams(request *ImageRequest) openai.ImageGenerateParams {
	return openai.ImageGenerateParams{
		Prompt:         request.Prompt,
		Model:          openai.ImageModel(p.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(request.Dimensions),
		Quality:        openai.ImageGenerateParamsQuality(VendorQuality(request.Quality)),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat(responseFormatB64),
	}
}
