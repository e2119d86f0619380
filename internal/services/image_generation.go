package services

import (
	"context"
	"strings"
	"time"

	"github.com/artisanhub/artisanhub-api/internal/apperrors"
	"github.com/artisanhub/artisanhub-api/internal/artstyle"
	"github.com/artisanhub/artisanhub-api/internal/imagegen"
	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/artisanhub/artisanhub-api/internal/metrics"
	"github.com/artisanhub/artisanhub-api/internal/observability"
)

// GenerateImageInput is an image request as received from clients
type GenerateImageInput struct {
	Prompt  string
	Style   string
	Size    string
	Quality string
}

// GenerateImageResult is a generated image plus what was actually requested
type GenerateImageResult struct {
	ImageData     string // base64
	MIMEType      string
	Prompt        string // prompt after style decoration
	Dimensions    string
	Quality       imagegen.Quality
	Provider      string
	Model         string
	RevisedPrompt string
}

// ImageService turns prompts into images with a single vendor call
type ImageService struct {
	provider imagegen.Provider
	catalog  *artstyle.Catalog
	metrics  metrics.Recorder
	langfuse *observability.LangfuseClient
}

func NewImageService(
	provider imagegen.Provider,
	catalog *artstyle.Catalog,
	recorder metrics.Recorder,
	langfuse *observability.LangfuseClient,
) *ImageService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if langfuse == nil {
		langfuse = observability.Disabled()
	}
	return &ImageService{
		provider: provider,
		catalog:  catalog,
		metrics:  recorder,
		langfuse: langfuse,
	}
}

// Generate validates the input, decorates the prompt with the style and
// requests exactly one image. Vendor failures are not retried.
func (s *ImageService) Generate(ctx context.Context, in GenerateImageInput) (*GenerateImageResult, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, apperrors.InvalidRequest("Prompt is required")
	}

	prompt := s.catalog.DecoratePrompt(in.Prompt, in.Style)
	size := imagegen.ParseSize(in.Size)
	quality := imagegen.ParseQuality(in.Quality)
	request := &imagegen.ImageRequest{
		Prompt:     prompt,
		Size:       size,
		Quality:    quality,
		Dimensions: imagegen.Dimensions(size),
	}

	trace := s.langfuse.StartTrace(ctx, "image-generation", map[string]interface{}{
		"style": in.Style,
		"size":  string(size),
	})
	defer trace.Finish()
	gen := trace.Generation(s.provider.Name(), nil)

	start := time.Now()
	resp, err := s.provider.Generate(ctx, request)
	duration := time.Since(start)

	if err == nil && (resp == nil || resp.B64Data == "") {
		err = imagegen.ErrNoImageData
	}
	s.metrics.RecordImageGeneration(ctx, s.provider.Name(), s.provider.Model(), duration, err == nil)

	if err != nil {
		gen.Fail(err)
		gen.Finish()
		logger.Error("Image generation failed", err, logger.Fields{
			"provider":    s.provider.Name(),
			"dimensions":  request.Dimensions,
			"quality":     string(quality),
			"duration_ms": duration.Milliseconds(),
		})
		return nil, apperrors.Upstream("Failed to generate image", err)
	}

	gen.LogImage(resp.Model, prompt, resp.RevisedPrompt, request.Dimensions, imagegen.VendorQuality(quality))
	gen.Finish()
	logger.LogImageGeneration(ctx, s.provider.Name(), resp.Model, duration, logger.Fields{
		"dimensions": request.Dimensions,
		"quality":    string(quality),
		"styled":     prompt != in.Prompt,
	})

	return &GenerateImageResult{
		ImageData:     resp.B64Data,
		MIMEType:      resp.MIMEType,
		Prompt:        prompt,
		Dimensions:    request.Dimensions,
		Quality:       quality,
		Provider:      s.provider.Name(),
		Model:         resp.Model,
		RevisedPrompt: resp.RevisedPrompt,
	}, nil
}
