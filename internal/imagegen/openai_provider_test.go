package imagegen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider(t *testing.T) {
	provider := NewOpenAIProvider("test-api-key", "")
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
	assert.Equal(t, "dall-e-3", provider.Model())
	assert.NotNil(t, provider.client)
}

func TestOpenAIProvider_BuildParams(t *testing.T) {
	provider := NewOpenAIProvider("test-key", "dall-e-3")

	params := provider.buildParams(&ImageRequest{
		Prompt:     "a red fox in snow",
		Size:       SizeSquare,
		Quality:    QualityStandard,
		Dimensions: Dimensions(SizeSquare),
	})

	assert.Equal(t, "a red fox in snow", params.Prompt)
	assert.Equal(t, int64(1), params.N.Value)
	assert.Equal(t, openai.ImageGenerateParamsSize("1024x1024"), params.Size)
	assert.Equal(t, openai.ImageGenerateParamsQuality("standard"), params.Quality)
	assert.Equal(t, openai.ImageGenerateParamsResponseFormat("b64_json"), params.ResponseFormat)

	hd := provider.buildParams(&ImageRequest{Prompt: "x", Quality: QualityHigh, Dimensions: "1792x1024"})
	assert.Equal(t, openai.ImageGenerateParamsQuality("hd"), hd.Quality)
	assert.Equal(t, openai.ImageGenerateParamsSize("1792x1024"), hd.Size)
}

func newImagesServer(t *testing.T, status int, body string, calls *int32, captured *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(raw, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIProvider_GenerateSendsSingleImageRequest(t *testing.T) {
	var calls int32
	var captured map[string]any
	server := newImagesServer(t, http.StatusOK,
		`{"created":1,"data":[{"b64_json":"aGVsbG8=","revised_prompt":"a fox"}]}`, &calls, &captured)

	provider := NewOpenAIProvider("test-key", "dall-e-3", option.WithBaseURL(server.URL+"/"))
	resp, err := provider.Generate(context.Background(), &ImageRequest{
		Prompt:     "a red fox in snow",
		Size:       SizeSquare,
		Quality:    QualityStandard,
		Dimensions: "1024x1024",
	})
	require.NoError(t, err)

	assert.Equal(t, "aGVsbG8=", resp.B64Data)
	assert.Equal(t, "image/png", resp.MIMEType)
	assert.Equal(t, "a fox", resp.RevisedPrompt)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, "a red fox in snow", captured["prompt"])
	assert.Equal(t, float64(1), captured["n"])
	assert.Equal(t, "1024x1024", captured["size"])
	assert.Equal(t, "standard", captured["quality"])
	assert.Equal(t, "b64_json", captured["response_format"])
}

func TestOpenAIProvider_GenerateEmptyPayload(t *testing.T) {
	var calls int32
	server := newImagesServer(t, http.StatusOK, `{"created":1,"data":[]}`, &calls, nil)

	provider := NewOpenAIProvider("test-key", "dall-e-3", option.WithBaseURL(server.URL+"/"))
	_, err := provider.Generate(context.Background(), &ImageRequest{Prompt: "x", Dimensions: "1024x1024"})
	assert.ErrorIs(t, err, ErrNoImageData)
}

func TestOpenAIProvider_GenerateDoesNotRetry(t *testing.T) {
	var calls int32
	server := newImagesServer(t, http.StatusInternalServerError,
		`{"error":{"message":"upstream exploded","type":"server_error"}}`, &calls, nil)

	provider := NewOpenAIProvider("test-key", "dall-e-3", option.WithBaseURL(server.URL+"/"))
	_, err := provider.Generate(context.Background(), &ImageRequest{Prompt: "x", Dimensions: "1024x1024"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai image request failed")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
