package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (f *fakeCloudWatch) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, in := range f.inputs {
		out = append(out, *in.MetricData[0].MetricName)
	}
	return out
}

func syncClient(api PutMetricDataAPI) *Client {
	c := NewClientWithAPI(api, "test")
	c.async = false
	return c
}

func TestClient_DisabledOutsideProduction(t *testing.T) {
	c, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, c.enabled)

	// Must not panic without an AWS client
	c.RecordAPIRequest("/api/transfer", 200, time.Second)
	c.RecordChainOperation("transfer", OutcomeSuccess, time.Second)
}

func TestClient_RecordAPIRequest(t *testing.T) {
	api := &fakeCloudWatch{}
	c := syncClient(api)

	c.RecordAPIRequest("/api/mint-nft", 200, 10*time.Millisecond)
	c.RecordAPIRequest("/api/mint-nft", 502, 10*time.Millisecond)

	assert.Equal(t, []string{"APIRequests", "APILatency", "APIErrors", "APILatency"}, api.names())
	assert.Equal(t, "ArtisanHub/API", *api.inputs[0].Namespace)
}

func TestClient_RecordChainOperation(t *testing.T) {
	api := &fakeCloudWatch{}
	c := syncClient(api)

	c.RecordChainOperation("transfer", OutcomeTimeout, time.Minute)
	require.Len(t, api.inputs, 2)

	dims := api.inputs[0].MetricData[0].Dimensions
	values := map[string]string{}
	for _, d := range dims {
		values[*d.Name] = *d.Value
	}
	assert.Equal(t, map[string]string{"Operation": "transfer", "Environment": "test", "Outcome": "timeout"}, values)
}

func TestClient_RecordImageGeneration(t *testing.T) {
	api := &fakeCloudWatch{}
	c := syncClient(api)

	c.RecordImageGeneration("openai", time.Second, false)
	assert.Equal(t, []string{"ImageGenerations", "ImageGenerationDuration"}, api.names())
}

func TestCombined_WithoutSentryOrCloudWatch(t *testing.T) {
	c := NewCombined(NewSentryMetrics(), nil)
	assert.NotPanics(t, func() {
		c.RecordAPIRequest(context.Background(), "/health", 200, time.Millisecond)
		c.RecordImageGeneration(context.Background(), "openai", "dall-e-3", time.Millisecond, true)
		c.RecordChainOperation(context.Background(), "mint", OutcomeFailed, time.Millisecond)
	})
}
