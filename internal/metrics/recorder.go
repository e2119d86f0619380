package metrics

import (
	"context"
	"time"
)

// Chain operation outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeTimeout = "timeout"
)

// Recorder is what request handling and services report to
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordImageGeneration(ctx context.Context, provider, model string, duration time.Duration, success bool)
	RecordChainOperation(ctx context.Context, operation, outcome string, duration time.Duration)
}

// Combined fans every metric out to Sentry and CloudWatch
type Combined struct {
	sentry     *SentryMetrics
	cloudwatch *Client
}

// NewCombined creates a recorder; a nil CloudWatch client records to Sentry only
func NewCombined(sentryMetrics *SentryMetrics, cloudwatchClient *Client) *Combined {
	if cloudwatchClient == nil {
		cloudwatchClient = &Client{}
	}
	return &Combined{sentry: sentryMetrics, cloudwatch: cloudwatchClient}
}

func (c *Combined) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	c.sentry.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	c.cloudwatch.RecordAPIRequest(endpoint, statusCode, duration)
}

func (c *Combined) RecordImageGeneration(ctx context.Context, provider, model string, duration time.Duration, success bool) {
	c.sentry.RecordImageGeneration(ctx, provider, model, duration, success)
	c.cloudwatch.RecordImageGeneration(provider, duration, success)
}

func (c *Combined) RecordChainOperation(ctx context.Context, operation, outcome string, duration time.Duration) {
	c.sentry.RecordChainOperation(ctx, operation, outcome, duration)
	c.cloudwatch.RecordChainOperation(operation, outcome, duration)
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordAPIRequest(context.Context, string, int, time.Duration) {}
func (Nop) RecordImageGeneration(context.Context, string, string, time.Duration, bool) {}
func (Nop) RecordChainOperation(context.Context, string, string, time.Duration) {}
