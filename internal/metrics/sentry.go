package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics records metrics as Sentry spans
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordImageGeneration records one vendor image call
func (m *SentryMetrics) RecordImageGeneration(ctx context.Context, provider, model string, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("image.provider", provider)
		transaction.SetTag("image.model", model)
	}

	span := sentry.StartSpan(ctx, "image.generation")
	defer span.Finish()

	span.SetTag("provider", provider)
	span.SetTag("model", model)
	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", duration.Milliseconds())

	span.Status = statusFor(success)
	span.Description = fmt.Sprintf("Image Generation: %s/%s", provider, model)
}

// RecordChainOperation records a mint or transfer. outcome is one of
// "success", "failed" or "timeout".
func (m *SentryMetrics) RecordChainOperation(ctx context.Context, operation, outcome string, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "chain."+operation)
	defer span.Finish()

	span.SetTag("operation", operation)
	span.SetTag("outcome", outcome)
	span.SetData("duration_ms", duration.Milliseconds())

	switch outcome {
	case OutcomeSuccess:
		span.Status = sentry.SpanStatusOK
	case OutcomeTimeout:
		span.Status = sentry.SpanStatusDeadlineExceeded
	default:
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("Chain %s: %s", operation, outcome)
}

func statusFor(success bool) sentry.SpanStatus {
	if success {
		return sentry.SpanStatusOK
	}
	return sentry.SpanStatusInternalError
}
