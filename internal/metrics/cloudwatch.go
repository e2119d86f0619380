package metrics

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "ArtisanHub/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// PutMetricDataAPI is the part of the CloudWatch client used here
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      PutMetricDataAPI
	enabled     bool
	environment string
	async       bool
}

// NewClient creates a new CloudWatch metrics client
func NewClient(ctx context.Context, environment string) (*Client, error) {
	// Only enable in production
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return NewClientWithAPI(cloudwatch.NewFromConfig(cfg), environment), nil
}

// NewClientWithAPI creates an enabled client over api
func NewClientWithAPI(api PutMetricDataAPI, environment string) *Client {
	return &Client{
		client:      api,
		enabled:     true,
		environment: environment,
		async:       true,
	}
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	m.dispatch(func(ctx context.Context) {
		metricName := "APIRequests"
		if statusCode >= httpStatusServerError {
			metricName = "APIErrors"
		}

		dimensions := m.dimensions("Endpoint", endpoint)
		if err := m.putMetric(ctx, metricName, 1, types.StandardUnitCount, dimensions); err != nil {
			log.Printf("Failed to record %s metric: %v", metricName, err)
		}

		latencyMs := float64(duration.Milliseconds())
		if err := m.putMetric(ctx, "APILatency", latencyMs, types.StandardUnitMilliseconds, dimensions); err != nil {
			log.Printf("Failed to record APILatency metric: %v", err)
		}
	})
}

// RecordImageGeneration records a vendor image call and its duration
func (m *Client) RecordImageGeneration(provider string, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	m.dispatch(func(ctx context.Context) {
		dimensions := append(m.dimensions("Provider", provider), types.Dimension{
			Name:  aws.String("Success"),
			Value: aws.String(boolToString(success)),
		})

		if err := m.putMetric(ctx, "ImageGenerations", 1, types.StandardUnitCount, dimensions); err != nil {
			log.Printf("Failed to record ImageGenerations metric: %v", err)
		}
		durationMs := float64(duration.Milliseconds())
		if err := m.putMetric(ctx, "ImageGenerationDuration", durationMs, types.StandardUnitMilliseconds, dimensions); err != nil {
			log.Printf("Failed to record ImageGenerationDuration metric: %v", err)
		}
	})
}

// RecordChainOperation records a mint or transfer outcome
func (m *Client) RecordChainOperation(operation, outcome string, duration time.Duration) {
	if !m.enabled {
		return
	}

	m.dispatch(func(ctx context.Context) {
		dimensions := append(m.dimensions("Operation", operation), types.Dimension{
			Name:  aws.String("Outcome"),
			Value: aws.String(outcome),
		})

		if err := m.putMetric(ctx, "ChainOperations", 1, types.StandardUnitCount, dimensions); err != nil {
			log.Printf("Failed to record ChainOperations metric: %v", err)
		}
		durationMs := float64(duration.Milliseconds())
		if err := m.putMetric(ctx, "ChainOperationDuration", durationMs, types.StandardUnitMilliseconds, dimensions); err != nil {
			log.Printf("Failed to record ChainOperationDuration metric: %v", err)
		}
	})
}

func (m *Client) dispatch(fn func(ctx context.Context)) {
	if m.async {
		go fn(context.Background())
		return
	}
	fn(context.Background())
}

func (m *Client) dimensions(name, value string) []types.Dimension {
	return []types.Dimension{
		{
			Name:  aws.String(name),
			Value: aws.String(value),
		},
		{
			Name:  aws.String("Environment"),
			Value: aws.String(m.environment),
		},
	}
}

// putMetric sends a metric to CloudWatch
func (m *Client) putMetric(
	_ context.Context,
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) error {
	if !m.enabled || m.client == nil {
		return nil
	}

	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})

	return err
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
