package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client used by S3Store
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads blobs to an S3 (or S3-compatible) bucket
type S3Store struct {
	client        PutObjectAPI
	bucket        string
	publicBaseURL string
}

// NewS3Store loads AWS credentials from the default chain
func NewS3Store(ctx context.Context, bucket, publicBaseURL string) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("STORAGE_BUCKET is required for the s3 storage backend")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	logger.Info("S3 blob storage enabled", logger.Fields{"bucket": bucket, "region": cfg.Region})
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, publicBaseURL), nil
}

func NewS3StoreWithClient(client PutObjectAPI, bucket, publicBaseURL string) *S3Store {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *S3Store) Name() string {
	return "s3"
}

func (s *S3Store) Upload(ctx context.Context, obj Object) (string, error) {
	if len(obj.Data) == 0 {
		return "", errors.New("refusing to upload empty object")
	}

	key := ContentKey(obj)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(obj.Data),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(int64(len(obj.Data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to s3://%s: %w", key, s.bucket, err)
	}

	return s.publicBaseURL + "/" + key, nil
}
