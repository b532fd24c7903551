// Package s3 implements the scanning.ObjectStore port against Amazon S3
// using the AWS SDK v2.
package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bsheehan3117/serverless-security-scanner/internal/domain/scanning"
	"github.com/bsheehan3117/serverless-security-scanner/pkg/common/logger"
)

// objectAPIClient is the narrow S3 interface used by the store. Only object
// retrieval is required, which keeps the store trivially fakeable in tests.
type objectAPIClient interface {
	GetObject(ctx context.Context, params *s3svc.GetObjectInput, optFns ...func(*s3svc.Options)) (*s3svc.GetObjectOutput, error)
}

// ClientConfig holds the settings needed to construct an S3 client. Endpoint
// and path-style addressing support localstack/minio development setups.
type ClientConfig struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// NewClient constructs an S3 client from the shared AWS configuration chain
// (environment, shared credentials, instance role).
func NewClient(ctx context.Context, cfg ClientConfig) (*s3svc.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	client := s3svc.NewFromConfig(awsCfg, func(o *s3svc.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return client, nil
}

var _ scanning.ObjectStore = (*Store)(nil)

// Store retrieves object content from S3 on behalf of the scan orchestrator.
type Store struct {
	client objectAPIClient
	logger *logger.Logger
	tracer trace.Tracer
}

// NewStore creates an object store backed by the given S3 client.
func NewStore(client objectAPIClient, logger *logger.Logger, tracer trace.Tracer) *Store {
	logger = logger.With("component", "s3_object_store")
	return &Store{client: client, logger: logger, tracer: tracer}
}

// Get returns the object's full content and byte length. The reported length
// comes from the Content-Length header when present, falling back to the
// number of bytes read.
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, int64, error) {
	ctx, span := s.tracer.Start(ctx, "s3_object_store.get",
		trace.WithAttributes(
			attribute.String("bucket", bucket),
			attribute.String("key", key),
		))
	defer span.End()

	out, err := s.client.GetObject(ctx, &s3svc.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get object failed")
		return nil, 0, fmt.Errorf("getting object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read object body failed")
		return nil, 0, fmt.Errorf("reading object s3://%s/%s: %w", bucket, key, err)
	}

	size := int64(len(data))
	if out.ContentLength != nil && *out.ContentLength > 0 {
		size = *out.ContentLength
	}
	span.SetAttributes(attribute.Int64("object.size", size))

	s.logger.Debug(ctx, "retrieved object", "bucket", bucket, "key", key, "size", size)

	return data, size, nil
}
