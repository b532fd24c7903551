package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/bsheehan3117/serverless-security-scanner/pkg/common/logger"
)

type fakeObjectAPIClient struct {
	output *s3svc.GetObjectOutput
	err    error

	gotBucket string
	gotKey    string
}

func (f *fakeObjectAPIClient) GetObject(ctx context.Context, params *s3svc.GetObjectInput, optFns ...func(*s3svc.Options)) (*s3svc.GetObjectOutput, error) {
	f.gotBucket = aws.ToString(params.Bucket)
	f.gotKey = aws.ToString(params.Key)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func newTestStore(client objectAPIClient) *Store {
	return NewStore(client, logger.Noop(), noop.NewTracerProvider().Tracer("test"))
}

func TestStoreGet(t *testing.T) {
	body := []byte(`{"ssl_enabled": true}`)
	client := &fakeObjectAPIClient{
		output: &s3svc.GetObjectOutput{
			Body:          io.NopCloser(bytes.NewReader(body)),
			ContentLength: aws.Int64(int64(len(body))),
		},
	}
	store := newTestStore(client)

	data, size, err := store.Get(context.Background(), "configs", "prod/app.json")
	require.NoError(t, err)
	assert.Equal(t, body, data)
	assert.Equal(t, int64(len(body)), size)
	assert.Equal(t, "configs", client.gotBucket)
	assert.Equal(t, "prod/app.json", client.gotKey)
}

func TestStoreGetFallsBackToReadLength(t *testing.T) {
	body := []byte(`{}`)
	client := &fakeObjectAPIClient{
		output: &s3svc.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))},
	}
	store := newTestStore(client)

	_, size, err := store.Get(context.Background(), "configs", "app.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), size)
}

func TestStoreGetPrefersContentLengthHeader(t *testing.T) {
	// Callers size-check against the header even if the body was truncated.
	client := &fakeObjectAPIClient{
		output: &s3svc.GetObjectOutput{
			Body:          io.NopCloser(bytes.NewReader([]byte(`{}`))),
			ContentLength: aws.Int64(11_000_000),
		},
	}
	store := newTestStore(client)

	_, size, err := store.Get(context.Background(), "configs", "huge.json")
	require.NoError(t, err)
	assert.Equal(t, int64(11_000_000), size)
}

func TestStoreGetError(t *testing.T) {
	client := &fakeObjectAPIClient{err: errors.New("NoSuchKey: the specified key does not exist")}
	store := newTestStore(client)

	_, _, err := store.Get(context.Background(), "configs", "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://configs/missing.json")
	assert.Contains(t, err.Error(), "NoSuchKey")
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (errReader) Close() error             { return nil }

func TestStoreGetBodyReadError(t *testing.T) {
	client := &fakeObjectAPIClient{output: &s3svc.GetObjectOutput{Body: errReader{}}}
	store := newTestStore(client)

	_, _, err := store.Get(context.Background(), "configs", "flaky.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading object")
}
