package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"feedback-pipeline/internal/apperrors"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &s3.PutObjectOutput{}, nil
}

func TestPut_ReturnsLocation(t *testing.T) {
	api := &fakeS3{}
	client := &Client{api: api, bucket: "reports-bucket", region: "us-east-1", logger: zap.NewNop()}

	location, err := client.Put(context.Background(), "reports/2026/02/relatorio-semanal-2026-02-10.csv", []byte("doc"), "text/csv; charset=utf-8")

	require.NoError(t, err)
	assert.Equal(t, "https://reports-bucket.s3.us-east-1.amazonaws.com/reports/2026/02/relatorio-semanal-2026-02-10.csv", location)

	require.Len(t, api.inputs, 1)
	assert.Equal(t, "reports-bucket", *api.inputs[0].Bucket)
	assert.Equal(t, "text/csv; charset=utf-8", *api.inputs[0].ContentType)

	body, err := io.ReadAll(api.inputs[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "doc", string(body))
}

func TestPut_StorageError(t *testing.T) {
	api := &fakeS3{err: errors.New("access denied")}
	client := &Client{api: api, bucket: "reports-bucket", region: "us-east-1", logger: zap.NewNop()}

	_, err := client.Put(context.Background(), "k", []byte("doc"), "text/csv")

	var storageErr *apperrors.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "k", storageErr.Key)
}

func TestNewClient_MissingBucket(t *testing.T) {
	_, err := NewClient(context.Background(), "", "us-east-1", zap.NewNop())

	var configErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &configErr)
}
