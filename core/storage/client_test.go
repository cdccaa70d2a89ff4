package storage_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"reconciler/core/storage"
	"reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{
			name: "ValidConfig",
			cfg:  storage.Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "b", Region: "us-east-1"},
		},
		{
			name: "EndpointWithHTTP",
			cfg:  storage.Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"},
		},
		{
			name: "EndpointWithHTTPS",
			cfg:  storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "k", SecretKey: "s", UseSSL: true, Region: "us-east-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "reports").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "reports"))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "reports").Return(false, nil)
		m.On("MakeBucket", ctx, "reports", minio.MakeBucketOptions{}).Return(nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "reports"))
		m.AssertExpectations(t)
	})

	t.Run("check fails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "reports").Return(false, errors.New("denied"))

		assert.ErrorContains(t, storage.EnsureBucket(ctx, m, "reports"), "denied")
	})
}

func TestPutBytes(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)

	var uploaded []byte
	m.On("PutObject", ctx, "b", "reports/run.csv", mock.Anything, int64(3), minio.PutObjectOptions{ContentType: "text/csv"}).
		Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{Key: "reports/run.csv", Size: 3}, nil)

	info, err := storage.PutBytes(ctx, m, "b", "reports/run.csv", []byte("a,b"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size)
	assert.Equal(t, "a,b", string(uploaded))
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "reports/x.csv", storage.ObjectName("/reports/", "x.csv"))
	assert.Equal(t, "x.csv", storage.ObjectName("", "x.csv"))
	assert.Equal(t, "a/b/x.csv", storage.ObjectName("a/b", "/x.csv"))
}
