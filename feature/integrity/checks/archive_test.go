package checks

import (
	"context"
	"errors"
	"testing"

	"clan-ledger/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckArchive(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		report, err := CheckArchive(ctx, nil, "feeds")
		require.NoError(t, err)
		assert.Equal(t, &ArchiveReport{}, report)
	})

	t.Run("exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(true, nil)

		report, err := CheckArchive(ctx, client, "feeds")
		require.NoError(t, err)
		assert.Equal(t, &ArchiveReport{Enabled: true, Bucket: "feeds", Exists: true}, report)
		client.AssertExpectations(t)
	})

	t.Run("error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "feeds").Return(false, errors.New("unreachable"))

		_, err := CheckArchive(ctx, client, "feeds")
		assert.Error(t, err)
	})
}

func TestFixArchive(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "feeds").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "feeds", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

	require.NoError(t, FixArchive(context.Background(), client, "feeds", "eu-west-1"))
	client.AssertExpectations(t)
}
