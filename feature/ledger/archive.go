package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clan-ledger/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// FeedArchive keeps a JSON snapshot of every fetched feed batch in object storage.
// A nil client turns it into a no-op.
type FeedArchive struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// NewFeedArchive creates an archive writing to bucket.
func NewFeedArchive(client storage.Client, bucket string, logger *zap.Logger) *FeedArchive {
	return &FeedArchive{client: client, bucket: bucket, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Key returns the object name of a snapshot of feed taken at t.
func Key(feed string, t time.Time) string {
	return fmt.Sprintf("%s/%s/%d.json", feed, t.UTC().Format("2006/01/02"), t.UnixNano())
}

// Store uploads payload and returns its object name, empty when archiving is off.
func (a *FeedArchive) Store(ctx context.Context, feed string, payload any) (string, error) {
	if a == nil || a.client == nil {
		return "", nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s snapshot: %w", feed, err)
	}
	key := Key(feed, a.now())
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	a.logger.Debug("Feed snapshot archived", zap.String("feed", feed), zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}
