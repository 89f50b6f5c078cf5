package checks

import (
	"context"

	"clan-ledger/core/storage"
)

// ArchiveReport is the result of the archive bucket check.
type ArchiveReport struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket,omitempty"`
	Exists  bool   `json:"exists"`
}

// CheckArchive reports whether the archive bucket exists. A nil client means archiving is off.
func CheckArchive(ctx context.Context, client storage.Client, bucket string) (*ArchiveReport, error) {
	if client == nil {
		return &ArchiveReport{}, nil
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	return &ArchiveReport{Enabled: true, Bucket: bucket, Exists: exists}, nil
}

// FixArchive creates the archive bucket.
func FixArchive(ctx context.Context, client storage.Client, bucket, region string) error {
	return storage.EnsureBucket(ctx, client, bucket, region)
}
