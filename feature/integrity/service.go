package integrity

import (
	"context"
	"errors"

	"clan-ledger/core/reconcile"
	"clan-ledger/core/storage"
	"clan-ledger/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrArchiveDisabled is returned when fixing the archive without a storage client.
var ErrArchiveDisabled = errors.New("feed archive is disabled")

// AliasReport summarises economy records stored under stale aliases.
type AliasReport struct {
	Summary reconcile.PlanSummary `json:"summary"`
	Results []reconcile.Result    `json:"results"`
}

// Options wires the optional parts of the service.
type Options struct {
	// Client is the archive storage client, nil when archiving is disabled.
	Client storage.Client
	Bucket string
	Region string
}

// Service handles integrity checks.
type Service struct {
	db         *gorm.DB
	models     []any
	client     storage.Client
	bucket     string
	region     string
	reconciler *reconcile.Engine
	logger     *zap.Logger
}

// NewService creates a new integrity service checking models against db.
func NewService(db *gorm.DB, models []any, reconciler *reconcile.Engine, opts Options, logger *zap.Logger) *Service {
	return &Service{
		db:         db,
		models:     models,
		client:     opts.Client,
		bucket:     opts.Bucket,
		region:     opts.Region,
		reconciler: reconciler,
		logger:     logger,
	}
}

// CheckSchema returns the per-table schema report.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models)
}

// CheckArchive returns the archive bucket report.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	return checks.CheckArchive(ctx, s.client, s.bucket)
}

// FixArchive creates the archive bucket.
func (s *Service) FixArchive(ctx context.Context) error {
	if s.client == nil {
		return ErrArchiveDisabled
	}
	return checks.FixArchive(ctx, s.client, s.bucket, s.region)
}

// CheckAliases plans the alias repair without applying it.
func (s *Service) CheckAliases(ctx context.Context) (*AliasReport, error) {
	plan, err := s.reconciler.Plan(ctx)
	if err != nil {
		return nil, err
	}
	results := plan.Results
	if results == nil {
		results = []reconcile.Result{}
	}
	return &AliasReport{Summary: plan.Summary, Results: results}, nil
}
