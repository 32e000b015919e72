// Package store persists enrichment runs and caches fetched profile pages.
package store

import (
	"context"
	"time"

	"github.com/sells-group/enrich-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Domain string          `json:"domain,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the enrichment pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, input model.EnrichmentInput) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.EnrichmentResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Profile-page cache, keyed by URL.
	GetCachedProfile(ctx context.Context, url string) ([]byte, error)
	SetCachedProfile(ctx context.Context, url string, body []byte, ttl time.Duration) error
	DeleteExpiredProfiles(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
