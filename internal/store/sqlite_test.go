package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	input := model.EnrichmentInput{Domain: "acme.com", Name: "Acme"}
	run, err := s.CreateRun(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	result := &model.EnrichmentResult{
		Input:      input,
		Success:    true,
		Record:     &model.CompanyRecord{Name: "Acme", Domain: "acme.com"},
		Confidence: 40,
	}
	require.NoError(t, s.UpdateRunResult(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, "acme.com", got.Input.Domain)
	require.NotNil(t, got.Result)
	assert.True(t, got.Result.Success)
	assert.Equal(t, 40, got.Result.Confidence)
}

func TestUpdateRunResultFailureSetsFailedStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.EnrichmentInput{Name: "Acme"})
	require.NoError(t, err)

	result := &model.EnrichmentResult{Success: false, Error: "structuring failed"}
	require.NoError(t, s.UpdateRunResult(ctx, run.ID, result))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
}

func TestUpdateMissingRun(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateRunStatus(context.Background(), "no-such-run", model.RunStatusRunning)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRunsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateRun(ctx, model.EnrichmentInput{Domain: "a.com"})
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, model.EnrichmentInput{Domain: "b.com"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateRunStatus(ctx, a.ID, model.RunStatusRunning))

	running, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusRunning})
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, a.ID, running[0].ID)

	byDomain, err := s.ListRuns(ctx, RunFilter{Domain: "b.com"})
	require.NoError(t, err)
	require.Len(t, byDomain, 1)
	assert.Equal(t, "b.com", byDomain[0].Input.Domain)

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProfileCacheRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	url := "https://www.linkedin.com/company/acme"
	body := []byte("<html>201-500 employees</html>")
	require.NoError(t, s.SetCachedProfile(ctx, url, body, time.Hour))

	got, err := s.GetCachedProfile(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	miss, err := s.GetCachedProfile(ctx, "https://other.example")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestProfileCacheExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	url := "https://www.linkedin.com/company/stale"
	require.NoError(t, s.SetCachedProfile(ctx, url, []byte("old"), -time.Hour))

	got, err := s.GetCachedProfile(ctx, url)
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries never surface")

	n, err := s.DeleteExpiredProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
