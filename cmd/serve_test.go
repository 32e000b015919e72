package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/store"
)

type stubStore struct {
	runs map[string]*model.Run
}

func newStubStore() *stubStore {
	return &stubStore{runs: map[string]*model.Run{}}
}

func (s *stubStore) CreateRun(ctx context.Context, input model.EnrichmentInput) (*model.Run, error) {
	run := &model.Run{ID: "run-1", Input: input, Status: model.RunStatusQueued, CreatedAt: time.Now()}
	s.runs[run.ID] = run
	return run, nil
}

func (s *stubStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	return nil
}

func (s *stubStore) UpdateRunResult(ctx context.Context, runID string, result *model.EnrichmentResult) error {
	return nil
}

func (s *stubStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	run, ok := s.runs[runID]
	if !ok {
		return nil, eris.Errorf("store: run %s not found", runID)
	}
	return run, nil
}

func (s *stubStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	var out []model.Run
	for _, run := range s.runs {
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		out = append(out, *run)
	}
	return out, nil
}

func (s *stubStore) GetCachedProfile(ctx context.Context, url string) ([]byte, error) { return nil, nil }

func (s *stubStore) SetCachedProfile(ctx context.Context, url string, body []byte, ttl time.Duration) error {
	return nil
}

func (s *stubStore) DeleteExpiredProfiles(ctx context.Context) (int, error) { return 0, nil }

func (s *stubStore) Migrate(ctx context.Context) error { return nil }

func (s *stubStore) Close() error { return nil }

func TestHealthEndpoint(t *testing.T) {
	router := newRouter(&appEnv{Store: newStubStore()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestEnrichEndpointRejectsBadJSON(t *testing.T) {
	router := newRouter(&appEnv{Store: newStubStore()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrich", strings.NewReader("{not json"))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrichEndpointRejectsEmptyInput(t *testing.T) {
	router := newRouter(&appEnv{Store: newStubStore()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrich", strings.NewReader(`{}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRunEndpoint(t *testing.T) {
	st := newStubStore()
	_, err := st.CreateRun(context.Background(), model.EnrichmentInput{Domain: "acme.com"})
	require.NoError(t, err)
	router := newRouter(&appEnv{Store: st})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/run-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "acme.com")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRunsEndpoint(t *testing.T) {
	st := newStubStore()
	_, err := st.CreateRun(context.Background(), model.EnrichmentInput{Domain: "acme.com"})
	require.NoError(t, err)
	router := newRouter(&appEnv{Store: st})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?status=queued", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run-1")

	// The status query parameter is applied as a run-status filter.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?status=failed", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "run-1")
}
