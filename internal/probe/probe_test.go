package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProbe() *Probe {
	return New(Options{
		Timeout:      2 * time.Second,
		ProbeTimeout: 2 * time.Second,
		MaxBodyBytes: 64,
	})
}

func TestFetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "enrich-cli")
		w.Header().Set("X-Powered-By", "TestRig")
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	res := newTestProbe().Fetch(context.Background(), srv.URL)
	require.True(t, res.OK)
	assert.Equal(t, "<html>hello</html>", res.Body)
	assert.Equal(t, "TestRig", res.Header.Get("X-Powered-By"))
}

func TestFetchBoundedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	res := newTestProbe().Fetch(context.Background(), srv.URL)
	require.True(t, res.OK)
	assert.Len(t, res.Body, 64)
}

func TestFetchNotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	res := newTestProbe().Fetch(context.Background(), srv.URL)
	assert.False(t, res.OK)
	assert.True(t, res.Empty())
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestFetchUnreachableIsEmpty(t *testing.T) {
	res := newTestProbe().Fetch(context.Background(), "http://127.0.0.1:1")
	assert.True(t, res.Empty())
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs":[{"title":"SRE"}]}`))
	}))
	defer srv.Close()

	var out struct {
		Jobs []struct {
			Title string `json:"title"`
		} `json:"jobs"`
	}
	ok := newTestProbe().FetchJSON(context.Background(), srv.URL, &out)
	require.True(t, ok)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "SRE", out.Jobs[0].Title)
}

func TestFetchJSONGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var out map[string]any
	assert.False(t, newTestProbe().FetchJSON(context.Background(), srv.URL, &out))
}

func TestExistsHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
	}))
	defer srv.Close()

	assert.True(t, newTestProbe().Exists(context.Background(), srv.URL))
}

func TestExistsGetFallbackOn405(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
	}))
	defer srv.Close()

	assert.True(t, newTestProbe().Exists(context.Background(), srv.URL))
	assert.True(t, sawGet)
}

func TestExistsForbiddenCountsAsExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	assert.True(t, newTestProbe().Exists(context.Background(), srv.URL))
}

func TestExistsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	assert.False(t, newTestProbe().Exists(context.Background(), srv.URL))
}

func TestHeadHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "cloudflare")
	}))
	defer srv.Close()

	h, ok := newTestProbe().Head(context.Background(), srv.URL)
	require.True(t, ok)
	assert.Equal(t, "cloudflare", h.Get("Server"))
}
