package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"login":"acme","name":"Acme Inc","public_repos":42}`))
	}))
	defer srv.Close()

	c := NewClient("tok", WithBaseURL(srv.URL))
	org, err := c.Org(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", org.Login)
	assert.Equal(t, 42, org.PublicRepos)
}

func TestOrgNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.Org(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	repos, err := c.ListRepos(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestListReposAndLanguages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name":"widget","stargazers_count":120,"forks_count":30,"language":"Go"},
			{"name":"legacy","stargazers_count":5,"archived":true}
		]`))
	})
	mux.HandleFunc("/repos/acme/widget/languages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Go":150000,"Shell":2000}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))

	repos, err := c.ListRepos(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, 120, repos[0].Stars)
	assert.True(t, repos[1].Archived)

	langs, err := c.Languages(context.Background(), "acme", "widget")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), langs["Go"])
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("", WithBaseURL(srv.URL))
	_, err := c.Org(context.Background(), "acme")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
