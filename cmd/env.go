package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/codehost"
	"github.com/sells-group/enrich-cli/internal/headcount"
	"github.com/sells-group/enrich-cli/internal/jobs"
	"github.com/sells-group/enrich-cli/internal/mobile"
	"github.com/sells-group/enrich-cli/internal/pipeline"
	"github.com/sells-group/enrich-cli/internal/probe"
	"github.com/sells-group/enrich-cli/internal/social"
	"github.com/sells-group/enrich-cli/internal/store"
	"github.com/sells-group/enrich-cli/internal/techno"
	"github.com/sells-group/enrich-cli/pkg/anthropic"
	"github.com/sells-group/enrich-cli/pkg/github"
)

// appEnv bundles the wired pipeline and its closable resources.
type appEnv struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

// Close releases held resources.
func (e *appEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("env: store close failed", zap.Error(err))
		}
	}
}

// initPipeline wires every component from configuration.
func initPipeline(ctx context.Context) (*appEnv, error) {
	p := probe.New(probe.Options{
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTP.Timeout(),
		ProbeTimeout: cfg.HTTP.ProbeTimeout(),
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	ghClient := github.NewClient(cfg.GitHub.Token,
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithUserAgent(cfg.HTTP.UserAgent),
	)

	pl := pipeline.New(
		cfg,
		p,
		anthropic.NewClient(cfg.Anthropic.Key),
		codehost.NewFetcher(ghClient),
		jobs.NewScraper(p, jobs.Options{ProbeTimeout: cfg.Jobs.ProbeTimeout()}),
		techno.NewDetector(techno.DefaultCatalog(), techno.JobVocabulary(), p),
		mobile.NewDetector(),
		social.NewExtractor(p),
		headcount.NewEstimator(p, cfg.Headcount.SearchBaseURL),
		st,
	)

	return &appEnv{Pipeline: pl, Store: st}, nil
}

// openStore opens the configured persistence backend and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("env: unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "env: open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "env: migrate store")
	}
	return st, nil
}
