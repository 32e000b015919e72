// Package probe provides timeout-bounded HTTP fetching with a fixed user
// agent. Every outbound call in the pipeline goes through it, and every
// failure is folded into an empty Result rather than an error: callers
// compose partial failure uniformly instead of re-implementing catch blocks.
package probe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Result is the outcome of a fetch. OK is false for any transport error,
// timeout, or non-2xx status; the enrichment treats all of those as "no data".
type Result struct {
	OK     bool
	Status int
	Body   string
	Header http.Header
}

// Empty reports whether the fetch contributed nothing.
func (r Result) Empty() bool { return !r.OK || r.Body == "" }

// Options configures a Probe.
type Options struct {
	UserAgent    string
	Timeout      time.Duration // full-body fetches
	ProbeTimeout time.Duration // existence checks
	MaxBodyBytes int64
}

// Probe issues outbound HTTP requests with per-host rate limiting.
// There is no retry anywhere: a failed request is "no data" exactly once.
type Probe struct {
	client   *http.Client
	opts     Options
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Probe with the given options.
func New(opts Options) *Probe {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = 5 * time.Second
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 2 * 1024 * 1024
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "enrich-cli/1.0 (+https://github.com/sells-group/enrich-cli)"
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Probe{
		client:   &http.Client{Transport: transport},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (p *Probe) limiterFor(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	lim, ok := p.limiters[host]
	if !ok {
		lim = rate.NewLimiter(10, 10)
		p.limiters[host] = lim
	}
	return lim
}

func (p *Probe) do(ctx context.Context, method, rawURL string, timeout time.Duration) (*http.Response, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		cancel()
		return nil, false
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	if err := p.limiterFor(rawURL).Wait(ctx); err != nil {
		cancel()
		return nil, false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		cancel()
		zap.L().Debug("probe: request failed",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, false
	}
	// Tie cancel to body close so the caller controls the lifetime.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, true
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// Fetch GETs the URL and returns a bounded-size Result. Any failure, timeout,
// or non-2xx status yields an empty Result, never an error.
func (p *Probe) Fetch(ctx context.Context, rawURL string) Result {
	resp, ok := p.do(ctx, http.MethodGet, rawURL, p.opts.Timeout)
	if !ok {
		return Result{}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{Status: resp.StatusCode, Header: resp.Header}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.opts.MaxBodyBytes))
	if err != nil {
		return Result{Status: resp.StatusCode, Header: resp.Header}
	}

	return Result{
		OK:     true,
		Status: resp.StatusCode,
		Body:   string(body),
		Header: resp.Header,
	}
}

// FetchJSON GETs the URL and unmarshals the body into v.
// Returns false on any fetch or decode failure.
func (p *Probe) FetchJSON(ctx context.Context, rawURL string, v any) bool {
	res := p.Fetch(ctx, rawURL)
	if res.Empty() {
		return false
	}
	if err := json.Unmarshal([]byte(res.Body), v); err != nil {
		zap.L().Debug("probe: json decode failed", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	return true
}

// Head issues a HEAD request and returns the response headers.
// Used by header-based technographic signatures.
func (p *Probe) Head(ctx context.Context, rawURL string) (http.Header, bool) {
	resp, ok := p.do(ctx, http.MethodHead, rawURL, p.opts.ProbeTimeout)
	if !ok {
		return nil, false
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusForbidden {
		return nil, false
	}
	return resp.Header, true
}

// Exists reports whether the URL resolves. HEAD is preferred; a 405 or 403
// response triggers a GET fallback. A 403 on the fallback still counts as
// "exists but blocks probing".
func (p *Probe) Exists(ctx context.Context, rawURL string) bool {
	resp, ok := p.do(ctx, http.MethodHead, rawURL, p.opts.ProbeTimeout)
	if ok {
		defer resp.Body.Close() //nolint:errcheck
		switch {
		case resp.StatusCode < 400:
			return true
		case resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusForbidden:
			// fall through to GET
		default:
			return false
		}
	}

	getResp, ok := p.do(ctx, http.MethodGet, rawURL, p.opts.ProbeTimeout)
	if !ok {
		return false
	}
	defer getResp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, io.LimitReader(getResp.Body, 1024))

	return getResp.StatusCode < 400 || getResp.StatusCode == http.StatusForbidden
}
