// Package codehost resolves a company to a GitHub organization and
// aggregates the org's public repository activity into a single summary.
package codehost

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/github"
)

const (
	// topRepoCount bounds how many repos feed the language breakdown.
	topRepoCount = 20
	// contributorRepoCount bounds how many repos feed the contributor set.
	contributorRepoCount = 3
	// maxLanguages caps the language breakdown length.
	maxLanguages = 10
)

// Fetcher resolves and summarizes code-host organizations.
type Fetcher struct {
	client github.Client
}

// NewFetcher creates a Fetcher over the given GitHub client.
func NewFetcher(client github.Client) *Fetcher {
	return &Fetcher{client: client}
}

// ResolveOrg tries candidate org handles derived from the company name and
// domain, in order, and returns the first that exists. A miss on every
// candidate returns github.ErrNotFound.
func (f *Fetcher) ResolveOrg(ctx context.Context, domain, name string) (string, error) {
	for _, candidate := range orgCandidates(domain, name) {
		org, err := f.client.Org(ctx, candidate)
		if eris.Is(err, github.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", eris.Wrapf(err, "codehost: resolve %q", candidate)
		}
		return org.Login, nil
	}
	return "", github.ErrNotFound
}

// FetchOrgData aggregates the org's metadata, its top repos by stars, the
// language byte totals across those repos, and a contributor count sampled
// from the most-starred repos. A repo whose language lookup fails is silently
// omitted from the breakdown.
func (f *Fetcher) FetchOrgData(ctx context.Context, orgLogin string) (*model.CodeHostData, error) {
	org, err := f.client.Org(ctx, orgLogin)
	if err != nil {
		return nil, eris.Wrapf(err, "codehost: org %q", orgLogin)
	}
	repos, err := f.client.ListRepos(ctx, orgLogin)
	if err != nil {
		return nil, eris.Wrapf(err, "codehost: repos for %q", orgLogin)
	}

	active := make([]github.Repo, 0, len(repos))
	for _, r := range repos {
		if !r.Archived {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Stars > active[j].Stars })
	if len(active) > topRepoCount {
		active = active[:topRepoCount]
	}

	data := &model.CodeHostData{
		Org:         org.Login,
		Name:        org.Name,
		Description: org.Description,
		PublicRepos: org.PublicRepos,
	}

	langBytes := make(map[string]int64)
	for _, r := range active {
		data.TotalStars += r.Stars
		data.TotalForks += r.Forks

		langs, err := f.client.Languages(ctx, orgLogin, r.Name)
		if err != nil {
			zap.L().Debug("codehost: language lookup failed",
				zap.String("org", orgLogin),
				zap.String("repo", r.Name),
				zap.Error(err),
			)
			continue
		}
		for lang, bytes := range langs {
			langBytes[lang] += bytes
		}
	}
	data.Languages = languageShares(langBytes)
	data.Contributors = f.countContributors(ctx, orgLogin, active)

	return data, nil
}

// countContributors unions the contributor logins of the top repos. Failures
// shrink the sample instead of failing the fetch.
func (f *Fetcher) countContributors(ctx context.Context, orgLogin string, repos []github.Repo) int {
	if len(repos) > contributorRepoCount {
		repos = repos[:contributorRepoCount]
	}
	seen := make(map[string]bool)
	for _, r := range repos {
		contribs, err := f.client.Contributors(ctx, orgLogin, r.Name)
		if err != nil {
			continue
		}
		for _, c := range contribs {
			if c.Login != "" {
				seen[c.Login] = true
			}
		}
	}
	return len(seen)
}

// languageShares converts byte totals to a percentage list, largest first,
// capped at maxLanguages. Percentages are rounded to one decimal place.
func languageShares(langBytes map[string]int64) []model.LanguageShare {
	var total int64
	for _, b := range langBytes {
		total += b
	}
	if total == 0 {
		return nil
	}

	shares := make([]model.LanguageShare, 0, len(langBytes))
	for lang, b := range langBytes {
		pct := math.Round(float64(b)/float64(total)*1000) / 10
		shares = append(shares, model.LanguageShare{Name: lang, Percent: pct})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percent != shares[j].Percent {
			return shares[i].Percent > shares[j].Percent
		}
		return shares[i].Name < shares[j].Name
	})
	if len(shares) > maxLanguages {
		shares = shares[:maxLanguages]
	}
	return shares
}

// orgCandidates derives handle guesses: the company name with spaces removed,
// the name hyphenated, then the first label of the domain. Deduplicated,
// order preserved.
func orgCandidates(domain, name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var candidates []string
	if lower != "" {
		candidates = append(candidates,
			strings.ReplaceAll(lower, " ", ""),
			strings.ReplaceAll(lower, " ", "-"),
		)
	}
	domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
	if i := strings.Index(domain, "."); i > 0 {
		candidates = append(candidates, domain[:i])
	} else if domain != "" {
		candidates = append(candidates, domain)
	}

	var out []string
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
