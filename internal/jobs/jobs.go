// Package jobs scrapes open positions from hosted applicant-tracking-system
// boards and generic careers pages, then classifies postings by department
// and extracts skill frequencies.
package jobs

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/probe"
)

// careersPaths are the conventional careers-page locations probed under the
// company's own domain.
var careersPaths = []string{"/careers", "/jobs", "/careers/jobs", "/about/careers"}

// Options configures a Scraper. Base URLs are overridable for tests.
type Options struct {
	GreenhouseBaseURL string
	LeverBaseURL      string
	AshbyBaseURL      string
	SiteScheme        string // scheme for careers-page probes, default https
	ProbeTimeout      time.Duration
}

// Scraper queries job boards for one company.
type Scraper struct {
	probe *probe.Probe
	opts  Options
}

// NewScraper creates a Scraper backed by the given probe.
func NewScraper(p *probe.Probe, opts Options) *Scraper {
	if opts.GreenhouseBaseURL == "" {
		opts.GreenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"
	}
	if opts.LeverBaseURL == "" {
		opts.LeverBaseURL = "https://api.lever.co/v0/postings"
	}
	if opts.AshbyBaseURL == "" {
		opts.AshbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"
	}
	if opts.SiteScheme == "" {
		opts.SiteScheme = "https"
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = 8 * time.Second
	}
	return &Scraper{probe: p, opts: opts}
}

// Scrape issues four independent probes concurrently: three ATS conventions
// (each against a name-derived and a domain-derived slug) plus the generic
// careers-page heuristic. Probes that fail contribute nothing; whatever
// succeeds is concatenated without cross-probe deduplication.
func (s *Scraper) Scrape(ctx context.Context, domain, companyName string) model.HiringData {
	slugs := slugCandidates(domain, companyName)

	type probeFn func(ctx context.Context) []model.JobPosting
	probes := []probeFn{
		func(ctx context.Context) []model.JobPosting { return s.greenhouse(ctx, slugs) },
		func(ctx context.Context) []model.JobPosting { return s.lever(ctx, slugs) },
		func(ctx context.Context) []model.JobPosting { return s.ashby(ctx, slugs) },
		func(ctx context.Context) []model.JobPosting { return s.careersPage(ctx, domain) },
	}

	var mu sync.Mutex
	var postings []model.JobPosting

	// Wait for all four regardless of individual failure; no short-circuit.
	g := new(errgroup.Group)
	for _, fn := range probes {
		fn := fn
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
			defer cancel()
			found := fn(pctx)
			mu.Lock()
			postings = append(postings, found...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range postings {
		raw := postings[i].Department
		if raw == "" {
			raw = postings[i].Title
		}
		postings[i].Bucket = ClassifyDepartment(raw)
	}

	data := model.HiringData{
		Postings:     postings,
		ByDepartment: make(map[model.Department]int),
		TopSkills:    ExtractSkills(postings),
		Total:        len(postings),
	}
	for _, p := range postings {
		data.ByDepartment[p.Bucket]++
	}

	zap.L().Debug("jobs: scrape complete",
		zap.String("domain", domain),
		zap.Int("postings", len(postings)),
	)
	return data
}

// --- ATS probes ---

func (s *Scraper) greenhouse(ctx context.Context, slugs []string) []model.JobPosting {
	type ghJob struct {
		Title       string `json:"title"`
		AbsoluteURL string `json:"absolute_url"`
		Content     string `json:"content"`
		Location    struct {
			Name string `json:"name"`
		} `json:"location"`
		Departments []struct {
			Name string `json:"name"`
		} `json:"departments"`
	}

	for _, slug := range slugs {
		var resp struct {
			Jobs []ghJob `json:"jobs"`
		}
		url := fmt.Sprintf("%s/%s/jobs?content=true", s.opts.GreenhouseBaseURL, slug)
		if !s.probe.FetchJSON(ctx, url, &resp) || len(resp.Jobs) == 0 {
			continue
		}

		postings := make([]model.JobPosting, 0, len(resp.Jobs))
		for _, j := range resp.Jobs {
			dept := ""
			if len(j.Departments) > 0 {
				dept = j.Departments[0].Name
			}
			postings = append(postings, model.JobPosting{
				Title:       j.Title,
				Department:  dept,
				Location:    j.Location.Name,
				Remote:      isRemote(j.Title, j.Location.Name),
				URL:         j.AbsoluteURL,
				Description: html.UnescapeString(j.Content),
			})
		}
		return postings
	}
	return nil
}

func (s *Scraper) lever(ctx context.Context, slugs []string) []model.JobPosting {
	type leverJob struct {
		Text             string `json:"text"`
		HostedURL        string `json:"hostedUrl"`
		DescriptionPlain string `json:"descriptionPlain"`
		Categories       struct {
			Team     string `json:"team"`
			Location string `json:"location"`
		} `json:"categories"`
	}

	for _, slug := range slugs {
		var resp []leverJob
		url := fmt.Sprintf("%s/%s?mode=json", s.opts.LeverBaseURL, slug)
		if !s.probe.FetchJSON(ctx, url, &resp) || len(resp) == 0 {
			continue
		}

		postings := make([]model.JobPosting, 0, len(resp))
		for _, j := range resp {
			postings = append(postings, model.JobPosting{
				Title:       j.Text,
				Department:  j.Categories.Team,
				Location:    j.Categories.Location,
				Remote:      isRemote(j.Text, j.Categories.Location),
				URL:         j.HostedURL,
				Description: j.DescriptionPlain,
			})
		}
		return postings
	}
	return nil
}

func (s *Scraper) ashby(ctx context.Context, slugs []string) []model.JobPosting {
	type ashbyJob struct {
		Title      string `json:"title"`
		Department string `json:"department"`
		Location   string `json:"location"`
		IsRemote   bool   `json:"isRemote"`
		JobURL     string `json:"jobUrl"`
	}

	for _, slug := range slugs {
		var resp struct {
			Jobs []ashbyJob `json:"jobs"`
		}
		url := fmt.Sprintf("%s/%s", s.opts.AshbyBaseURL, slug)
		if !s.probe.FetchJSON(ctx, url, &resp) || len(resp.Jobs) == 0 {
			continue
		}

		postings := make([]model.JobPosting, 0, len(resp.Jobs))
		for _, j := range resp.Jobs {
			postings = append(postings, model.JobPosting{
				Title:      j.Title,
				Department: j.Department,
				Location:   j.Location,
				Remote:     j.IsRemote || isRemote(j.Title, j.Location),
				URL:        j.JobURL,
			})
		}
		return postings
	}
	return nil
}

// --- careers-page heuristic ---

var (
	jobAnchorPattern = regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']*(?:job|career|position|opening)[^"']*)["'][^>]*>(.*?)</a>`)
	tagStripper      = regexp.MustCompile(`<[^>]+>`)
)

// careersPage probes four conventional paths under the company's own domain
// and treats job-ish anchor links as postings. It is deliberately loose: a
// weak signal beats none when no ATS board exists.
func (s *Scraper) careersPage(ctx context.Context, domain string) []model.JobPosting {
	if domain == "" {
		return nil
	}

	for _, path := range careersPaths {
		res := s.probe.Fetch(ctx, s.opts.SiteScheme+"://"+domain+path)
		if res.Empty() {
			continue
		}

		var postings []model.JobPosting
		seen := make(map[string]bool)
		for _, m := range jobAnchorPattern.FindAllStringSubmatch(res.Body, -1) {
			title := strings.TrimSpace(html.UnescapeString(tagStripper.ReplaceAllString(m[2], " ")))
			title = strings.Join(strings.Fields(title), " ")
			if len(title) < 5 || len(title) > 80 || seen[title] {
				continue
			}
			seen[title] = true
			postings = append(postings, model.JobPosting{
				Title:  title,
				Remote: isRemote(title, ""),
				URL:    absoluteURL(s.opts.SiteScheme, domain, m[1]),
			})
			if len(postings) >= 20 {
				break
			}
		}
		if len(postings) > 0 {
			return postings
		}
	}
	return nil
}

func absoluteURL(scheme, domain, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return scheme + "://" + domain + href
	}
	return scheme + "://" + domain + "/" + href
}

func isRemote(title, location string) bool {
	lower := strings.ToLower(title + " " + location)
	return strings.Contains(lower, "remote") || strings.Contains(lower, "anywhere")
}

// --- slug derivation ---

// slugCandidates returns the company-name-derived and domain-derived slugs,
// deduplicated, in that order.
func slugCandidates(domain, companyName string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range []string{nameSlug(companyName), domainSlug(domain)} {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// nameSlug lowercases, folds diacritics, and strips everything but letters
// and digits: "Café Brands Inc" -> "cafebrandsinc".
func nameSlug(name string) string {
	folded := foldDiacritics(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// domainSlug takes the first label of the domain: "acme.co.uk" -> "acme".
func domainSlug(domain string) string {
	domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
	if i := strings.Index(domain, "."); i > 0 {
		return domain[:i]
	}
	return domain
}

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
