// Package pipeline orchestrates a full company enrichment: domain
// resolution, source fan-out, signal fusion, the AI structuring call, and
// final record assembly.
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/config"
	"github.com/sells-group/enrich-cli/internal/headcount"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/probe"
	"github.com/sells-group/enrich-cli/internal/store"
	"github.com/sells-group/enrich-cli/pkg/anthropic"
)

// Collaborator interfaces. Each source component is behind an interface so
// pipeline tests can substitute fakes per scenario.
type (
	// CodeHostFetcher resolves and summarizes code-host organizations.
	CodeHostFetcher interface {
		ResolveOrg(ctx context.Context, domain, name string) (string, error)
		FetchOrgData(ctx context.Context, org string) (*model.CodeHostData, error)
	}

	// JobScraper gathers open positions.
	JobScraper interface {
		Scrape(ctx context.Context, domain, companyName string) model.HiringData
	}

	// TechDetector runs signature detection over raw HTML and job text.
	TechDetector interface {
		Detect(ctx context.Context, rawHTML, pageURL string) model.TechnographicData
		TechFromJobText(descriptions []string) []string
	}

	// MobileDetector finds app-store presence in raw HTML.
	MobileDetector interface {
		Detect(rawHTML string) model.MobileAppData
	}

	// SocialExtractor finds and verifies social profile links in raw HTML.
	SocialExtractor interface {
		Extract(ctx context.Context, rawHTML string) model.SocialLinks
	}

	// HeadcountEstimator derives a headcount estimate for one company.
	HeadcountEstimator interface {
		EstimateEngineering(ctx context.Context, name, profileURL string) model.HeadcountEstimate
	}
)

// Fusion weights for cross-source headcount estimates, by origin.
var fusionTierWeights = map[model.ConfidenceTier]float64{
	model.TierHigh:   0.9,
	model.TierMedium: 0.6,
	model.TierLow:    0.3,
}

const (
	fusionJobsWeight   = 0.5
	fusionGitHubWeight = 0.4

	profileCacheTTL = 24 * time.Hour
)

// Pipeline enriches companies. Safe for concurrent use.
type Pipeline struct {
	cfg       *config.Config
	probe     *probe.Probe
	ai        anthropic.Client
	codehost  CodeHostFetcher
	jobs      JobScraper
	tech      TechDetector
	mobile    MobileDetector
	social    SocialExtractor
	headcount HeadcountEstimator
	store     store.Store // optional profile-page cache; may be nil

	// researchBaseURL is the company-research site probed for narrative
	// text. Overridable for tests.
	researchBaseURL string
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	p *probe.Probe,
	ai anthropic.Client,
	ch CodeHostFetcher,
	jobs JobScraper,
	tech TechDetector,
	mobile MobileDetector,
	social SocialExtractor,
	hc HeadcountEstimator,
	st store.Store,
) *Pipeline {
	return &Pipeline{
		cfg:             cfg,
		probe:           p,
		ai:              ai,
		codehost:        ch,
		jobs:            jobs,
		tech:            tech,
		mobile:          mobile,
		social:          social,
		headcount:       hc,
		store:           st,
		researchBaseURL: "https://www.crunchbase.com/organization/",
	}
}

// Enrich runs the full sequence for one input. Source failures degrade to
// empty contributions; only a malformed input or a failed structuring call
// produces success:false. Panics anywhere in the sequence are converted to a
// failed result at this boundary.
func (p *Pipeline) Enrich(ctx context.Context, input model.EnrichmentInput) (result model.EnrichmentResult) {
	start := time.Now()
	result = model.EnrichmentResult{Input: input}

	defer func() {
		result.ProcessingTime = time.Since(start)
		if r := recover(); r != nil {
			zap.L().Error("pipeline: panic during enrichment", zap.Any("panic", r))
			result = model.EnrichmentResult{
				Input:          input,
				Error:          fmt.Sprintf("pipeline: %v", r),
				ProcessingTime: time.Since(start),
			}
		}
	}()

	if err := input.Validate(); err != nil {
		result.Error = err.Error()
		return result
	}

	record, err := p.enrich(ctx, input)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Record = record
	result.Confidence = confidenceScore(record)
	return result
}

// EnrichAll enriches every input concurrently, preserving order. Elements
// are independent; one failure never affects siblings.
func (p *Pipeline) EnrichAll(ctx context.Context, inputs []model.EnrichmentInput) []model.EnrichmentResult {
	results := make([]model.EnrichmentResult, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		i, in := i, in
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.Enrich(ctx, in)
		}()
	}
	wg.Wait()
	return results
}

func (p *Pipeline) enrich(ctx context.Context, input model.EnrichmentInput) (*model.CompanyRecord, error) {
	log := zap.L().With(zap.String("domain", input.Domain), zap.String("name", input.Name))
	log.Info("pipeline: starting enrichment")

	var sources []string
	addSource := func(name string) { sources = append(sources, name) }

	// Step 1: domain resolution. Failure is silent; the pipeline proceeds
	// with reduced signal.
	domain := strings.TrimSpace(input.Domain)
	if domain == "" {
		domain = p.resolveDomain(ctx, input.Name)
		if domain == "" {
			log.Debug("pipeline: domain resolution failed")
		}
	}

	// Step 2: website HTML.
	var siteHTML, siteURL string
	if domain != "" {
		siteURL = "https://" + domain
		if res := p.probe.Fetch(ctx, siteURL); !res.Empty() {
			siteHTML = res.Body
			addSource("website")
		}
	}

	// Step 3: best-effort narrative fetches.
	linkedinText := p.fetchProfileText(ctx, input.LinkedInURL)
	if linkedinText != "" {
		addSource("linkedin")
	}
	researchText := p.fetchResearchText(ctx, input.Name, domain)
	if researchText != "" {
		addSource("research")
	}

	// Step 4: code-host org data.
	var codeHost *model.CodeHostData
	if org, err := p.codehost.ResolveOrg(ctx, domain, input.Name); err == nil {
		data, err := p.codehost.FetchOrgData(ctx, org)
		if err != nil {
			log.Debug("pipeline: code-host fetch failed", zap.String("org", org), zap.Error(err))
		} else if data != nil {
			codeHost = data
			addSource("codehost")
		}
	}

	// Step 5: job boards.
	hiring := p.jobs.Scrape(ctx, domain, input.Name)
	if hiring.Total > 0 {
		addSource("jobs")
	}

	// Step 6: technographics over the raw HTML. The signatures rely on
	// markup and script URLs, so cleaned text is never used here.
	tech := p.tech.Detect(ctx, siteHTML, siteURL)
	if len(tech.Signatures) > 0 {
		addSource("tech")
	}

	// Step 7: technology mentions in job text.
	if hiring.Total > 0 {
		var descriptions []string
		for _, posting := range hiring.Postings {
			descriptions = append(descriptions, posting.Title+" "+posting.Description)
		}
		hiring.TechMentions = p.tech.TechFromJobText(descriptions)
	}

	// Step 8: mobile apps.
	mobileApps := p.mobile.Detect(siteHTML)
	if !mobileApps.Empty() {
		addSource("mobile")
	}

	// Step 9: social links (verified only).
	socialLinks := p.social.Extract(ctx, siteHTML)
	if !socialLinks.Empty() {
		addSource("social")
	}

	// Step 10: headcount, fused across sources when both job and code-host
	// signals exist.
	profileURL := socialLinks.LinkedIn
	if profileURL == "" {
		profileURL = input.LinkedInURL
	}
	estimate := p.headcount.EstimateEngineering(ctx, input.Name, profileURL)
	if hiring.Total > 0 && codeHost != nil {
		fused := headcount.Combine([]headcount.WeightedEstimate{
			{Value: estimate.TotalEmployees, Confidence: fusionTierWeights[estimate.Tier]},
			{Value: headcount.FromJobPostings(hiring.EngineeringOpen()), Confidence: fusionJobsWeight},
			{Value: headcount.FromGitHub(codeHost.Contributors), Confidence: fusionGitHubWeight},
		})
		if fused > 0 {
			estimate.TotalEmployees = fused
			estimate.Source = "fused"
		}
	}
	if estimate.TotalEmployees > 0 || estimate.EngineeringCount > 0 {
		addSource("headcount")
	}

	// Step 11: the structuring call. The one fatal step.
	profile, err := p.structure(ctx, input, domain, siteHTML, linkedinText, researchText)
	if err != nil {
		return nil, err
	}

	// Steps 12-13: assembly. Deterministic data wins over AI guesses. The
	// record keeps only the top postings; totals and department buckets
	// still reflect everything scraped.
	if n := p.cfg.Jobs.TopPostings; n > 0 && len(hiring.Postings) > n {
		hiring.Postings = hiring.Postings[:n]
	}
	record := assembleRecord(input, domain, profile, socialLinks, tech, mobileApps, hiring, codeHost, estimate)
	record.Sources = sources
	if record.Sources == nil {
		record.Sources = []string{}
	}

	log.Info("pipeline: enrichment complete",
		zap.String("resolved_domain", domain),
		zap.Strings("sources", sources),
	)
	return record, nil
}

// assembleRecord merges AI narrative fields with deterministic signal data.
func assembleRecord(
	input model.EnrichmentInput,
	domain string,
	profile *structuredProfile,
	social model.SocialLinks,
	tech model.TechnographicData,
	mobileApps model.MobileAppData,
	hiring model.HiringData,
	codeHost *model.CodeHostData,
	estimate model.HeadcountEstimate,
) *model.CompanyRecord {
	record := &model.CompanyRecord{
		Name:            profile.Name,
		Domain:          profile.Domain,
		Description:     profile.Description,
		FoundedYear:     profile.FoundedYear,
		EmployeeCount:   profile.EmployeeCount,
		Headquarters:    profile.Headquarters,
		Industries:      profile.Industries,
		Verticals:       profile.Verticals,
		TotalFunding:    profile.TotalFunding,
		LatestRound:     profile.LatestRound,
		CEO:             profile.CEO,
		Leadership:      profile.Leadership,
		GrowthStage:     profile.GrowthStage,
		RecentNews:      profile.RecentNews,
		ProductLaunches: profile.ProductLaunches,
		Acquisitions:    profile.Acquisitions,
		CompetitorMoves: profile.CompetitorMoves,

		Social:     social,
		TechStack:  tech.Signatures,
		MobileApps: mobileApps,
	}

	// Deterministic identity beats the AI's guesses.
	if input.Name != "" {
		record.Name = input.Name
	}
	if domain != "" {
		record.Domain = domain
	}
	if record.Name == "" {
		record.Name = record.Domain
	}

	if hiring.Total > 0 {
		record.Hiring = &hiring
	}
	record.CodeHost = codeHost

	if estimate.TotalEmployees > 0 || estimate.EngineeringCount > 0 {
		est := estimate
		record.Headcount = &est
		if est.TotalEmployees > 0 {
			record.EmployeeCount = est.TotalEmployees
		}
		record.EngineeringCount = est.EngineeringCount
	}

	return record
}

// fetchProfileText fetches a profile page as plain text, going through the
// store-backed cache when one is configured.
func (p *Pipeline) fetchProfileText(ctx context.Context, profileURL string) string {
	if profileURL == "" {
		return ""
	}

	if p.store != nil {
		if body, err := p.store.GetCachedProfile(ctx, profileURL); err == nil && len(body) > 0 {
			return htmlToText(string(body))
		}
	}

	res := p.probe.Fetch(ctx, profileURL)
	if res.Empty() {
		return ""
	}
	if p.store != nil {
		if err := p.store.SetCachedProfile(ctx, profileURL, []byte(res.Body), profileCacheTTL); err != nil {
			zap.L().Warn("pipeline: profile cache write failed", zap.Error(err))
		}
	}
	return htmlToText(res.Body)
}

// fetchResearchText probes a public company-research page. Best effort; most
// of these block automated fetches and the step contributes nothing then.
func (p *Pipeline) fetchResearchText(ctx context.Context, name, domain string) string {
	slug := researchSlug(name, domain)
	if slug == "" {
		return ""
	}
	res := p.probe.Fetch(ctx, p.researchBaseURL+slug)
	if res.Empty() {
		return ""
	}
	return htmlToText(res.Body)
}

func researchSlug(name, domain string) string {
	if name != "" {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
	}
	if i := strings.Index(domain, "."); i > 0 {
		return domain[:i]
	}
	return ""
}

// resolveDomain guesses a domain for a bare company name: first the AI's
// suggestion, verified by probe; then fixed name-derived patterns. First
// verified candidate wins.
func (p *Pipeline) resolveDomain(ctx context.Context, name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	if guess := p.guessDomain(ctx, name); guess != "" && p.probe.Exists(ctx, "https://"+guess) {
		return guess
	}

	base := nameToken(name, "")
	hyphen := nameToken(name, "-")
	for _, candidate := range []string{
		base + ".com", base + ".io", base + ".ai", base + ".app", hyphen + ".com",
	} {
		if candidate == ".com" || candidate == ".io" || candidate == ".ai" || candidate == ".app" {
			continue
		}
		if p.probe.Exists(ctx, "https://"+candidate) {
			return candidate
		}
	}
	return ""
}

// guessDomain asks the model for the company's likely domain.
func (p *Pipeline) guessDomain(ctx context.Context, name string) string {
	resp, err := p.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.cfg.Anthropic.Model,
		MaxTokens: 64,
		Messages: []anthropic.Message{{
			Role: "user",
			Content: "What is the most likely website domain for the company \"" + name +
				"\"? Reply with the bare domain only (like example.com), nothing else.",
		}},
	})
	if err != nil {
		zap.L().Debug("pipeline: domain guess failed", zap.Error(err))
		return ""
	}

	guess := strings.ToLower(strings.TrimSpace(resp.Text()))
	guess = strings.TrimPrefix(guess, "https://")
	guess = strings.TrimPrefix(guess, "http://")
	guess = strings.TrimSuffix(strings.TrimPrefix(guess, "www."), "/")
	if !domainPattern.MatchString(guess) {
		return ""
	}
	return guess
}

var domainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*\.[a-z]{2,}$`)

func nameToken(name, sep string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	for i, f := range fields {
		var b strings.Builder
		for _, r := range f {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		fields[i] = b.String()
	}
	return strings.Join(fields, sep)
}

var (
	tagPattern        = regexp.MustCompile(`(?s)<(?:script|style)[^>]*>.*?</(?:script|style)>`)
	markupPattern     = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// maxNarrativeChars bounds the text handed to the structuring prompt.
const maxNarrativeChars = 8000

// htmlToText strips markup for narrative prompt building.
func htmlToText(rawHTML string) string {
	text := tagPattern.ReplaceAllString(rawHTML, " ")
	text = markupPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxNarrativeChars {
		text = text[:maxNarrativeChars]
	}
	return text
}
