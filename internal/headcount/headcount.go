// Package headcount estimates total and engineering headcount from public
// profile pages and search result counts, and fuses estimates from
// independent signals into one number.
package headcount

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/probe"
)

// searchKeywords scope the people-search count to engineering-ish roles.
// The highest count across keywords wins.
var searchKeywords = []string{"engineer", "developer", "software"}

var (
	// "51-200 employees", "201 - 500 employees"
	rangePattern = regexp.MustCompile(`(?i)(\d[\d,]*)\s*[-–]\s*(\d[\d,]*)\s*(?:\+\s*)?employees`)
	// "1,200 employees", "250+ employees"
	exactPattern = regexp.MustCompile(`(?i)(\d[\d,]*)\s*\+?\s*employees`)
	// "About 1,240 results"
	resultsPattern = regexp.MustCompile(`(?i)about\s+(\d[\d,]*)\s+results`)
)

// Estimator derives headcount from a company's public profile page and
// keyword-scoped search result counts.
type Estimator struct {
	probe         *probe.Probe
	searchBaseURL string
}

// NewEstimator creates an Estimator. searchBaseURL is the search endpoint
// queried for people counts.
func NewEstimator(p *probe.Probe, searchBaseURL string) *Estimator {
	return &Estimator{probe: p, searchBaseURL: searchBaseURL}
}

// EstimateEngineering builds one HeadcountEstimate. The profile page supplies
// total headcount (range strings resolve to their midpoint); search counts
// supply the engineering figure. An engineering count above the known total
// is replaced by floor(0.4 * total) and drops the tier to low; with no search
// signal at all, engineering defaults to floor(0.35 * total). The tier is
// medium only when the search count is above 10 and was not clamped.
func (e *Estimator) EstimateEngineering(ctx context.Context, name, profileURL string) model.HeadcountEstimate {
	total := 0
	if profileURL != "" {
		if res := e.probe.Fetch(ctx, profileURL); !res.Empty() {
			total = parseEmployeeCount(res.Body)
		}
	}

	searchCount := 0
	if name != "" && e.searchBaseURL != "" {
		for _, kw := range searchKeywords {
			if n := e.searchResultCount(ctx, name, kw); n > searchCount {
				searchCount = n
			}
		}
	}

	eng := searchCount
	clamped := false
	if total > 0 && eng > total {
		eng = int(0.4 * float64(total))
		clamped = true
	}
	if eng == 0 && total > 0 {
		eng = int(0.35 * float64(total))
	}

	tier := model.TierLow
	if searchCount > 10 && !clamped {
		tier = model.TierMedium
	}

	est := model.HeadcountEstimate{
		TotalEmployees:   total,
		EngineeringCount: eng,
		Tier:             tier,
		Source:           estimateSource(total, searchCount),
		CollectedAt:      time.Now().UTC(),
	}
	zap.L().Debug("headcount: estimate",
		zap.String("name", name),
		zap.Int("total", total),
		zap.Int("engineering", eng),
		zap.String("tier", string(tier)),
	)
	return est
}

func estimateSource(total, searchCount int) string {
	switch {
	case total > 0 && searchCount > 0:
		return "profile+search"
	case total > 0:
		return "profile"
	case searchCount > 0:
		return "search"
	default:
		return "none"
	}
}

func (e *Estimator) searchResultCount(ctx context.Context, name, keyword string) int {
	query := `"` + name + `" ` + keyword
	res := e.probe.Fetch(ctx, e.searchBaseURL+"?q="+url.QueryEscape(query))
	if res.Empty() {
		return 0
	}
	m := resultsPattern.FindStringSubmatch(res.Body)
	if m == nil {
		return 0
	}
	return parseNumber(m[1])
}

// parseEmployeeCount finds an employee figure in profile-page text. A range
// like "51-200 employees" resolves to its midpoint, rounded down.
func parseEmployeeCount(body string) int {
	if m := rangePattern.FindStringSubmatch(body); m != nil {
		lo, hi := parseNumber(m[1]), parseNumber(m[2])
		if hi >= lo && lo > 0 {
			return (lo + hi) / 2
		}
	}
	if m := exactPattern.FindStringSubmatch(body); m != nil {
		return parseNumber(m[1])
	}
	return 0
}

func parseNumber(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
