// Package techno infers a company's technology stack by pattern-matching raw
// HTML, script sources, and response headers against a vendor signature
// catalog. Matches are appended as-is: one vendor hit by several detection
// methods yields several entries, and consumers dedupe at presentation time.
package techno

import (
	"context"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
)

var scriptSrcPattern = regexp.MustCompile(`(?i)<script[^>]+src=["']([^"']+)["']`)

// HeaderProber fetches response headers for header-based signatures.
// *probe.Probe satisfies it; a nil prober disables header signatures.
type HeaderProber interface {
	Head(ctx context.Context, url string) (http.Header, bool)
}

// Detector matches HTML against an immutable signature catalog.
type Detector struct {
	catalog    []Signature
	vocabulary []string
	prober     HeaderProber
}

// NewDetector creates a Detector. The catalog and vocabulary are treated as
// immutable configuration; they are loaded once and never modified.
func NewDetector(catalog []Signature, vocabulary []string, prober HeaderProber) *Detector {
	return &Detector{catalog: catalog, vocabulary: vocabulary, prober: prober}
}

// Detect runs every signature against the raw HTML (markup and script URLs
// matter, so this must never receive cleaned text). Header signatures issue
// one live HEAD probe against pageURL, shared across all of them.
func (d *Detector) Detect(ctx context.Context, rawHTML, pageURL string) model.TechnographicData {
	var out model.TechnographicData
	if rawHTML == "" && pageURL == "" {
		return out
	}

	scripts := scriptSources(rawHTML)

	var header http.Header
	if d.prober != nil && pageURL != "" && hasHeaderSignatures(d.catalog) {
		if h, ok := d.prober.Head(ctx, pageURL); ok {
			header = h
		}
	}

	for _, sig := range d.catalog {
		for _, sub := range sig.HTMLContains {
			if strings.Contains(rawHTML, sub) {
				out.Signatures = append(out.Signatures, entry(sig, "html"))
				break
			}
		}
		for _, sub := range sig.ScriptContains {
			if anyContains(scripts, sub) {
				out.Signatures = append(out.Signatures, entry(sig, "script"))
				break
			}
		}
		if sig.Header != "" && header != nil {
			if strings.Contains(strings.ToLower(header.Get(sig.Header)), strings.ToLower(sig.HeaderContains)) {
				out.Signatures = append(out.Signatures, entry(sig, "header"))
			}
		}
	}

	zap.L().Debug("techno: detection complete",
		zap.String("url", pageURL),
		zap.Int("signatures", len(out.Signatures)),
	)
	return out
}

// TechFromJobText classifies free-text job descriptions against the job
// vocabulary. A technology qualifies when mentioned in at least
// min(2, len(descriptions)) postings; results are sorted by mention count,
// ties broken by vocabulary order.
func (d *Detector) TechFromJobText(descriptions []string) []string {
	if len(descriptions) == 0 {
		return nil
	}

	threshold := 2
	if len(descriptions) < threshold {
		threshold = len(descriptions)
	}

	counts := make(map[string]int)
	order := make(map[string]int)
	for i, term := range d.vocabulary {
		order[term] = i
		for _, desc := range descriptions {
			if containsTerm(desc, term) {
				counts[term]++
			}
		}
	}

	var qualified []string
	for term, n := range counts {
		if n >= threshold {
			qualified = append(qualified, term)
		}
	}
	sort.Slice(qualified, func(i, j int) bool {
		if counts[qualified[i]] != counts[qualified[j]] {
			return counts[qualified[i]] > counts[qualified[j]]
		}
		return order[qualified[i]] < order[qualified[j]]
	})
	return qualified
}

// containsTerm does a case-insensitive match with crude word boundaries so
// "go" does not match "google".
func containsTerm(text, term string) bool {
	lower := strings.ToLower(text)
	idx := 0
	for {
		i := strings.Index(lower[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func entry(sig Signature, method string) model.TechSignature {
	return model.TechSignature{
		Name:       sig.Name,
		Category:   sig.Category,
		Confidence: sig.Confidence,
		Method:     method,
	}
}

func scriptSources(rawHTML string) []string {
	var srcs []string
	for _, m := range scriptSrcPattern.FindAllStringSubmatch(rawHTML, -1) {
		srcs = append(srcs, m[1])
	}
	return srcs
}

func anyContains(haystacks []string, sub string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, sub) {
			return true
		}
	}
	return false
}

func hasHeaderSignatures(catalog []Signature) bool {
	for _, sig := range catalog {
		if sig.Header != "" {
			return true
		}
	}
	return false
}

// DedupeByVendor collapses multiple entries for the same vendor, keeping the
// highest-confidence one. Used at the presentation boundary only; the
// detector itself always returns the raw signal.
func DedupeByVendor(sigs []model.TechSignature) []model.TechSignature {
	best := make(map[string]model.TechSignature)
	var names []string
	for _, s := range sigs {
		cur, ok := best[s.Name]
		if !ok {
			names = append(names, s.Name)
			best[s.Name] = s
			continue
		}
		if s.Confidence > cur.Confidence {
			best[s.Name] = s
		}
	}
	out := make([]model.TechSignature, 0, len(names))
	for _, n := range names {
		out = append(out, best[n])
	}
	return out
}
