// Package social extracts and verifies social profile links from raw HTML.
// Candidates come from anchor tags, OpenGraph metadata, and JSON-LD sameAs
// blocks; only candidates that resolve during verification are surfaced.
package social

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/probe"
)

// network identifies one social platform and how to recognize its URLs.
type network struct {
	name    string
	match   *regexp.Regexp
	exclude []string // path fragments that are never profile links
}

var networks = []network{
	{
		name:    "linkedin",
		match:   regexp.MustCompile(`(?i)^https?://([a-z]{2,3}\.)?linkedin\.com/(company|school|showcase)/[A-Za-z0-9._%-]+/?$`),
		exclude: []string{"/shareArticle", "/sharing"},
	},
	{
		name:    "twitter",
		match:   regexp.MustCompile(`(?i)^https?://(www\.)?(twitter|x)\.com/[A-Za-z0-9_]{1,15}/?$`),
		exclude: []string{"/intent/", "/share", "/home", "/search"},
	},
	{
		name:    "github",
		match:   regexp.MustCompile(`(?i)^https?://(www\.)?github\.com/[A-Za-z0-9-]+/?$`),
		exclude: []string{"/features", "/pricing", "/about", "/login", "/topics"},
	},
	{
		name:    "facebook",
		match:   regexp.MustCompile(`(?i)^https?://(www\.)?facebook\.com/[A-Za-z0-9.]+/?$`),
		exclude: []string{"/sharer", "/dialog", "/plugins"},
	},
	{
		name:    "instagram",
		match:   regexp.MustCompile(`(?i)^https?://(www\.)?instagram\.com/[A-Za-z0-9._]+/?$`),
		exclude: []string{"/p/", "/explore"},
	},
	{
		name:    "youtube",
		match:   regexp.MustCompile(`(?i)^https?://(www\.)?youtube\.com/(@[A-Za-z0-9._-]+|c/[A-Za-z0-9._-]+|channel/[A-Za-z0-9_-]+|user/[A-Za-z0-9._-]+)/?$`),
		exclude: []string{"/watch", "/embed"},
	},
}

var (
	ogURLPattern  = regexp.MustCompile(`(?i)<meta[^>]+property=["']og:see_also["'][^>]+content=["']([^"']+)["']`)
	jsonLDPattern = regexp.MustCompile(`(?is)<script[^>]+type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
)

// Verifier reports whether a URL resolves. *probe.Probe satisfies it.
type Verifier interface {
	Exists(ctx context.Context, url string) bool
}

var _ Verifier = (*probe.Probe)(nil)

// Extractor finds social links in HTML and verifies them before surfacing.
type Extractor struct {
	verifier Verifier
}

// NewExtractor creates an Extractor backed by the given verifier.
func NewExtractor(v Verifier) *Extractor {
	return &Extractor{verifier: v}
}

// Extract collects social link candidates from raw HTML and returns only the
// ones that verify. Unverified candidates are discarded, never surfaced.
func (e *Extractor) Extract(ctx context.Context, rawHTML string) model.SocialLinks {
	candidates := collectCandidates(rawHTML)
	if len(candidates) == 0 {
		return model.SocialLinks{}
	}

	var (
		mu       sync.Mutex
		verified = make(map[string]string)
	)

	g, gCtx := errgroup.WithContext(ctx)
	for name, urls := range candidates {
		name, urls := name, urls
		g.Go(func() error {
			for _, u := range urls {
				if e.verifier.Exists(gCtx, u) {
					mu.Lock()
					verified[name] = u
					mu.Unlock()
					return nil
				}
				zap.L().Debug("social: candidate failed verification",
					zap.String("network", name),
					zap.String("url", u),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return model.SocialLinks{
		LinkedIn:  verified["linkedin"],
		Twitter:   verified["twitter"],
		GitHub:    verified["github"],
		Facebook:  verified["facebook"],
		Instagram: verified["instagram"],
		YouTube:   verified["youtube"],
	}
}

// collectCandidates gathers candidate URLs per network, in discovery order,
// deduplicated by normalized URL.
func collectCandidates(rawHTML string) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[string]bool)

	add := func(raw string) {
		u := normalize(raw)
		if u == "" || seen[u] {
			return
		}
		for _, n := range networks {
			if matchNetwork(n, u) {
				seen[u] = true
				out[n.name] = append(out[n.name], u)
				return
			}
		}
	}

	for _, href := range anchorHrefs(rawHTML) {
		add(href)
	}
	for _, m := range ogURLPattern.FindAllStringSubmatch(rawHTML, -1) {
		add(m[1])
	}
	for _, u := range sameAsURLs(rawHTML) {
		add(u)
	}

	return out
}

func matchNetwork(n network, u string) bool {
	for _, ex := range n.exclude {
		if strings.Contains(u, ex) {
			return false
		}
	}
	return n.match.MatchString(u)
}

func normalize(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" || strings.HasPrefix(u, "#") || strings.HasPrefix(u, "mailto:") {
		return ""
	}
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimSuffix(u, "/")
}

// anchorHrefs walks the HTML token stream and returns every <a href> value.
func anchorHrefs(rawHTML string) []string {
	var hrefs []string
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return hrefs
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if len(name) != 1 || name[0] != 'a' || !hasAttr {
			continue
		}
		for {
			key, val, more := z.TagAttr()
			if string(key) == "href" {
				hrefs = append(hrefs, string(val))
			}
			if !more {
				break
			}
		}
	}
}

// sameAsURLs pulls sameAs entries out of JSON-LD structured data blocks.
func sameAsURLs(rawHTML string) []string {
	var urls []string
	for _, m := range jsonLDPattern.FindAllStringSubmatch(rawHTML, -1) {
		var doc struct {
			SameAs []string `json:"sameAs"`
		}
		if err := json.Unmarshal([]byte(m[1]), &doc); err != nil {
			continue
		}
		urls = append(urls, doc.SameAs...)
	}
	return urls
}
