package techno

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/probe"
)

func newDetector(p HeaderProber) *Detector {
	return NewDetector(DefaultCatalog(), JobVocabulary(), p)
}

func names(sigs []model.TechSignature) []string {
	var out []string
	for _, s := range sigs {
		out = append(out, s.Name)
	}
	return out
}

func TestDetectHTMLAndScript(t *testing.T) {
	html := `<html><head>
<script src="https://www.googletagmanager.com/gtag/js?id=G-1"></script>
<script>gtag('config', 'G-1');</script>
<link href="/wp-content/themes/x/style.css">
</head><body data-reactroot=""></body></html>`

	data := newDetector(nil).Detect(context.Background(), html, "")
	got := names(data.Signatures)

	assert.Contains(t, got, "WordPress")
	assert.Contains(t, got, "React")

	// Google Analytics matched both by inline HTML and by script src: the
	// detector keeps both entries, one per method.
	var gaMethods []string
	for _, s := range data.Signatures {
		if s.Name == "Google Analytics" {
			gaMethods = append(gaMethods, s.Method)
		}
	}
	assert.ElementsMatch(t, []string{"html", "script"}, gaMethods)
}

func TestDetectHeaderSignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "cloudflare")
		w.Header().Set("X-Powered-By", "Express")
	}))
	defer srv.Close()

	p := probe.New(probe.Options{ProbeTimeout: 2 * time.Second})
	data := newDetector(p).Detect(context.Background(), "<html></html>", srv.URL)
	got := names(data.Signatures)

	assert.Contains(t, got, "Cloudflare")
	assert.Contains(t, got, "Express")
	assert.NotContains(t, got, "nginx")
}

func TestDetectEmptyHTML(t *testing.T) {
	data := newDetector(nil).Detect(context.Background(), "", "")
	assert.Empty(t, data.Signatures)
}

func TestTechFromJobText(t *testing.T) {
	descs := []string{
		"We use Go and Kubernetes on AWS. Experience with Postgres a plus.",
		"Looking for Go engineers familiar with Kubernetes and Kafka.",
		"Frontend role: React and TypeScript.",
	}

	got := newDetector(nil).TechFromJobText(descs)

	// go and kubernetes are in 2 postings each; react only in 1.
	assert.Contains(t, got, "go")
	assert.Contains(t, got, "kubernetes")
	assert.NotContains(t, got, "react")
}

func TestTechFromJobTextSinglePosting(t *testing.T) {
	// With one description, the threshold drops to min(2, 1) = 1.
	got := newDetector(nil).TechFromJobText([]string{"Rust and Kafka experience required"})
	assert.Contains(t, got, "rust")
	assert.Contains(t, got, "kafka")
}

func TestTechFromJobTextEmpty(t *testing.T) {
	assert.Nil(t, newDetector(nil).TechFromJobText(nil))
}

func TestContainsTermWordBoundary(t *testing.T) {
	assert.True(t, containsTerm("We write Go services", "go"))
	assert.False(t, containsTerm("We use Google Docs", "go"))
	assert.True(t, containsTerm("C++ developers wanted", "c++"))
}

func TestDedupeByVendor(t *testing.T) {
	sigs := []model.TechSignature{
		{Name: "Shopify", Confidence: 90, Method: "html"},
		{Name: "Shopify", Confidence: 90, Method: "script"},
		{Name: "Stripe", Confidence: 85, Method: "script"},
	}
	got := DedupeByVendor(sigs)
	require.Len(t, got, 2)
	assert.Equal(t, "Shopify", got[0].Name)
	assert.Equal(t, "Stripe", got[1].Name)
}
