package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeVerifier marks a fixed set of URLs as resolvable.
type fakeVerifier struct {
	alive map[string]bool
	seen  []string
}

func (f *fakeVerifier) Exists(_ context.Context, url string) bool {
	f.seen = append(f.seen, url)
	return f.alive[url]
}

const fixture = `<!doctype html>
<html><head>
<script type="application/ld+json">
{"@type":"Organization","sameAs":["https://www.youtube.com/@examplecorp","https://www.instagram.com/examplecorp/"]}
</script>
</head><body>
<a href="https://www.linkedin.com/company/example-corp/">LinkedIn</a>
<a href="https://twitter.com/examplecorp?ref=footer">Twitter</a>
<a href="https://twitter.com/intent/tweet?text=hi">Share</a>
<a href="https://github.com/examplecorp">GitHub</a>
<a href="https://github.com/examplecorp/widgets">A repo, not a profile</a>
<a href="https://www.facebook.com/sharer/sharer.php?u=x">FB share</a>
<a href="/about">About</a>
<a href="mailto:hi@example.com">Mail</a>
</body></html>`

func TestExtractVerifiedOnly(t *testing.T) {
	v := &fakeVerifier{alive: map[string]bool{
		"https://www.linkedin.com/company/example-corp": true,
		"https://twitter.com/examplecorp":               true,
		"https://github.com/examplecorp":                true,
		"https://www.youtube.com/@examplecorp":          true,
		// instagram candidate is dead
	}}

	links := NewExtractor(v).Extract(context.Background(), fixture)

	assert.Equal(t, "https://www.linkedin.com/company/example-corp", links.LinkedIn)
	assert.Equal(t, "https://twitter.com/examplecorp", links.Twitter)
	assert.Equal(t, "https://github.com/examplecorp", links.GitHub)
	assert.Equal(t, "https://www.youtube.com/@examplecorp", links.YouTube)
	assert.Empty(t, links.Instagram, "unverified candidates must be discarded")
	assert.Empty(t, links.Facebook, "share links are never candidates")
}

func TestExtractNothingFromEmptyHTML(t *testing.T) {
	v := &fakeVerifier{alive: map[string]bool{}}
	links := NewExtractor(v).Extract(context.Background(), "")
	assert.True(t, links.Empty())
	assert.Empty(t, v.seen, "no candidates means no verification traffic")
}

func TestRepoLinksAreNotProfiles(t *testing.T) {
	v := &fakeVerifier{alive: map[string]bool{}}
	NewExtractor(v).Extract(context.Background(),
		`<a href="https://github.com/examplecorp/widgets">repo</a>`)
	assert.Empty(t, v.seen)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "https://x.com/acme", normalize("//x.com/acme?utm=1"))
	assert.Equal(t, "https://x.com/acme", normalize("https://x.com/acme/"))
	assert.Empty(t, normalize("#top"))
	assert.Empty(t, normalize("mailto:x@y.z"))
}
