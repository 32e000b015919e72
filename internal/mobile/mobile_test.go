package mobile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestDetectStoreLinks(t *testing.T) {
	html := `<html><body>
<a href="https://apps.apple.com/us/app/example-app/id123456789">App Store</a>
<a href="https://play.google.com/store/apps/details?id=com.example.app">Play Store</a>
</body></html>`

	data := NewDetector().Detect(html)

	require.Len(t, data.IOS, 1)
	require.Len(t, data.Android, 1)
	assert.True(t, data.HasIOS)
	assert.True(t, data.HasAndroid)
	assert.Equal(t, "123456789", data.IOS[0].StoreID)
	assert.Equal(t, "example app", data.IOS[0].Name)
	assert.Equal(t, "com.example.app", data.Android[0].StoreID)
}

func TestDetectDedupAcrossPasses(t *testing.T) {
	// The same iOS app surfaces via a store URL and a smart banner: the
	// merged result must contain exactly one entry for it.
	html := `<html><head>
<meta name="apple-itunes-app" content="app-id=123">
</head><body>
<a href="https://apps.apple.com/us/app/example/id123">download</a>
</body></html>`

	data := NewDetector().Detect(html)
	require.Len(t, data.IOS, 1)
	assert.Equal(t, "123", data.IOS[0].StoreID)
	assert.Equal(t, "store_url", data.IOS[0].Method, "first pass wins the dedupe")
}

func TestDetectDeepLinks(t *testing.T) {
	html := `<a href="intent://open;scheme=example;package=com.example.app;end">open</a>
<a href="market://details?id=com.example.other">market</a>`

	data := NewDetector().Detect(html)
	require.Len(t, data.Android, 2)
	assert.Equal(t, "deep_link", data.Android[0].Method)
}

func TestDownloadPhraseIsFlagOnly(t *testing.T) {
	data := NewDetector().Detect("<p>Download our app today!</p>")
	assert.True(t, data.DownloadPhrase)
	assert.Empty(t, data.IOS)
	assert.Empty(t, data.Android)
	assert.True(t, data.Empty())
}

func TestDetectNothing(t *testing.T) {
	data := NewDetector().Detect("<html><body>plain site</body></html>")
	assert.True(t, data.Empty())
	assert.False(t, data.DownloadPhrase)
	assert.False(t, data.HasIOS)
	assert.False(t, data.HasAndroid)
}

func TestPlatformSplit(t *testing.T) {
	html := `<a href="https://apps.apple.com/us/app/a/id1">a</a>
<a href="https://apps.apple.com/us/app/b/id2">b</a>
<a href="https://play.google.com/store/apps/details?id=com.c">c</a>`

	data := NewDetector().Detect(html)
	assert.Len(t, data.IOS, 2)
	assert.Len(t, data.Android, 1)
	for _, app := range data.IOS {
		assert.Equal(t, model.PlatformIOS, app.Platform)
	}
}
