// Package mobile detects mobile apps from store links, smart-banner metadata,
// and deep-link patterns in raw HTML.
package mobile

import (
	"regexp"
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
)

var (
	appStorePattern  = regexp.MustCompile(`https?://(?:apps|itunes)\.apple\.com/[^\s"'<>]*?/?id(\d+)`)
	playStorePattern = regexp.MustCompile(`https?://play\.google\.com/store/apps/details\?id=([A-Za-z0-9._]+)`)
	smartBanner      = regexp.MustCompile(`(?i)<meta[^>]+name=["']apple-itunes-app["'][^>]+content=["'][^"']*app-id=(\d+)`)
	intentPattern    = regexp.MustCompile(`intent://[^\s"'<>]+;scheme=[a-z0-9.]+;package=([A-Za-z0-9._]+);`)
	marketPattern    = regexp.MustCompile(`market://details\?id=([A-Za-z0-9._]+)`)
	appNamePattern   = regexp.MustCompile(`https?://apps\.apple\.com/[a-z]{2}/app/([a-z0-9-]+)/id\d+`)
)

// downloadPhrases are page-text hints that an app exists without a store
// link. They raise the DownloadPhrase flag only; a phrase match alone never
// materializes an app entry.
var downloadPhrases = []string{
	"download our app",
	"download the app",
	"get the app",
	"available on the app store",
	"get it on google play",
}

// Detector finds mobile apps in raw HTML.
type Detector struct{}

// NewDetector creates a Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect runs five independent extraction passes over the same HTML, merges
// the findings, and deduplicates by (platform, store-id-or-url).
func (d *Detector) Detect(rawHTML string) model.MobileAppData {
	var found []model.MobileApp

	found = append(found, appStoreApps(rawHTML)...)
	found = append(found, playStoreApps(rawHTML)...)
	found = append(found, smartBannerApps(rawHTML)...)
	found = append(found, deepLinkApps(rawHTML)...)

	out := model.MobileAppData{DownloadPhrase: hasDownloadPhrase(rawHTML)}

	seen := make(map[string]bool)
	for _, app := range found {
		key := app.DedupeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		switch app.Platform {
		case model.PlatformIOS:
			out.IOS = append(out.IOS, app)
		case model.PlatformAndroid:
			out.Android = append(out.Android, app)
		}
	}

	out.HasIOS = len(out.IOS) > 0
	out.HasAndroid = len(out.Android) > 0
	return out
}

func appStoreApps(rawHTML string) []model.MobileApp {
	var apps []model.MobileApp
	for _, m := range appStorePattern.FindAllStringSubmatch(rawHTML, -1) {
		apps = append(apps, model.MobileApp{
			Platform: model.PlatformIOS,
			Name:     appNameFromURL(m[0]),
			StoreID:  m[1],
			StoreURL: m[0],
			Method:   "store_url",
		})
	}
	return apps
}

func playStoreApps(rawHTML string) []model.MobileApp {
	var apps []model.MobileApp
	for _, m := range playStorePattern.FindAllStringSubmatch(rawHTML, -1) {
		apps = append(apps, model.MobileApp{
			Platform: model.PlatformAndroid,
			StoreID:  m[1],
			StoreURL: m[0],
			Method:   "store_url",
		})
	}
	return apps
}

func smartBannerApps(rawHTML string) []model.MobileApp {
	var apps []model.MobileApp
	for _, m := range smartBanner.FindAllStringSubmatch(rawHTML, -1) {
		apps = append(apps, model.MobileApp{
			Platform: model.PlatformIOS,
			StoreID:  m[1],
			StoreURL: "https://apps.apple.com/app/id" + m[1],
			Method:   "smart_banner",
		})
	}
	return apps
}

func deepLinkApps(rawHTML string) []model.MobileApp {
	var apps []model.MobileApp
	for _, pat := range []*regexp.Regexp{intentPattern, marketPattern} {
		for _, m := range pat.FindAllStringSubmatch(rawHTML, -1) {
			apps = append(apps, model.MobileApp{
				Platform: model.PlatformAndroid,
				StoreID:  m[1],
				StoreURL: "https://play.google.com/store/apps/details?id=" + m[1],
				Method:   "deep_link",
			})
		}
	}
	return apps
}

func hasDownloadPhrase(rawHTML string) bool {
	lower := strings.ToLower(rawHTML)
	for _, phrase := range downloadPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func appNameFromURL(storeURL string) string {
	m := appNamePattern.FindStringSubmatch(storeURL)
	if len(m) < 2 {
		return ""
	}
	return strings.ReplaceAll(m[1], "-", " ")
}
