package techno

import "github.com/sells-group/enrich-cli/internal/model"

// Signature is one vendor detection rule. A signature matches when any of
// its HTML substrings, script-source substrings, or response-header tests
// hit; each method that hits appends its own entry to the result.
type Signature struct {
	Name       string
	Category   model.TechCategory
	Confidence int // static weight, never computed

	HTMLContains   []string // substrings of the raw HTML
	ScriptContains []string // substrings of <script src> values
	Header         string   // response header to inspect ("Server", "X-Powered-By")
	HeaderContains string
}

// DefaultCatalog returns the built-in vendor signature catalog. The slice is
// constructed fresh per call so callers can hold it as immutable
// configuration; nothing mutates it at runtime.
func DefaultCatalog() []Signature {
	return []Signature{
		{Name: "Google Analytics", Category: model.TechCategoryAnalytics, Confidence: 90,
			HTMLContains:   []string{"gtag('config'", "GoogleAnalyticsObject"},
			ScriptContains: []string{"google-analytics.com/analytics.js", "googletagmanager.com/gtag/js"}},
		{Name: "Google Tag Manager", Category: model.TechCategoryAnalytics, Confidence: 85,
			HTMLContains:   []string{"googletagmanager.com/ns.html"},
			ScriptContains: []string{"googletagmanager.com/gtm.js"}},
		{Name: "Segment", Category: model.TechCategoryAnalytics, Confidence: 85,
			HTMLContains:   []string{"analytics.load("},
			ScriptContains: []string{"cdn.segment.com/analytics.js"}},
		{Name: "Mixpanel", Category: model.TechCategoryAnalytics, Confidence: 80,
			ScriptContains: []string{"cdn.mxpnl.com"}},
		{Name: "Amplitude", Category: model.TechCategoryAnalytics, Confidence: 80,
			ScriptContains: []string{"cdn.amplitude.com"}},
		{Name: "Hotjar", Category: model.TechCategoryAnalytics, Confidence: 80,
			HTMLContains:   []string{"hjSiteSettings", "_hjSettings"},
			ScriptContains: []string{"static.hotjar.com"}},

		{Name: "HubSpot", Category: model.TechCategoryMarketing, Confidence: 85,
			HTMLContains:   []string{"_hsq.push"},
			ScriptContains: []string{"js.hs-scripts.com", "js.hsforms.net"}},
		{Name: "Marketo", Category: model.TechCategoryMarketing, Confidence: 80,
			ScriptContains: []string{"munchkin.marketo.net"}},
		{Name: "Mailchimp", Category: model.TechCategoryMarketing, Confidence: 70,
			HTMLContains: []string{"list-manage.com/subscribe"}},

		{Name: "Intercom", Category: model.TechCategorySupport, Confidence: 85,
			HTMLContains:   []string{"window.intercomSettings"},
			ScriptContains: []string{"widget.intercom.io"}},
		{Name: "Zendesk", Category: model.TechCategorySupport, Confidence: 80,
			ScriptContains: []string{"static.zdassets.com", "zendesk.com/embeddable"}},
		{Name: "Drift", Category: model.TechCategorySupport, Confidence: 80,
			ScriptContains: []string{"js.driftt.com"}},

		{Name: "React", Category: model.TechCategoryFramework, Confidence: 70,
			HTMLContains: []string{"data-reactroot", "__NEXT_DATA__", "react-dom"}},
		{Name: "Next.js", Category: model.TechCategoryFramework, Confidence: 85,
			HTMLContains:   []string{"__NEXT_DATA__"},
			ScriptContains: []string{"/_next/static/"}},
		{Name: "Vue.js", Category: model.TechCategoryFramework, Confidence: 70,
			HTMLContains: []string{"data-v-app", "__vue__"}},
		{Name: "Angular", Category: model.TechCategoryFramework, Confidence: 70,
			HTMLContains: []string{"ng-version="}},
		{Name: "Gatsby", Category: model.TechCategoryFramework, Confidence: 80,
			HTMLContains: []string{"___gatsby"}},

		{Name: "WordPress", Category: model.TechCategoryCMS, Confidence: 90,
			HTMLContains: []string{"/wp-content/", "/wp-includes/"}},
		{Name: "Webflow", Category: model.TechCategoryCMS, Confidence: 85,
			HTMLContains: []string{"data-wf-site", "website-files.com"}},
		{Name: "Wix", Category: model.TechCategoryCMS, Confidence: 85,
			HTMLContains: []string{"wix.com/website", "static.parastorage.com"}},
		{Name: "Squarespace", Category: model.TechCategoryCMS, Confidence: 85,
			HTMLContains: []string{"static1.squarespace.com"}},
		{Name: "Contentful", Category: model.TechCategoryCMS, Confidence: 75,
			HTMLContains: []string{"ctfassets.net"}},

		{Name: "Shopify", Category: model.TechCategoryEcommerce, Confidence: 90,
			HTMLContains:   []string{"cdn.shopify.com", "Shopify.theme"},
			ScriptContains: []string{"cdn.shopify.com"}},
		{Name: "Stripe", Category: model.TechCategoryPayments, Confidence: 85,
			ScriptContains: []string{"js.stripe.com"}},

		{Name: "Sentry", Category: model.TechCategoryMonitoring, Confidence: 80,
			ScriptContains: []string{"browser.sentry-cdn.com"}},
		{Name: "Datadog", Category: model.TechCategoryMonitoring, Confidence: 80,
			ScriptContains: []string{"datadoghq-browser-agent.com"}},

		{Name: "Cloudflare", Category: model.TechCategoryHosting, Confidence: 75,
			HTMLContains: []string{"cdn-cgi/"},
			Header:       "Server", HeaderContains: "cloudflare"},
		{Name: "nginx", Category: model.TechCategoryInfrastructure, Confidence: 70,
			Header: "Server", HeaderContains: "nginx"},
		{Name: "Express", Category: model.TechCategoryInfrastructure, Confidence: 70,
			Header: "X-Powered-By", HeaderContains: "Express"},
		{Name: "Vercel", Category: model.TechCategoryHosting, Confidence: 75,
			Header: "Server", HeaderContains: "Vercel"},
		{Name: "Netlify", Category: model.TechCategoryHosting, Confidence: 75,
			Header: "Server", HeaderContains: "Netlify"},
	}
}

// JobVocabulary is the fixed technology vocabulary matched against job
// posting text, in catalog order.
func JobVocabulary() []string {
	return []string{
		"go", "golang", "python", "java", "javascript", "typescript", "ruby",
		"rust", "c++", "c#", "php", "scala", "kotlin", "swift",
		"react", "vue", "angular", "node.js", "django", "rails",
		"kubernetes", "docker", "terraform", "aws", "gcp", "azure",
		"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "kafka",
		"spark", "snowflake", "airflow", "graphql", "grpc",
		"machine learning", "tensorflow", "pytorch",
	}
}
