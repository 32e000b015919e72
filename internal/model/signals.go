package model

import "time"

// Department is a fixed bucket a raw department string is classified into.
type Department string

const (
	DepartmentEngineering     Department = "engineering"
	DepartmentSales           Department = "sales"
	DepartmentMarketing       Department = "marketing"
	DepartmentCustomerSuccess Department = "customer-success"
	DepartmentOperations      Department = "operations"
	DepartmentOther           Department = "other"
)

// JobPosting is one open position found on a job board. Immutable once
// created by the scraper.
type JobPosting struct {
	Title       string     `json:"title"`
	Department  string     `json:"department,omitempty"` // raw text from the board
	Bucket      Department `json:"bucket"`
	Location    string     `json:"location,omitempty"`
	Remote      bool       `json:"remote"`
	URL         string     `json:"url,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	Description string     `json:"description,omitempty"`
}

// HiringData aggregates job-board findings for one company.
type HiringData struct {
	Postings     []JobPosting       `json:"postings,omitempty"`
	ByDepartment map[Department]int `json:"by_department,omitempty"`
	TopSkills    []string           `json:"top_skills,omitempty"`
	// TechMentions are technologies found in posting text via the
	// technographic catalog, added after scraping.
	TechMentions []string `json:"tech_mentions,omitempty"`
	Total        int      `json:"total"`
}

// EngineeringOpen returns the number of postings bucketed under engineering.
func (h HiringData) EngineeringOpen() int {
	if h.ByDepartment == nil {
		return 0
	}
	return h.ByDepartment[DepartmentEngineering]
}

// TechCategory classifies a detected vendor signature.
type TechCategory string

const (
	TechCategoryAnalytics      TechCategory = "analytics"
	TechCategoryMarketing      TechCategory = "marketing"
	TechCategoryCMS            TechCategory = "cms"
	TechCategoryEcommerce      TechCategory = "ecommerce"
	TechCategoryFramework      TechCategory = "framework"
	TechCategoryHosting        TechCategory = "hosting"
	TechCategoryInfrastructure TechCategory = "infrastructure"
	TechCategorySupport        TechCategory = "support"
	TechCategoryPayments       TechCategory = "payments"
	TechCategoryMonitoring     TechCategory = "monitoring"
)

// TechSignature is one matched vendor signature. The detector never
// deduplicates: a vendor matched by two detection methods yields two entries.
type TechSignature struct {
	Name       string       `json:"name"`
	Category   TechCategory `json:"category"`
	Confidence int          `json:"confidence"` // static per-signature weight, 0-100
	Version    string       `json:"version,omitempty"`
	Method     string       `json:"method,omitempty"` // "html", "script", "header"
}

// TechnographicData is the technographic detector output.
type TechnographicData struct {
	Signatures []TechSignature `json:"signatures,omitempty"`
}

// MobilePlatform identifies an app store platform.
type MobilePlatform string

const (
	PlatformIOS     MobilePlatform = "ios"
	PlatformAndroid MobilePlatform = "android"
)

// MobileApp is one detected mobile application.
type MobileApp struct {
	Platform MobilePlatform `json:"platform"`
	Name     string         `json:"name,omitempty"`
	StoreID  string         `json:"store_id,omitempty"`
	StoreURL string         `json:"store_url,omitempty"`
	Method   string         `json:"method"` // detection method tag
}

// DedupeKey identifies an app across detection passes.
func (a MobileApp) DedupeKey() string {
	if a.StoreID != "" {
		return string(a.Platform) + ":" + a.StoreID
	}
	return string(a.Platform) + ":" + a.StoreURL
}

// MobileAppData is the mobile app detector output.
type MobileAppData struct {
	IOS        []MobileApp `json:"ios,omitempty"`
	Android    []MobileApp `json:"android,omitempty"`
	HasIOS     bool        `json:"has_ios"`
	HasAndroid bool        `json:"has_android"`
	// DownloadPhrase is set when the page mentions a downloadable app
	// without a store link. Confidence signal only; never yields an entry.
	DownloadPhrase bool `json:"download_phrase,omitempty"`
}

// Empty reports whether no app was detected on either platform.
func (m MobileAppData) Empty() bool {
	return len(m.IOS) == 0 && len(m.Android) == 0
}

// LanguageShare is one language's slice of an org's public code.
type LanguageShare struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// CodeHostData aggregates code-host organization activity.
type CodeHostData struct {
	Org          string          `json:"org"`
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description,omitempty"`
	PublicRepos  int             `json:"public_repos"`
	TotalStars   int             `json:"total_stars"`
	TotalForks   int             `json:"total_forks"`
	Languages    []LanguageShare `json:"languages,omitempty"`
	Contributors int             `json:"contributors,omitempty"`
}

// ConfidenceTier is a coarse trust level on a derived estimate.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// HeadcountEstimate is a total/engineering headcount estimate from one source.
type HeadcountEstimate struct {
	TotalEmployees   int            `json:"total_employees,omitempty"`
	EngineeringCount int            `json:"engineering_count,omitempty"`
	Tier             ConfidenceTier `json:"tier"`
	Source           string         `json:"source"`
	CollectedAt      time.Time      `json:"collected_at"`
}
