// Package model defines the data types shared across the enrichment pipeline.
package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNoIdentifier is returned when an input carries no usable identifier.
var ErrNoIdentifier = eris.New("model: input requires at least one identifier: domain, company name, or LinkedIn URL")

// EnrichmentInput identifies the company to enrich. At least one field must
// be set; the domain is the canonical key once resolved.
type EnrichmentInput struct {
	Domain      string `json:"domain,omitempty"`
	Name        string `json:"name,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// Validate rejects inputs that carry no identifier at all.
func (in EnrichmentInput) Validate() error {
	if strings.TrimSpace(in.Domain) == "" &&
		strings.TrimSpace(in.Name) == "" &&
		strings.TrimSpace(in.LinkedInURL) == "" {
		return ErrNoIdentifier
	}
	return nil
}

// SocialLinks holds verified social profile URLs. Only links that resolved
// during verification are ever populated here.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// Empty reports whether no link was verified.
func (s SocialLinks) Empty() bool {
	return s == SocialLinks{}
}

// CompanyRecord is the assembled company profile. AI-derived narrative fields
// and deterministic fields live side by side; where both exist, deterministic
// data wins during assembly.
type CompanyRecord struct {
	Name             string   `json:"name"`
	Domain           string   `json:"domain"`
	Description      string   `json:"description,omitempty"`
	FoundedYear      int      `json:"founded_year,omitempty"`
	EmployeeCount    int      `json:"employee_count,omitempty"`
	EngineeringCount int      `json:"engineering_count,omitempty"`
	Headquarters     string   `json:"headquarters,omitempty"`
	Industries       []string `json:"industries,omitempty"`
	Verticals        []string `json:"verticals,omitempty"`
	TotalFunding     string   `json:"total_funding,omitempty"`
	LatestRound      string   `json:"latest_round,omitempty"`
	CEO              string   `json:"ceo,omitempty"`
	Leadership       []string `json:"leadership,omitempty"`
	GrowthStage      string   `json:"growth_stage,omitempty"`
	RecentNews       []string `json:"recent_news,omitempty"`
	ProductLaunches  []string `json:"product_launches,omitempty"`
	Acquisitions     []string `json:"acquisitions,omitempty"`
	CompetitorMoves  []string `json:"competitor_moves,omitempty"`

	Social     SocialLinks        `json:"social"`
	TechStack  []TechSignature    `json:"tech_stack,omitempty"`
	MobileApps MobileAppData      `json:"mobile_apps"`
	Hiring     *HiringData        `json:"hiring,omitempty"`
	CodeHost   *CodeHostData      `json:"code_host,omitempty"`
	Headcount  *HeadcountEstimate `json:"headcount,omitempty"`

	// Sources names every component that contributed non-empty data.
	// It is the sole input to the confidence formula's base term.
	Sources []string `json:"sources"`
}

// EnrichmentResult is the outcome of one enrichment call.
// Success implies Record is non-nil; failure implies it is nil.
type EnrichmentResult struct {
	Input          EnrichmentInput `json:"input"`
	Success        bool            `json:"success"`
	Record         *CompanyRecord  `json:"record,omitempty"`
	Error          string          `json:"error,omitempty"`
	Confidence     int             `json:"confidence"`
	ProcessingTime time.Duration   `json:"processing_time_ms"`
}

// RunStatus represents the state of a stored enrichment run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted enrichment run.
type Run struct {
	ID        string            `json:"id"`
	Input     EnrichmentInput   `json:"input"`
	Status    RunStatus         `json:"status"`
	Result    *EnrichmentResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
