package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/anthropic"
)

// structuredProfile is the schema the structuring call must return. A
// response that cannot be decoded into it is a schema violation, the one
// fatal error class in the pipeline.
type structuredProfile struct {
	Name            string   `json:"name"`
	Domain          string   `json:"domain"`
	Description     string   `json:"description"`
	FoundedYear     int      `json:"founded_year"`
	EmployeeCount   int      `json:"employee_count"`
	Headquarters    string   `json:"headquarters"`
	Industries      []string `json:"industries"`
	Verticals       []string `json:"verticals"`
	TotalFunding    string   `json:"total_funding"`
	LatestRound     string   `json:"latest_round"`
	CEO             string   `json:"ceo"`
	Leadership      []string `json:"leadership"`
	// SocialHandles are the AI's guesses. They never reach the record:
	// only links verified by the social extractor are ever surfaced.
	SocialHandles []string `json:"social_handles"`
	GrowthStage   string   `json:"growth_stage"`
	RecentNews      []string `json:"recent_news"`
	ProductLaunches []string `json:"product_launches"`
	Acquisitions    []string `json:"acquisitions"`
	CompetitorMoves []string `json:"competitor_moves"`
}

const structuringSystem = `You are a company research analyst. You extract
structured firmographic data from raw text gathered about a company.
Respond with a single JSON object and nothing else. Use this exact schema,
leaving fields empty ("", 0, or []) when the text does not support them:
{
  "name": "", "domain": "", "description": "",
  "founded_year": 0, "employee_count": 0, "headquarters": "",
  "industries": [], "verticals": [],
  "total_funding": "", "latest_round": "",
  "ceo": "", "leadership": [], "social_handles": [], "growth_stage": "",
  "recent_news": [], "product_launches": [],
  "acquisitions": [], "competitor_moves": []
}
Never invent facts that are not grounded in the provided text or in widely
known public information about the company.`

// structure invokes the AI structuring call over every narrative text source
// gathered so far. Unlike every other step, its failure aborts the
// enrichment.
func (p *Pipeline) structure(
	ctx context.Context,
	input model.EnrichmentInput,
	domain, siteHTML, linkedinText, researchText string,
) (*structuredProfile, error) {
	var b strings.Builder
	b.WriteString("Company identifiers:\n")
	if input.Name != "" {
		b.WriteString("- name: " + input.Name + "\n")
	}
	if domain != "" {
		b.WriteString("- domain: " + domain + "\n")
	}
	if input.LinkedInURL != "" {
		b.WriteString("- linkedin: " + input.LinkedInURL + "\n")
	}

	if siteText := htmlToText(siteHTML); siteText != "" {
		b.WriteString("\n--- Website text ---\n" + siteText + "\n")
	}
	if linkedinText != "" {
		b.WriteString("\n--- Professional profile text ---\n" + linkedinText + "\n")
	}
	if researchText != "" {
		b.WriteString("\n--- Company research page text ---\n" + researchText + "\n")
	}
	b.WriteString("\nProduce the JSON company profile.")

	resp, err := p.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.cfg.Anthropic.Model,
		MaxTokens: p.cfg.Anthropic.MaxTokens,
		System:    []anthropic.SystemBlock{{Text: structuringSystem}},
		Messages:  []anthropic.Message{{Role: "user", Content: b.String()}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: structuring call")
	}
	resp.Usage.LogCost(p.cfg.Anthropic.Model, "structure")

	var profile structuredProfile
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &profile); err != nil {
		return nil, eris.Wrap(err, "pipeline: structuring response violates schema")
	}
	return &profile, nil
}

// cleanJSON strips markdown code fences the model sometimes wraps around
// JSON output.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
