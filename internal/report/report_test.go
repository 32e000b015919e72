package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestFormatSuccess(t *testing.T) {
	result := model.EnrichmentResult{
		Input:   model.EnrichmentInput{Name: "Acme", Domain: "acme.com"},
		Success: true,
		Record: &model.CompanyRecord{
			Name:          "Acme",
			Domain:        "acme.com",
			Description:   "Makes widgets",
			FoundedYear:   2015,
			EmployeeCount: 120,
			Headquarters:  "Austin",
			Sources:       []string{"website", "jobs"},
			Social:        model.SocialLinks{LinkedIn: "https://www.linkedin.com/company/acme"},
			TechStack: []model.TechSignature{
				{Name: "React", Category: model.TechCategoryFramework, Confidence: 90, Method: "script"},
				{Name: "React", Category: model.TechCategoryFramework, Confidence: 90, Method: "html"},
			},
			Hiring: &model.HiringData{
				Total:        3,
				ByDepartment: map[model.Department]int{model.DepartmentEngineering: 3},
				TopSkills:    []string{"go"},
			},
		},
		Confidence:     55,
		ProcessingTime: 1500 * time.Millisecond,
	}

	out := Format(result)

	assert.Contains(t, out, "# Enrichment Report: Acme")
	assert.Contains(t, out, "- Confidence: 55/100")
	assert.Contains(t, out, "- Sources: website, jobs")
	assert.Contains(t, out, "- Founded: 2015")
	assert.Contains(t, out, "- LinkedIn: https://www.linkedin.com/company/acme")
	assert.Contains(t, out, "- Open positions: 3")
	// Two React signature entries collapse to one line in the report.
	assert.Equal(t, 1, strings.Count(out, "- React ("))
}

func TestFormatFailure(t *testing.T) {
	result := model.EnrichmentResult{
		Input:          model.EnrichmentInput{Domain: "acme.com"},
		Success:        false,
		Error:          "pipeline: structuring call: overloaded",
		ProcessingTime: 200 * time.Millisecond,
	}

	out := Format(result)
	assert.Contains(t, out, "# Enrichment Report: acme.com")
	assert.Contains(t, out, "## Failed")
	assert.Contains(t, out, "structuring call")
	assert.NotContains(t, out, "## Profile")
}

func TestFormatEmptySources(t *testing.T) {
	result := model.EnrichmentResult{
		Input:   model.EnrichmentInput{Domain: "acme.com"},
		Success: true,
		Record:  &model.CompanyRecord{Domain: "acme.com", Sources: []string{}},
	}

	out := Format(result)
	assert.Contains(t, out, "- Sources: none")
}
