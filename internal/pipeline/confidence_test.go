package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/enrich-cli/internal/model"
)

func TestConfidenceScore(t *testing.T) {
	tests := []struct {
		name   string
		record *model.CompanyRecord
		want   int
	}{
		{"nil record", nil, 0},
		{"no sources no bonuses", &model.CompanyRecord{}, 0},
		{"one source", &model.CompanyRecord{Sources: []string{"website"}}, 20},
		{
			"two sources with employee bonus",
			&model.CompanyRecord{Sources: []string{"website", "jobs"}, EmployeeCount: 50},
			50,
		},
		{
			"all bonuses",
			&model.CompanyRecord{
				Sources:       []string{"website"},
				EmployeeCount: 50,
				TotalFunding:  "$10M",
				Headquarters:  "Austin",
				FoundedYear:   2019,
				LatestRound:   "Series A",
				CEO:           "Sam Lee",
			},
			20 + 10 + 10 + 5 + 5 + 10 + 5,
		},
		{
			"clamped at 100",
			&model.CompanyRecord{
				Sources: []string{"website", "linkedin", "codehost", "jobs", "tech", "mobile"},
			},
			100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidenceScore(tt.record)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}
