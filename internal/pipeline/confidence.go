package pipeline

import "github.com/sells-group/enrich-cli/internal/model"

// confidenceScore is the deterministic record confidence: 20 points per
// contributing source plus fixed bonuses for key firmographic fields,
// clamped to [0,100].
func confidenceScore(record *model.CompanyRecord) int {
	if record == nil {
		return 0
	}

	score := 20 * len(record.Sources)
	if record.EmployeeCount > 0 {
		score += 10
	}
	if record.TotalFunding != "" {
		score += 10
	}
	if record.Headquarters != "" {
		score += 5
	}
	if record.FoundedYear > 0 {
		score += 5
	}
	if record.LatestRound != "" {
		score += 10
	}
	if record.CEO != "" {
		score += 5
	}

	if score > 100 {
		return 100
	}
	return score
}
