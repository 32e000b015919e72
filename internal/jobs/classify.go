package jobs

import (
	"sort"
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
)

// departmentRule maps keywords to a bucket. Rules are checked in priority
// order; the first keyword found as a case-insensitive substring wins.
type departmentRule struct {
	bucket   model.Department
	keywords []string
}

// departmentRules is immutable classification configuration, loaded once.
var departmentRules = []departmentRule{
	{model.DepartmentEngineering, []string{
		"engineer", "developer", "engineering", "software", "devops", "sre",
		"site reliability", "data scien", "machine learning", "security",
		"qa", "quality assurance", "architect", "infrastructure", "platform",
	}},
	{model.DepartmentSales, []string{
		"sales", "account executive", "account manager", "business development",
		"revenue", "partnerships", "solutions consultant",
	}},
	{model.DepartmentMarketing, []string{
		"marketing", "growth", "brand", "content", "seo", "communications",
		"demand generation", "social media",
	}},
	{model.DepartmentCustomerSuccess, []string{
		"customer success", "support", "customer experience", "implementation",
		"onboarding", "technical account",
	}},
	{model.DepartmentOperations, []string{
		"operations", "finance", "accounting", "people", "human resources",
		"hr", "recruit", "talent", "legal", "admin", "office",
	}},
}

// ClassifyDepartment buckets a raw department or title string. Unrecognized
// strings fall through to "other".
func ClassifyDepartment(raw string) model.Department {
	lower := strings.ToLower(raw)
	for _, rule := range departmentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.bucket
			}
		}
	}
	return model.DepartmentOther
}

// skillVocabulary is the fixed vocabulary scanned against posting text.
// Order matters: it breaks ties in ExtractSkills.
var skillVocabulary = []string{
	"go", "python", "java", "javascript", "typescript", "ruby", "rust",
	"c++", "c#", "php", "sql", "react", "vue", "angular", "node",
	"kubernetes", "docker", "terraform", "aws", "gcp", "azure",
	"postgresql", "mysql", "mongodb", "redis", "kafka", "spark",
	"machine learning", "data analysis", "salesforce", "hubspot",
	"figma", "excel", "seo", "crm", "project management",
}

// maxSkills caps the skills returned per company.
const maxSkills = 10

// ExtractSkills scans every posting's title and description against the
// skill vocabulary and returns the 10 most-frequently-mentioned terms,
// ties broken by vocabulary order.
func ExtractSkills(postings []model.JobPosting) []string {
	counts := make(map[string]int)
	order := make(map[string]int)

	for i, term := range skillVocabulary {
		order[term] = i
		for _, p := range postings {
			text := strings.ToLower(p.Title + " " + p.Description)
			if containsWord(text, term) {
				counts[term]++
			}
		}
	}

	var terms []string
	for term, n := range counts {
		if n > 0 {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return order[terms[i]] < order[terms[j]]
	})

	if len(terms) > maxSkills {
		terms = terms[:maxSkills]
	}
	return terms
}

// containsWord is a case-insensitive substring check with word boundaries on
// alphanumerics, so "go" does not match "mongodb" or "google".
func containsWord(lower, term string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		beforeOK := start == 0 || !isAlnum(lower[start-1])
		afterOK := end == len(lower) || !isAlnum(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
