// Package report renders a finished enrichment as a human-readable
// Markdown document.
package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/techno"
)

// Format generates a Markdown report for one enrichment result. Failed
// results render a short failure notice instead of a profile.
func Format(result model.EnrichmentResult) string {
	var b strings.Builder

	name := result.Input.Name
	if name == "" {
		name = result.Input.Domain
	}
	fmt.Fprintf(&b, "# Enrichment Report: %s\n\n", name)

	if !result.Success {
		b.WriteString("## Failed\n")
		fmt.Fprintf(&b, "- Error: %s\n", result.Error)
		fmt.Fprintf(&b, "- Elapsed: %dms\n", result.ProcessingTime.Milliseconds())
		return b.String()
	}
	record := result.Record

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Domain: %s\n", record.Domain)
	fmt.Fprintf(&b, "- Confidence: %d/100\n", result.Confidence)
	fmt.Fprintf(&b, "- Sources: %s\n", joinOrNone(record.Sources))
	fmt.Fprintf(&b, "- Elapsed: %dms\n\n", result.ProcessingTime.Milliseconds())

	b.WriteString("## Profile\n")
	writeField(&b, "Description", record.Description)
	writeField(&b, "Headquarters", record.Headquarters)
	if record.FoundedYear > 0 {
		fmt.Fprintf(&b, "- Founded: %d\n", record.FoundedYear)
	}
	if record.EmployeeCount > 0 {
		fmt.Fprintf(&b, "- Employees: %d\n", record.EmployeeCount)
	}
	if record.EngineeringCount > 0 {
		fmt.Fprintf(&b, "- Engineering headcount: %d\n", record.EngineeringCount)
	}
	writeField(&b, "Industries", strings.Join(record.Industries, ", "))
	writeField(&b, "Total funding", record.TotalFunding)
	writeField(&b, "Latest round", record.LatestRound)
	writeField(&b, "CEO", record.CEO)
	writeField(&b, "Growth stage", record.GrowthStage)
	b.WriteString("\n")

	if !record.Social.Empty() {
		b.WriteString("## Social\n")
		writeField(&b, "LinkedIn", record.Social.LinkedIn)
		writeField(&b, "Twitter/X", record.Social.Twitter)
		writeField(&b, "GitHub", record.Social.GitHub)
		writeField(&b, "Facebook", record.Social.Facebook)
		writeField(&b, "Instagram", record.Social.Instagram)
		writeField(&b, "YouTube", record.Social.YouTube)
		b.WriteString("\n")
	}

	if len(record.TechStack) > 0 {
		b.WriteString("## Tech Stack\n")
		// Raw signatures may carry one entry per detection method; the
		// report is the presentation boundary where vendors collapse.
		for _, sig := range techno.DedupeByVendor(record.TechStack) {
			fmt.Fprintf(&b, "- %s (%s, %d%%)\n", sig.Name, sig.Category, sig.Confidence)
		}
		b.WriteString("\n")
	}

	if record.Hiring != nil && record.Hiring.Total > 0 {
		b.WriteString("## Hiring\n")
		fmt.Fprintf(&b, "- Open positions: %d\n", record.Hiring.Total)
		for dept, n := range record.Hiring.ByDepartment {
			fmt.Fprintf(&b, "  - %s: %d\n", dept, n)
		}
		writeField(&b, "Top skills", strings.Join(record.Hiring.TopSkills, ", "))
		writeField(&b, "Tech mentions", strings.Join(record.Hiring.TechMentions, ", "))
		b.WriteString("\n")
	}

	if record.CodeHost != nil {
		b.WriteString("## Code Host\n")
		fmt.Fprintf(&b, "- Org: %s\n", record.CodeHost.Org)
		fmt.Fprintf(&b, "- Public repos: %d\n", record.CodeHost.PublicRepos)
		fmt.Fprintf(&b, "- Stars: %d, forks: %d\n", record.CodeHost.TotalStars, record.CodeHost.TotalForks)
		if len(record.CodeHost.Languages) > 0 {
			var langs []string
			for _, l := range record.CodeHost.Languages {
				langs = append(langs, fmt.Sprintf("%s %.1f%%", l.Name, l.Percent))
			}
			fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(langs, ", "))
		}
		b.WriteString("\n")
	}

	if !record.MobileApps.Empty() {
		b.WriteString("## Mobile Apps\n")
		for _, app := range record.MobileApps.IOS {
			fmt.Fprintf(&b, "- iOS: %s (%s)\n", orUnknown(app.Name), app.StoreURL)
		}
		for _, app := range record.MobileApps.Android {
			fmt.Fprintf(&b, "- Android: %s (%s)\n", orUnknown(app.Name), app.StoreURL)
		}
		b.WriteString("\n")
	}

	if record.Headcount != nil {
		b.WriteString("## Headcount Estimate\n")
		fmt.Fprintf(&b, "- Total: %d\n", record.Headcount.TotalEmployees)
		fmt.Fprintf(&b, "- Engineering: %d\n", record.Headcount.EngineeringCount)
		fmt.Fprintf(&b, "- Tier: %s (source: %s)\n", record.Headcount.Tier, record.Headcount.Source)
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
