package analytics

import "github.com/openbudget/adpilot/internal/models"

// Fixed thresholds for issue detection. Each rule is evaluated independently
// and every matching rule fires.
const (
	lowCTRThreshold            = 1.0
	lowConversionRateThreshold = 2.0
)

// DetectIssues maps aggregate metrics and trend labels to tagged issue
// kinds. Downstream consumers dispatch on the kind, never on the description
// text. Detection order is fixed and carries through to recommendation
// ordering.
func DetectIssues(m models.AggregateMetrics, trends models.Trends) []models.Issue {
	var issues []models.Issue
	add := func(kind models.IssueKind) {
		issues = append(issues, models.Issue{Kind: kind, Description: kind.Description()})
	}

	if m.AvgCTR < lowCTRThreshold {
		add(models.IssueLowCTR)
	}
	if m.AvgConversionRate < lowConversionRateThreshold {
		add(models.IssueLowConversionRate)
	}
	if trends.CTR == models.TrendDeclining {
		add(models.IssueAdFatigue)
	}
	if trends.CPA == models.TrendDeclining {
		add(models.IssueEfficiencyDrop)
	}
	return issues
}

// HealthFor classifies overall campaign health by issue count: good with no
// issues, needs_attention with one or two, critical above that.
func HealthFor(issueCount int) models.Health {
	switch {
	case issueCount == 0:
		return models.HealthGood
	case issueCount <= 2:
		return models.HealthNeedsAttention
	default:
		return models.HealthCritical
	}
}
