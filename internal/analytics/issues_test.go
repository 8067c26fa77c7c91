package analytics

import (
	"testing"

	"github.com/openbudget/adpilot/internal/models"
)

func TestDetectIssues(t *testing.T) {
	tests := []struct {
		name    string
		metrics models.AggregateMetrics
		trends  models.Trends
		want    []models.IssueKind
	}{
		{
			name:    "healthy",
			metrics: models.AggregateMetrics{AvgCTR: 2.5, AvgConversionRate: 4.0},
			trends:  models.Trends{CTR: models.TrendStable, CPA: models.TrendStable},
			want:    nil,
		},
		{
			name:    "low ctr only",
			metrics: models.AggregateMetrics{AvgCTR: 0.8, AvgConversionRate: 4.0},
			trends:  models.Trends{CTR: models.TrendStable, CPA: models.TrendStable},
			want:    []models.IssueKind{models.IssueLowCTR},
		},
		{
			name:    "threshold values are not issues",
			metrics: models.AggregateMetrics{AvgCTR: 1.0, AvgConversionRate: 2.0},
			trends:  models.Trends{CTR: models.TrendStable, CPA: models.TrendStable},
			want:    nil,
		},
		{
			name:    "everything wrong",
			metrics: models.AggregateMetrics{AvgCTR: 0.5, AvgConversionRate: 1.0},
			trends:  models.Trends{CTR: models.TrendDeclining, CPA: models.TrendDeclining},
			want: []models.IssueKind{
				models.IssueLowCTR,
				models.IssueLowConversionRate,
				models.IssueAdFatigue,
				models.IssueEfficiencyDrop,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := DetectIssues(tt.metrics, tt.trends)
			if len(issues) != len(tt.want) {
				t.Fatalf("want %d issues, got %d: %+v", len(tt.want), len(issues), issues)
			}
			for i, kind := range tt.want {
				if issues[i].Kind != kind {
					t.Fatalf("issue %d: want %s, got %s", i, kind, issues[i].Kind)
				}
				if issues[i].Description == "" {
					t.Fatalf("issue %s has no description", kind)
				}
			}
		})
	}
}

func TestIssueDescriptions(t *testing.T) {
	if got := models.IssueLowCTR.Description(); got != "Low CTR - consider improving ad copy or targeting" {
		t.Fatalf("unexpected low_ctr description %q", got)
	}
	if got := models.IssueEfficiencyDrop.Description(); got != "CPA increasing - efficiency dropping" {
		t.Fatalf("unexpected efficiency_drop description %q", got)
	}
}

func TestHealthFor(t *testing.T) {
	tests := []struct {
		issues int
		want   models.Health
	}{
		{0, models.HealthGood},
		{1, models.HealthNeedsAttention},
		{2, models.HealthNeedsAttention},
		{3, models.HealthCritical},
		{4, models.HealthCritical},
	}
	for _, tt := range tests {
		if got := HealthFor(tt.issues); got != tt.want {
			t.Fatalf("HealthFor(%d): want %s, got %s", tt.issues, tt.want, got)
		}
	}
}
