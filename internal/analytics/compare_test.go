package analytics

import (
	"testing"

	"github.com/openbudget/adpilot/internal/models"
)

func comparison(id string, status string, roas float64) models.CampaignComparison {
	return models.CampaignComparison{
		CampaignID: id,
		Status:     status,
		Metrics:    models.AggregateMetrics{ROAS: roas},
	}
}

func TestCompare_RanksByROAS(t *testing.T) {
	entries := []models.CampaignComparison{
		comparison("a", models.StatusOK, 2),
		comparison("b", models.StatusOK, 5),
		comparison("c", models.StatusInsufficientData, 9),
		comparison("d", models.StatusOK, 0),
	}

	result := Compare(entries)
	if result.BestPerformer != "b" {
		t.Fatalf("want best b, got %s", result.BestPerformer)
	}
	if result.WorstPerformer != "a" {
		t.Fatalf("want worst a, got %s", result.WorstPerformer)
	}
	if result.Recommendation != "Consider reallocating budget from a to b" {
		t.Fatalf("unexpected recommendation %q", result.Recommendation)
	}
	if len(result.Campaigns) != 4 {
		t.Fatalf("entries must be preserved, got %d", len(result.Campaigns))
	}
}

func TestCompare_NoUsableEntries(t *testing.T) {
	entries := []models.CampaignComparison{
		comparison("a", models.StatusOK, 0),
		comparison("b", models.StatusStoreUnavailable, 4),
	}

	result := Compare(entries)
	if result.BestPerformer != "" || result.WorstPerformer != "" {
		t.Fatalf("no performers expected, got %+v", result)
	}
	if result.Recommendation != "Insufficient data for recommendation" {
		t.Fatalf("unexpected recommendation %q", result.Recommendation)
	}
}

func TestCompare_TiesKeepFirstSeen(t *testing.T) {
	entries := []models.CampaignComparison{
		comparison("a", models.StatusOK, 2),
		comparison("b", models.StatusOK, 2),
	}

	result := Compare(entries)
	if result.BestPerformer != "a" || result.WorstPerformer != "a" {
		t.Fatalf("ties must resolve to the first entry, got %+v", result)
	}
}

func okGroupWindow(roas, cpa float64) models.AggregateWindow {
	return models.AggregateWindow{
		Status:  models.StatusOK,
		Metrics: models.AggregateMetrics{ROAS: roas, AvgCPA: cpa},
	}
}

func TestCompareGroups(t *testing.T) {
	groups := []Group{
		{Name: "google", Label: "Google Ads", Windows: []models.AggregateWindow{
			okGroupWindow(4, 10),
			okGroupWindow(2, 20),
			{Status: models.StatusInsufficientData},
		}},
		{Name: "meta", Label: "Meta Ads", Windows: []models.AggregateWindow{
			okGroupWindow(2, 8),
		}},
	}

	result := CompareGroups(groups)

	google := result.Groups["google"]
	if google.AvgROAS != 3 || google.AvgCPA != 15 {
		t.Fatalf("unexpected google rollup %+v", google)
	}
	if google.Campaigns != 3 {
		t.Fatalf("non-ok windows still count campaigns, got %d", google.Campaigns)
	}
	if result.Groups["meta"].AvgROAS != 2 {
		t.Fatalf("unexpected meta rollup %+v", result.Groups["meta"])
	}
	if result.Recommendation != "Allocate more budget to Google Ads" {
		t.Fatalf("unexpected recommendation %q", result.Recommendation)
	}
}

func TestCompareGroups_TieMaintainsAllocation(t *testing.T) {
	groups := []Group{
		{Name: "google", Label: "Google Ads", Windows: []models.AggregateWindow{okGroupWindow(2, 10)}},
		{Name: "meta", Label: "Meta Ads", Windows: []models.AggregateWindow{okGroupWindow(2, 12)}},
	}

	result := CompareGroups(groups)
	if result.Recommendation != "Maintain current allocation" {
		t.Fatalf("unexpected recommendation %q", result.Recommendation)
	}
}

func TestCompareGroups_NoUsableData(t *testing.T) {
	groups := []Group{
		{Name: "google", Windows: []models.AggregateWindow{{Status: models.StatusInsufficientData}}},
	}

	result := CompareGroups(groups)
	if result.Groups["google"].AvgROAS != 0 {
		t.Fatalf("unexpected rollup %+v", result.Groups["google"])
	}
	if result.Recommendation != "Maintain current allocation" {
		t.Fatalf("unexpected recommendation %q", result.Recommendation)
	}
}
