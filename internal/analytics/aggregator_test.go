package analytics

import (
	"testing"

	"github.com/openbudget/adpilot/internal/models"
)

func TestAggregate_Empty(t *testing.T) {
	win := Aggregate("camp-1", nil, 7)
	if win.Status != models.StatusInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", win.Status)
	}
	if win.Message != "Not enough data for analysis" {
		t.Fatalf("unexpected message %q", win.Message)
	}
	if win.PeriodDays != 7 {
		t.Fatalf("expected period 7, got %d", win.PeriodDays)
	}
}

func TestAggregate_SumsAndRatios(t *testing.T) {
	snaps := []models.MetricSnapshot{
		{CampaignID: "camp-1", Impressions: 1000, Clicks: 50, Conversions: 5, Cost: 100},
		{CampaignID: "camp-1", Impressions: 2000, Clicks: 50, Conversions: 5, Cost: 150},
	}

	win := Aggregate("camp-1", snaps, 7)
	if win.Status != models.StatusOK {
		t.Fatalf("expected ok, got %s", win.Status)
	}
	if win.DataPoints != 2 {
		t.Fatalf("expected 2 data points, got %d", win.DataPoints)
	}

	m := win.Metrics
	if m.TotalImpressions != 3000 || m.TotalClicks != 100 || m.TotalConversions != 10 {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if m.TotalCost != 250 {
		t.Fatalf("expected total cost 250, got %f", m.TotalCost)
	}
	if m.AvgCTR != 3.33 {
		t.Fatalf("expected ctr 3.33, got %f", m.AvgCTR)
	}
	if m.AvgCPC != 2.5 {
		t.Fatalf("expected cpc 2.5, got %f", m.AvgCPC)
	}
	if m.AvgConversionRate != 10 {
		t.Fatalf("expected conversion rate 10, got %f", m.AvgConversionRate)
	}
	if m.AvgCPA != 25 {
		t.Fatalf("expected cpa 25, got %f", m.AvgCPA)
	}
	if m.ROAS != 2 {
		t.Fatalf("expected roas 2, got %f", m.ROAS)
	}
}

func TestAggregate_ZeroDenominators(t *testing.T) {
	snaps := []models.MetricSnapshot{
		{CampaignID: "camp-1"},
	}

	win := Aggregate("camp-1", snaps, 7)
	if win.Status != models.StatusOK {
		t.Fatalf("a zeroed snapshot is still data, got status %s", win.Status)
	}
	m := win.Metrics
	if m.AvgCTR != 0 || m.AvgCPC != 0 || m.AvgConversionRate != 0 || m.AvgCPA != 0 || m.ROAS != 0 {
		t.Fatalf("ratios over zero denominators must be 0: %+v", m)
	}
}
