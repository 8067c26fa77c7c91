package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
)

func newTestAnalyzer(store metricstore.Store) *Analyzer {
	return NewAnalyzer(store, zap.NewNop(), observability.NewNoOpRegistry(), time.Second)
}

func record(t *testing.T, store *metricstore.Mock, snaps ...models.MetricSnapshot) {
	t.Helper()
	now := time.Now().Unix()
	for i, s := range snaps {
		s.Timestamp = now - int64(len(snaps)-i)*60
		if err := store.RecordSnapshot(context.Background(), s); err != nil {
			t.Fatalf("record snapshot: %v", err)
		}
	}
}

func TestAnalyzeCampaign_OK(t *testing.T) {
	store := metricstore.NewMock()
	record(t, store,
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 50, Conversions: 5, Cost: 100},
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 50, Conversions: 5, Cost: 100},
	)

	a := newTestAnalyzer(store)
	analysis := a.AnalyzeCampaign(context.Background(), "camp-1", 7)

	if analysis.Status != models.StatusOK {
		t.Fatalf("expected ok, got %s: %s", analysis.Status, analysis.Message)
	}
	if analysis.Period != "7 days" {
		t.Fatalf("unexpected period %q", analysis.Period)
	}
	if analysis.DataPoints != 2 {
		t.Fatalf("expected 2 data points, got %d", analysis.DataPoints)
	}
	if analysis.Aggregate.ROAS != 2.5 {
		t.Fatalf("expected roas 2.5, got %f", analysis.Aggregate.ROAS)
	}
	if analysis.OverallHealth == "" {
		t.Fatal("health must be set on an ok analysis")
	}
}

func TestAnalyzeCampaign_NoData(t *testing.T) {
	a := newTestAnalyzer(metricstore.NewMock())
	analysis := a.AnalyzeCampaign(context.Background(), "camp-x", 7)

	if analysis.Status != models.StatusInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", analysis.Status)
	}
	if analysis.Message != "Not enough data for analysis" {
		t.Fatalf("unexpected message %q", analysis.Message)
	}
}

func TestAnalyzeCampaign_StoreUnavailable(t *testing.T) {
	store := metricstore.NewMock()
	store.Err = errors.New("connection refused")

	a := newTestAnalyzer(store)
	analysis := a.AnalyzeCampaign(context.Background(), "camp-1", 7)

	if analysis.Status != models.StatusStoreUnavailable {
		t.Fatalf("expected store_unavailable, got %s", analysis.Status)
	}
	if analysis.Message != "metrics store unavailable" {
		t.Fatalf("unexpected message %q", analysis.Message)
	}
}

func TestDetectTrends_AnomalyAndPrediction(t *testing.T) {
	store := metricstore.NewMock()
	// CTR of 0.2% trips the anomaly check; positive ROAS drives a prediction.
	record(t, store,
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 10000, Clicks: 20, Conversions: 10, Cost: 100},
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 10000, Clicks: 20, Conversions: 10, Cost: 100},
	)

	a := newTestAnalyzer(store)
	report := a.DetectTrends(context.Background(), "camp-1")

	if len(report.Anomalies) != 1 {
		t.Fatalf("expected one anomaly, got %+v", report.Anomalies)
	}
	anomaly := report.Anomalies[0]
	if anomaly.Type != string(models.IssueLowCTR) {
		t.Fatalf("unexpected anomaly type %s", anomaly.Type)
	}
	if anomaly.Value != 0.2 || anomaly.Threshold != 1.0 {
		t.Fatalf("unexpected anomaly bounds %+v", anomaly)
	}
	if anomaly.Action != "urgent_review_needed" {
		t.Fatalf("unexpected anomaly action %q", anomaly.Action)
	}

	if report.Predictions.NextWeekROAS == nil {
		t.Fatal("expected a roas prediction")
	}
	// Aggregate ROAS is 5.0; the projection discounts it by 5%.
	if *report.Predictions.NextWeekROAS != 4.75 {
		t.Fatalf("expected 4.75, got %f", *report.Predictions.NextWeekROAS)
	}
	if report.Predictions.Confidence != "medium" {
		t.Fatalf("unexpected confidence %q", report.Predictions.Confidence)
	}
}

func TestDetectTrends_DecliningSignals(t *testing.T) {
	store := metricstore.NewMock()
	record(t, store,
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 50, Conversions: 5, Cost: 100},
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 50, Conversions: 5, Cost: 100},
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 50, Conversions: 5, Cost: 100},
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 20, Conversions: 2, Cost: 100},
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 20, Conversions: 2, Cost: 100},
		models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 20, Conversions: 2, Cost: 100},
	)

	a := newTestAnalyzer(store)
	report := a.DetectTrends(context.Background(), "camp-1")

	if len(report.DetectedTrends) != 2 {
		t.Fatalf("expected both trend entries, got %+v", report.DetectedTrends)
	}
	if report.DetectedTrends[0].Type != string(models.IssueAdFatigue) {
		t.Fatalf("unexpected first trend %+v", report.DetectedTrends[0])
	}
	if report.DetectedTrends[1].Severity != models.PriorityHigh {
		t.Fatalf("cpa trend must be high severity, got %+v", report.DetectedTrends[1])
	}
}

func TestDetectTrends_PropagatesStatus(t *testing.T) {
	a := newTestAnalyzer(metricstore.NewMock())
	report := a.DetectTrends(context.Background(), "camp-x")

	if report.Status != models.StatusInsufficientData {
		t.Fatalf("expected insufficient_data, got %q", report.Status)
	}
	if report.DetectedTrends == nil || report.Anomalies == nil {
		t.Fatal("trend and anomaly slices must be initialized")
	}
}

func TestRecommendationsFor_StoreError(t *testing.T) {
	store := metricstore.NewMock()
	store.Err = errors.New("connection refused")

	a := newTestAnalyzer(store)
	report := a.RecommendationsFor(context.Background(), "camp-1")

	if report.CampaignID != "camp-1" {
		t.Fatalf("unexpected campaign id %q", report.CampaignID)
	}
	if len(report.Recommendations) != 0 || report.TotalRecommendations != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestCompareCampaigns(t *testing.T) {
	store := metricstore.NewMock()
	record(t, store, models.MetricSnapshot{CampaignID: "camp-1", Impressions: 1000, Clicks: 50, Conversions: 10, Cost: 100})
	record(t, store, models.MetricSnapshot{CampaignID: "camp-2", Impressions: 1000, Clicks: 50, Conversions: 2, Cost: 100})

	a := newTestAnalyzer(store)
	result := a.CompareCampaigns(context.Background(), []string{"camp-1", "camp-2", "camp-3"})

	if result.BestPerformer != "camp-1" {
		t.Fatalf("want best camp-1, got %s", result.BestPerformer)
	}
	if result.WorstPerformer != "camp-2" {
		t.Fatalf("want worst camp-2, got %s", result.WorstPerformer)
	}
	if len(result.Campaigns) != 3 {
		t.Fatalf("request order entries must be kept, got %d", len(result.Campaigns))
	}
	if result.Campaigns[2].Status != models.StatusInsufficientData {
		t.Fatalf("camp-3 should be insufficient_data, got %s", result.Campaigns[2].Status)
	}
}

func TestCompareCampaignGroups_StoreErrorWindow(t *testing.T) {
	store := metricstore.NewMock()
	store.Err = errors.New("connection refused")

	a := newTestAnalyzer(store)
	result := a.CompareCampaignGroups(context.Background(), []GroupSpec{
		{Name: "google", Label: "Google Ads", CampaignIDs: []string{"goog-camp-001"}},
	})

	rollup := result.Groups["google"]
	if rollup.Campaigns != 1 || rollup.AvgROAS != 0 {
		t.Fatalf("unexpected rollup %+v", rollup)
	}
	if result.Recommendation != "Maintain current allocation" {
		t.Fatalf("unexpected recommendation %q", result.Recommendation)
	}
}
