// Package platforms talks to the ad platforms. Each platform is reached
// through an Adapter that lists campaigns, reports raw delivery counters, and
// accepts mutation commands. The shipped adapters simulate the platform APIs
// with fixture data; swapping in real API clients only requires satisfying
// the Adapter interface.
package platforms

import (
	"context"
	"time"

	"github.com/openbudget/adpilot/internal/models"
)

// MutationStatusSuccess marks an accepted platform mutation.
const MutationStatusSuccess = "success"

// CreativeTestStatusRunning marks a creative test that has been started.
const CreativeTestStatusRunning = "running"

// CampaignMetrics is a platform's point-in-time report for one campaign: the
// raw counters plus the ratios the platform itself derives. Meta additionally
// reports reach and frequency.
type CampaignMetrics struct {
	CampaignID     string  `json:"campaignId"`
	Platform       string  `json:"platform"`
	Timestamp      int64   `json:"timestamp"`
	Impressions    float64 `json:"impressions"`
	Clicks         float64 `json:"clicks"`
	Conversions    float64 `json:"conversions"`
	Cost           float64 `json:"cost"`
	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	ConversionRate float64 `json:"conversionRate"`
	CPA            float64 `json:"cpa"`
	CPM            float64 `json:"cpm,omitempty"`
	Reach          float64 `json:"reach,omitempty"`
	Frequency      float64 `json:"frequency,omitempty"`
}

// Snapshot reduces the report to the raw counters the metrics store keeps.
func (m CampaignMetrics) Snapshot() models.MetricSnapshot {
	return models.MetricSnapshot{
		CampaignID:  m.CampaignID,
		Timestamp:   m.Timestamp,
		Impressions: m.Impressions,
		Clicks:      m.Clicks,
		Conversions: m.Conversions,
		Cost:        m.Cost,
	}
}

// MutationReceipt acknowledges a platform mutation. Simulated adapters accept
// every mutation; a real adapter would surface the platform's verdict here.
type MutationReceipt struct {
	CampaignID string    `json:"campaignId"`
	Platform   string    `json:"platform"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// CreativeTest acknowledges a started A/B creative test.
type CreativeTest struct {
	CampaignID        string    `json:"campaignId"`
	TestID            string    `json:"testId"`
	Platform          string    `json:"platform"`
	Variants          int       `json:"variants"`
	Status            string    `json:"status"`
	Message           string    `json:"message"`
	EstimatedDuration string    `json:"estimatedDuration"`
	Timestamp         time.Time `json:"timestamp"`
}

// Adapter is the platform integration surface.
type Adapter interface {
	Platform() string
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	FetchMetrics(ctx context.Context, campaignID string) (CampaignMetrics, error)
	AdjustBid(ctx context.Context, campaignID string, bidAdjustmentPct float64) (MutationReceipt, error)
	UpdateBudget(ctx context.Context, campaignID string, newBudget float64) (MutationReceipt, error)
	ToggleStatus(ctx context.Context, campaignID, status string) (MutationReceipt, error)
	StartCreativeTest(ctx context.Context, campaignID string, variants []string) (CreativeTest, error)
}
