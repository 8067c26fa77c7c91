package platforms

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openbudget/adpilot/internal/models"
)

// counterRange bounds the randomized counters generated for campaigns without
// fixture data.
type counterRange struct {
	lo, hi float64
}

func (r counterRange) pick(rng *rand.Rand) float64 {
	return r.lo + float64(rng.Int63n(int64(r.hi-r.lo+1)))
}

type baseCounters struct {
	impressions, clicks, conversions, cost float64
	reach, frequency                       float64
}

// Simulated is an in-process stand-in for a platform API. Fixture campaigns
// report stable counters; unknown campaign ids get randomized counters inside
// platform-typical ranges, so analyses stay plausible without live
// credentials.
type Simulated struct {
	platform  string
	campaigns []models.Campaign
	base      map[string]baseCounters
	ranges    map[string]counterRange
	withReach bool

	mu  sync.Mutex
	rng *rand.Rand
}

func budget(v float64) *float64 { return &v }

// NewGoogleAds creates the simulated Google Ads adapter.
func NewGoogleAds() *Simulated {
	return &Simulated{
		platform: models.PlatformGoogle,
		campaigns: []models.Campaign{
			{ID: "goog-camp-001", Name: "Search - Brand Keywords", Platform: models.PlatformGoogle, Status: models.CampaignStatusActive, DailyBudget: budget(1500)},
			{ID: "goog-camp-002", Name: "Display - Remarketing", Platform: models.PlatformGoogle, Status: models.CampaignStatusActive, DailyBudget: budget(800)},
			{ID: "goog-camp-003", Name: "Shopping - Product Ads", Platform: models.PlatformGoogle, Status: models.CampaignStatusActive, DailyBudget: budget(2000)},
		},
		base: map[string]baseCounters{
			"goog-camp-001": {impressions: 45000, clicks: 2250, conversions: 180, cost: 1450},
			"goog-camp-002": {impressions: 120000, clicks: 960, conversions: 48, cost: 780},
			"goog-camp-003": {impressions: 35000, clicks: 1750, conversions: 210, cost: 1980},
		},
		ranges: map[string]counterRange{
			"impressions": {10000, 50000},
			"clicks":      {500, 2500},
			"conversions": {20, 200},
			"cost":        {500, 2000},
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewMetaAds creates the simulated Meta Ads adapter.
func NewMetaAds() *Simulated {
	return &Simulated{
		platform: models.PlatformMeta,
		campaigns: []models.Campaign{
			{ID: "meta-camp-001", Name: "Facebook - Lead Generation", Platform: models.PlatformMeta, Status: models.CampaignStatusActive, Objective: "LEAD_GENERATION", DailyBudget: budget(1200)},
			{ID: "meta-camp-002", Name: "Instagram - Brand Awareness", Platform: models.PlatformMeta, Status: models.CampaignStatusActive, Objective: "BRAND_AWARENESS", DailyBudget: budget(900)},
			{ID: "meta-camp-003", Name: "Facebook - Conversions", Platform: models.PlatformMeta, Status: models.CampaignStatusActive, Objective: "CONVERSIONS", DailyBudget: budget(1800)},
		},
		base: map[string]baseCounters{
			"meta-camp-001": {impressions: 85000, clicks: 3400, conversions: 170, cost: 1180, reach: 42000, frequency: 2.02},
			"meta-camp-002": {impressions: 150000, clicks: 4500, conversions: 90, cost: 880, reach: 75000, frequency: 2.0},
			"meta-camp-003": {impressions: 95000, clicks: 4750, conversions: 285, cost: 1750, reach: 48000, frequency: 1.98},
		},
		ranges: map[string]counterRange{
			"impressions": {50000, 150000},
			"clicks":      {2000, 5000},
			"conversions": {50, 300},
			"cost":        {800, 2000},
			"reach":       {30000, 80000},
		},
		withReach: true,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Platform returns the platform identifier.
func (s *Simulated) Platform() string { return s.platform }

// ListCampaigns returns the fixture campaign list.
func (s *Simulated) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	out := make([]models.Campaign, len(s.campaigns))
	copy(out, s.campaigns)
	return out, nil
}

// FetchMetrics reports current counters and platform-derived ratios for one
// campaign.
func (s *Simulated) FetchMetrics(ctx context.Context, campaignID string) (CampaignMetrics, error) {
	counters, ok := s.base[campaignID]
	if !ok {
		counters = s.randomCounters()
	}

	m := CampaignMetrics{
		CampaignID:     campaignID,
		Platform:       s.platform,
		Timestamp:      time.Now().Unix(),
		Impressions:    counters.impressions,
		Clicks:         counters.clicks,
		Conversions:    counters.conversions,
		Cost:           counters.cost,
		CTR:            models.Round2(models.Ratio(counters.clicks, counters.impressions) * 100),
		CPC:            models.Round2(models.Ratio(counters.cost, counters.clicks)),
		ConversionRate: models.Round2(models.Ratio(counters.conversions, counters.clicks) * 100),
		CPA:            models.Round2(models.Ratio(counters.cost, counters.conversions)),
	}
	if s.withReach {
		m.CPM = models.Round2(models.Ratio(counters.cost, counters.impressions) * 1000)
		m.Reach = counters.reach
		m.Frequency = counters.frequency
	}
	return m, nil
}

func (s *Simulated) randomCounters() baseCounters {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := baseCounters{
		impressions: s.ranges["impressions"].pick(s.rng),
		clicks:      s.ranges["clicks"].pick(s.rng),
		conversions: s.ranges["conversions"].pick(s.rng),
		cost:        s.ranges["cost"].pick(s.rng),
	}
	if s.withReach {
		c.reach = s.ranges["reach"].pick(s.rng)
		c.frequency = models.Round2(1.5 + s.rng.Float64())
	}
	return c
}

// AdjustBid acknowledges a percentage bid adjustment.
func (s *Simulated) AdjustBid(ctx context.Context, campaignID string, bidAdjustmentPct float64) (MutationReceipt, error) {
	return MutationReceipt{
		CampaignID: campaignID,
		Platform:   s.platform,
		Status:     MutationStatusSuccess,
		Message:    fmt.Sprintf("Bid adjusted by %g%% for campaign %s", bidAdjustmentPct, campaignID),
		Timestamp:  time.Now().UTC(),
	}, nil
}

// UpdateBudget acknowledges a daily budget change.
func (s *Simulated) UpdateBudget(ctx context.Context, campaignID string, newBudget float64) (MutationReceipt, error) {
	if newBudget <= 0 {
		return MutationReceipt{}, fmt.Errorf("budget must be positive, got %g", newBudget)
	}
	return MutationReceipt{
		CampaignID: campaignID,
		Platform:   s.platform,
		Status:     MutationStatusSuccess,
		Message:    fmt.Sprintf("Budget updated to $%g for campaign %s", newBudget, campaignID),
		Timestamp:  time.Now().UTC(),
	}, nil
}

// ToggleStatus acknowledges a pause or activate command.
func (s *Simulated) ToggleStatus(ctx context.Context, campaignID, status string) (MutationReceipt, error) {
	if status != models.CampaignStatusActive && status != models.CampaignStatusPaused {
		return MutationReceipt{}, fmt.Errorf("unsupported status %q", status)
	}
	return MutationReceipt{
		CampaignID: campaignID,
		Platform:   s.platform,
		Status:     status,
		Message:    fmt.Sprintf("Campaign %s status changed to %s", campaignID, status),
		Timestamp:  time.Now().UTC(),
	}, nil
}

// StartCreativeTest acknowledges an A/B creative test across the variants.
func (s *Simulated) StartCreativeTest(ctx context.Context, campaignID string, variants []string) (CreativeTest, error) {
	return CreativeTest{
		CampaignID:        campaignID,
		TestID:            fmt.Sprintf("test-%s", uuid.New().String()),
		Platform:          s.platform,
		Variants:          len(variants),
		Status:            CreativeTestStatusRunning,
		Message:           fmt.Sprintf("A/B test started with %d creative variants", len(variants)),
		EstimatedDuration: "7 days",
		Timestamp:         time.Now().UTC(),
	}, nil
}
