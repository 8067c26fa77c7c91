package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/models"
)

// PlatformCampaignsHandler handles GET /api/platforms/{platform}/campaigns.
func (s *Server) PlatformCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "platform_campaigns"
	const method = "GET"

	platform := mux.Vars(r)["platform"]
	adapter, ok := s.Adapters[platform]
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown platform", http.StatusNotFound)
		return
	}

	campaigns, err := adapter.ListCampaigns(r.Context())
	if err != nil {
		s.Logger.Error("list campaigns", zap.String("platform", platform), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "502")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "platform unavailable", http.StatusBadGateway)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, map[string][]models.Campaign{"campaigns": campaigns})
}

// CampaignMetricsHandler handles GET /api/campaigns/{id}/metrics. Every fetch
// also records a snapshot in the metrics store and refreshes the latest-value
// cache, so analysis windows accrete as metrics are pulled.
func (s *Server) CampaignMetricsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "campaign_metrics"
	const method = "GET"

	campaignID := mux.Vars(r)["id"]
	adapter, ok := s.adapterForCampaign(r, campaignID)
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown campaign platform", http.StatusNotFound)
		return
	}

	metrics, err := adapter.FetchMetrics(r.Context(), campaignID)
	if err != nil {
		s.Logger.Error("fetch metrics", zap.String("campaign_id", campaignID), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "502")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "platform unavailable", http.StatusBadGateway)
		return
	}

	snap := metrics.Snapshot()
	if err := s.Store.RecordSnapshot(r.Context(), snap); err != nil {
		s.Logger.Error("record snapshot", zap.String("campaign_id", campaignID), zap.Error(err))
		s.Metrics.IncrementStoreErrors()
	} else {
		s.Metrics.IncrementSnapshots(adapter.Platform())
		if s.Cache != nil {
			if err := s.Cache.SetLatest(r.Context(), snap); err != nil {
				s.Logger.Warn("cache latest snapshot", zap.String("campaign_id", campaignID), zap.Error(err))
			}
		}
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, metrics)
}

// AdjustBidRequest is the payload for a bid adjustment.
type AdjustBidRequest struct {
	BidAdjustment *float64 `json:"bidAdjustment"`
}

// AdjustBidHandler handles POST /api/campaigns/{id}/adjust-bid.
func (s *Server) AdjustBidHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "adjust_bid"
	const method = "POST"

	campaignID := mux.Vars(r)["id"]
	var req AdjustBidRequest
	if err := readJSON(r, &req); err != nil || req.BidAdjustment == nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "bidAdjustment required", http.StatusBadRequest)
		return
	}

	adapter, ok := s.adapterForCampaign(r, campaignID)
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown campaign platform", http.StatusNotFound)
		return
	}

	receipt, err := adapter.AdjustBid(r.Context(), campaignID, *req.BidAdjustment)
	if err != nil {
		s.Logger.Error("adjust bid", zap.String("campaign_id", campaignID), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "502")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "platform unavailable", http.StatusBadGateway)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, receipt)
}

// UpdateBudgetRequest is the payload for a daily budget change.
type UpdateBudgetRequest struct {
	NewBudget float64 `json:"newBudget"`
}

// UpdateBudgetHandler handles POST /api/campaigns/{id}/budget. The platform
// is told first; the local campaign record is refreshed on success so later
// allocations see the new budget.
func (s *Server) UpdateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "update_budget"
	const method = "POST"

	campaignID := mux.Vars(r)["id"]
	var req UpdateBudgetRequest
	if err := readJSON(r, &req); err != nil || req.NewBudget <= 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "newBudget must be positive", http.StatusBadRequest)
		return
	}

	adapter, ok := s.adapterForCampaign(r, campaignID)
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown campaign platform", http.StatusNotFound)
		return
	}

	receipt, err := adapter.UpdateBudget(r.Context(), campaignID, req.NewBudget)
	if err != nil {
		s.Logger.Error("update budget", zap.String("campaign_id", campaignID), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "502")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "platform unavailable", http.StatusBadGateway)
		return
	}

	if s.PG != nil {
		if err := s.PG.UpdateCampaignBudget(r.Context(), campaignID, req.NewBudget); err != nil {
			s.Logger.Warn("update campaign record budget",
				zap.String("campaign_id", campaignID), zap.Error(err))
		}
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, receipt)
}

// ToggleStatusRequest is the payload for a pause/activate command.
type ToggleStatusRequest struct {
	Status string `json:"status"`
}

// ToggleStatusHandler handles POST /api/campaigns/{id}/status.
func (s *Server) ToggleStatusHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "toggle_status"
	const method = "POST"

	campaignID := mux.Vars(r)["id"]
	var req ToggleStatusRequest
	if err := readJSON(r, &req); err != nil ||
		(req.Status != models.CampaignStatusActive && req.Status != models.CampaignStatusPaused) {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "status must be ACTIVE or PAUSED", http.StatusBadRequest)
		return
	}

	adapter, ok := s.adapterForCampaign(r, campaignID)
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown campaign platform", http.StatusNotFound)
		return
	}

	receipt, err := adapter.ToggleStatus(r.Context(), campaignID, req.Status)
	if err != nil {
		s.Logger.Error("toggle status", zap.String("campaign_id", campaignID), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "502")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "platform unavailable", http.StatusBadGateway)
		return
	}

	if s.PG != nil {
		if err := s.PG.UpdateCampaignStatus(r.Context(), campaignID, req.Status); err != nil {
			s.Logger.Warn("update campaign record status",
				zap.String("campaign_id", campaignID), zap.Error(err))
		}
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, receipt)
}

// CreativeTestRequest is the payload for starting a creative A/B test.
type CreativeTestRequest struct {
	Variants []string `json:"variants"`
}

// CreativeTestHandler handles POST /api/campaigns/{id}/creative-tests.
func (s *Server) CreativeTestHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "creative_test"
	const method = "POST"

	campaignID := mux.Vars(r)["id"]
	var req CreativeTestRequest
	if err := readJSON(r, &req); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	adapter, ok := s.adapterForCampaign(r, campaignID)
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown campaign platform", http.StatusNotFound)
		return
	}

	test, err := adapter.StartCreativeTest(r.Context(), campaignID, req.Variants)
	if err != nil {
		s.Logger.Error("start creative test", zap.String("campaign_id", campaignID), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "502")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "platform unavailable", http.StatusBadGateway)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, test)
}
