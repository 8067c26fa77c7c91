package api

import (
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/analytics"
	"github.com/openbudget/adpilot/internal/models"
)

// CompareRequest is the payload for a cross-campaign comparison.
type CompareRequest struct {
	CampaignIDs []string `json:"campaignIds"`
}

// CompareCampaignsHandler handles POST /api/campaigns/compare.
func (s *Server) CompareCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "compare_campaigns"
	const method = "POST"

	var req CompareRequest
	if err := readJSON(r, &req); err != nil || len(req.CampaignIDs) == 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "campaignIds required", http.StatusBadRequest)
		return
	}

	result := s.Analyzer.CompareCampaigns(r.Context(), req.CampaignIDs)

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, result)
}

// platformLabels maps platform identifiers to the names used in
// recommendation text.
var platformLabels = map[string]string{
	models.PlatformGoogle: "Google Ads",
	models.PlatformMeta:   "Meta Ads",
}

// PlatformComparisonHandler handles GET /api/platforms/comparison. Campaigns
// are grouped by the platform recorded on their campaign record.
func (s *Server) PlatformComparisonHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "platform_comparison"
	const method = "GET"

	campaigns, err := s.PG.LoadCampaigns(r.Context())
	if err != nil {
		s.Logger.Error("load campaigns", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	idsByPlatform := make(map[string][]string)
	for _, c := range campaigns {
		idsByPlatform[c.Platform] = append(idsByPlatform[c.Platform], c.ID)
	}

	names := make([]string, 0, len(idsByPlatform))
	for platform := range idsByPlatform {
		names = append(names, platform)
	}
	sort.Strings(names)

	specs := make([]analytics.GroupSpec, 0, len(names))
	for _, platform := range names {
		specs = append(specs, analytics.GroupSpec{
			Name:        platform,
			Label:       platformLabels[platform],
			CampaignIDs: idsByPlatform[platform],
		})
	}

	result := s.Analyzer.CompareCampaignGroups(r.Context(), specs)

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, result)
}
