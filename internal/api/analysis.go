package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

const defaultAnalysisDays = 7

// AnalysisHandler handles GET /api/campaigns/{id}/analysis?days=N.
func (s *Server) AnalysisHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "analysis"
	const method = "GET"

	campaignID := mux.Vars(r)["id"]
	days := defaultAnalysisDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.Metrics.IncrementRequests(endpoint, method, "400")
			s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	analysis := s.Analyzer.AnalyzeCampaign(r.Context(), campaignID, days)

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, analysis)
}

// TrendsHandler handles GET /api/campaigns/{id}/trends.
func (s *Server) TrendsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "trends"
	const method = "GET"

	campaignID := mux.Vars(r)["id"]
	report := s.Analyzer.DetectTrends(r.Context(), campaignID)

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, report)
}

// RecommendationsHandler handles GET /api/campaigns/{id}/recommendations.
func (s *Server) RecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "recommendations"
	const method = "GET"

	campaignID := mux.Vars(r)["id"]
	report := s.Analyzer.RecommendationsFor(r.Context(), campaignID)

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, report)
}
