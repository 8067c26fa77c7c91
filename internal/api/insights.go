package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/db"
	"github.com/openbudget/adpilot/internal/models"
)

// StoreInsightRequest is the payload for persisting an insight blob.
type StoreInsightRequest struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

// StoreInsightHandler handles POST /api/insights.
func (s *Server) StoreInsightHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "store_insight"
	const method = "POST"

	var req StoreInsightRequest
	if err := readJSON(r, &req); err != nil || req.Key == "" || len(req.Data) == 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "key and data required", http.StatusBadRequest)
		return
	}

	insight, err := s.PG.StoreInsight(r.Context(), req.Key, models.InsightTypeCampaign, req.Data)
	if err != nil {
		s.Logger.Error("store insight", zap.String("key", req.Key), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.Metrics.IncrementInsights()

	s.Metrics.IncrementRequests(endpoint, method, "201")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusCreated, insight)
}

// GetInsightHandler handles GET /api/insights/{key}.
func (s *Server) GetInsightHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "get_insight"
	const method = "GET"

	key := mux.Vars(r)["key"]
	insight, err := s.PG.GetInsight(r.Context(), key)
	switch {
	case errors.Is(err, db.ErrInsightNotFound):
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "insight not found", http.StatusNotFound)
		return
	case err != nil:
		s.Logger.Error("get insight", zap.String("key", key), zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, insight)
}
