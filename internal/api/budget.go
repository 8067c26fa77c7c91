package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/allocation"
	"github.com/openbudget/adpilot/internal/models"
)

// OptimizeHandler handles POST /api/budget/optimize.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "optimize"
	const method = "POST"

	var req models.AllocationRequest
	if err := readJSON(r, &req); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	result, err := s.Engine.Optimize(r.Context(), req)
	switch {
	case errors.Is(err, allocation.ErrInvalidRequest):
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, allocation.ErrNoUsableCampaigns):
		s.Metrics.IncrementRequests(endpoint, method, "422")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		s.Logger.Error("optimize budget", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, result)
}

// SimulateRequest is the payload for a scenario simulation.
type SimulateRequest struct {
	Scenarios []models.Scenario `json:"scenarios"`
}

// SimulateHandler handles POST /api/budget/simulate.
func (s *Server) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "simulate"
	const method = "POST"

	var req SimulateRequest
	if err := readJSON(r, &req); err != nil || len(req.Scenarios) == 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "scenarios required", http.StatusBadRequest)
		return
	}

	result, err := s.Engine.SimulateScenarios(r.Context(), req.Scenarios)
	if err != nil {
		s.Logger.Error("simulate scenarios", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, result)
}

// ReallocateRequest is the payload for moving budget between two campaigns.
type ReallocateRequest struct {
	FromCampaign string  `json:"fromCampaign"`
	ToCampaign   string  `json:"toCampaign"`
	Amount       float64 `json:"amount"`
}

// ReallocateReceipt acknowledges a budget reallocation.
type ReallocateReceipt struct {
	FromCampaign string    `json:"fromCampaign"`
	ToCampaign   string    `json:"toCampaign"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// ReallocateHandler handles POST /api/budget/reallocate.
func (s *Server) ReallocateHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "reallocate"
	const method = "POST"

	var req ReallocateRequest
	if err := readJSON(r, &req); err != nil || req.FromCampaign == "" || req.ToCampaign == "" || req.Amount <= 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "fromCampaign, toCampaign and a positive amount required", http.StatusBadRequest)
		return
	}

	receipt := ReallocateReceipt{
		FromCampaign: req.FromCampaign,
		ToCampaign:   req.ToCampaign,
		Amount:       req.Amount,
		Status:       "success",
		Message:      fmt.Sprintf("Reallocated $%g from %s to %s", req.Amount, req.FromCampaign, req.ToCampaign),
		Timestamp:    time.Now().UTC(),
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, receipt)
}

// BudgetRecommendationsHandler handles GET /api/budget/recommendations?totalBudget=N.
func (s *Server) BudgetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "budget_recommendations"
	const method = "GET"

	totalBudget, err := strconv.ParseFloat(r.URL.Query().Get("totalBudget"), 64)
	if err != nil || totalBudget <= 0 {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "totalBudget must be a positive number", http.StatusBadRequest)
		return
	}

	recs, err := s.Engine.PortfolioRecommendations(r.Context(), totalBudget)
	switch {
	case errors.Is(err, allocation.ErrNoUsableCampaigns):
		s.Metrics.IncrementRequests(endpoint, method, "422")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		s.Logger.Error("budget recommendations", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	s.writeJSON(w, http.StatusOK, recs)
}
