// Package api holds the HTTP handlers for the analytics and budget
// allocation service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/allocation"
	"github.com/openbudget/adpilot/internal/analytics"
	"github.com/openbudget/adpilot/internal/config"
	"github.com/openbudget/adpilot/internal/db"
	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
	"github.com/openbudget/adpilot/internal/platforms"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger   *zap.Logger
	Store    metricstore.Store
	Cache    *db.RedisCache
	PG       *db.Postgres
	Analyzer *analytics.Analyzer
	Engine   *allocation.Engine
	Adapters map[string]platforms.Adapter
	Metrics  observability.MetricsRegistry
	Config   config.Config
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, store metricstore.Store, cache *db.RedisCache, pg *db.Postgres, analyzer *analytics.Analyzer, engine *allocation.Engine, adapters []platforms.Adapter, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	byPlatform := make(map[string]platforms.Adapter, len(adapters))
	for _, a := range adapters {
		byPlatform[a.Platform()] = a
	}
	return &Server{
		Logger:   logger,
		Store:    store,
		Cache:    cache,
		PG:       pg,
		Analyzer: analyzer,
		Engine:   engine,
		Adapters: byPlatform,
		Metrics:  metrics,
		Config:   cfg,
	}
}

// Routes registers every handler on the router.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/health", s.HealthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/platforms/{platform}/campaigns", s.PlatformCampaignsHandler).Methods("GET")
	api.HandleFunc("/platforms/comparison", s.PlatformComparisonHandler).Methods("GET")

	api.HandleFunc("/campaigns/{id}/metrics", s.CampaignMetricsHandler).Methods("GET")
	api.HandleFunc("/campaigns/{id}/adjust-bid", s.AdjustBidHandler).Methods("POST")
	api.HandleFunc("/campaigns/{id}/budget", s.UpdateBudgetHandler).Methods("POST")
	api.HandleFunc("/campaigns/{id}/status", s.ToggleStatusHandler).Methods("POST")
	api.HandleFunc("/campaigns/{id}/creative-tests", s.CreativeTestHandler).Methods("POST")
	api.HandleFunc("/campaigns/{id}/analysis", s.AnalysisHandler).Methods("GET")
	api.HandleFunc("/campaigns/{id}/trends", s.TrendsHandler).Methods("GET")
	api.HandleFunc("/campaigns/{id}/recommendations", s.RecommendationsHandler).Methods("GET")
	api.HandleFunc("/campaigns/compare", s.CompareCampaignsHandler).Methods("POST")

	api.HandleFunc("/budget/optimize", s.OptimizeHandler).Methods("POST")
	api.HandleFunc("/budget/simulate", s.SimulateHandler).Methods("POST")
	api.HandleFunc("/budget/reallocate", s.ReallocateHandler).Methods("POST")
	api.HandleFunc("/budget/recommendations", s.BudgetRecommendationsHandler).Methods("GET")

	api.HandleFunc("/insights", s.StoreInsightHandler).Methods("POST")
	api.HandleFunc("/insights/{key}", s.GetInsightHandler).Methods("GET")
}

// adapterForCampaign resolves the platform adapter for a campaign id: the
// campaign record's platform when known, the id prefix otherwise.
func (s *Server) adapterForCampaign(r *http.Request, campaignID string) (platforms.Adapter, bool) {
	if s.PG != nil {
		c, err := s.PG.GetCampaign(r.Context(), campaignID)
		if err == nil {
			if a, ok := s.Adapters[c.Platform]; ok {
				return a, true
			}
		} else if !errors.Is(err, db.ErrCampaignNotFound) {
			s.Logger.Warn("campaign lookup failed", zap.String("campaign_id", campaignID), zap.Error(err))
		}
	}
	switch {
	case strings.HasPrefix(campaignID, "goog-"):
		a, ok := s.Adapters[models.PlatformGoogle]
		return a, ok
	case strings.HasPrefix(campaignID, "meta-"):
		a, ok := s.Adapters[models.PlatformMeta]
		return a, ok
	}
	return nil, false
}

// writeJSON marshals v with a 200-range status. Encoding failures surface in
// logs only; headers have already been written.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", zap.Error(err))
	}
}

// readJSON decodes the request body into v.
func readJSON(r *http.Request, v any) error {
	defer func() {
		_ = r.Body.Close()
	}()
	return json.NewDecoder(r.Body).Decode(v)
}
