package platforms

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
)

type recordingCache struct {
	mu    sync.Mutex
	snaps []models.MetricSnapshot
}

func (c *recordingCache) SetLatest(_ context.Context, snap models.MetricSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, snap)
	return nil
}

type recordingSink struct {
	mu        sync.Mutex
	campaigns []models.Campaign
	err       error
}

func (s *recordingSink) UpsertCampaign(_ context.Context, c models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.campaigns = append(s.campaigns, c)
	return nil
}

func TestSyncOnce_RecordsEveryCampaign(t *testing.T) {
	store := metricstore.NewMock()
	cache := &recordingCache{}
	sink := &recordingSink{}

	syncer := &Syncer{
		Adapters: []Adapter{NewGoogleAds(), NewMetaAds()},
		Store:    store,
		Cache:    cache,
		Sink:     sink,
		Logger:   zap.NewNop(),
		Metrics:  observability.NewNoOpRegistry(),
	}
	syncer.SyncOnce(context.Background())

	if len(sink.campaigns) != 6 {
		t.Fatalf("want 6 upserted campaigns, got %d", len(sink.campaigns))
	}
	if len(cache.snaps) != 6 {
		t.Fatalf("want 6 cached snapshots, got %d", len(cache.snaps))
	}

	for _, id := range []string{"goog-camp-001", "meta-camp-003"} {
		snaps, err := store.Snapshots(context.Background(), id, 1)
		if err != nil {
			t.Fatalf("snapshots for %s: %v", id, err)
		}
		if len(snaps) != 1 {
			t.Fatalf("want one snapshot for %s, got %d", id, len(snaps))
		}
	}
}

func TestSyncOnce_StoreFailureDoesNotCache(t *testing.T) {
	store := metricstore.NewMock()
	store.Err = errors.New("clickhouse down")
	cache := &recordingCache{}

	syncer := &Syncer{
		Adapters: []Adapter{NewGoogleAds()},
		Store:    store,
		Cache:    cache,
		Logger:   zap.NewNop(),
		Metrics:  observability.NewNoOpRegistry(),
	}
	syncer.SyncOnce(context.Background())

	if len(cache.snaps) != 0 {
		t.Fatalf("failed writes must not reach the cache, got %d", len(cache.snaps))
	}
}

func TestSyncOnce_OptionalCacheAndSink(t *testing.T) {
	syncer := &Syncer{
		Adapters: []Adapter{NewGoogleAds()},
		Store:    metricstore.NewMock(),
		Logger:   zap.NewNop(),
		Metrics:  observability.NewNoOpRegistry(),
	}
	// Nil cache and sink must not panic.
	syncer.SyncOnce(context.Background())
}
