package metricstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openbudget/adpilot/internal/models"
)

// Mock is an in-memory Store for tests and local development. Setting Err
// makes every operation fail with that error, which lets tests exercise the
// store-unavailable paths.
type Mock struct {
	mu    sync.Mutex
	snaps map[string][]models.MetricSnapshot
	Err   error
}

// NewMock returns an empty in-memory store.
func NewMock() *Mock {
	return &Mock{snaps: make(map[string][]models.MetricSnapshot)}
}

func (m *Mock) RecordSnapshot(_ context.Context, snap models.MetricSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.snaps[snap.CampaignID] = append(m.snaps[snap.CampaignID], snap)
	sort.SliceStable(m.snaps[snap.CampaignID], func(i, j int) bool {
		return m.snaps[snap.CampaignID][i].Timestamp < m.snaps[snap.CampaignID][j].Timestamp
	})
	return nil
}

func (m *Mock) Snapshots(_ context.Context, campaignID string, days int) ([]models.MetricSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	var out []models.MetricSnapshot
	for _, s := range m.snaps[campaignID] {
		if s.Timestamp >= cutoff {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Mock) Latest(_ context.Context, campaignID string) (models.MetricSnapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.MetricSnapshot{}, false, m.Err
	}
	snaps := m.snaps[campaignID]
	if len(snaps) == 0 {
		return models.MetricSnapshot{}, false, nil
	}
	return snaps[len(snaps)-1], true, nil
}
