// Package metricstore is the boundary to the external time-series store that
// holds per-campaign metric snapshots. The analytics core consumes it through
// the Store interface and must tolerate partial or empty result sets.
package metricstore

import (
	"context"
	"errors"

	"github.com/openbudget/adpilot/internal/models"
)

// ErrUnavailable is returned when the underlying store is not configured or
// cannot be reached. Callers map it to a distinguishable status rather than
// treating it as missing data.
var ErrUnavailable = errors.New("metrics store unavailable")

// Store provides snapshot persistence and range queries for one campaign at
// a time. Snapshots returned by Snapshots are ordered by ascending timestamp.
type Store interface {
	// RecordSnapshot appends one observation for a campaign.
	RecordSnapshot(ctx context.Context, snap models.MetricSnapshot) error
	// Snapshots returns all snapshots for the campaign with a timestamp
	// within the last `days` days, oldest first.
	Snapshots(ctx context.Context, campaignID string, days int) ([]models.MetricSnapshot, error)
	// Latest returns the most recent snapshot for the campaign. The boolean
	// reports whether one exists.
	Latest(ctx context.Context, campaignID string) (models.MetricSnapshot, bool, error)
}
