package metricstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/openbudget/adpilot/internal/models"
)

// ClickHouse implements Store on a ClickHouse connection. The snapshots
// table carries a TTL so the store itself enforces retention.
type ClickHouse struct {
	DB *sql.DB
}

// InitClickHouse connects to ClickHouse and ensures the snapshots table
// exists. retentionDays bounds how long snapshots are kept.
func InitClickHouse(dsn string, maxOpenConns int, retentionDays int) (*ClickHouse, error) {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS campaign_metrics (
       campaign_id String,
       timestamp   DateTime,
       impressions Float64,
       clicks      Float64,
       conversions Float64,
       cost        Float64
   ) ENGINE=MergeTree() ORDER BY (campaign_id, timestamp)
     TTL timestamp + INTERVAL %d DAY`, retentionDays)
	if _, err := db.ExecContext(context.Background(), create); err != nil {
		return nil, fmt.Errorf("clickhouse create table: %w", err)
	}

	zap.L().Info("Connected to ClickHouse")
	return &ClickHouse{DB: db}, nil
}

// RecordSnapshot inserts a single snapshot row.
func (c *ClickHouse) RecordSnapshot(ctx context.Context, snap models.MetricSnapshot) error {
	if c == nil || c.DB == nil {
		return ErrUnavailable
	}
	stmt := `INSERT INTO campaign_metrics (campaign_id, timestamp, impressions, clicks, conversions, cost) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := c.DB.ExecContext(ctx, stmt, snap.CampaignID, time.Unix(snap.Timestamp, 0), snap.Impressions, snap.Clicks, snap.Conversions, snap.Cost); err != nil {
		zap.L().Error("clickhouse insert failed", zap.Error(err), zap.String("campaign_id", snap.CampaignID))
		return fmt.Errorf("insert snapshot for %s: %w", snap.CampaignID, err)
	}
	return nil
}

// Snapshots returns the campaign's snapshots from the last `days` days in
// ascending timestamp order.
func (c *ClickHouse) Snapshots(ctx context.Context, campaignID string, days int) ([]models.MetricSnapshot, error) {
	if c == nil || c.DB == nil {
		return nil, ErrUnavailable
	}
	query := `SELECT campaign_id, timestamp, impressions, clicks, conversions, cost
        FROM campaign_metrics
        WHERE campaign_id = ? AND timestamp >= now() - INTERVAL ? DAY
        ORDER BY timestamp`
	rows, err := c.DB.QueryContext(ctx, query, campaignID, days)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zap.L().Warn("rows close", zap.Error(err))
		}
	}()

	var snaps []models.MetricSnapshot
	for rows.Next() {
		var s models.MetricSnapshot
		var ts time.Time
		if err := rows.Scan(&s.CampaignID, &ts, &s.Impressions, &s.Clicks, &s.Conversions, &s.Cost); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.Timestamp = ts.Unix()
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return snaps, nil
}

// Latest returns the most recent snapshot for the campaign.
func (c *ClickHouse) Latest(ctx context.Context, campaignID string) (models.MetricSnapshot, bool, error) {
	if c == nil || c.DB == nil {
		return models.MetricSnapshot{}, false, ErrUnavailable
	}
	query := `SELECT campaign_id, timestamp, impressions, clicks, conversions, cost
        FROM campaign_metrics
        WHERE campaign_id = ?
        ORDER BY timestamp DESC
        LIMIT 1`
	var s models.MetricSnapshot
	var ts time.Time
	err := c.DB.QueryRowContext(ctx, query, campaignID).Scan(&s.CampaignID, &ts, &s.Impressions, &s.Clicks, &s.Conversions, &s.Cost)
	if err == sql.ErrNoRows {
		return models.MetricSnapshot{}, false, nil
	}
	if err != nil {
		return models.MetricSnapshot{}, false, fmt.Errorf("query latest snapshot: %w", err)
	}
	s.Timestamp = ts.Unix()
	return s, true, nil
}

// Close terminates the ClickHouse connection.
func (c *ClickHouse) Close() {
	if c != nil && c.DB != nil {
		if err := c.DB.Close(); err != nil {
			zap.L().Error("clickhouse close", zap.Error(err))
		}
	}
}
