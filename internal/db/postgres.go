package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/models"
)

// ErrCampaignNotFound is returned when a campaign id has no record.
var ErrCampaignNotFound = errors.New("campaign not found")

// ErrInsightNotFound is returned when an insight key has no record.
var ErrInsightNotFound = errors.New("insight not found")

// Postgres wraps a postgres DB connection.
type Postgres struct {
	DB *sql.DB
}

// schemaSQL sets up the necessary tables if they don't exist.
const schemaSQL = `CREATE TABLE IF NOT EXISTS campaigns (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    platform TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'ACTIVE',
    objective TEXT,
    daily_budget DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS insights (
    key TEXT PRIMARY KEY,
    id UUID NOT NULL,
    type TEXT NOT NULL,
    data JSONB NOT NULL,
    stored_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_campaigns_platform ON campaigns (platform);
CREATE INDEX IF NOT EXISTS idx_insights_type ON insights (type);
`

// InitPostgres connects to Postgres with connection pooling configuration.
func InitPostgres(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (*Postgres, error) {
	// Register the otelsql wrapper for postgres
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.connection_string", dsn),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	p := &Postgres{DB: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	zap.L().Info("Connected to Postgres with connection pooling",
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns),
		zap.Duration("conn_max_lifetime", connMaxLifetime))
	return p, nil
}

// Close terminates the Postgres connection.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		if err := p.DB.Close(); err != nil {
			zap.L().Error("postgres close", zap.Error(err))
		}
	}
}

// ensureSchema creates the required tables if they do not exist.
func (p *Postgres) ensureSchema() error {
	ctx := context.Background()
	if _, err := p.DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// LoadCampaigns retrieves all campaign records ordered by id.
func (p *Postgres) LoadCampaigns(ctx context.Context) ([]models.Campaign, error) {
	rows, err := p.DB.QueryContext(ctx, `SELECT id, name, platform, status, objective, daily_budget FROM campaigns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var cs []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var objective sql.NullString
		var budget sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.Name, &c.Platform, &c.Status, &objective, &budget); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		if objective.Valid {
			c.Objective = objective.String
		}
		if budget.Valid {
			b := budget.Float64
			c.DailyBudget = &b
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return cs, nil
}

// GetCampaign retrieves one campaign by id.
func (p *Postgres) GetCampaign(ctx context.Context, id string) (models.Campaign, error) {
	var c models.Campaign
	var objective sql.NullString
	var budget sql.NullFloat64
	err := p.DB.QueryRowContext(ctx, `SELECT id, name, platform, status, objective, daily_budget FROM campaigns WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Platform, &c.Status, &objective, &budget)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Campaign{}, ErrCampaignNotFound
	}
	if err != nil {
		return models.Campaign{}, fmt.Errorf("query campaign %s: %w", id, err)
	}
	if objective.Valid {
		c.Objective = objective.String
	}
	if budget.Valid {
		b := budget.Float64
		c.DailyBudget = &b
	}
	return c, nil
}

// UpsertCampaign inserts or refreshes a campaign record.
func (p *Postgres) UpsertCampaign(ctx context.Context, c models.Campaign) error {
	var budget interface{}
	if c.DailyBudget != nil {
		budget = *c.DailyBudget
	}
	_, err := p.DB.ExecContext(ctx, `INSERT INTO campaigns (id, name, platform, status, objective, daily_budget)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, platform=EXCLUDED.platform,
            status=EXCLUDED.status, objective=EXCLUDED.objective, daily_budget=EXCLUDED.daily_budget`,
		c.ID, c.Name, c.Platform, c.Status, c.Objective, budget)
	if err != nil {
		return fmt.Errorf("upsert campaign %s: %w", c.ID, err)
	}
	return nil
}

// UpdateCampaignBudget persists a new daily budget for a campaign.
func (p *Postgres) UpdateCampaignBudget(ctx context.Context, id string, dailyBudget float64) error {
	res, err := p.DB.ExecContext(ctx, `UPDATE campaigns SET daily_budget=$1 WHERE id=$2`, dailyBudget, id)
	if err != nil {
		return fmt.Errorf("update campaign budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// UpdateCampaignStatus persists a new status for a campaign.
func (p *Postgres) UpdateCampaignStatus(ctx context.Context, id, status string) error {
	res, err := p.DB.ExecContext(ctx, `UPDATE campaigns SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// StoreInsight persists an insight blob under its key, overwriting any
// previous blob for the same key, and returns the stored record.
func (p *Postgres) StoreInsight(ctx context.Context, key, insightType string, data json.RawMessage) (models.Insight, error) {
	ins := models.Insight{
		ID:       uuid.New().String(),
		Key:      key,
		Type:     insightType,
		Data:     data,
		StoredAt: time.Now().UTC(),
	}
	_, err := p.DB.ExecContext(ctx, `INSERT INTO insights (key, id, type, data, stored_at)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (key) DO UPDATE SET id=EXCLUDED.id, type=EXCLUDED.type, data=EXCLUDED.data, stored_at=EXCLUDED.stored_at`,
		ins.Key, ins.ID, ins.Type, ins.Data, ins.StoredAt)
	if err != nil {
		return models.Insight{}, fmt.Errorf("store insight %s: %w", key, err)
	}
	return ins, nil
}

// GetInsight retrieves the insight blob stored under key.
func (p *Postgres) GetInsight(ctx context.Context, key string) (models.Insight, error) {
	var ins models.Insight
	var data []byte
	err := p.DB.QueryRowContext(ctx, `SELECT key, id, type, data, stored_at FROM insights WHERE key=$1`, key).
		Scan(&ins.Key, &ins.ID, &ins.Type, &data, &ins.StoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Insight{}, ErrInsightNotFound
	}
	if err != nil {
		return models.Insight{}, fmt.Errorf("query insight %s: %w", key, err)
	}
	ins.Data = data
	return ins, nil
}
