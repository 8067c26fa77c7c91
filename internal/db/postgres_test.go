package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/openbudget/adpilot/internal/models"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return &Postgres{DB: mockDB}, mock
}

var campaignColumns = []string{"id", "name", "platform", "status", "objective", "daily_budget"}

func TestGetCampaign(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT id, name, platform, status, objective, daily_budget FROM campaigns WHERE id=\$1`).
		WithArgs("goog-camp-001").
		WillReturnRows(sqlmock.NewRows(campaignColumns).
			AddRow("goog-camp-001", "Search - Brand Keywords", "google", "ACTIVE", nil, 1500.0))

	c, err := pg.GetCampaign(context.Background(), "goog-camp-001")
	require.NoError(t, err)
	require.Equal(t, "Search - Brand Keywords", c.Name)
	require.Equal(t, models.PlatformGoogle, c.Platform)
	require.Empty(t, c.Objective)
	require.NotNil(t, c.DailyBudget)
	require.Equal(t, 1500.0, *c.DailyBudget)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCampaign_NotFound(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT id, name, platform, status, objective, daily_budget FROM campaigns WHERE id=\$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(campaignColumns))

	_, err := pg.GetCampaign(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestLoadCampaigns_NullBudget(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT id, name, platform, status, objective, daily_budget FROM campaigns ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(campaignColumns).
			AddRow("a", "A", "google", "ACTIVE", nil, nil).
			AddRow("b", "B", "meta", "PAUSED", "CONVERSIONS", 900.0))

	cs, err := pg.LoadCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, cs, 2)
	require.Nil(t, cs[0].DailyBudget)
	require.Equal(t, "CONVERSIONS", cs[1].Objective)
	require.Equal(t, 900.0, *cs[1].DailyBudget)
}

func TestUpdateCampaignBudget_NotFound(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectExec(`UPDATE campaigns SET daily_budget=\$1 WHERE id=\$2`).
		WithArgs(1500.0, "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := pg.UpdateCampaignBudget(context.Background(), "ghost", 1500)
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestUpdateCampaignStatus(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectExec(`UPDATE campaigns SET status=\$1 WHERE id=\$2`).
		WithArgs("PAUSED", "goog-camp-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, pg.UpdateCampaignStatus(context.Background(), "goog-camp-001", "PAUSED"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertCampaign(t *testing.T) {
	pg, mock := newMockPostgres(t)

	budget := 1500.0
	mock.ExpectExec(`INSERT INTO campaigns`).
		WithArgs("goog-camp-001", "Search - Brand Keywords", "google", "ACTIVE", "", budget).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := pg.UpsertCampaign(context.Background(), models.Campaign{
		ID:          "goog-camp-001",
		Name:        "Search - Brand Keywords",
		Platform:    models.PlatformGoogle,
		Status:      models.CampaignStatusActive,
		DailyBudget: &budget,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInsight(t *testing.T) {
	pg, mock := newMockPostgres(t)

	data := json.RawMessage(`{"note":"scale up"}`)
	mock.ExpectExec(`INSERT INTO insights`).
		WithArgs("weekly-review", sqlmock.AnyArg(), models.InsightTypeCampaign, []byte(data), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ins, err := pg.StoreInsight(context.Background(), "weekly-review", models.InsightTypeCampaign, data)
	require.NoError(t, err)
	require.Equal(t, "weekly-review", ins.Key)
	require.NotEmpty(t, ins.ID)
	require.False(t, ins.StoredAt.IsZero())
}

func TestGetInsight_NotFound(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT key, id, type, data, stored_at FROM insights WHERE key=\$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"key", "id", "type", "data", "stored_at"}))

	_, err := pg.GetInsight(context.Background(), "missing")
	require.True(t, errors.Is(err, ErrInsightNotFound))
}
