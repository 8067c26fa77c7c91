package models

import (
	"encoding/json"
	"time"
)

// InsightTypeCampaign is the record type stored for campaign insights.
const InsightTypeCampaign = "campaign_insight"

// Insight is an arbitrary keyed document persisted on behalf of callers.
// The service applies no logic to the payload.
type Insight struct {
	ID       string          `json:"id"`
	Key      string          `json:"key"`
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"storedAt"`
}
