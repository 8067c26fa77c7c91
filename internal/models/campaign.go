package models

// Platforms the service knows how to talk to. Each platform is reached
// through an adapter that reports raw counters and accepts mutation commands.
const (
	PlatformGoogle = "google"
	PlatformMeta   = "meta"
)

// Campaign statuses use the platform APIs' literal tokens.
const (
	CampaignStatusActive = "ACTIVE"
	CampaignStatusPaused = "PAUSED"
)

// Campaign is the service's record of an externally managed ad campaign.
// Delivery itself happens on the platform; this record carries the identity
// and budget context the allocator needs.
type Campaign struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Platform  string `json:"platform"`
	Status    string `json:"status"`
	Objective string `json:"objective,omitempty"`
	// DailyBudget is nil when the platform did not report a budget. Absence
	// propagates as unknown; it is never defaulted to a placeholder value.
	DailyBudget *float64 `json:"budget"`
}
