package domain

import "time"

// UsageRecord is one recorded decoder session.
type UsageRecord struct {
	ID     string
	UserID string
	Domain Domain
	Label  string
	UsedAt time.Time
}

// UsageStats aggregates a user's recorded sessions for the dashboard.
type UsageStats struct {
	Total        int
	IsSubscribed bool
	EmotionUsage int
	AllergyUsage int
	BeliefUsage  int
	History      []UsageRecord
}
