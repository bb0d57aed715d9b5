package domain

import "time"

// UserProfile is the signed-in user as the API exposes it.
type UserProfile struct {
	ID                   string
	Email                string
	Name                 string
	IsSubscribed         bool
	StripeCustomerID     string
	StripeSubscriptionID string
	CreatedAt            time.Time
}
