package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

// UserRepository is an in-memory user store used by tests and local runs.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.UserProfile
}

// NewUserRepository constructs an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.UserProfile)}
}

// FindByID returns the stored profile for the user.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.UserProfile{}, errors.New("user repository: user id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.users[userID]
	if !ok {
		return domain.UserProfile{}, notFoundError("users.find", "user not found")
	}
	return profile, nil
}

// Upsert stores or replaces the profile.
func (r *UserRepository) Upsert(ctx context.Context, profile domain.UserProfile) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, err
	}
	profile.ID = strings.TrimSpace(profile.ID)
	if profile.ID == "" {
		return domain.UserProfile{}, errors.New("user repository: user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[profile.ID] = profile
	return profile, nil
}

// SetSubscription updates the Stripe linkage and subscription flag.
func (r *UserRepository) SetSubscription(ctx context.Context, userID, customerID, subscriptionID string, subscribed bool) (domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserProfile{}, err
	}
	userID = strings.TrimSpace(userID)

	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.users[userID]
	if !ok {
		return domain.UserProfile{}, notFoundError("users.set_subscription", "user not found")
	}
	if customerID != "" {
		profile.StripeCustomerID = customerID
	}
	if subscriptionID != "" {
		profile.StripeSubscriptionID = subscriptionID
	}
	profile.IsSubscribed = subscribed
	r.users[userID] = profile
	return profile, nil
}
