package repositories

import (
	"context"
	"time"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UserRepository persists user profiles keyed by user ID.
type UserRepository interface {
	FindByID(ctx context.Context, userID string) (domain.UserProfile, error)
	Upsert(ctx context.Context, profile domain.UserProfile) (domain.UserProfile, error)
	SetSubscription(ctx context.Context, userID, customerID, subscriptionID string, subscribed bool) (domain.UserProfile, error)
}

// UsageRepository persists decoder session records.
type UsageRepository interface {
	Insert(ctx context.Context, record domain.UsageRecord) error
	CountByDomain(ctx context.Context, userID string, d domain.Domain) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.UsageRecord, error)
}

// JournalRepository persists journal entries scoped to their owner.
type JournalRepository interface {
	Insert(ctx context.Context, entry domain.JournalEntry) error
	Update(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error)
	Delete(ctx context.Context, userID, entryID string) error
	FindByID(ctx context.Context, userID, entryID string) (domain.JournalEntry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.JournalEntry, error)
}

// Clock returns the current time; injected so tests control timestamps.
type Clock func() time.Time
