package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

// UsageRepository is an in-memory session record store.
type UsageRepository struct {
	mu      sync.RWMutex
	records []domain.UsageRecord
}

// NewUsageRepository constructs an empty in-memory usage repository.
func NewUsageRepository() *UsageRepository {
	return &UsageRepository{}
}

// Insert appends a session record.
func (r *UsageRepository) Insert(ctx context.Context, record domain.UsageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(record.UserID) == "" {
		return errors.New("usage repository: user id is required")
	}
	if !record.Domain.Valid() {
		return errors.New("usage repository: unknown domain")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return nil
}

// CountByDomain counts the user's records for one decoder domain.
func (r *UsageRepository) CountByDomain(ctx context.Context, userID string, d domain.Domain) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, record := range r.records {
		if record.UserID == userID && record.Domain == d {
			count++
		}
	}
	return count, nil
}

// ListByUser returns the user's records, most recent first.
func (r *UsageRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.UsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.UsageRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UsedAt.After(out[j].UsedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
