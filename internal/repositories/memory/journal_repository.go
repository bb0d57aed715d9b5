package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

// JournalRepository is an in-memory journal entry store.
type JournalRepository struct {
	mu      sync.RWMutex
	entries map[string]domain.JournalEntry
}

// NewJournalRepository constructs an empty in-memory journal repository.
func NewJournalRepository() *JournalRepository {
	return &JournalRepository{entries: make(map[string]domain.JournalEntry)}
}

// Insert stores a new entry.
func (r *JournalRepository) Insert(ctx context.Context, entry domain.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(entry.ID) == "" {
		return errors.New("journal repository: entry id is required")
	}
	if strings.TrimSpace(entry.UserID) == "" {
		return errors.New("journal repository: user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.ID]; exists {
		return &Error{op: "journal.insert", message: "entry already exists", conflict: true}
	}
	r.entries[entry.ID] = entry
	return nil
}

// Update replaces an existing entry owned by the same user.
func (r *JournalRepository) Update(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.JournalEntry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.entries[entry.ID]
	if !ok || current.UserID != entry.UserID {
		return domain.JournalEntry{}, notFoundError("journal.update", "entry not found")
	}
	entry.CreatedAt = current.CreatedAt
	r.entries[entry.ID] = entry
	return entry, nil
}

// Delete removes an entry owned by the user.
func (r *JournalRepository) Delete(ctx context.Context, userID, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.entries[entryID]
	if !ok || current.UserID != userID {
		return notFoundError("journal.delete", "entry not found")
	}
	delete(r.entries, entryID)
	return nil
}

// FindByID returns one entry owned by the user.
func (r *JournalRepository) FindByID(ctx context.Context, userID, entryID string) (domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.JournalEntry{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	current, ok := r.entries[entryID]
	if !ok || current.UserID != userID {
		return domain.JournalEntry{}, notFoundError("journal.find", "entry not found")
	}
	return current, nil
}

// ListByUser returns the user's entries, most recent first.
func (r *JournalRepository) ListByUser(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.JournalEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
