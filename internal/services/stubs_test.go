package services

import (
	"context"
	"sort"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

type stubRepoError struct {
	message  string
	notFound bool
}

func (e *stubRepoError) Error() string       { return e.message }
func (e *stubRepoError) IsNotFound() bool    { return e.notFound }
func (e *stubRepoError) IsConflict() bool    { return false }
func (e *stubRepoError) IsUnavailable() bool { return false }

type stubUserRepository struct {
	profiles map[string]domain.UserProfile
	findErr  error

	setCalls []setSubscriptionCall
}

type setSubscriptionCall struct {
	userID         string
	customerID     string
	subscriptionID string
	subscribed     bool
}

func newStubUserRepository(profiles ...domain.UserProfile) *stubUserRepository {
	repo := &stubUserRepository{profiles: make(map[string]domain.UserProfile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (r *stubUserRepository) FindByID(_ context.Context, userID string) (domain.UserProfile, error) {
	if r.findErr != nil {
		return domain.UserProfile{}, r.findErr
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return domain.UserProfile{}, &stubRepoError{message: "user not found", notFound: true}
	}
	return profile, nil
}

func (r *stubUserRepository) Upsert(_ context.Context, profile domain.UserProfile) (domain.UserProfile, error) {
	r.profiles[profile.ID] = profile
	return profile, nil
}

func (r *stubUserRepository) SetSubscription(_ context.Context, userID, customerID, subscriptionID string, subscribed bool) (domain.UserProfile, error) {
	r.setCalls = append(r.setCalls, setSubscriptionCall{userID, customerID, subscriptionID, subscribed})
	profile, ok := r.profiles[userID]
	if !ok {
		return domain.UserProfile{}, &stubRepoError{message: "user not found", notFound: true}
	}
	if customerID != "" {
		profile.StripeCustomerID = customerID
	}
	if subscriptionID != "" {
		profile.StripeSubscriptionID = subscriptionID
	}
	profile.IsSubscribed = subscribed
	r.profiles[userID] = profile
	return profile, nil
}

type stubUsageRepository struct {
	records   []domain.UsageRecord
	insertErr error
	countErr  error
}

func (r *stubUsageRepository) Insert(_ context.Context, record domain.UsageRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.records = append(r.records, record)
	return nil
}

func (r *stubUsageRepository) CountByDomain(_ context.Context, userID string, d domain.Domain) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	count := 0
	for _, record := range r.records {
		if record.UserID == userID && record.Domain == d {
			count++
		}
	}
	return count, nil
}

func (r *stubUsageRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.UsageRecord, error) {
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

type stubJournalRepository struct {
	entries   map[string]domain.JournalEntry
	insertErr error
	listErr   error
}

func newStubJournalRepository() *stubJournalRepository {
	return &stubJournalRepository{entries: make(map[string]domain.JournalEntry)}
}

func (r *stubJournalRepository) Insert(_ context.Context, entry domain.JournalEntry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *stubJournalRepository) Update(_ context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	existing, ok := r.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return domain.JournalEntry{}, &stubRepoError{message: "entry not found", notFound: true}
	}
	entry.CreatedAt = existing.CreatedAt
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *stubJournalRepository) Delete(_ context.Context, userID, entryID string) error {
	existing, ok := r.entries[entryID]
	if !ok || existing.UserID != userID {
		return &stubRepoError{message: "entry not found", notFound: true}
	}
	delete(r.entries, entryID)
	return nil
}

func (r *stubJournalRepository) FindByID(_ context.Context, userID, entryID string) (domain.JournalEntry, error) {
	existing, ok := r.entries[entryID]
	if !ok || existing.UserID != userID {
		return domain.JournalEntry{}, &stubRepoError{message: "entry not found", notFound: true}
	}
	return existing, nil
}

func (r *stubJournalRepository) ListByUser(_ context.Context, userID string) ([]domain.JournalEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
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
