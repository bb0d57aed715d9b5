package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	pfirestore "github.com/soulart2024-ship-it/Tem/internal/platform/firestore"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
)

const journalCollectionPattern = "users/%s/journalEntries"

// JournalRepository persists journal entries per user.
type JournalRepository struct {
	provider *pfirestore.Provider
}

// NewJournalRepository constructs a Firestore-backed journal repository.
func NewJournalRepository(provider *pfirestore.Provider) (*JournalRepository, error) {
	if provider == nil {
		return nil, errors.New("journal repository requires firestore provider")
	}
	return &JournalRepository{provider: provider}, nil
}

type journalDocument struct {
	Title     string    `firestore:"title"`
	Content   string    `firestore:"content"`
	Mood      string    `firestore:"mood"`
	Tags      string    `firestore:"tags"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Insert stores a new entry.
func (r *JournalRepository) Insert(ctx context.Context, entry domain.JournalEntry) error {
	coll, err := r.collection(ctx, entry.UserID)
	if err != nil {
		return err
	}
	entryID := strings.TrimSpace(entry.ID)
	if entryID == "" {
		return errors.New("journal repository: entry id is required")
	}
	if _, err := coll.Doc(entryID).Create(ctx, encodeJournalDocument(entry)); err != nil {
		return pfirestore.WrapError("journal.insert", err)
	}
	return nil
}

// Update replaces an existing entry, preserving its creation time.
func (r *JournalRepository) Update(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	coll, err := r.collection(ctx, entry.UserID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	entryID := strings.TrimSpace(entry.ID)
	if entryID == "" {
		return domain.JournalEntry{}, errors.New("journal repository: entry id is required")
	}

	docRef := coll.Doc(entryID)
	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			return err
		}
		current, err := decodeJournalDocument(snap, entry.UserID)
		if err != nil {
			return err
		}
		entry.CreatedAt = current.CreatedAt
		return tx.Set(docRef, encodeJournalDocument(entry))
	})
	if err != nil {
		return domain.JournalEntry{}, pfirestore.WrapError("journal.update", err)
	}
	return entry, nil
}

// Delete removes an entry owned by the user.
func (r *JournalRepository) Delete(ctx context.Context, userID, entryID string) error {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return err
	}
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return errors.New("journal repository: entry id is required")
	}

	docRef := coll.Doc(entryID)
	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			return err
		}
		return tx.Delete(docRef)
	})
	if err != nil {
		return pfirestore.WrapError("journal.delete", err)
	}
	return nil
}

// FindByID returns one entry owned by the user.
func (r *JournalRepository) FindByID(ctx context.Context, userID, entryID string) (domain.JournalEntry, error) {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return domain.JournalEntry{}, errors.New("journal repository: entry id is required")
	}

	snap, err := coll.Doc(entryID).Get(ctx)
	if err != nil {
		return domain.JournalEntry{}, pfirestore.WrapError("journal.find", err)
	}
	return decodeJournalDocument(snap, userID)
}

// ListByUser returns the user's entries ordered newest first.
func (r *JournalRepository) ListByUser(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return nil, err
	}

	iter := coll.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var entries []domain.JournalEntry
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("journal.list", err)
		}
		entry, err := decodeJournalDocument(snap, userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *JournalRepository) collection(ctx context.Context, userID string) (*firestore.CollectionRef, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("journal repository not initialised")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("journal repository: user id is required")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(fmt.Sprintf(journalCollectionPattern, uid)), nil
}

func encodeJournalDocument(entry domain.JournalEntry) journalDocument {
	return journalDocument{
		Title:     entry.Title,
		Content:   entry.Content,
		Mood:      string(entry.Mood),
		Tags:      entry.Tags,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

func decodeJournalDocument(snapshot *firestore.DocumentSnapshot, userID string) (domain.JournalEntry, error) {
	var doc journalDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return domain.JournalEntry{}, fmt.Errorf("decode journal entry %s: %w", snapshot.Ref.ID, err)
	}
	return domain.JournalEntry{
		ID:        snapshot.Ref.ID,
		UserID:    userID,
		Title:     doc.Title,
		Content:   doc.Content,
		Mood:      domain.Mood(doc.Mood),
		Tags:      doc.Tags,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Ensure interface compliance.
var _ repositories.JournalRepository = (*JournalRepository)(nil)
