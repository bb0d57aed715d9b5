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

const usageCollectionPattern = "users/%s/usage"

// UsageRepository persists decoder session records per user.
type UsageRepository struct {
	provider *pfirestore.Provider
}

// NewUsageRepository constructs a Firestore-backed usage repository.
func NewUsageRepository(provider *pfirestore.Provider) (*UsageRepository, error) {
	if provider == nil {
		return nil, errors.New("usage repository requires firestore provider")
	}
	return &UsageRepository{provider: provider}, nil
}

type usageDocument struct {
	Domain string    `firestore:"domain"`
	Label  string    `firestore:"label"`
	UsedAt time.Time `firestore:"usedAt"`
}

// Insert appends a session record.
func (r *UsageRepository) Insert(ctx context.Context, record domain.UsageRecord) error {
	coll, err := r.collection(ctx, record.UserID)
	if err != nil {
		return err
	}
	recordID := strings.TrimSpace(record.ID)
	if recordID == "" {
		return errors.New("usage repository: record id is required")
	}
	if !record.Domain.Valid() {
		return errors.New("usage repository: unknown domain")
	}

	doc := usageDocument{
		Domain: string(record.Domain),
		Label:  record.Label,
		UsedAt: record.UsedAt,
	}
	if _, err := coll.Doc(recordID).Create(ctx, doc); err != nil {
		return pfirestore.WrapError("usage.insert", err)
	}
	return nil
}

// CountByDomain counts the user's records for one decoder domain.
func (r *UsageRepository) CountByDomain(ctx context.Context, userID string, d domain.Domain) (int, error) {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return 0, err
	}

	iter := coll.Where("domain", "==", string(d)).Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, pfirestore.WrapError("usage.count", err)
		}
		count++
	}
	return count, nil
}

// ListByUser returns the user's records ordered newest first.
func (r *UsageRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.UsageRecord, error) {
	coll, err := r.collection(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := coll.OrderBy("usedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []domain.UsageRecord
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("usage.list", err)
		}
		var doc usageDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode usage record %s: %w", snap.Ref.ID, err)
		}
		records = append(records, domain.UsageRecord{
			ID:     snap.Ref.ID,
			UserID: userID,
			Domain: domain.Domain(doc.Domain),
			Label:  doc.Label,
			UsedAt: doc.UsedAt,
		})
	}
	return records, nil
}

func (r *UsageRepository) collection(ctx context.Context, userID string) (*firestore.CollectionRef, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("usage repository not initialised")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("usage repository: user id is required")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(fmt.Sprintf(usageCollectionPattern, uid)), nil
}

// Ensure interface compliance.
var _ repositories.UsageRepository = (*UsageRepository)(nil)
