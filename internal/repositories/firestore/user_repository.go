package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	pfirestore "github.com/soulart2024-ship-it/Tem/internal/platform/firestore"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
)

const userCollection = "users"

// UserRepository persists user profiles.
type UserRepository struct {
	provider *pfirestore.Provider
}

// NewUserRepository constructs a Firestore-backed user repository.
func NewUserRepository(provider *pfirestore.Provider) (*UserRepository, error) {
	if provider == nil {
		return nil, errors.New("user repository requires firestore provider")
	}
	return &UserRepository{provider: provider}, nil
}

type userDocument struct {
	Email                string    `firestore:"email"`
	Name                 string    `firestore:"name"`
	IsSubscribed         bool      `firestore:"isSubscribed"`
	StripeCustomerID     string    `firestore:"stripeCustomerId"`
	StripeSubscriptionID string    `firestore:"stripeSubscriptionId"`
	CreatedAt            time.Time `firestore:"createdAt"`
}

// FindByID returns the stored profile for the user.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (domain.UserProfile, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.UserProfile{}, errors.New("user repository: user id is required")
	}

	snap, err := coll.Doc(userID).Get(ctx)
	if err != nil {
		return domain.UserProfile{}, pfirestore.WrapError("users.find", err)
	}
	return decodeUserDocument(snap)
}

// Upsert stores or replaces the profile.
func (r *UserRepository) Upsert(ctx context.Context, profile domain.UserProfile) (domain.UserProfile, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profile.ID = strings.TrimSpace(profile.ID)
	if profile.ID == "" {
		return domain.UserProfile{}, errors.New("user repository: user id is required")
	}

	doc := userDocument{
		Email:                profile.Email,
		Name:                 profile.Name,
		IsSubscribed:         profile.IsSubscribed,
		StripeCustomerID:     profile.StripeCustomerID,
		StripeSubscriptionID: profile.StripeSubscriptionID,
		CreatedAt:            profile.CreatedAt,
	}
	if _, err := coll.Doc(profile.ID).Set(ctx, doc); err != nil {
		return domain.UserProfile{}, pfirestore.WrapError("users.upsert", err)
	}
	return profile, nil
}

// SetSubscription updates the Stripe linkage and subscription flag.
func (r *UserRepository) SetSubscription(ctx context.Context, userID, customerID, subscriptionID string, subscribed bool) (domain.UserProfile, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.UserProfile{}, errors.New("user repository: user id is required")
	}

	docRef := coll.Doc(userID)
	var profile domain.UserProfile
	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			return err
		}
		current, err := decodeUserDocument(snap)
		if err != nil {
			return err
		}
		if customerID != "" {
			current.StripeCustomerID = customerID
		}
		if subscriptionID != "" {
			current.StripeSubscriptionID = subscriptionID
		}
		current.IsSubscribed = subscribed
		profile = current

		updates := []firestore.Update{
			{Path: "isSubscribed", Value: current.IsSubscribed},
			{Path: "stripeCustomerId", Value: current.StripeCustomerID},
			{Path: "stripeSubscriptionId", Value: current.StripeSubscriptionID},
		}
		return tx.Update(docRef, updates)
	})
	if err != nil {
		return domain.UserProfile{}, pfirestore.WrapError("users.set_subscription", err)
	}
	return profile, nil
}

func (r *UserRepository) collection(ctx context.Context) (*firestore.CollectionRef, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("user repository not initialised")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(userCollection), nil
}

func decodeUserDocument(snapshot *firestore.DocumentSnapshot) (domain.UserProfile, error) {
	var doc userDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return domain.UserProfile{}, fmt.Errorf("decode user %s: %w", snapshot.Ref.ID, err)
	}
	return domain.UserProfile{
		ID:                   snapshot.Ref.ID,
		Email:                doc.Email,
		Name:                 doc.Name,
		IsSubscribed:         doc.IsSubscribed,
		StripeCustomerID:     doc.StripeCustomerID,
		StripeSubscriptionID: doc.StripeSubscriptionID,
		CreatedAt:            doc.CreatedAt,
	}, nil
}

// Ensure interface compliance.
var _ repositories.UserRepository = (*UserRepository)(nil)
