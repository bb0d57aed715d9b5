package services

import (
	"context"
	"errors"
	"strings"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/payments"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
)

// ErrSubscriptionInvalidInput reports a malformed subscription request.
var ErrSubscriptionInvalidInput = errors.New("subscription: invalid input")

// SubscriptionProvider opens a payable subscription with the payment
// processor, reusing one already on file when possible.
type SubscriptionProvider interface {
	GetOrCreateSubscription(ctx context.Context, req payments.SubscriptionRequest) (payments.SubscriptionIntent, error)
}

// SubscriptionService prepares a subscription payment for a signed-in user.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, email, name string) (payments.SubscriptionIntent, error)
}

// SubscriptionServiceDeps wires the subscription service dependencies.
type SubscriptionServiceDeps struct {
	Users    repositories.UserRepository
	Provider SubscriptionProvider
	PriceID  string
	Logger   func(ctx context.Context, event string, fields map[string]any)
}

type subscriptionService struct {
	users    repositories.UserRepository
	provider SubscriptionProvider
	priceID  string
	logger   func(ctx context.Context, event string, fields map[string]any)
}

// NewSubscriptionService validates the dependencies and builds the service.
func NewSubscriptionService(deps SubscriptionServiceDeps) (SubscriptionService, error) {
	if deps.Users == nil {
		return nil, errors.New("subscription service: user repository is required")
	}
	if deps.Provider == nil {
		return nil, errors.New("subscription service: provider is required")
	}
	if strings.TrimSpace(deps.PriceID) == "" {
		return nil, errors.New("subscription service: price id is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &subscriptionService{
		users:    deps.Users,
		provider: deps.Provider,
		priceID:  strings.TrimSpace(deps.PriceID),
		logger:   logger,
	}, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, email, name string) (payments.SubscriptionIntent, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return payments.SubscriptionIntent{}, ErrSubscriptionInvalidInput
	}

	req := payments.SubscriptionRequest{
		UserID:         userID,
		Email:          strings.TrimSpace(email),
		Name:           strings.TrimSpace(name),
		PriceID:        s.priceID,
		IdempotencyKey: "sub-" + userID,
	}

	known := true
	profile, err := s.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		req.CustomerID = profile.StripeCustomerID
		req.ExistingSubscriptionID = profile.StripeSubscriptionID
		if req.Email == "" {
			req.Email = profile.Email
		}
		if req.Name == "" {
			req.Name = profile.Name
		}
	case isNotFound(err):
		// First touch with billing; the provider creates the customer.
		known = false
	default:
		return payments.SubscriptionIntent{}, err
	}

	intent, err := s.provider.GetOrCreateSubscription(ctx, req)
	if err != nil {
		return payments.SubscriptionIntent{}, err
	}

	if !known {
		if _, err := s.users.Upsert(ctx, domain.UserProfile{
			ID:    userID,
			Email: req.Email,
			Name:  req.Name,
		}); err != nil {
			return payments.SubscriptionIntent{}, err
		}
	}
	if _, err := s.users.SetSubscription(ctx, userID, intent.CustomerID, intent.SubscriptionID, false); err != nil {
		return payments.SubscriptionIntent{}, err
	}

	s.logger(ctx, "subscription.prepared", map[string]any{
		"user_id":         userID,
		"subscription_id": intent.SubscriptionID,
	})
	return intent, nil
}
