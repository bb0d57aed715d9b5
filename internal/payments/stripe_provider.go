package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeLogger defines the logging contract for Stripe provider operations.
type StripeLogger func(ctx context.Context, event string, fields map[string]any)

type stripeCustomerAPI interface {
	New(params *stripe.CustomerParams) (*stripe.Customer, error)
}

type stripeSubscriptionAPI interface {
	New(params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	Get(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
}

type stripeClients struct {
	customers     stripeCustomerAPI
	subscriptions stripeSubscriptionAPI
}

// SubscriptionRequest asks for a payable subscription for one user.
type SubscriptionRequest struct {
	UserID                 string
	Email                  string
	Name                   string
	CustomerID             string
	ExistingSubscriptionID string
	PriceID                string
	IdempotencyKey         string
}

// SubscriptionIntent is the client-facing result: the subscription plus the
// payment intent secret the browser confirms.
type SubscriptionIntent struct {
	CustomerID     string
	SubscriptionID string
	ClientSecret   string
	Status         string
}

// StripeProviderConfig configures the StripeProvider.
type StripeProviderConfig struct {
	APIKey   string
	Backends *stripe.Backends
	Logger   StripeLogger
	Clock    func() time.Time
	Clients  *stripeClients
}

// StripeProvider creates customers and incomplete subscriptions via Stripe.
type StripeProvider struct {
	api    stripeClients
	clock  func() time.Time
	logger StripeLogger
}

// NewStripeProvider constructs a Stripe provider using the given configuration.
func NewStripeProvider(cfg StripeProviderConfig) (*StripeProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && cfg.Clients == nil {
		return nil, errors.New("stripe: api key is required")
	}

	var clients stripeClients
	if cfg.Clients != nil {
		clients = *cfg.Clients
	} else {
		sc := client.New(apiKey, cfg.Backends)
		clients = stripeClients{
			customers:     sc.Customers,
			subscriptions: sc.Subscriptions,
		}
	}

	if clients.customers == nil || clients.subscriptions == nil {
		return nil, errors.New("stripe: incomplete client configuration")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &StripeProvider{
		api: clients,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

// GetOrCreateSubscription reuses an existing incomplete subscription when
// one is on file, otherwise creates a customer as needed and opens a new
// subscription with payment_behavior=default_incomplete.
func (p *StripeProvider) GetOrCreateSubscription(ctx context.Context, req SubscriptionRequest) (SubscriptionIntent, error) {
	if p == nil {
		return SubscriptionIntent{}, errors.New("stripe: provider is nil")
	}
	priceID := strings.TrimSpace(req.PriceID)
	if priceID == "" {
		return SubscriptionIntent{}, errors.New("stripe: price id is required")
	}

	if subID := strings.TrimSpace(req.ExistingSubscriptionID); subID != "" {
		params := &stripe.SubscriptionParams{}
		params.Context = ctx
		params.AddExpand("latest_invoice.payment_intent")
		sub, err := p.api.subscriptions.Get(subID, params)
		if err == nil && sub != nil {
			if secret := paymentIntentSecret(sub); secret != "" {
				p.logger(ctx, "stripe.subscription.reused", map[string]any{
					"subscription_id": sub.ID,
					"status":          string(sub.Status),
				})
				return SubscriptionIntent{
					CustomerID:     customerID(sub),
					SubscriptionID: sub.ID,
					ClientSecret:   secret,
					Status:         string(sub.Status),
				}, nil
			}
		}
		// An unusable or vanished subscription falls through to a fresh one.
	}

	custID := strings.TrimSpace(req.CustomerID)
	if custID == "" {
		customerParams := &stripe.CustomerParams{
			Email: stripe.String(strings.TrimSpace(req.Email)),
			Name:  stripe.String(strings.TrimSpace(req.Name)),
		}
		customerParams.Context = ctx
		customerParams.AddMetadata("userId", strings.TrimSpace(req.UserID))
		customer, err := p.api.customers.New(customerParams)
		if err != nil {
			return SubscriptionIntent{}, err
		}
		custID = customer.ID
		p.logger(ctx, "stripe.customer.created", map[string]any{"customer_id": custID})
	}

	params := &stripe.SubscriptionParams{
		Customer: stripe.String(custID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.Context = ctx
	params.AddExpand("latest_invoice.payment_intent")
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}

	sub, err := p.api.subscriptions.New(params)
	if err != nil {
		return SubscriptionIntent{}, err
	}

	secret := paymentIntentSecret(sub)
	if secret == "" {
		return SubscriptionIntent{}, errors.New("stripe: subscription has no payment intent secret")
	}

	p.logger(ctx, "stripe.subscription.created", map[string]any{
		"subscription_id": sub.ID,
		"customer_id":     custID,
	})
	return SubscriptionIntent{
		CustomerID:     custID,
		SubscriptionID: sub.ID,
		ClientSecret:   secret,
		Status:         string(sub.Status),
	}, nil
}

func paymentIntentSecret(sub *stripe.Subscription) string {
	if sub == nil || sub.LatestInvoice == nil || sub.LatestInvoice.PaymentIntent == nil {
		return ""
	}
	return sub.LatestInvoice.PaymentIntent.ClientSecret
}

func customerID(sub *stripe.Subscription) string {
	if sub == nil || sub.Customer == nil {
		return ""
	}
	return sub.Customer.ID
}
