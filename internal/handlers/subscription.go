package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soulart2024-ship-it/Tem/internal/platform/auth"
	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
	"github.com/soulart2024-ship-it/Tem/internal/services"
)

// SubscriptionHandlers exposes the billing endpoint.
type SubscriptionHandlers struct {
	authn *auth.Authenticator
	subs  services.SubscriptionService
}

// NewSubscriptionHandlers constructs handlers for subscription creation.
func NewSubscriptionHandlers(authn *auth.Authenticator, subs services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		authn: authn,
		subs:  subs,
	}
}

// Routes wires the billing endpoint onto the provided router.
func (h *SubscriptionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Group(func(group chi.Router) {
		if h.authn != nil {
			group.Use(h.authn.RequireAuth())
		}
		group.Post("/get-or-create-subscription", h.getOrCreate)
	})
}

type subscriptionResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
}

func (h *SubscriptionHandlers) getOrCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.subs == nil {
		httpx.WriteError(ctx, w, httpx.NewError("subscription_service_unavailable", "subscription service is unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	intent, err := h.subs.Subscribe(ctx, identity.UID, identity.Email, identity.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubscriptionInvalidInput):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("subscription_failed", "could not prepare the subscription", http.StatusBadGateway))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, subscriptionResponse{
		SubscriptionID: intent.SubscriptionID,
		ClientSecret:   intent.ClientSecret,
	})
}
