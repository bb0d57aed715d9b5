package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/platform/auth"
	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
	"github.com/soulart2024-ship-it/Tem/internal/services"
)

const maxUseBodySize = 4 * 1024

// DecoderHandlers exposes the per-domain access gate and session recorder.
type DecoderHandlers struct {
	authn  *auth.Authenticator
	access services.AccessService
	usage  services.UsageService
}

// NewDecoderHandlers constructs handlers for the decoder gate endpoints.
func NewDecoderHandlers(authn *auth.Authenticator, access services.AccessService, usage services.UsageService) *DecoderHandlers {
	return &DecoderHandlers{
		authn:  authn,
		access: access,
		usage:  usage,
	}
}

// Routes wires /{decoderSlug}/can-use and /{decoderSlug}/use onto the router.
func (h *DecoderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Route("/{decoderSlug}", func(group chi.Router) {
		if h.authn != nil {
			group.Use(h.authn.RequireAuth())
		}
		group.Get("/can-use", h.canUse)
		group.Post("/use", h.recordUse)
	})
}

type canUseResponse struct {
	CanUse       bool `json:"canUse"`
	UsageCount   int  `json:"usageCount"`
	IsSubscribed bool `json:"isSubscribed"`
}

func (h *DecoderHandlers) canUse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.access == nil {
		httpx.WriteError(ctx, w, httpx.NewError("access_service_unavailable", "access service is unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	d, ok := h.resolveDomain(w, r)
	if !ok {
		return
	}

	state, err := h.access.Check(ctx, identity.UID, d)
	if err != nil {
		h.writeDecoderError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, canUseResponse{
		CanUse:       state.Allowed(),
		UsageCount:   state.UsageCount,
		IsSubscribed: state.IsSubscribed,
	})
}

type useResponse struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	Item   string `json:"item"`
	UsedAt string `json:"usedAt"`
}

func (h *DecoderHandlers) recordUse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.usage == nil {
		httpx.WriteError(ctx, w, httpx.NewError("usage_service_unavailable", "usage service is unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}
	d, ok := h.resolveDomain(w, r)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxUseBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		}
		return
	}

	label, err := parseUseRequest(body, d)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	record, err := h.usage.Record(ctx, identity.UID, d, label)
	if err != nil {
		h.writeDecoderError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, useResponse{
		ID:     record.ID,
		Domain: string(record.Domain),
		Item:   record.Label,
		UsedAt: formatTime(record.UsedAt),
	})
}

// parseUseRequest accepts either the domain-specific field name the web
// client sends ("emotion", "allergen", "belief") or a generic "item".
func parseUseRequest(data []byte, d domain.Domain) (string, error) {
	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("invalid JSON payload: %w", err)
	}
	if label := strings.TrimSpace(payload[d.ItemField()]); label != "" {
		return label, nil
	}
	if label := strings.TrimSpace(payload["item"]); label != "" {
		return label, nil
	}
	return "", fmt.Errorf("field %q is required", d.ItemField())
}

func (h *DecoderHandlers) resolveDomain(w http.ResponseWriter, r *http.Request) (domain.Domain, bool) {
	slug := chi.URLParam(r, "decoderSlug")
	d, ok := domain.DomainFromSlug(slug)
	if !ok {
		httpx.WriteError(r.Context(), w, httpx.NewError("unknown_decoder", fmt.Sprintf("unknown decoder %q", slug), http.StatusNotFound))
		return "", false
	}
	return d, true
}

func (h *DecoderHandlers) writeDecoderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrQuotaExhausted):
		// The fixed envelope the web client keys its upgrade prompt on.
		httpx.WriteJSON(w, http.StatusForbidden, map[string]any{
			"message":           "Free session limit reached",
			"needsSubscription": true,
		})
	case errors.Is(err, services.ErrAccessInvalidInput), errors.Is(err, services.ErrUsageInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected decoder failure", http.StatusInternalServerError))
	}
}
