package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/platform/auth"
	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
	"github.com/soulart2024-ship-it/Tem/internal/services"
)

// UsageHandlers exposes the usage dashboard endpoint.
type UsageHandlers struct {
	authn *auth.Authenticator
	usage services.UsageService
}

// NewUsageHandlers constructs handlers for usage statistics.
func NewUsageHandlers(authn *auth.Authenticator, usage services.UsageService) *UsageHandlers {
	return &UsageHandlers{
		authn: authn,
		usage: usage,
	}
}

// Routes wires /usage/stats onto the provided router.
func (h *UsageHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Group(func(group chi.Router) {
		if h.authn != nil {
			group.Use(h.authn.RequireAuth())
		}
		group.Get("/usage/stats", h.stats)
	})
}

type usageHistoryPayload struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	Item   string `json:"item"`
	UsedAt string `json:"usedAt"`
}

type usageStatsResponse struct {
	Usage        int                   `json:"usage"`
	IsSubscribed bool                  `json:"isSubscribed"`
	History      []usageHistoryPayload `json:"history"`
	EmotionUsage int                   `json:"emotionUsage"`
	AllergyUsage int                   `json:"allergyUsage"`
	BeliefUsage  int                   `json:"beliefUsage"`
}

func (h *UsageHandlers) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.usage == nil {
		httpx.WriteError(ctx, w, httpx.NewError("usage_service_unavailable", "usage service is unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	stats, err := h.usage.Stats(ctx, identity.UID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsageInvalidInput):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected stats failure", http.StatusInternalServerError))
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, buildStatsPayload(stats))
}

func buildStatsPayload(stats domain.UsageStats) usageStatsResponse {
	history := make([]usageHistoryPayload, 0, len(stats.History))
	for _, record := range stats.History {
		history = append(history, usageHistoryPayload{
			ID:     record.ID,
			Domain: string(record.Domain),
			Item:   record.Label,
			UsedAt: formatTime(record.UsedAt),
		})
	}
	return usageStatsResponse{
		Usage:        stats.Total,
		IsSubscribed: stats.IsSubscribed,
		History:      history,
		EmotionUsage: stats.EmotionUsage,
		AllergyUsage: stats.AllergyUsage,
		BeliefUsage:  stats.BeliefUsage,
	}
}
