package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

func TestUsageStatsRequiresAuth(t *testing.T) {
	authn := newTestAuthenticator(t)
	h := NewUsageHandlers(authn, &stubUsageService{})
	router := newRouterFor(authn, WithUsageRoutes(h.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/usage/stats", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUsageStatsPayloadShape(t *testing.T) {
	authn := newTestAuthenticator(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := &stubUsageService{stats: domain.UsageStats{
		Total:        6,
		IsSubscribed: true,
		EmotionUsage: 2,
		AllergyUsage: 1,
		BeliefUsage:  3,
		History: []domain.UsageRecord{
			{ID: "r-1", Domain: domain.DomainEmotion, Label: "Shame", UsedAt: now},
		},
	}}
	h := NewUsageHandlers(authn, svc)
	router := newRouterFor(authn, WithUsageRoutes(h.Routes))

	req := newAuthedRequest(t, authn, http.MethodGet, "/api/usage/stats", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	for _, key := range []string{"usage", "isSubscribed", "history", "emotionUsage", "allergyUsage", "beliefUsage"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("stats payload missing %q: %s", key, rr.Body.String())
		}
	}
	if body["usage"].(float64) != 6 {
		t.Fatalf("expected total 6, got %v", body["usage"])
	}
}
