package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

func TestClientCheckAccessMapsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	state, err := client.CheckAccess(context.Background(), domain.DomainEmotion, nil)
	require.NoError(t, err)
	require.True(t, state.NeedsAuth)
	require.False(t, state.Allowed())
}

func TestClientCheckAccessDecodesGateState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/emotion-decoder/can-use", r.URL.Path)
		cookie, err := r.Cookie("soulart_session")
		require.NoError(t, err)
		require.Equal(t, "session-token", cookie.Value)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"canUse":true,"usageCount":2,"isSubscribed":false}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	state, err := client.CheckAccess(context.Background(), domain.DomainEmotion, &http.Cookie{Name: "soulart_session", Value: "session-token"})
	require.NoError(t, err)
	require.True(t, state.Allowed())
	require.Equal(t, 2, state.UsageCount)
}

func TestClientCheckAccessFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.CheckAccess(context.Background(), domain.DomainBelief, nil)
	require.ErrorIs(t, err, ErrGateUnavailable)
}

func TestClientRecordUsageQuotaEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/allergy-identifier/use", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Free session limit reached","needsSubscription":true}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	err = client.RecordUsage(context.Background(), domain.DomainAllergy, "Wheat", nil)
	require.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestClientRecordUsageSendsDomainField(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, jsonDecode(r, &gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"rec-1"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	require.NoError(t, client.RecordUsage(context.Background(), domain.DomainBelief, "I am not enough", nil))
	require.Equal(t, "I am not enough", gotBody["belief"])
}

func TestClientRecordUsageAuthRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	err = client.RecordUsage(context.Background(), domain.DomainEmotion, "Shame", nil)
	require.ErrorIs(t, err, ErrAuthRequired)
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
