package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/payments"
	"github.com/soulart2024-ship-it/Tem/internal/platform/auth"
	"github.com/soulart2024-ship-it/Tem/internal/services"
)

var testJWTSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestAuthenticator(t *testing.T) *auth.Authenticator {
	t.Helper()
	codec := securecookie.New(
		[]byte("hash-key-must-be-32-bytes-long!!"),
		[]byte("block-key-16by!!"),
	)
	return auth.NewAuthenticator(testJWTSecret, auth.WithSessionCodec(codec, "soulart_session"))
}

func bearerFor(t *testing.T, authn *auth.Authenticator, identity auth.Identity) string {
	t.Helper()
	token, err := authn.IssueToken(identity)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return "Bearer " + token
}

func newAuthedRequest(t *testing.T, authn *auth.Authenticator, method, target string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", bearerFor(t, authn, auth.Identity{UID: "user-1", Email: "u@example.com", Name: "U"}))
	return req
}

func newRouterFor(authn *auth.Authenticator, opt Option) chi.Router {
	opts := []Option{opt}
	if authn != nil {
		opts = append(opts, WithMiddlewares(authn.Middleware()))
	}
	return NewRouter(opts...)
}

type stubAccessService struct {
	state domain.AccessState
	err   error
}

func (s *stubAccessService) Check(context.Context, string, domain.Domain) (domain.AccessState, error) {
	return s.state, s.err
}

type stubUsageService struct {
	record    domain.UsageRecord
	recordErr error
	stats     domain.UsageStats
	statsErr  error

	lastDomain domain.Domain
	lastLabel  string
}

func (s *stubUsageService) Record(_ context.Context, _ string, d domain.Domain, label string) (domain.UsageRecord, error) {
	s.lastDomain = d
	s.lastLabel = label
	return s.record, s.recordErr
}

func (s *stubUsageService) Stats(context.Context, string) (domain.UsageStats, error) {
	return s.stats, s.statsErr
}

type stubJournalService struct {
	entry     domain.JournalEntry
	entries   []domain.JournalEntry
	export    services.JournalExport
	err       error
	deleteErr error
}

func (s *stubJournalService) Create(context.Context, string, services.JournalInput) (domain.JournalEntry, error) {
	return s.entry, s.err
}

func (s *stubJournalService) Update(context.Context, string, string, services.JournalInput) (domain.JournalEntry, error) {
	return s.entry, s.err
}

func (s *stubJournalService) Delete(context.Context, string, string) error {
	return s.deleteErr
}

func (s *stubJournalService) Get(context.Context, string, string) (domain.JournalEntry, error) {
	return s.entry, s.err
}

func (s *stubJournalService) List(context.Context, string) ([]domain.JournalEntry, error) {
	return s.entries, s.err
}

func (s *stubJournalService) Export(context.Context, string) (services.JournalExport, error) {
	return s.export, s.err
}

type stubSubscriptionService struct {
	intent payments.SubscriptionIntent
	err    error
}

func (s *stubSubscriptionService) Subscribe(context.Context, string, string, string) (payments.SubscriptionIntent, error) {
	return s.intent, s.err
}
