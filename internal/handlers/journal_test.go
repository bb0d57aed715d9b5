package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/services"
)

func TestJournalListRequiresAuth(t *testing.T) {
	authn := newTestAuthenticator(t)
	h := NewJournalHandlers(authn, &stubJournalService{})
	router := newRouterFor(authn, WithJournalRoutes(h.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/journal/entries", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestJournalListReturnsEntries(t *testing.T) {
	authn := newTestAuthenticator(t)
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := &stubJournalService{entries: []domain.JournalEntry{
		{ID: "e-1", Title: "Morning", Content: "words", Mood: domain.MoodPeaceful, CreatedAt: created, UpdatedAt: created},
	}}
	h := NewJournalHandlers(authn, svc)
	router := newRouterFor(authn, WithJournalRoutes(h.Routes))

	req := newAuthedRequest(t, authn, http.MethodGet, "/api/journal/entries", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Entries []journalEntryPayload `json:"entries"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Entries) != 1 || body.Entries[0].ID != "e-1" || body.Entries[0].Mood != "peaceful" {
		t.Fatalf("unexpected entries %+v", body.Entries)
	}
}

func TestJournalCreateReturnsEntry(t *testing.T) {
	authn := newTestAuthenticator(t)
	svc := &stubJournalService{entry: domain.JournalEntry{ID: "e-9", Content: "words"}}
	h := NewJournalHandlers(authn, svc)
	router := newRouterFor(authn, WithJournalRoutes(h.Routes))

	req := newAuthedRequest(t, authn, http.MethodPost, "/api/journal/entries", strings.NewReader(`{"content":"words","mood":"grateful"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestJournalCreateInvalidInput(t *testing.T) {
	authn := newTestAuthenticator(t)
	svc := &stubJournalService{err: services.ErrJournalInvalidInput}
	h := NewJournalHandlers(authn, svc)
	router := newRouterFor(authn, WithJournalRoutes(h.Routes))

	req := newAuthedRequest(t, authn, http.MethodPost, "/api/journal/entries", strings.NewReader(`{"mood":"grateful"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestJournalDeleteNoContent(t *testing.T) {
	authn := newTestAuthenticator(t)
	h := NewJournalHandlers(authn, &stubJournalService{})
	router := newRouterFor(authn, WithJournalRoutes(h.Routes))

	req := newAuthedRequest(t, authn, http.MethodDelete, "/api/journal/entries/e-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestJournalDeleteNotFound(t *testing.T) {
	authn := newTestAuthenticator(t)
	h := NewJournalHandlers(authn, &stubJournalService{deleteErr: services.ErrJournalNotFound})
	router := newRouterFor(authn, WithJournalRoutes(h.Routes))

	req := newAuthedRequest(t, authn, http.MethodDelete, "/api/journal/entries/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestJournalDownloadAttachment(t *testing.T) {
	authn := newTestAuthenticator(t)
	svc := &stubJournalService{export: services.JournalExport{
		Filename:   "soulart-journal-2024-06-01.txt",
		Text:       "SoulArt Temple - Sacred Reflections Journal\n",
		EntryCount: 1,
	}}
	h := NewJournalHandlers(authn, svc)
	router := newRouterFor(authn, WithJournalRoutes(h.Routes))

	req := newAuthedRequest(t, authn, http.MethodGet, "/api/journal/download", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected plain text, got %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "soulart-journal-2024-06-01.txt") {
		t.Fatalf("expected attachment filename, got %q", cd)
	}
	if !strings.Contains(rr.Body.String(), "Sacred Reflections") {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}
