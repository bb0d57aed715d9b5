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

const maxJournalBodySize = 64 * 1024

// JournalHandlers exposes the authenticated journal CRUD and export endpoints.
type JournalHandlers struct {
	authn   *auth.Authenticator
	journal services.JournalService
}

// NewJournalHandlers constructs handlers for the journal endpoints.
func NewJournalHandlers(authn *auth.Authenticator, journal services.JournalService) *JournalHandlers {
	return &JournalHandlers{
		authn:   authn,
		journal: journal,
	}
}

// Routes wires the /journal endpoints onto the provided router.
func (h *JournalHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Route("/journal", func(group chi.Router) {
		if h.authn != nil {
			group.Use(h.authn.RequireAuth())
		}
		group.Get("/entries", h.listEntries)
		group.Post("/entries", h.createEntry)
		group.Get("/entries/{entryID}", h.getEntry)
		group.Put("/entries/{entryID}", h.updateEntry)
		group.Delete("/entries/{entryID}", h.deleteEntry)
		group.Get("/download", h.download)
	})
}

type journalEntryPayload struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Mood      string `json:"mood"`
	Tags      string `json:"tags"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type journalEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
	Tags    string `json:"tags"`
}

func buildEntryPayload(entry domain.JournalEntry) journalEntryPayload {
	return journalEntryPayload{
		ID:        entry.ID,
		Title:     entry.Title,
		Content:   entry.Content,
		Mood:      string(entry.Mood),
		Tags:      entry.Tags,
		CreatedAt: formatTime(entry.CreatedAt),
		UpdatedAt: formatTime(entry.UpdatedAt),
	}
}

func (h *JournalHandlers) listEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.ready(ctx, w)
	if !ok {
		return
	}

	entries, err := h.journal.List(ctx, identity.UID)
	if err != nil {
		h.writeJournalError(ctx, w, err)
		return
	}

	payload := make([]journalEntryPayload, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, buildEntryPayload(entry))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"entries": payload})
}

func (h *JournalHandlers) createEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.ready(ctx, w)
	if !ok {
		return
	}

	input, ok := h.parseEntryBody(w, r)
	if !ok {
		return
	}

	entry, err := h.journal.Create(ctx, identity.UID, input)
	if err != nil {
		h.writeJournalError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, buildEntryPayload(entry))
}

func (h *JournalHandlers) getEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.ready(ctx, w)
	if !ok {
		return
	}

	entry, err := h.journal.Get(ctx, identity.UID, chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeJournalError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildEntryPayload(entry))
}

func (h *JournalHandlers) updateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.ready(ctx, w)
	if !ok {
		return
	}

	input, ok := h.parseEntryBody(w, r)
	if !ok {
		return
	}

	entry, err := h.journal.Update(ctx, identity.UID, chi.URLParam(r, "entryID"), input)
	if err != nil {
		h.writeJournalError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildEntryPayload(entry))
}

func (h *JournalHandlers) deleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.ready(ctx, w)
	if !ok {
		return
	}

	if err := h.journal.Delete(ctx, identity.UID, chi.URLParam(r, "entryID")); err != nil {
		h.writeJournalError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JournalHandlers) download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := h.ready(ctx, w)
	if !ok {
		return
	}

	export, err := h.journal.Export(ctx, identity.UID)
	if err != nil {
		h.writeJournalError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.Text))
}

func (h *JournalHandlers) ready(ctx context.Context, w http.ResponseWriter) (*auth.Identity, bool) {
	if h.journal == nil {
		httpx.WriteError(ctx, w, httpx.NewError("journal_service_unavailable", "journal service is unavailable", http.StatusServiceUnavailable))
		return nil, false
	}
	return requireIdentity(ctx, w)
}

func (h *JournalHandlers) parseEntryBody(w http.ResponseWriter, r *http.Request) (services.JournalInput, bool) {
	ctx := r.Context()
	body, err := readLimitedBody(r, maxJournalBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		}
		return services.JournalInput{}, false
	}

	var req journalEntryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return services.JournalInput{}, false
	}

	return services.JournalInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    domain.Mood(strings.TrimSpace(req.Mood)),
		Tags:    req.Tags,
	}, true
}

func (h *JournalHandlers) writeJournalError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrJournalInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrJournalNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("entry_not_found", "journal entry not found", http.StatusNotFound))
	case errors.Is(err, services.ErrJournalLimitReached):
		httpx.WriteError(ctx, w, httpx.NewError("entry_limit_reached", "journal entry limit reached", http.StatusConflict))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected journal failure", http.StatusInternalServerError))
	}
}
