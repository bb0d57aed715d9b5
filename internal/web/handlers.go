package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/soulart2024-ship-it/Tem/internal/catalog"
	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/ritual"
	"github.com/soulart2024-ship-it/Tem/internal/web/views"
)

// PageHandlersDeps wires the server-rendered page handlers.
type PageHandlersDeps struct {
	Loader     *catalog.Loader
	API        *Client
	CookieName string
	Logger     func(ctx context.Context, event string, fields map[string]any)
}

// PageHandlers serves the temple pages: home, the three decoders, the
// ritual stepper, and the journal.
type PageHandlers struct {
	loader     *catalog.Loader
	api        *Client
	cookieName string
	logger     func(ctx context.Context, event string, fields map[string]any)
}

// NewPageHandlers validates the dependencies and builds the page handlers.
func NewPageHandlers(deps PageHandlersDeps) (*PageHandlers, error) {
	if deps.Loader == nil {
		return nil, errors.New("web: catalog loader is required")
	}
	if deps.API == nil {
		return nil, errors.New("web: api client is required")
	}
	if strings.TrimSpace(deps.CookieName) == "" {
		return nil, errors.New("web: session cookie name is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &PageHandlers{
		loader:     deps.Loader,
		api:        deps.API,
		cookieName: deps.CookieName,
		logger:     logger,
	}, nil
}

// Routes wires the page routes onto the provided router.
func (h *PageHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.home)
	r.Get("/journal", h.journal)
	r.Get("/{decoderSlug}", h.decoder)
	r.Get("/{decoderSlug}/ritual", h.ritual)
}

func (h *PageHandlers) home(w http.ResponseWriter, r *http.Request) {
	links := make([]views.DecoderLink, 0, len(domain.Domains()))
	for _, d := range domain.Domains() {
		desc, ok := catalog.ForDomain(d)
		if !ok {
			continue
		}
		links = append(links, views.DecoderLink{Title: desc.Title, Slug: d.Slug()})
	}
	templ.Handler(views.Home(links)).ServeHTTP(w, r)
}

func (h *PageHandlers) decoder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, desc, ok := h.resolveDomain(w, r)
	if !ok {
		return
	}

	state, err := h.api.CheckAccess(ctx, d, h.session(r))
	if err != nil {
		h.logger(ctx, "web.gate.unavailable", map[string]any{"domain": string(d), "error": err.Error()})
		templ.Handler(views.RetryPrompt(desc.Title), templ.WithStatus(http.StatusServiceUnavailable)).ServeHTTP(w, r)
		return
	}
	switch {
	case state.NeedsAuth:
		templ.Handler(views.SignInPrompt(desc.Title)).ServeHTTP(w, r)
		return
	case state.NeedsSubscription:
		templ.Handler(views.UpgradePrompt(desc.Title, state.UsageCount)).ServeHTTP(w, r)
		return
	}

	items := h.loader.Load(ctx, d)
	bucketed, dropped := catalog.Bucketize(items, domain.BucketOrder())
	if dropped > 0 {
		h.logger(ctx, "web.catalog.rows_dropped", map[string]any{"domain": string(d), "dropped": dropped})
	}
	page := catalog.BuildPage(desc, bucketed)
	templ.Handler(views.Decoder(page)).ServeHTTP(w, r)
}

func (h *PageHandlers) ritual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, desc, ok := h.resolveDomain(w, r)
	if !ok {
		return
	}

	label := strings.TrimSpace(r.URL.Query().Get("item"))
	if label == "" {
		http.Redirect(w, r, "/"+d.Slug(), http.StatusFound)
		return
	}

	item := h.ritualItem(ctx, d, desc, label)
	word := strings.TrimSpace(r.URL.Query().Get("word"))
	step := parseStep(r.URL.Query().Get("step"))

	session := ritual.NewSession(item)
	for int(session.Current()) < step && !session.Completed() {
		if _, err := session.Advance(word); err != nil {
			break
		}
	}

	// The session is spent against the quota once, when the ritual opens.
	if step <= int(ritual.StepIntention) {
		if !h.recordSession(ctx, w, r, d, label) {
			return
		}
	}

	data := views.RitualData{
		DomainTitle:     desc.Title,
		ItemLabel:       item.Label,
		Step:            int(session.Current()),
		StepName:        session.Current().String(),
		Copy:            session.Copy(),
		Completed:       session.Completed(),
		ReplacementWord: session.ReplacementWord(),
	}
	if session.Current() == ritual.StepReplace {
		data.VibeWords = ritual.VibeWords()
	}
	if !session.Completed() {
		data.FormAction = fmt.Sprintf("/%s/ritual", d.Slug())
		data.NextStep = int(session.Current()) + 1
		next := url.Values{}
		next.Set("item", label)
		next.Set("step", strconv.Itoa(data.NextStep))
		if word != "" || session.Current() >= ritual.StepReplace {
			next.Set("word", session.ReplacementWord())
		}
		data.NextURL = fmt.Sprintf("/%s/ritual?%s", d.Slug(), next.Encode())
	}
	templ.Handler(views.Ritual(data)).ServeHTTP(w, r)
}

func (h *PageHandlers) journal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries, err := h.api.JournalEntries(ctx, h.session(r))
	switch {
	case errors.Is(err, ErrAuthRequired):
		templ.Handler(views.SignInPrompt("Sacred Reflections Journal")).ServeHTTP(w, r)
		return
	case err != nil:
		h.logger(ctx, "web.journal.unavailable", map[string]any{"error": err.Error()})
		templ.Handler(views.RetryPrompt("Sacred Reflections Journal"), templ.WithStatus(http.StatusServiceUnavailable)).ServeHTTP(w, r)
		return
	}

	models := make([]views.JournalEntryView, 0, len(entries))
	for _, entry := range entries {
		models = append(models, views.JournalEntryView{
			Title:     entry.Title,
			Content:   entry.Content,
			Mood:      entry.Mood,
			Tags:      entry.Tags,
			CreatedAt: entry.CreatedAt,
		})
	}
	templ.Handler(views.Journal(models)).ServeHTTP(w, r)
}

// ritualItem resolves the tile's location, color, and support text from the
// catalog so the stepper copy can bind them. A missing catalog entry still
// yields a usable session with just the label.
func (h *PageHandlers) ritualItem(ctx context.Context, d domain.Domain, desc catalog.Descriptor, label string) ritual.Item {
	item := ritual.Item{Label: label}
	for _, candidate := range h.loader.Load(ctx, d) {
		if !strings.EqualFold(candidate.Label, label) {
			continue
		}
		item.Location = candidate.Attributes[desc.LocationAttr]
		item.Color = candidate.Attributes[desc.ColorAttr]
		item.Support = candidate.Attributes[desc.SupportAttr]
		break
	}
	return item
}

// recordSession reports the opened session before any ritual content is
// shown. A spent quota or missing session sends the visitor back through
// the gated decoder view; transient failures are only logged so a flaky
// backend never blocks an already granted page.
func (h *PageHandlers) recordSession(ctx context.Context, w http.ResponseWriter, r *http.Request, d domain.Domain, label string) bool {
	err := h.api.RecordUsage(ctx, d, label, h.session(r))
	switch {
	case err == nil:
		h.logger(ctx, "web.usage.recorded", map[string]any{"domain": string(d), "item": label})
		return true
	case errors.Is(err, ErrQuotaExhausted), errors.Is(err, ErrAuthRequired):
		h.logger(ctx, "web.usage.gate_refused", map[string]any{"domain": string(d), "item": label})
		http.Redirect(w, r, "/"+d.Slug(), http.StatusFound)
		return false
	default:
		h.logger(ctx, "web.usage.record_failed", map[string]any{
			"domain": string(d),
			"item":   label,
			"error":  err.Error(),
		})
		return true
	}
}

func (h *PageHandlers) resolveDomain(w http.ResponseWriter, r *http.Request) (domain.Domain, catalog.Descriptor, bool) {
	slug := chi.URLParam(r, "decoderSlug")
	d, ok := domain.DomainFromSlug(slug)
	if !ok {
		http.NotFound(w, r)
		return "", catalog.Descriptor{}, false
	}
	desc, ok := catalog.ForDomain(d)
	if !ok {
		http.NotFound(w, r)
		return "", catalog.Descriptor{}, false
	}
	return d, desc, true
}

func (h *PageHandlers) session(r *http.Request) *http.Cookie {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		return nil
	}
	return cookie
}

func parseStep(raw string) int {
	step, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || step < int(ritual.StepIntention) {
		return int(ritual.StepIntention)
	}
	if step > int(ritual.StepComplete) {
		return int(ritual.StepComplete)
	}
	return step
}
