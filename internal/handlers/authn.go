package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/platform/auth"
	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
)

// AuthHandlers exposes the sign-in surface: the current-user endpoint and
// the login/logout redirects that install or clear the session cookie.
type AuthHandlers struct {
	authn      *auth.Authenticator
	users      repositories.UserRepository
	sessionTTL time.Duration
	clock      func() time.Time
}

// NewAuthHandlers constructs handlers for the auth endpoints.
func NewAuthHandlers(authn *auth.Authenticator, users repositories.UserRepository, sessionTTL time.Duration) *AuthHandlers {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &AuthHandlers{
		authn:      authn,
		users:      users,
		sessionTTL: sessionTTL,
		clock:      time.Now,
	}
}

// Routes wires the auth endpoints onto the provided router.
func (h *AuthHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/login", h.login)
	r.Get("/logout", h.logout)
	r.Group(func(group chi.Router) {
		if h.authn != nil {
			group.Use(h.authn.RequireAuth())
		}
		group.Get("/auth/user", h.currentUser)
	})
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	IsSubscribed bool   `json:"isSubscribed"`
}

func (h *AuthHandlers) currentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := requireIdentity(ctx, w)
	if !ok {
		return
	}

	payload := userResponse{
		ID:    identity.UID,
		Email: identity.Email,
		Name:  identity.Name,
	}
	if h.users != nil {
		if profile, err := h.users.FindByID(ctx, identity.UID); err == nil {
			payload.Email = profile.Email
			payload.Name = profile.Name
			payload.IsSubscribed = profile.IsSubscribed
		}
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

// login exchanges a bearer token from the identity provider for the web
// session cookie, stores the profile, and sends the browser home.
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.authn == nil {
		httpx.WriteError(ctx, w, httpx.NewError("auth_unavailable", "authentication is unavailable", http.StatusServiceUnavailable))
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "token query parameter is required", http.StatusBadRequest))
		return
	}

	identity, err := h.authn.VerifyToken(token)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "invalid or expired token", http.StatusUnauthorized))
		return
	}

	cookie, err := h.authn.EncodeSessionCookie(*identity, h.sessionTTL)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "could not establish a session", http.StatusInternalServerError))
		return
	}

	if h.users != nil {
		profile := domain.UserProfile{
			ID:    identity.UID,
			Email: identity.Email,
			Name:  identity.Name,
		}
		if existing, err := h.users.FindByID(ctx, identity.UID); err == nil {
			profile.IsSubscribed = existing.IsSubscribed
			profile.StripeCustomerID = existing.StripeCustomerID
			profile.StripeSubscriptionID = existing.StripeSubscriptionID
			profile.CreatedAt = existing.CreatedAt
		} else {
			profile.CreatedAt = h.clock().UTC()
		}
		// Login still succeeds if the profile write fails; the session is set.
		_, _ = h.users.Upsert(ctx, profile)
	}

	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	if h.authn != nil {
		http.SetCookie(w, h.authn.ClearSessionCookie())
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
