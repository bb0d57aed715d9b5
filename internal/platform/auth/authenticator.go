package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"

	"github.com/soulart2024-ship-it/Tem/internal/platform/httpx"
)

const defaultTokenTTL = 12 * time.Hour

var (
	// ErrTokenExpired signals that the presented token has expired.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid signals that the presented token could not be verified.
	ErrTokenInvalid = errors.New("auth: token invalid")
	// ErrNoCredentials signals that the request carried neither a bearer token
	// nor a session cookie.
	ErrNoCredentials = errors.New("auth: no credentials")
)

type sessionPayload struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Authenticator resolves the caller identity from a JWT bearer token or an
// encrypted session cookie.
type Authenticator struct {
	secret     []byte
	codec      *securecookie.SecureCookie
	cookieName string
	tokenTTL   time.Duration
	clock      func() time.Time
}

// Option customises Authenticator behaviour.
type Option func(*Authenticator)

// WithSessionCodec enables session-cookie authentication alongside bearer tokens.
func WithSessionCodec(codec *securecookie.SecureCookie, cookieName string) Option {
	return func(a *Authenticator) {
		a.codec = codec
		if trimmed := strings.TrimSpace(cookieName); trimmed != "" {
			a.cookieName = trimmed
		}
	}
}

// WithTokenTTL overrides the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(clock func() time.Time) Option {
	return func(a *Authenticator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// NewAuthenticator constructs an Authenticator signing with the given secret.
func NewAuthenticator(secret []byte, opts ...Option) *Authenticator {
	a := &Authenticator{
		secret:   secret,
		tokenTTL: defaultTokenTTL,
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

type idClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// IssueToken signs a bearer token for the identity.
func (a *Authenticator) IssueToken(identity Identity) (string, error) {
	if strings.TrimSpace(identity.UID) == "" {
		return "", errors.New("auth: uid is required")
	}
	now := a.clock()
	claims := idClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		Email: identity.Email,
		Name:  identity.Name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// VerifyToken parses and validates a bearer token.
func (a *Authenticator) VerifyToken(token string) (*Identity, error) {
	claims := &idClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.clock))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenInvalid
	}
	return &Identity{UID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// EncodeSessionCookie produces a session cookie carrying the identity.
func (a *Authenticator) EncodeSessionCookie(identity Identity, ttl time.Duration) (*http.Cookie, error) {
	if a.codec == nil {
		return nil, errors.New("auth: session codec not configured")
	}
	encoded, err := a.codec.Encode(a.cookieName, sessionPayload{
		UID:   identity.UID,
		Email: identity.Email,
		Name:  identity.Name,
	})
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearSessionCookie produces an expired cookie that destroys the session.
func (a *Authenticator) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// identify resolves the identity from the request, preferring bearer tokens.
func (a *Authenticator) identify(r *http.Request) (*Identity, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return nil, ErrTokenInvalid
		}
		return a.VerifyToken(strings.TrimSpace(parts[1]))
	}

	if a.codec != nil {
		cookie, err := r.Cookie(a.cookieName)
		if err == nil && cookie.Value != "" {
			var payload sessionPayload
			if err := a.codec.Decode(a.cookieName, cookie.Value, &payload); err != nil {
				return nil, ErrTokenInvalid
			}
			if strings.TrimSpace(payload.UID) == "" {
				return nil, ErrTokenInvalid
			}
			return &Identity{UID: payload.UID, Email: payload.Email, Name: payload.Name}, nil
		}
	}

	return nil, ErrNoCredentials
}

// Middleware stores the identity on the context when credentials are valid.
// Requests without credentials pass through anonymously.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.identify(r)
			if err == nil {
				r = r.WithContext(WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests without a resolvable identity.
func (a *Authenticator) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := IdentityFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}
			identity, err := a.identify(r)
			if err != nil {
				httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}
