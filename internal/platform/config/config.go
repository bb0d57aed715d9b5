package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultFreeQuota    = 3
	defaultBasePath     = "/api"
	defaultSessionName  = "soulart_session"
	defaultSessionTTL   = 12 * time.Hour
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Firestore FirestoreConfig
	Stripe    StripeConfig
	Auth      AuthConfig
	Quota     QuotaConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	BasePath     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirestoreConfig stores database parameters. An empty project ID selects
// the in-memory repositories.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// StripeConfig collects payment provider settings.
type StripeConfig struct {
	APIKey  string
	PriceID string
}

// AuthConfig groups session and token settings.
type AuthConfig struct {
	JWTSecret       string
	SessionHashKey  string
	SessionBlockKey string
	SessionName     string
	SessionTTL      time.Duration
}

// QuotaConfig controls the free-session allowance per decoder domain.
type QuotaConfig struct {
	FreeSessions int
}

// ValidationError aggregates every invalid or missing configuration field.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.fields, ", "))
}

// Fields lists the offending configuration keys.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises configuration loading.
type Option func(*loadOptions)

type loadOptions struct {
	envMap        map[string]string
	skipSysEnv    bool
	requireStripe bool
}

// WithEnvMap overlays the provided values on top of the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loadOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment entirely; only values
// supplied via WithEnvMap are consulted.
func WithoutSystemEnv() Option {
	return func(o *loadOptions) {
		o.skipSysEnv = true
	}
}

// WithRequiredStripe makes missing Stripe settings a validation failure
// instead of disabling the subscription endpoint.
func WithRequiredStripe() Option {
	return func(o *loadOptions) {
		o.requireStripe = true
	}
}

// Load reads configuration from the environment, applies defaults, and
// validates the result.
func Load(opts ...Option) (Config, error) {
	options := loadOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.skipSysEnv {
			return "", false
		}
		return os.LookupEnv(key)
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "PORT", defaultPort),
			BasePath:     stringWithDefault(lookup, "API_BASE_PATH", defaultBasePath),
			ReadTimeout:  durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "FIRESTORE_EMULATOR_HOST", ""),
		},
		Stripe: StripeConfig{
			APIKey:  stringWithDefault(lookup, "STRIPE_API_KEY", ""),
			PriceID: stringWithDefault(lookup, "STRIPE_PRICE_ID", ""),
		},
		Auth: AuthConfig{
			JWTSecret:       stringWithDefault(lookup, "AUTH_JWT_SECRET", ""),
			SessionHashKey:  stringWithDefault(lookup, "SESSION_HASH_KEY", ""),
			SessionBlockKey: stringWithDefault(lookup, "SESSION_BLOCK_KEY", ""),
			SessionName:     stringWithDefault(lookup, "SESSION_COOKIE_NAME", defaultSessionName),
			SessionTTL:      durationWithDefault(lookup, "SESSION_TTL", defaultSessionTTL),
		},
		Quota: QuotaConfig{
			FreeSessions: intWithDefault(lookup, "FREE_SESSION_QUOTA", defaultFreeQuota),
		},
	}

	if err := validateConfig(cfg, options); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config, options loadOptions) error {
	var fields []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		fields = append(fields, "PORT")
	}
	if cfg.Server.ReadTimeout <= 0 {
		fields = append(fields, "SERVER_READ_TIMEOUT")
	}
	if cfg.Server.WriteTimeout <= 0 {
		fields = append(fields, "SERVER_WRITE_TIMEOUT")
	}
	if cfg.Quota.FreeSessions < 0 {
		fields = append(fields, "FREE_SESSION_QUOTA")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		fields = append(fields, "AUTH_JWT_SECRET")
	}
	if strings.TrimSpace(cfg.Auth.SessionHashKey) == "" {
		fields = append(fields, "SESSION_HASH_KEY")
	}
	if options.requireStripe {
		if strings.TrimSpace(cfg.Stripe.APIKey) == "" {
			fields = append(fields, "STRIPE_API_KEY")
		}
		if strings.TrimSpace(cfg.Stripe.PriceID) == "" {
			fields = append(fields, "STRIPE_PRICE_ID")
		}
	}

	if len(fields) > 0 {
		sort.Strings(fields)
		return &ValidationError{fields: fields}
	}
	return nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	value, ok := lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	value, ok := lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
