package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/soulart2024-ship-it/Tem/internal/catalog"
	"github.com/soulart2024-ship-it/Tem/internal/handlers"
	"github.com/soulart2024-ship-it/Tem/internal/payments"
	"github.com/soulart2024-ship-it/Tem/internal/platform/auth"
	"github.com/soulart2024-ship-it/Tem/internal/platform/config"
	pfirestore "github.com/soulart2024-ship-it/Tem/internal/platform/firestore"
	"github.com/soulart2024-ship-it/Tem/internal/platform/observability"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
	firestoreRepo "github.com/soulart2024-ship-it/Tem/internal/repositories/firestore"
	"github.com/soulart2024-ship-it/Tem/internal/repositories/memory"
	"github.com/soulart2024-ship-it/Tem/internal/services"
	"github.com/soulart2024-ship-it/Tem/internal/web"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("soulart")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	users, usage, journal, readiness, closeRepos := buildRepositories(ctx, logger, cfg)
	defer closeRepos()

	serviceLogger := observability.ServiceLogger(logger)

	accessService, err := services.NewAccessService(services.AccessServiceDeps{
		Users:     users,
		Usage:     usage,
		FreeQuota: cfg.Quota.FreeSessions,
		Logger:    serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise access service", zap.Error(err))
	}

	usageService, err := services.NewUsageService(services.UsageServiceDeps{
		Users:     users,
		Usage:     usage,
		FreeQuota: cfg.Quota.FreeSessions,
		Logger:    serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise usage service", zap.Error(err))
	}

	journalService, err := services.NewJournalService(services.JournalServiceDeps{
		Repository: journal,
		Logger:     serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise journal service", zap.Error(err))
	}

	var subscriptionService services.SubscriptionService
	if strings.TrimSpace(cfg.Stripe.APIKey) != "" {
		provider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
			APIKey: cfg.Stripe.APIKey,
			Logger: serviceLogger,
		})
		if err != nil {
			logger.Fatal("failed to initialise stripe provider", zap.Error(err))
		}
		subscriptionService, err = services.NewSubscriptionService(services.SubscriptionServiceDeps{
			Users:    users,
			Provider: provider,
			PriceID:  cfg.Stripe.PriceID,
			Logger:   serviceLogger,
		})
		if err != nil {
			logger.Fatal("failed to initialise subscription service", zap.Error(err))
		}
	} else {
		logger.Warn("stripe api key not configured; subscription endpoint disabled")
	}

	authOpts := []auth.Option{auth.WithTokenTTL(cfg.Auth.SessionTTL)}
	if cfg.Auth.SessionHashKey != "" {
		var blockKey []byte
		if cfg.Auth.SessionBlockKey != "" {
			blockKey = []byte(cfg.Auth.SessionBlockKey)
		}
		codec := securecookie.New([]byte(cfg.Auth.SessionHashKey), blockKey)
		authOpts = append(authOpts, auth.WithSessionCodec(codec, cfg.Auth.SessionName))
	}
	authenticator := auth.NewAuthenticator([]byte(cfg.Auth.JWTSecret), authOpts...)

	decoderHandlers := handlers.NewDecoderHandlers(authenticator, accessService, usageService)
	journalHandlers := handlers.NewJournalHandlers(authenticator, journalService)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(authenticator, subscriptionService)
	usageHandlers := handlers.NewUsageHandlers(authenticator, usageService)
	authHandlers := handlers.NewAuthHandlers(authenticator, users, cfg.Auth.SessionTTL)

	healthOpts := make([]handlers.HealthOption, 0, 1)
	if readiness != nil {
		healthOpts = append(healthOpts, handlers.WithReadinessCheck("firestore", readiness))
	}

	router := handlers.NewRouter(
		handlers.WithBasePath(cfg.Server.BasePath),
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
			authenticator.Middleware(),
		),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(healthOpts...)),
		handlers.WithAuthRoutes(authHandlers.Routes),
		handlers.WithDecoderRoutes(decoderHandlers.Routes),
		handlers.WithJournalRoutes(journalHandlers.Routes),
		handlers.WithSubscriptionRoutes(subscriptionHandlers.Routes),
		handlers.WithUsageRoutes(usageHandlers.Routes),
		handlers.WithDatasetHandler(handlers.DatasetHandler()),
	)

	mountPages(logger, router, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("soulart temple listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildRepositories selects Firestore-backed repositories when a project is
// configured, in-memory ones otherwise.
func buildRepositories(ctx context.Context, logger *zap.Logger, cfg config.Config) (repositories.UserRepository, repositories.UsageRepository, repositories.JournalRepository, handlers.ReadinessCheck, func()) {
	if strings.TrimSpace(cfg.Firestore.ProjectID) == "" {
		logger.Warn("firestore project not configured; using in-memory repositories")
		return memory.NewUserRepository(), memory.NewUsageRepository(), memory.NewJournalRepository(), nil, func() {}
	}

	provider := pfirestore.NewProvider(cfg.Firestore)
	if _, err := provider.Client(ctx); err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}

	users, err := firestoreRepo.NewUserRepository(provider)
	if err != nil {
		logger.Fatal("failed to initialise user repository", zap.Error(err))
	}
	usage, err := firestoreRepo.NewUsageRepository(provider)
	if err != nil {
		logger.Fatal("failed to initialise usage repository", zap.Error(err))
	}
	journal, err := firestoreRepo.NewJournalRepository(provider)
	if err != nil {
		logger.Fatal("failed to initialise journal repository", zap.Error(err))
	}

	readiness := func(ctx context.Context) error {
		_, err := provider.Client(ctx)
		return err
	}
	closer := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}
	return users, usage, journal, readiness, closer
}

// mountPages wires the server-rendered pages against the API the same way
// the browser reaches it.
func mountPages(logger *zap.Logger, router chi.Router, cfg config.Config) {
	selfURL := "http://127.0.0.1:" + cfg.Server.Port
	loader, err := catalog.NewLoader(selfURL, nil)
	if err != nil {
		logger.Fatal("failed to initialise catalog loader", zap.Error(err))
	}
	apiClient, err := web.NewClient(selfURL, nil)
	if err != nil {
		logger.Fatal("failed to initialise api client", zap.Error(err))
	}
	pages, err := web.NewPageHandlers(web.PageHandlersDeps{
		Loader:     loader,
		API:        apiClient,
		CookieName: cfg.Auth.SessionName,
		Logger:     observability.ServiceLogger(logger.Named("web")),
	})
	if err != nil {
		logger.Fatal("failed to initialise page handlers", zap.Error(err))
	}
	pages.Routes(router)
}
