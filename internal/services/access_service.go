package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
)

var (
	// ErrAccessInvalidInput indicates the caller supplied invalid gate parameters.
	ErrAccessInvalidInput = errors.New("access: invalid input")
)

// AccessService decides whether a signed-in user may start a decoder
// session. The free quota is enforced here, server-side; clients only
// reflect the decision.
type AccessService interface {
	Check(ctx context.Context, userID string, d domain.Domain) (domain.AccessState, error)
}

// AccessServiceDeps bundles collaborators required to construct an access service.
type AccessServiceDeps struct {
	Users     repositories.UserRepository
	Usage     repositories.UsageRepository
	FreeQuota int
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

type accessService struct {
	users     repositories.UserRepository
	usage     repositories.UsageRepository
	freeQuota int
	logger    func(ctx context.Context, event string, fields map[string]any)
}

// NewAccessService constructs the gate on top of the user and usage repositories.
func NewAccessService(deps AccessServiceDeps) (AccessService, error) {
	if deps.Users == nil {
		return nil, errors.New("access service: user repository is required")
	}
	if deps.Usage == nil {
		return nil, errors.New("access service: usage repository is required")
	}
	if deps.FreeQuota < 0 {
		return nil, errors.New("access service: free quota must not be negative")
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &accessService{
		users:     deps.Users,
		usage:     deps.Usage,
		freeQuota: deps.FreeQuota,
		logger:    logger,
	}, nil
}

func (s *accessService) Check(ctx context.Context, userID string, d domain.Domain) (domain.AccessState, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.AccessState{}, fmt.Errorf("%w: user id is required", ErrAccessInvalidInput)
	}
	if !d.Valid() {
		return domain.AccessState{}, fmt.Errorf("%w: unknown domain %q", ErrAccessInvalidInput, d)
	}

	subscribed := false
	profile, err := s.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		subscribed = profile.IsSubscribed
	case isNotFound(err):
		// A fresh identity without a stored profile starts on the free quota.
	default:
		return domain.AccessState{}, err
	}

	count, err := s.usage.CountByDomain(ctx, userID, d)
	if err != nil {
		return domain.AccessState{}, err
	}

	canUse := subscribed || count < s.freeQuota
	state := domain.AccessState{
		NeedsSubscription: !canUse,
		UsageCount:        count,
		IsSubscribed:      subscribed,
	}

	s.logger(ctx, "access.checked", map[string]any{
		"domain":      string(d),
		"usage_count": count,
		"subscribed":  subscribed,
		"allowed":     state.Allowed(),
	})
	return state, nil
}

func isNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}
