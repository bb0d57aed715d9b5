package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
)

var (
	// ErrUsageInvalidInput indicates the caller supplied invalid recording parameters.
	ErrUsageInvalidInput = errors.New("usage: invalid input")
	// ErrQuotaExhausted indicates the free session allowance is spent and the
	// caller is not subscribed.
	ErrQuotaExhausted = errors.New("usage: free quota exhausted")
)

const historyLimit = 20

// UsageService records decoder sessions and aggregates dashboard stats.
type UsageService interface {
	Record(ctx context.Context, userID string, d domain.Domain, label string) (domain.UsageRecord, error)
	Stats(ctx context.Context, userID string) (domain.UsageStats, error)
}

// UsageServiceDeps bundles collaborators required to construct a usage service.
type UsageServiceDeps struct {
	Users     repositories.UserRepository
	Usage     repositories.UsageRepository
	FreeQuota int
	Clock     repositories.Clock
	IDGen     func() string
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

type usageService struct {
	users     repositories.UserRepository
	usage     repositories.UsageRepository
	freeQuota int
	clock     func() time.Time
	idGen     func() string
	logger    func(ctx context.Context, event string, fields map[string]any)
}

// NewUsageService constructs the session recorder and stats aggregator.
func NewUsageService(deps UsageServiceDeps) (UsageService, error) {
	if deps.Users == nil {
		return nil, errors.New("usage service: user repository is required")
	}
	if deps.Usage == nil {
		return nil, errors.New("usage service: usage repository is required")
	}
	if deps.FreeQuota < 0 {
		return nil, errors.New("usage service: free quota must not be negative")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &usageService{
		users:     deps.Users,
		usage:     deps.Usage,
		freeQuota: deps.FreeQuota,
		clock:     func() time.Time { return clock().UTC() },
		idGen:     idGen,
		logger:    logger,
	}, nil
}

// Record persists one session. The quota is re-checked here so a gate check
// that raced another session still ends in a quota refusal rather than a
// free overrun.
func (s *usageService) Record(ctx context.Context, userID string, d domain.Domain, label string) (domain.UsageRecord, error) {
	userID = strings.TrimSpace(userID)
	label = strings.TrimSpace(label)
	if userID == "" {
		return domain.UsageRecord{}, fmt.Errorf("%w: user id is required", ErrUsageInvalidInput)
	}
	if !d.Valid() {
		return domain.UsageRecord{}, fmt.Errorf("%w: unknown domain %q", ErrUsageInvalidInput, d)
	}
	if label == "" {
		return domain.UsageRecord{}, fmt.Errorf("%w: item label is required", ErrUsageInvalidInput)
	}

	subscribed := false
	profile, err := s.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		subscribed = profile.IsSubscribed
	case isNotFound(err):
	default:
		return domain.UsageRecord{}, err
	}

	if !subscribed {
		count, err := s.usage.CountByDomain(ctx, userID, d)
		if err != nil {
			return domain.UsageRecord{}, err
		}
		if count >= s.freeQuota {
			return domain.UsageRecord{}, ErrQuotaExhausted
		}
	}

	record := domain.UsageRecord{
		ID:     s.idGen(),
		UserID: userID,
		Domain: d,
		Label:  label,
		UsedAt: s.clock(),
	}
	if err := s.usage.Insert(ctx, record); err != nil {
		return domain.UsageRecord{}, err
	}

	s.logger(ctx, "usage.recorded", map[string]any{
		"domain": string(d),
		"label":  label,
	})
	return record, nil
}

func (s *usageService) Stats(ctx context.Context, userID string) (domain.UsageStats, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.UsageStats{}, fmt.Errorf("%w: user id is required", ErrUsageInvalidInput)
	}

	subscribed := false
	profile, err := s.users.FindByID(ctx, userID)
	switch {
	case err == nil:
		subscribed = profile.IsSubscribed
	case isNotFound(err):
	default:
		return domain.UsageStats{}, err
	}

	stats := domain.UsageStats{IsSubscribed: subscribed}
	for _, d := range domain.Domains() {
		count, err := s.usage.CountByDomain(ctx, userID, d)
		if err != nil {
			return domain.UsageStats{}, err
		}
		switch d {
		case domain.DomainEmotion:
			stats.EmotionUsage = count
		case domain.DomainAllergy:
			stats.AllergyUsage = count
		case domain.DomainBelief:
			stats.BeliefUsage = count
		}
		stats.Total += count
	}

	history, err := s.usage.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		return domain.UsageStats{}, err
	}
	stats.History = history
	return stats, nil
}
