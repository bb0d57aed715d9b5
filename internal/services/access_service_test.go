package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

func newAccessService(t *testing.T, users *stubUserRepository, usage *stubUsageRepository) AccessService {
	t.Helper()
	svc, err := NewAccessService(AccessServiceDeps{Users: users, Usage: usage, FreeQuota: 3})
	if err != nil {
		t.Fatalf("NewAccessService: %v", err)
	}
	return svc
}

func TestAccessServiceAllowsWithinFreeQuota(t *testing.T) {
	users := newStubUserRepository(domain.UserProfile{ID: "user-1"})
	usage := &stubUsageRepository{records: []domain.UsageRecord{
		{ID: "a", UserID: "user-1", Domain: domain.DomainEmotion, UsedAt: time.Now()},
	}}
	svc := newAccessService(t, users, usage)

	state, err := svc.Check(context.Background(), "user-1", domain.DomainEmotion)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !state.Allowed() {
		t.Fatalf("expected access within quota, got %+v", state)
	}
	if state.UsageCount != 1 {
		t.Fatalf("expected usage count 1, got %d", state.UsageCount)
	}
}

func TestAccessServiceBlocksAtQuota(t *testing.T) {
	users := newStubUserRepository(domain.UserProfile{ID: "user-1"})
	usage := &stubUsageRepository{}
	for i := 0; i < 3; i++ {
		usage.records = append(usage.records, domain.UsageRecord{
			ID: string(rune('a' + i)), UserID: "user-1", Domain: domain.DomainBelief, UsedAt: time.Now(),
		})
	}
	svc := newAccessService(t, users, usage)

	state, err := svc.Check(context.Background(), "user-1", domain.DomainBelief)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if state.Allowed() {
		t.Fatalf("expected quota refusal, got %+v", state)
	}
	if !state.NeedsSubscription {
		t.Fatalf("expected needs-subscription flag, got %+v", state)
	}
}

func TestAccessServiceQuotaIsPerDomain(t *testing.T) {
	users := newStubUserRepository(domain.UserProfile{ID: "user-1"})
	usage := &stubUsageRepository{}
	for i := 0; i < 3; i++ {
		usage.records = append(usage.records, domain.UsageRecord{
			ID: string(rune('a' + i)), UserID: "user-1", Domain: domain.DomainEmotion, UsedAt: time.Now(),
		})
	}
	svc := newAccessService(t, users, usage)

	state, err := svc.Check(context.Background(), "user-1", domain.DomainAllergy)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !state.Allowed() {
		t.Fatalf("spent emotion quota should not block allergy, got %+v", state)
	}
	if state.UsageCount != 0 {
		t.Fatalf("expected allergy count 0, got %d", state.UsageCount)
	}
}

func TestAccessServiceSubscriberBypassesQuota(t *testing.T) {
	users := newStubUserRepository(domain.UserProfile{ID: "user-1", IsSubscribed: true})
	usage := &stubUsageRepository{}
	for i := 0; i < 10; i++ {
		usage.records = append(usage.records, domain.UsageRecord{
			ID: string(rune('a' + i)), UserID: "user-1", Domain: domain.DomainEmotion, UsedAt: time.Now(),
		})
	}
	svc := newAccessService(t, users, usage)

	state, err := svc.Check(context.Background(), "user-1", domain.DomainEmotion)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !state.Allowed() || !state.IsSubscribed {
		t.Fatalf("expected subscriber bypass, got %+v", state)
	}
}

func TestAccessServiceTreatsMissingProfileAsFreeTier(t *testing.T) {
	svc := newAccessService(t, newStubUserRepository(), &stubUsageRepository{})

	state, err := svc.Check(context.Background(), "unknown", domain.DomainEmotion)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !state.Allowed() || state.IsSubscribed {
		t.Fatalf("fresh identity should start on the free tier, got %+v", state)
	}
}

func TestAccessServiceRejectsInvalidInput(t *testing.T) {
	svc := newAccessService(t, newStubUserRepository(), &stubUsageRepository{})

	if _, err := svc.Check(context.Background(), "", domain.DomainEmotion); !errors.Is(err, ErrAccessInvalidInput) {
		t.Fatalf("expected invalid input for blank user, got %v", err)
	}
	if _, err := svc.Check(context.Background(), "user-1", domain.Domain("astrology")); !errors.Is(err, ErrAccessInvalidInput) {
		t.Fatalf("expected invalid input for unknown domain, got %v", err)
	}
}
