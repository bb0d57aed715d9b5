package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

func newUsageService(t *testing.T, users *stubUserRepository, usage *stubUsageRepository, now time.Time) UsageService {
	t.Helper()
	seq := 0
	svc, err := NewUsageService(UsageServiceDeps{
		Users:     users,
		Usage:     usage,
		FreeQuota: 3,
		Clock:     func() time.Time { return now },
		IDGen: func() string {
			seq++
			return fmt.Sprintf("usage-%03d", seq)
		},
	})
	if err != nil {
		t.Fatalf("NewUsageService: %v", err)
	}
	return svc
}

func TestUsageServiceRecordsSession(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	users := newStubUserRepository(domain.UserProfile{ID: "user-1"})
	usage := &stubUsageRepository{}
	svc := newUsageService(t, users, usage, now)

	record, err := svc.Record(context.Background(), "user-1", domain.DomainEmotion, "Shame")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if record.ID != "usage-001" {
		t.Fatalf("unexpected record id %q", record.ID)
	}
	if !record.UsedAt.Equal(now) {
		t.Fatalf("expected timestamp %v, got %v", now, record.UsedAt)
	}
	if len(usage.records) != 1 || usage.records[0].Label != "Shame" {
		t.Fatalf("expected one stored record, got %+v", usage.records)
	}
}

func TestUsageServiceRefusesWhenQuotaSpent(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	users := newStubUserRepository(domain.UserProfile{ID: "user-1"})
	usage := &stubUsageRepository{}
	svc := newUsageService(t, users, usage, now)

	for i := 0; i < 3; i++ {
		if _, err := svc.Record(context.Background(), "user-1", domain.DomainAllergy, "Wheat"); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	if _, err := svc.Record(context.Background(), "user-1", domain.DomainAllergy, "Dairy"); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected quota refusal, got %v", err)
	}
	if len(usage.records) != 3 {
		t.Fatalf("refused session must not be stored, got %d records", len(usage.records))
	}
}

func TestUsageServiceSubscriberSkipsQuotaCheck(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	users := newStubUserRepository(domain.UserProfile{ID: "user-1", IsSubscribed: true})
	usage := &stubUsageRepository{countErr: errors.New("count must not be called")}
	svc := newUsageService(t, users, usage, now)

	if _, err := svc.Record(context.Background(), "user-1", domain.DomainBelief, "I am not enough"); err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestUsageServiceRejectsInvalidInput(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	svc := newUsageService(t, newStubUserRepository(), &stubUsageRepository{}, now)

	cases := []struct {
		name   string
		userID string
		d      domain.Domain
		label  string
	}{
		{"blank user", "", domain.DomainEmotion, "Shame"},
		{"unknown domain", "user-1", domain.Domain("tarot"), "Shame"},
		{"blank label", "user-1", domain.DomainEmotion, "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Record(context.Background(), tc.userID, tc.d, tc.label); !errors.Is(err, ErrUsageInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestUsageServiceStatsAggregatesDomains(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	users := newStubUserRepository(domain.UserProfile{ID: "user-1", IsSubscribed: true})
	usage := &stubUsageRepository{}
	for i, d := range []domain.Domain{
		domain.DomainEmotion, domain.DomainEmotion,
		domain.DomainAllergy,
		domain.DomainBelief, domain.DomainBelief, domain.DomainBelief,
	} {
		usage.records = append(usage.records, domain.UsageRecord{
			ID:     fmt.Sprintf("r-%d", i),
			UserID: "user-1",
			Domain: d,
			UsedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := newUsageService(t, users, usage, now)

	stats, err := svc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.EmotionUsage != 2 || stats.AllergyUsage != 1 || stats.BeliefUsage != 3 {
		t.Fatalf("unexpected per-domain counts: %+v", stats)
	}
	if stats.Total != 6 {
		t.Fatalf("expected total 6, got %d", stats.Total)
	}
	if !stats.IsSubscribed {
		t.Fatalf("expected subscribed flag, got %+v", stats)
	}
	if len(stats.History) != 6 {
		t.Fatalf("expected full history, got %d records", len(stats.History))
	}
	if stats.History[0].ID != "r-5" {
		t.Fatalf("expected newest record first, got %q", stats.History[0].ID)
	}
}

func TestUsageServiceStatsCapsHistory(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	users := newStubUserRepository(domain.UserProfile{ID: "user-1"})
	usage := &stubUsageRepository{}
	for i := 0; i < 25; i++ {
		usage.records = append(usage.records, domain.UsageRecord{
			ID:     fmt.Sprintf("r-%02d", i),
			UserID: "user-1",
			Domain: domain.DomainEmotion,
			UsedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := newUsageService(t, users, usage, now)

	stats, err := svc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats.History) != historyLimit {
		t.Fatalf("expected history capped at %d, got %d", historyLimit, len(stats.History))
	}
	if stats.Total != 25 {
		t.Fatalf("total must count beyond the history cap, got %d", stats.Total)
	}
}
