package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/repositories"
)

var (
	// ErrJournalInvalidInput indicates the entry failed validation.
	ErrJournalInvalidInput = errors.New("journal: invalid input")
	// ErrJournalNotFound indicates the entry does not exist for this user.
	ErrJournalNotFound = errors.New("journal: entry not found")
	// ErrJournalLimitReached indicates the per-user entry cap is hit.
	ErrJournalLimitReached = errors.New("journal: entry limit reached")
)

const maxJournalEntries = 200

// JournalInput carries the writable fields of an entry.
type JournalInput struct {
	Title   string
	Content string
	Mood    domain.Mood
	Tags    string
}

// JournalExport is the assembled plain-text download.
type JournalExport struct {
	Filename   string
	Text       string
	EntryCount int
	ExportedAt time.Time
}

// JournalService owns entry CRUD and the plain-text export.
type JournalService interface {
	Create(ctx context.Context, userID string, input JournalInput) (domain.JournalEntry, error)
	Update(ctx context.Context, userID, entryID string, input JournalInput) (domain.JournalEntry, error)
	Delete(ctx context.Context, userID, entryID string) error
	Get(ctx context.Context, userID, entryID string) (domain.JournalEntry, error)
	List(ctx context.Context, userID string) ([]domain.JournalEntry, error)
	Export(ctx context.Context, userID string) (JournalExport, error)
}

// JournalServiceDeps bundles collaborators required to construct a journal service.
type JournalServiceDeps struct {
	Repository repositories.JournalRepository
	Clock      repositories.Clock
	IDGen      func() string
	Logger     func(ctx context.Context, event string, fields map[string]any)
}

type journalService struct {
	repo      repositories.JournalRepository
	clock     func() time.Time
	idGen     func() string
	logger    func(ctx context.Context, event string, fields map[string]any)
	sanitizer *bluemonday.Policy
}

// NewJournalService constructs the journal on top of its repository.
func NewJournalService(deps JournalServiceDeps) (JournalService, error) {
	if deps.Repository == nil {
		return nil, errors.New("journal service: repository is required")
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

	return &journalService{
		repo:      deps.Repository,
		clock:     func() time.Time { return clock().UTC() },
		idGen:     idGen,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
	}, nil
}

func (s *journalService) Create(ctx context.Context, userID string, input JournalInput) (domain.JournalEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.JournalEntry{}, fmt.Errorf("%w: user id is required", ErrJournalInvalidInput)
	}
	cleaned, err := s.validate(input)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if len(existing) >= maxJournalEntries {
		return domain.JournalEntry{}, ErrJournalLimitReached
	}

	now := s.clock()
	entry := domain.JournalEntry{
		ID:        s.idGen(),
		UserID:    userID,
		Title:     cleaned.Title,
		Content:   cleaned.Content,
		Mood:      cleaned.Mood,
		Tags:      cleaned.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return domain.JournalEntry{}, err
	}

	s.logger(ctx, "journal.created", map[string]any{"entry_id": entry.ID})
	return entry, nil
}

func (s *journalService) Update(ctx context.Context, userID, entryID string, input JournalInput) (domain.JournalEntry, error) {
	userID = strings.TrimSpace(userID)
	entryID = strings.TrimSpace(entryID)
	if userID == "" || entryID == "" {
		return domain.JournalEntry{}, fmt.Errorf("%w: user and entry ids are required", ErrJournalInvalidInput)
	}
	cleaned, err := s.validate(input)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	entry := domain.JournalEntry{
		ID:        entryID,
		UserID:    userID,
		Title:     cleaned.Title,
		Content:   cleaned.Content,
		Mood:      cleaned.Mood,
		Tags:      cleaned.Tags,
		UpdatedAt: s.clock(),
	}
	updated, err := s.repo.Update(ctx, entry)
	if err != nil {
		if isNotFound(err) {
			return domain.JournalEntry{}, ErrJournalNotFound
		}
		return domain.JournalEntry{}, err
	}

	s.logger(ctx, "journal.updated", map[string]any{"entry_id": entryID})
	return updated, nil
}

func (s *journalService) Delete(ctx context.Context, userID, entryID string) error {
	userID = strings.TrimSpace(userID)
	entryID = strings.TrimSpace(entryID)
	if userID == "" || entryID == "" {
		return fmt.Errorf("%w: user and entry ids are required", ErrJournalInvalidInput)
	}

	if err := s.repo.Delete(ctx, userID, entryID); err != nil {
		if isNotFound(err) {
			return ErrJournalNotFound
		}
		return err
	}

	s.logger(ctx, "journal.deleted", map[string]any{"entry_id": entryID})
	return nil
}

func (s *journalService) Get(ctx context.Context, userID, entryID string) (domain.JournalEntry, error) {
	entry, err := s.repo.FindByID(ctx, strings.TrimSpace(userID), strings.TrimSpace(entryID))
	if err != nil {
		if isNotFound(err) {
			return domain.JournalEntry{}, ErrJournalNotFound
		}
		return domain.JournalEntry{}, err
	}
	return entry, nil
}

func (s *journalService) List(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrJournalInvalidInput)
	}
	return s.repo.ListByUser(ctx, userID)
}

// Export concatenates every entry into a plain-text document with a fixed
// header and footer.
func (s *journalService) Export(ctx context.Context, userID string) (JournalExport, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return JournalExport{}, err
	}

	now := s.clock()
	var b strings.Builder
	fmt.Fprintf(&b, "SoulArt Temple - Sacred Reflections Journal\n")
	fmt.Fprintf(&b, "Export Date: %s\n", now.Format(time.RFC1123))
	fmt.Fprintf(&b, "Total Entries: %d\n\n", len(entries))
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n")

	for _, entry := range entries {
		title := entry.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "\nENTRY: %s\n", title)
		fmt.Fprintf(&b, "Date: %s\n", entry.CreatedAt.Format(time.RFC1123))
		fmt.Fprintf(&b, "Mood: %s\n", entry.Mood)
		fmt.Fprintf(&b, "Tags: %s\n\n", entry.Tags)
		b.WriteString(entry.Content)
		b.WriteString("\n\n")
		b.WriteString(strings.Repeat("─", 40))
		b.WriteString("\n")
	}

	b.WriteString("\nEnd of Journal Export\n")
	b.WriteString("Generated by SoulArt Temple\n")

	return JournalExport{
		Filename:   fmt.Sprintf("soulart-journal-%s.txt", now.Format("2006-01-02")),
		Text:       b.String(),
		EntryCount: len(entries),
		ExportedAt: now,
	}, nil
}

func (s *journalService) validate(input JournalInput) (JournalInput, error) {
	cleaned := JournalInput{
		Title:   strings.TrimSpace(s.sanitizer.Sanitize(input.Title)),
		Content: strings.TrimSpace(s.sanitizer.Sanitize(input.Content)),
		Mood:    domain.Mood(strings.TrimSpace(string(input.Mood))),
		Tags:    strings.TrimSpace(s.sanitizer.Sanitize(input.Tags)),
	}
	if cleaned.Content == "" {
		return JournalInput{}, fmt.Errorf("%w: content is required", ErrJournalInvalidInput)
	}
	if !cleaned.Mood.Valid() {
		return JournalInput{}, fmt.Errorf("%w: unknown mood %q", ErrJournalInvalidInput, cleaned.Mood)
	}
	return cleaned, nil
}
