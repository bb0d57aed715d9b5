package ritual

import (
	"errors"
	"fmt"
	"strings"
)

// Step enumerates the five guided states plus the terminal Complete state.
type Step int

const (
	StepIntention Step = iota + 1
	StepRelease
	StepReplace
	StepColorWork
	StepSeal
	StepComplete
)

// String returns the display name of the step.
func (s Step) String() string {
	switch s {
	case StepIntention:
		return "Set Your Intention"
	case StepRelease:
		return "Central Meridian Release"
	case StepReplace:
		return "Replace with High Vibration"
	case StepColorWork:
		return "Chakra Color Healing"
	case StepSeal:
		return "Seal Your Shadow Work"
	case StepComplete:
		return "Complete"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// DefaultReplacementWord fills in when the seeker leaves the replacement
// input blank.
const DefaultReplacementWord = "Love"

// VibeWords lists the preset high vibration replacement choices.
func VibeWords() []string {
	return []string{
		"Love", "Peace", "Joy", "Gratitude", "Courage", "Compassion",
		"Trust", "Acceptance", "Abundance", "Clarity", "Freedom",
		"Wholeness", "Serenity", "Wisdom", "Harmony", "Balance",
		"Empowerment", "Healing",
	}
}

// ErrSessionComplete reports an advance on a finished session.
var ErrSessionComplete = errors.New("ritual: session already complete")

// Item carries the selected catalog item's fields the ritual copy binds.
type Item struct {
	Label    string
	Location string
	Color    string
	Support  string
}

// Session is the strictly linear five-step state machine, one instance per
// selected item. Transitions are forward-only and user-driven; Complete is
// terminal.
type Session struct {
	item        Item
	step        Step
	replacement string
}

// NewSession starts a session at the intention step.
func NewSession(item Item) *Session {
	return &Session{item: item, step: StepIntention}
}

// Item returns the selected item.
func (s *Session) Item() Item { return s.item }

// Current returns the active step.
func (s *Session) Current() Step { return s.step }

// Completed reports whether the session reached the terminal state.
func (s *Session) Completed() bool { return s.step == StepComplete }

// ReplacementWord returns the bound high vibration word, or the default
// before the replace step has run.
func (s *Session) ReplacementWord() string {
	if s.replacement == "" {
		return DefaultReplacementWord
	}
	return s.replacement
}

// Advance moves to the next step. Input is only consulted when leaving the
// replace step; a blank input binds the default word.
func (s *Session) Advance(input string) (Step, error) {
	switch s.step {
	case StepComplete:
		return s.step, ErrSessionComplete
	case StepReplace:
		word := strings.TrimSpace(input)
		if word == "" {
			word = DefaultReplacementWord
		}
		s.replacement = word
	}
	s.step++
	return s.step, nil
}

// Copy returns the display text for the current step with the item and any
// chosen replacement word bound in.
func (s *Session) Copy() string {
	switch s.step {
	case StepIntention:
		return fmt.Sprintf("I am ready to release %s from my %s. I choose healing and freedom.",
			s.item.Label, s.item.Location)
	case StepRelease:
		return fmt.Sprintf("With each swipe, I release %s from my being.", s.item.Label)
	case StepReplace:
		return fmt.Sprintf("I now fill this space with %s. This high vibration flows through my %s.",
			s.ReplacementWord(), s.item.Location)
	case StepColorWork:
		return fmt.Sprintf("Visualize %s light filling your %s.", s.item.Color, s.item.Location)
	case StepSeal:
		return fmt.Sprintf("This healing is complete and sealed. I am free from %s. I embrace %s energy in my daily life.",
			s.item.Label, s.item.Color)
	case StepComplete:
		return fmt.Sprintf("Your healing journey for %s is complete. %s", s.item.Label, s.item.Support)
	}
	return ""
}
