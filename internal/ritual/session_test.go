package ritual

import (
	"strings"
	"testing"
)

func testItem() Item {
	return Item{Label: "Anger", Location: "Liver Area", Color: "Burnt Orange", Support: "Vigorous exercise release"}
}

func TestSessionWalksExactSequence(t *testing.T) {
	session := NewSession(testItem())

	want := []Step{StepRelease, StepReplace, StepColorWork, StepSeal, StepComplete}
	if session.Current() != StepIntention {
		t.Fatalf("expected to start at intention, got %v", session.Current())
	}

	for _, expected := range want {
		got, err := session.Advance("")
		if err != nil {
			t.Fatalf("advance to %v: %v", expected, err)
		}
		if got != expected {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}
	if !session.Completed() {
		t.Fatal("expected session to be complete")
	}
}

func TestSessionCompleteIsTerminal(t *testing.T) {
	session := NewSession(testItem())
	for !session.Completed() {
		if _, err := session.Advance(""); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	if _, err := session.Advance(""); err != ErrSessionComplete {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
}

func TestReplaceStepBindsChosenWord(t *testing.T) {
	session := NewSession(testItem())
	if _, err := session.Advance(""); err != nil { // -> release
		t.Fatalf("advance: %v", err)
	}
	if _, err := session.Advance(""); err != nil { // -> replace
		t.Fatalf("advance: %v", err)
	}
	if _, err := session.Advance("  Serenity  "); err != nil { // -> color work
		t.Fatalf("advance: %v", err)
	}

	if session.ReplacementWord() != "Serenity" {
		t.Fatalf("expected Serenity, got %q", session.ReplacementWord())
	}
}

func TestReplaceStepDefaultsToLove(t *testing.T) {
	session := NewSession(testItem())
	for i := 0; i < 3; i++ {
		if _, err := session.Advance("   "); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if session.ReplacementWord() != DefaultReplacementWord {
		t.Fatalf("expected default %q, got %q", DefaultReplacementWord, session.ReplacementWord())
	}
}

func TestCopyBindsItemAndWord(t *testing.T) {
	session := NewSession(testItem())
	if !strings.Contains(session.Copy(), "Anger") || !strings.Contains(session.Copy(), "Liver Area") {
		t.Fatalf("intention copy missing item fields: %q", session.Copy())
	}

	for session.Current() != StepReplace {
		if _, err := session.Advance(""); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if !strings.Contains(session.Copy(), DefaultReplacementWord) {
		t.Fatalf("replace copy should show default word before input: %q", session.Copy())
	}
}
