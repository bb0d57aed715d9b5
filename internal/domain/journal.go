package domain

import "time"

// Mood enumerates the selectable journal moods.
type Mood string

const (
	MoodGrateful   Mood = "grateful"
	MoodPeaceful   Mood = "peaceful"
	MoodReflective Mood = "reflective"
	MoodInspired   Mood = "inspired"
	MoodCurious    Mood = "curious"
	MoodChallenged Mood = "challenged"
	MoodEmotional  Mood = "emotional"
	MoodJoyful     Mood = "joyful"
)

// Moods lists every selectable mood in display order.
func Moods() []Mood {
	return []Mood{
		MoodGrateful, MoodPeaceful, MoodReflective, MoodInspired,
		MoodCurious, MoodChallenged, MoodEmotional, MoodJoyful,
	}
}

// Valid reports whether the mood is one of the known values. The empty mood
// is valid; it means the author skipped the field.
func (m Mood) Valid() bool {
	if m == "" {
		return true
	}
	for _, known := range Moods() {
		if m == known {
			return true
		}
	}
	return false
}

// JournalEntry is one reflection owned by a signed-in user. Content is the
// only required field.
type JournalEntry struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Mood      Mood
	Tags      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
