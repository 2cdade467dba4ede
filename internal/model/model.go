// Package model defines domain entities shared by the local store,
// the remote repositories and the sync service.
package model

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// DrainerLevel grades how much energy the day drained.
type DrainerLevel string

const (
	DrainerNone DrainerLevel = "none"
	DrainerLow  DrainerLevel = "low"
	DrainerHigh DrainerLevel = "high"
)

// Mood is the tone an insight assigns to an entry.
type Mood string

const (
	MoodPositive  Mood = "positive"
	MoodNeutral   Mood = "neutral"
	MoodNeedsCare Mood = "needs-care"
)

// SlotCount is the number of free-text slots per list; empty slots are
// placeholders, not content.
const SlotCount = 3

// Entry is one calendar day's journal record in its denormalized
// client-side shape. JSON field names match the on-disk collection
// format and the HTTP payloads consumed by the PWA.
type Entry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Timestamp int64     `json:"timestamp"` // unix millis, display ordering only

	Achievements []string `json:"achievements"`
	Happiness    []string `json:"happiness"`

	DrainerLevel DrainerLevel `json:"drainerLevel"`
	DrainerNote  string       `json:"drainerNote,omitempty"`

	TodayMITDescription string `json:"todayMitDescription"`
	MITCompleted        bool   `json:"mitCompleted"`
	MITReason           string `json:"mitReason,omitempty"`

	TomorrowMIT string `json:"tomorrowMit"`

	AIInsight string `json:"aiInsight,omitempty"`
	AIMood    Mood   `json:"aiMood,omitempty"`
}

// NewEntryID returns a fresh client-generated entry id.
func NewEntryID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// DateOnly returns the calendar date of the entry as YYYY-MM-DD in UTC.
func (e Entry) DateOnly() string {
	return e.Date.UTC().Format("2006-01-02")
}

// IsValid reports whether the entry counts toward streaks and history.
// An entry is valid iff it has at least one non-blank achievement or
// happiness string, a drainer level other than none, or a completed
// MIT. A fully blank draft occupies storage but is never counted.
func (e Entry) IsValid() bool {
	return hasContent(e.Achievements) ||
		hasContent(e.Happiness) ||
		(e.DrainerLevel != "" && e.DrainerLevel != DrainerNone) ||
		e.MITCompleted
}

func hasContent(ss []string) bool {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// ItemType distinguishes the two kinds of journal items on the remote side.
type ItemType string

const (
	ItemAchievement ItemType = "achievement"
	ItemHappiness   ItemType = "happiness"
)

// EntryRow is the relational projection of an entry's day-level state,
// one row in journal_entries keyed by (user_id, date).
type EntryRow struct {
	ID        uuid.UUID
	UserID    string
	Date      string // YYYY-MM-DD
	CreatedAt time.Time
	UpdatedAt time.Time

	DrainerLevel *string
	DrainerNote  *string

	TodayMITDescription *string
	MITCompleted        bool
	MITReason           *string

	TomorrowMIT *string
}

// ItemRow is one achievement or happiness fragment owned by an entry
// row, one row in journal_items.
type ItemRow struct {
	ID        uuid.UUID
	EntryID   uuid.UUID
	Type      ItemType
	Content   string
	CreatedAt time.Time
}

// Insight is the outcome of the external reflection call. It is always
// populated: generation failures degrade to a fixed fallback text.
type Insight struct {
	Text string `json:"text"`
	Mood Mood   `json:"mood"`
}

// MigrateResult summarizes a bulk local-to-remote migration run.
type MigrateResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}
