// Package convert maps the denormalized Entry to and from its two-table
// relational projection.
package convert

import (
	"strings"
	"time"

	"github.com/annemirova/innerflow/internal/model"
)

// Decompose splits an entry into its parent row and the non-blank
// achievement/happiness strings as fresh item rows. Items carry no
// EntryID yet; the repository fills it after the parent upsert. Blank
// slots are placeholders and produce no rows.
func Decompose(e model.Entry, userID string) (model.EntryRow, []model.ItemRow) {
	row := model.EntryRow{
		UserID:              userID,
		Date:                e.DateOnly(),
		DrainerLevel:        nullable(string(e.DrainerLevel)),
		DrainerNote:         nullable(e.DrainerNote),
		TodayMITDescription: nullable(e.TodayMITDescription),
		MITCompleted:        e.MITCompleted,
		MITReason:           nullable(e.MITReason),
		TomorrowMIT:         nullable(e.TomorrowMIT),
	}

	items := make([]model.ItemRow, 0, len(e.Achievements)+len(e.Happiness))
	for _, content := range e.Achievements {
		if c := strings.TrimSpace(content); c != "" {
			items = append(items, model.ItemRow{Type: model.ItemAchievement, Content: c})
		}
	}
	for _, content := range e.Happiness {
		if c := strings.TrimSpace(content); c != "" {
			items = append(items, model.ItemRow{Type: model.ItemHappiness, Content: c})
		}
	}
	return row, items
}

// Recompose merges a parent row and its items back into the
// denormalized shape. Item order within a type is preserved (callers
// fetch items ordered by created_at). Insights live in their own table
// and are not part of the projection.
func Recompose(row model.EntryRow, items []model.ItemRow) model.Entry {
	var achievements, happiness []string
	for _, it := range items {
		switch it.Type {
		case model.ItemAchievement:
			achievements = append(achievements, it.Content)
		case model.ItemHappiness:
			happiness = append(happiness, it.Content)
		}
	}

	level := model.DrainerNone
	if row.DrainerLevel != nil && *row.DrainerLevel != "" {
		level = model.DrainerLevel(*row.DrainerLevel)
	}

	return model.Entry{
		ID:                  row.ID.String(),
		Date:                midnightUTC(row.Date),
		Timestamp:           row.CreatedAt.UnixMilli(),
		Achievements:        achievements,
		Happiness:           happiness,
		DrainerLevel:        level,
		DrainerNote:         text(row.DrainerNote),
		TodayMITDescription: text(row.TodayMITDescription),
		MITCompleted:        row.MITCompleted,
		MITReason:           text(row.MITReason),
		TomorrowMIT:         text(row.TomorrowMIT),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func midnightUTC(date string) time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
