// Package testdata generates plausible sample entries for development
// and demos.
package testdata

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/annemirova/innerflow/internal/localstore"
	"github.com/annemirova/innerflow/internal/model"
)

// Generate produces up to days of sample entries ending at now, with
// random gaps, varied drainer levels and some blank slots, the way real
// usage looks.
func Generate(days int, now time.Time) []model.Entry {
	var entries []model.Entry
	for i := 0; i < days; i++ {
		if i != 0 && rand.Float64() > 0.7 {
			continue // skipped day
		}
		date := now.AddDate(0, 0, -i)
		done := rand.Float64() > 0.3
		level := model.DrainerNone
		note := ""
		if rand.Float64() > 0.6 {
			level = model.DrainerLow
			if rand.Float64() > 0.5 {
				level = model.DrainerHigh
			}
			note = "A long meeting ran over and left me drained."
		}

		e := model.Entry{
			ID:        model.NewEntryID(),
			Date:      date,
			Timestamp: date.UnixMilli(),
			Achievements: []string{
				fmt.Sprintf("Finished milestone #%d after pushing through a rough patch.", i+1),
				maybe("Read for thirty minutes, the chapter on attention really landed."),
				maybe("Went to bed on time again."),
			},
			Happiness: []string{
				"A really good cup of coffee in the late afternoon sun.",
				maybe("Caught the sunset, the sky was a ridiculous shade of pink."),
				"A long catch-up call with a friend.",
			},
			DrainerLevel:        level,
			DrainerNote:         note,
			TodayMITDescription: fmt.Sprintf("Ship the day-%d piece of the project and review the plan.", i),
			MITCompleted:        done,
			TomorrowMIT:         "Keep refining the product, watch for feedback.",
		}
		if !done {
			e.MITReason = "Too many interruptions, the plan fell apart."
		}
		entries = append(entries, e)
	}
	return entries
}

// Seed writes generated entries into the store, but only when the
// store is currently empty.
func Seed(store *localstore.Store, days int) (int, error) {
	if len(store.All()) > 0 {
		return 0, nil
	}
	entries := Generate(days, time.Now().UTC())
	for _, e := range entries {
		if err := store.Save(e); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

func maybe(s string) string {
	if rand.Float64() > 0.5 {
		return s
	}
	return ""
}
