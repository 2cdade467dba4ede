package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func blankEntry() Entry {
	return Entry{
		ID:           NewEntryID(),
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Achievements: []string{"", "", ""},
		Happiness:    []string{"", "", ""},
		DrainerLevel: DrainerNone,
	}
}

func TestEntry_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Entry)
		want   bool
	}{
		{"fully blank", func(e *Entry) {}, false},
		{"whitespace only is still blank", func(e *Entry) {
			e.Achievements[0] = "   "
		}, false},
		{"one achievement", func(e *Entry) {
			e.Achievements[1] = "did X"
		}, true},
		{"one happiness", func(e *Entry) {
			e.Happiness[2] = "good coffee"
		}, true},
		{"drainer low", func(e *Entry) {
			e.DrainerLevel = DrainerLow
		}, true},
		{"drainer high", func(e *Entry) {
			e.DrainerLevel = DrainerHigh
		}, true},
		{"mit completed", func(e *Entry) {
			e.MITCompleted = true
		}, true},
		{"drainer note alone does not count", func(e *Entry) {
			e.DrainerNote = "long meeting"
		}, false},
		{"mit description alone does not count", func(e *Entry) {
			e.TodayMITDescription = "ship it"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := blankEntry()
			tt.mutate(&e)
			require.Equal(t, tt.want, e.IsValid())
		})
	}
}

func TestEntry_IsValid_Scenario(t *testing.T) {
	// Saved draft with a MIT done and one achievement counts.
	e := Entry{
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Achievements: []string{"did X", "", ""},
		Happiness:    []string{"", "", ""},
		DrainerLevel: DrainerNone,
		MITCompleted: true,
	}
	require.True(t, e.IsValid())
}

func TestEntry_DateOnly(t *testing.T) {
	e := Entry{Date: time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("UTC+2", 2*3600))}
	require.Equal(t, "2024-03-15", e.DateOnly())
}
