package localstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/model"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, zap.NewNop()), dir
}

func entryOn(id, date string) model.Entry {
	d, _ := time.Parse("2006-01-02", date)
	return model.Entry{
		ID:           id,
		Date:         d,
		Achievements: []string{"x", "", ""},
		DrainerLevel: model.DrainerNone,
	}
}

func TestStore_SaveThenRead(t *testing.T) {
	s, _ := newStore(t)
	e := entryOn("e1", "2024-01-01")
	e.TomorrowMIT = "rest"

	require.NoError(t, s.Save(e))

	all := s.All()
	require.Len(t, all, 1)
	require.Equal(t, e.ID, all[0].ID)
	require.Equal(t, e.TomorrowMIT, all[0].TomorrowMIT)
	require.Equal(t, e.Achievements, all[0].Achievements)
}

func TestStore_SaveReplacesSameID(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Save(entryOn("e1", "2024-01-01")))

	updated := entryOn("e1", "2024-01-01")
	updated.MITCompleted = true
	require.NoError(t, s.Save(updated))

	all := s.All()
	require.Len(t, all, 1) // replaced, not duplicated
	require.True(t, all[0].MITCompleted)
}

func TestStore_NoDateUniquenessLocally(t *testing.T) {
	// Two ids sharing a date both stay; only the remote upsert
	// collapses them.
	s, _ := newStore(t)
	require.NoError(t, s.Save(entryOn("e1", "2024-01-01")))
	require.NoError(t, s.Save(entryOn("e2", "2024-01-01")))
	require.Len(t, s.All(), 2)
}

func TestStore_OrderedByDateDesc(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Save(entryOn("e1", "2024-01-01")))
	require.NoError(t, s.Save(entryOn("e3", "2024-01-03")))
	require.NoError(t, s.Save(entryOn("e2", "2024-01-02")))

	all := s.All()
	require.Equal(t, []string{"e3", "e2", "e1"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestStore_CorruptFileReadsEmpty(t *testing.T) {
	s, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, entriesFile), []byte("{not json"), 0o600))

	require.Empty(t, s.All())

	// And the store stays usable.
	require.NoError(t, s.Save(entryOn("e1", "2024-01-01")))
	require.Len(t, s.All(), 1)
}

func TestStore_MissingFileReadsEmpty(t *testing.T) {
	s, _ := newStore(t)
	require.Empty(t, s.All())
}

func TestStore_Replace(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Save(entryOn("local", "2024-01-01")))

	remote := []model.Entry{entryOn("r1", "2024-01-02"), entryOn("r2", "2024-01-01")}
	require.NoError(t, s.Replace(remote))

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, "r1", all[0].ID)
}

func TestStore_Clear(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Save(entryOn("e1", "2024-01-01")))
	require.NoError(t, s.Clear())
	require.Empty(t, s.All())
	require.NoError(t, s.Clear()) // idempotent
}
