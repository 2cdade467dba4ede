// Package service implements the sync orchestrator: every read and
// write is local-first and synchronous, with best-effort background
// reconciliation against the remote store when one is configured.
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/identity"
	"github.com/annemirova/innerflow/internal/insight"
	"github.com/annemirova/innerflow/internal/localstore"
	"github.com/annemirova/innerflow/internal/model"
	"github.com/annemirova/innerflow/internal/repository"
)

// Journal orchestrates the local store, the remote adapter and the
// insight generator. The local write is a commitment; the remote write
// is best-effort and its failure is never surfaced to callers.
type Journal struct {
	local    *localstore.Store
	remote   repository.EntryRepository
	insights repository.InsightRepository
	gen      insight.Generator
	ids      *identity.Provider
	log      *zap.Logger

	syncTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

// Option customizes a Journal.
type Option func(*Journal)

// WithRemote attaches the remote entry store. Without it the journal
// runs local-only.
func WithRemote(r repository.EntryRepository) Option {
	return func(j *Journal) { j.remote = r }
}

// WithInsightStore attaches the remote insight mirror.
func WithInsightStore(r repository.InsightRepository) Option {
	return func(j *Journal) { j.insights = r }
}

// WithGenerator attaches the insight generator.
func WithGenerator(g insight.Generator) Option {
	return func(j *Journal) { j.gen = g }
}

// WithSyncTimeout bounds each background reconciliation call.
func WithSyncTimeout(d time.Duration) Option {
	return func(j *Journal) { j.syncTimeout = d }
}

// NewJournal constructs the orchestrator.
func NewJournal(local *localstore.Store, ids *identity.Provider, log *zap.Logger, opts ...Option) *Journal {
	j := &Journal{
		local:       local,
		ids:         ids,
		log:         log,
		syncTimeout: 15 * time.Second,
		inflight:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Save writes the entry to the local store synchronously, then mirrors
// it to the remote store in the background. The returned error covers
// the local write only; a failed remote sync never rolls back or
// rejects the local save.
func (j *Journal) Save(_ context.Context, e model.Entry) error {
	if err := j.local.Save(e); err != nil {
		return err
	}
	if j.remote == nil {
		return nil
	}
	userID := j.ids.GetOrCreate()
	j.spawn(func(ctx context.Context) {
		if err := j.remote.UpsertEntry(ctx, userID, e); err != nil {
			j.log.Warn("remote sync failed, local copy kept",
				zap.String("entryID", e.ID), zap.Error(err))
		}
	})
	return nil
}

// GetAll returns the local collection immediately and, if a remote
// store is configured, launches a background fetch-all that overwrites
// the local cache on success. Callers never await that step: a second
// call shortly after may return different data than the first.
func (j *Journal) GetAll(_ context.Context) []model.Entry {
	entries := j.local.All()
	j.reconcileAll()
	return entries
}

// GetToday returns today's entry from the local store, refreshing the
// local cache from remote in the background when the entry is missing
// locally.
func (j *Journal) GetToday(ctx context.Context) (model.Entry, bool) {
	return j.GetByRelativeDay(ctx, 0)
}

// GetByRelativeDay returns the entry offset days from today (0 today,
// -1 yesterday), local-first with the same remote-reconciling pattern
// as GetAll scoped to a single calendar date.
func (j *Journal) GetByRelativeDay(_ context.Context, offset int) (model.Entry, bool) {
	date := time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
	for _, e := range j.local.All() {
		if e.DateOnly() == date {
			return e, true
		}
	}
	j.reconcileDate(date)
	return model.Entry{}, false
}

// IsValid reports whether the entry counts toward streaks and history.
func (j *Journal) IsValid(e model.Entry) bool { return e.IsValid() }

// CountRecordedDays returns the number of distinct calendar dates with
// a valid entry. Recomputed on every call over whatever GetAll
// currently returns; never cached, since background reconciliation can
// change the collection out-of-band.
func (j *Journal) CountRecordedDays(ctx context.Context) int {
	days := make(map[string]struct{})
	for _, e := range j.GetAll(ctx) {
		if e.IsValid() {
			days[e.DateOnly()] = struct{}{}
		}
	}
	return len(days)
}

// AttachInsight generates a reflection for the stored entry with the
// given id, persists it locally and mirrors it remotely best-effort.
// The generator degrades internally, so the only error here is an
// unknown entry id or a failed local write.
func (j *Journal) AttachInsight(ctx context.Context, entryID string) (model.Entry, error) {
	var target *model.Entry
	for _, e := range j.local.All() {
		if e.ID == entryID {
			e := e
			target = &e
			break
		}
	}
	if target == nil {
		return model.Entry{}, errNotFound(entryID)
	}
	if j.gen == nil {
		return *target, nil
	}

	ins := j.gen.Generate(ctx, *target)
	target.AIInsight = ins.Text
	target.AIMood = ins.Mood
	if err := j.local.Save(*target); err != nil {
		return model.Entry{}, err
	}

	if j.insights != nil {
		userID := j.ids.GetOrCreate()
		date := target.DateOnly()
		j.spawn(func(ctx context.Context) {
			if err := j.insights.UpsertInsight(ctx, userID, date, ins); err != nil {
				j.log.Warn("remote insight sync failed", zap.String("date", date), zap.Error(err))
			}
		})
	}
	return *target, nil
}

// Reset clears the local collection and the persisted identity.
func (j *Journal) Reset() error {
	if err := j.local.Clear(); err != nil {
		return err
	}
	return j.ids.Clear()
}

// Wait blocks until all in-flight background syncs finish. Used on CLI
// exit and in tests; server handlers never call it.
func (j *Journal) Wait() { j.wg.Wait() }

// reconcileAll refreshes the local cache from the remote store. At most
// one fetch-all is in flight at a time: rapid successive reads do not
// launch redundant remote fetches.
func (j *Journal) reconcileAll() {
	if j.remote == nil {
		return
	}
	userID := j.ids.GetOrCreate()
	j.spawnKeyed("all", func(ctx context.Context) {
		entries, err := j.remote.FetchAllEntries(ctx, userID)
		if err != nil {
			j.log.Warn("background fetch-all failed, keeping local cache", zap.Error(err))
			return
		}
		if len(entries) == 0 {
			return
		}
		if err := j.local.Replace(entries); err != nil {
			j.log.Warn("local cache overwrite failed", zap.Error(err))
		}
	})
}

// reconcileDate pulls a single missing date from the remote store into
// the local cache.
func (j *Journal) reconcileDate(date string) {
	if j.remote == nil {
		return
	}
	userID := j.ids.GetOrCreate()
	j.spawnKeyed("date:"+date, func(ctx context.Context) {
		e, err := j.remote.FetchEntry(ctx, userID, date)
		if err != nil || e == nil {
			return // absence and network failure alike leave the cache untouched
		}
		if err := j.local.Save(*e); err != nil {
			j.log.Warn("local cache update failed", zap.String("date", date), zap.Error(err))
		}
	})
}

// spawn runs fn in the background with a detached, bounded context.
// Background tasks are never cancellable once launched.
func (j *Journal) spawn(fn func(ctx context.Context)) {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), j.syncTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// spawnKeyed is spawn with a single-in-flight guarantee per key.
func (j *Journal) spawnKeyed(key string, fn func(ctx context.Context)) {
	j.mu.Lock()
	if _, busy := j.inflight[key]; busy {
		j.mu.Unlock()
		return
	}
	j.inflight[key] = struct{}{}
	j.mu.Unlock()

	j.spawn(func(ctx context.Context) {
		defer func() {
			j.mu.Lock()
			delete(j.inflight, key)
			j.mu.Unlock()
		}()
		fn(ctx)
	})
}
