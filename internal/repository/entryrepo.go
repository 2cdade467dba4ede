// Package repository declares storage interfaces implemented by the
// PostgreSQL adapter.
package repository

import (
	"context"

	"github.com/annemirova/innerflow/internal/model"
)

// EntryRepository is the remote store adapter: it translates between
// the denormalized entry and the journal_entries/journal_items
// projection. All methods involve network I/O and accept a context.
type EntryRepository interface {
	// UpsertEntry writes the parent row keyed by (user_id, date) with
	// insert-or-update semantics, then replaces the row's item set with
	// the entry's current non-blank strings. Last writer for a calendar
	// date wins; there is no field-level merge.
	UpsertEntry(ctx context.Context, userID string, e model.Entry) error

	// FetchEntry reads the parent row for (user_id, date) plus its
	// items and recomposes the entry. Returns errs.ErrNotFound when no
	// parent row exists.
	FetchEntry(ctx context.Context, userID, date string) (*model.Entry, error)

	// FetchAllEntries bulk-reads all of the user's rows plus all their
	// items in one query each, ordered descending by date.
	FetchAllEntries(ctx context.Context, userID string) ([]model.Entry, error)
}

// InsightRepository mirrors generated insights remotely, keyed by
// (user_id, date) like the entries they belong to.
type InsightRepository interface {
	UpsertInsight(ctx context.Context, userID, date string, ins model.Insight) error
}
