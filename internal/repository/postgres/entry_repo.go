package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/annemirova/innerflow/internal/convert"
	"github.com/annemirova/innerflow/internal/errs"
	"github.com/annemirova/innerflow/internal/model"
)

// EntryRepo implements EntryRepository using PostgreSQL.
type EntryRepo struct{ db *DB }

// NewEntryRepo constructs an entry repository.
func NewEntryRepo(db *DB) *EntryRepo { return &EntryRepo{db: db} }

const upsertEntrySQL = `
INSERT INTO journal_entries
  (user_id, date, drainer_level, drainer_note, today_mit_description, mit_completed, mit_reason, tomorrow_mit)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (user_id, date) DO UPDATE SET
  drainer_level=EXCLUDED.drainer_level,
  drainer_note=EXCLUDED.drainer_note,
  today_mit_description=EXCLUDED.today_mit_description,
  mit_completed=EXCLUDED.mit_completed,
  mit_reason=EXCLUDED.mit_reason,
  tomorrow_mit=EXCLUDED.tomorrow_mit,
  updated_at=now()
RETURNING id`

const (
	deleteItemsSQL = `DELETE FROM journal_items WHERE journal_entry_id=$1`
	insertItemSQL  = `INSERT INTO journal_items (journal_entry_id, type, content) VALUES ($1,$2,$3)`
)

// UpsertEntry writes the parent row and replaces its item set. The
// parent upsert and the delete-then-insert of children run in a single
// transaction: readers never observe a parent with a half-replaced
// item set.
func (r *EntryRepo) UpsertEntry(ctx context.Context, userID string, e model.Entry) (err error) {
	row, items := convert.Decompose(e, userID)

	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = cerr
		}
	}()

	var entryID uuid.UUID
	err = tx.QueryRow(ctx, upsertEntrySQL,
		row.UserID, row.Date,
		row.DrainerLevel, row.DrainerNote,
		row.TodayMITDescription, row.MITCompleted, row.MITReason,
		row.TomorrowMIT,
	).Scan(&entryID)
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, deleteItemsSQL, entryID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err = tx.Exec(ctx, insertItemSQL, entryID, string(it.Type), it.Content); err != nil {
			return err
		}
	}
	return nil
}

const selectEntrySQL = `
SELECT id, user_id, date, drainer_level, drainer_note, today_mit_description,
       mit_completed, mit_reason, tomorrow_mit, created_at, updated_at
FROM journal_entries WHERE user_id=$1 AND date=$2`

const selectItemsSQL = `
SELECT id, journal_entry_id, type, content, created_at
FROM journal_items WHERE journal_entry_id=$1
ORDER BY created_at ASC`

// FetchEntry reads the (user_id, date) parent row plus its items and
// recomposes the entry. Returns errs.ErrNotFound when absent.
func (r *EntryRepo) FetchEntry(ctx context.Context, userID, date string) (*model.Entry, error) {
	row, err := scanEntryRow(r.db.Pool.QueryRow(ctx, selectEntrySQL, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	items, err := r.queryItems(ctx, selectItemsSQL, row.ID)
	if err != nil {
		return nil, err
	}

	e := convert.Recompose(row, items)
	return &e, nil
}

const selectAllEntriesSQL = `
SELECT id, user_id, date, drainer_level, drainer_note, today_mit_description,
       mit_completed, mit_reason, tomorrow_mit, created_at, updated_at
FROM journal_entries WHERE user_id=$1
ORDER BY date DESC`

const selectAllItemsSQL = `
SELECT id, journal_entry_id, type, content, created_at
FROM journal_items WHERE journal_entry_id = ANY($1::uuid[])
ORDER BY created_at ASC`

// FetchAllEntries bulk-reads all parent rows, then all their children
// in one query, groups children by parent and recomposes each entry.
func (r *EntryRepo) FetchAllEntries(ctx context.Context, userID string) ([]model.Entry, error) {
	rows, err := r.db.Pool.Query(ctx, selectAllEntriesSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parents []model.EntryRow
	for rows.Next() {
		row, err := scanEntryRow(rows)
		if err != nil {
			return nil, err
		}
		parents = append(parents, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return []model.Entry{}, nil
	}

	ids := make([]string, 0, len(parents))
	for _, p := range parents {
		ids = append(ids, p.ID.String())
	}
	items, err := r.queryItems(ctx, selectAllItemsSQL, ids)
	if err != nil {
		return nil, err
	}

	byEntry := make(map[uuid.UUID][]model.ItemRow, len(parents))
	for _, it := range items {
		byEntry[it.EntryID] = append(byEntry[it.EntryID], it)
	}

	out := make([]model.Entry, 0, len(parents))
	for _, p := range parents {
		out = append(out, convert.Recompose(p, byEntry[p.ID]))
	}
	return out, nil
}

func (r *EntryRepo) queryItems(ctx context.Context, sql string, arg any) ([]model.ItemRow, error) {
	rows, err := r.db.Pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ItemRow
	for rows.Next() {
		var (
			it model.ItemRow
			ty string
		)
		if err := rows.Scan(&it.ID, &it.EntryID, &ty, &it.Content, &it.CreatedAt); err != nil {
			return nil, err
		}
		it.Type = model.ItemType(ty)
		out = append(out, it)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanEntryRow(s scanner) (model.EntryRow, error) {
	var (
		row  model.EntryRow
		date time.Time
	)
	err := s.Scan(
		&row.ID, &row.UserID, &date,
		&row.DrainerLevel, &row.DrainerNote,
		&row.TodayMITDescription, &row.MITCompleted, &row.MITReason,
		&row.TomorrowMIT,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return model.EntryRow{}, err
	}
	row.Date = date.Format("2006-01-02")
	return row, nil
}
