package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/errs"
	"github.com/annemirova/innerflow/internal/model"
)

// MigrateLocalToRemote uploads every locally stored entry to the remote
// store, sequentially and awaited, accumulating per-entry outcomes
// without aborting on first failure. When no remote target is
// configured every entry counts as failed with a single explanatory
// message.
func (j *Journal) MigrateLocalToRemote(ctx context.Context) model.MigrateResult {
	entries := j.local.All()
	res := model.MigrateResult{Errors: []string{}}
	if len(entries) == 0 {
		return res
	}
	if j.remote == nil {
		res.Failed = len(entries)
		res.Errors = append(res.Errors, errs.ErrRemoteUnavailable.Error())
		return res
	}

	userID := j.ids.GetOrCreate()
	for _, e := range entries {
		if err := j.remote.UpsertEntry(ctx, userID, e); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("entry %s: %v", e.ID, err))
			continue
		}
		res.Succeeded++
	}

	j.log.Info("local-to-remote migration finished",
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
	)
	return res
}

func errNotFound(entryID string) error {
	return fmt.Errorf("entry %s: %w", entryID, errs.ErrNotFound)
}
