package postgres

import (
	"context"

	"github.com/annemirova/innerflow/internal/model"
)

// InsightRepo implements InsightRepository using PostgreSQL.
type InsightRepo struct{ db *DB }

// NewInsightRepo constructs an insight repository.
func NewInsightRepo(db *DB) *InsightRepo { return &InsightRepo{db: db} }

const upsertInsightSQL = `
INSERT INTO ai_insights (user_id, date, insight_text, mood)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, date) DO UPDATE SET
  insight_text=EXCLUDED.insight_text,
  mood=EXCLUDED.mood`

// UpsertInsight mirrors a generated insight for (user_id, date).
func (r *InsightRepo) UpsertInsight(ctx context.Context, userID, date string, ins model.Insight) error {
	_, err := r.db.Pool.Exec(ctx, upsertInsightSQL, userID, date, ins.Text, string(ins.Mood))
	return err
}
