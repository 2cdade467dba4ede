package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/annemirova/innerflow/internal/model"
)

func TestInsightRepo_UpsertInsight(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewInsightRepo(db)

	mock.ExpectExec(`INSERT INTO ai_insights`).
		WithArgs("u1", "2024-01-01", "keep going", "positive").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := r.UpsertInsight(context.Background(), "u1", "2024-01-01",
		model.Insight{Text: "keep going", Mood: model.MoodPositive})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightRepo_UpsertInsight_Error(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewInsightRepo(db)

	mock.ExpectExec(`INSERT INTO ai_insights`).
		WithArgs("u1", "2024-01-01", "keep going", "neutral").
		WillReturnError(errors.New("connection reset"))

	err := r.UpsertInsight(context.Background(), "u1", "2024-01-01",
		model.Insight{Text: "keep going", Mood: model.MoodNeutral})
	require.Error(t, err)
}
