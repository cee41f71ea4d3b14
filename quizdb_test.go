package passquiz

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseDB() })
	require.NoError(t, db.CreateTables())
	return db
}

func TestRecordAndListAttempts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	first, err := db.RecordAttempt(ctx, "Alice", NewQuizResult(Score{Correct: 2, Total: 4, Percentage: 50}, map[int]int{1: 0}, base))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = db.RecordAttempt(ctx, "Alice", NewQuizResult(Score{Correct: 4, Total: 4, Percentage: 100}, map[int]int{1: 1, 2: 3}, base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = db.RecordAttempt(ctx, "Bob", NewQuizResult(Score{Total: 4}, nil, base))
	require.NoError(t, err)

	attempts, err := db.ListAttempts(ctx, "Alice", 0)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 100, attempts[0].Percentage, "newest first")
	assert.Equal(t, map[int]int{1: 1, 2: 3}, attempts[0].Answers)
	assert.True(t, base.Add(time.Hour).Equal(attempts[0].SubmittedAt))
	assert.Equal(t, first.ID, attempts[1].ID)

	limited, err := db.ListAttempts(ctx, "Alice", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	bob, err := db.ListAttempts(ctx, "Bob", 0)
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Empty(t, bob[0].Answers)

	none, err := db.ListAttempts(ctx, "Nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := db.CountAttempts(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.CreateTables())
}
