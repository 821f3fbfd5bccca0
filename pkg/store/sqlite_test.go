package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/go-arena/pkg/match"
)

func openTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "arena.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func TestMigrateTwice(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Migrate())
}

func TestRecordMatchRequiresRun(t *testing.T) {
	db := openTestDB(t)
	assert.ErrorIs(t, db.RecordMatch(context.Background(), match.Result{}), ErrNoRun)
}

func TestRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	info := RunInfo{Game: "tictactoe", Bots: []string{"a", "b"}, Games: 2, Arity: 2, OrderSeed: 1, ConfigSeed: 2}
	id, err := db.StartRun(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, id, db.RunID())

	results := []match.Result{
		{
			ID:             0,
			Configuration:  "opening=;first=0",
			Players:        []string{"a", "b"},
			FinishingOrder: []int{1, 0},
			Issues: []*match.Issue{
				{Turn: 0, Stdout: nil, Stderr: []string{"panic"}, Diagnostic: "did not provide any output", OutputFailed: true},
				nil,
			},
			Warnings: [][]match.Warning{nil, {{Turn: 1, Text: "Warning: slow"}}},
			Turns:    1,
			Duration: 20 * time.Millisecond,
		},
		{
			ID:             1,
			Configuration:  "opening=4;first=1",
			Players:        []string{"b", "a"},
			FinishingOrder: []int{0, 1},
			Issues:         []*match.Issue{nil, nil},
			Warnings:       [][]match.Warning{nil, nil},
			Turns:          5,
		},
	}
	for _, res := range results {
		require.NoError(t, db.RecordMatch(ctx, res))
	}
	require.NoError(t, db.FinishRun(ctx, id, [][2]int{{0, 1}}))

	run, err := db.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, info, run.RunInfo)
	assert.Equal(t, 2, run.Played)
	assert.Equal(t, [][2]int{{0, 1}}, run.Flagged)
	require.NotNil(t, run.FinishedAt)

	matches, err := db.ListMatches(ctx, id)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	first := matches[0]
	assert.Equal(t, []string{"a", "b"}, first.Players)
	assert.Equal(t, []int{1, 0}, first.FinishingOrder)
	assert.Equal(t, "b", first.Winner())
	assert.Equal(t, 20*time.Millisecond, first.Duration)
	require.Len(t, first.Issues, 1)
	assert.Equal(t, IssueRecord{
		Player:       0,
		Turn:         0,
		Diagnostic:   "did not provide any output",
		OutputFailed: true,
		Stderr:       []string{"panic"},
	}, first.Issues[0])
	assert.Equal(t, []WarningRecord{{Player: 1, Turn: 1, Text: "Warning: slow"}}, first.Warnings)

	second := matches[1]
	assert.Equal(t, "opening=4;first=1", second.Configuration)
	assert.Equal(t, "b", second.Winner())
	assert.Empty(t, second.Issues)
}

func TestGetRunNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, db.FinishRun(context.Background(), "missing", nil), ErrRunNotFound)
}
