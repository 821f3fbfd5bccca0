package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"

	"github.com/IlikeChooros/go-arena/pkg/match"
)

// SQLiteDB implements DB on a SQLite file. RecordMatch writes to the run opened by the
// last StartRun, so it can be handed to a tournament as its recorder.
type SQLiteDB struct {
	db *sql.DB

	mu    sync.Mutex
	runID string
}

var _ DB = (*SQLiteDB)(nil)

// Open connects to the database at 'path' in WAL mode, Migrate must be called before use
func Open(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer, matches are recorded one at a time anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to enable WAL mode: %w", err), db.Close())
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to enable foreign keys: %w", err), db.Close())
	}
	return &SQLiteDB{db: db}, nil
}

// Close checkpoints the log and closes the connection
func (s *SQLiteDB) Close() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return multierr.Append(err, s.db.Close())
}

func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			bots_json TEXT NOT NULL,
			games INTEGER NOT NULL,
			arity INTEGER NOT NULL,
			order_seed INTEGER NOT NULL,
			config_seed INTEGER NOT NULL,
			played INTEGER NOT NULL DEFAULT 0,
			flagged_json TEXT NOT NULL DEFAULT '[]',
			started_at INTEGER NOT NULL,
			finished_at INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			run_id TEXT NOT NULL,
			match_id INTEGER NOT NULL,
			configuration TEXT NOT NULL,
			turns INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			PRIMARY KEY (run_id, match_id),
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,
		`CREATE TABLE IF NOT EXISTS placements (
			run_id TEXT NOT NULL,
			match_id INTEGER NOT NULL,
			player INTEGER NOT NULL,
			bot TEXT NOT NULL,
			place INTEGER,
			FOREIGN KEY (run_id, match_id) REFERENCES matches(run_id, match_id)
		)`,
		`CREATE TABLE IF NOT EXISTS issues (
			run_id TEXT NOT NULL,
			match_id INTEGER NOT NULL,
			player INTEGER NOT NULL,
			turn INTEGER NOT NULL,
			diagnostic TEXT NOT NULL,
			input_failed INTEGER NOT NULL,
			output_failed INTEGER NOT NULL,
			stdout TEXT NOT NULL,
			stderr TEXT NOT NULL,
			FOREIGN KEY (run_id, match_id) REFERENCES matches(run_id, match_id)
		)`,
		`CREATE TABLE IF NOT EXISTS warnings (
			run_id TEXT NOT NULL,
			match_id INTEGER NOT NULL,
			player INTEGER NOT NULL,
			turn INTEGER NOT NULL,
			text TEXT NOT NULL,
			FOREIGN KEY (run_id, match_id) REFERENCES matches(run_id, match_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_placements_match ON placements(run_id, match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_placements_bot ON placements(run_id, bot)`,
		`CREATE INDEX IF NOT EXISTS idx_issues_match ON issues(run_id, match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_warnings_match ON warnings(run_id, match_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// StartRun stores a new run and makes it the target of RecordMatch
func (s *SQLiteDB) StartRun(ctx context.Context, info RunInfo) (string, error) {
	bots, err := json.Marshal(info.Bots)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO runs (
		id, game, bots_json, games, arity, order_seed, config_seed, started_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, info.Game, string(bots), info.Games, info.Arity, info.OrderSeed, info.ConfigSeed,
		time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	s.mu.Lock()
	s.runID = id
	s.mu.Unlock()
	return id, nil
}

// RunID of the run RecordMatch writes to
func (s *SQLiteDB) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// RecordMatch stores one match of the current run in a single transaction
func (s *SQLiteDB) RecordMatch(ctx context.Context, res match.Result) (err error) {
	runID := s.RunID()
	if runID == "" {
		return ErrNoRun
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO matches (run_id, match_id, configuration, turns, duration_ns)
		VALUES (?, ?, ?, ?, ?)`, runID, res.ID, res.Configuration, res.Turns, int64(res.Duration)); err != nil {
		return fmt.Errorf("failed to save match %d: %w", res.ID, err)
	}

	places := make(map[int]int, len(res.FinishingOrder))
	for place, p := range res.FinishingOrder {
		places[p] = place
	}
	for p, bot := range res.Players {
		var place any
		if v, ok := places[p]; ok {
			place = v
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO placements (run_id, match_id, player, bot, place)
			VALUES (?, ?, ?, ?, ?)`, runID, res.ID, p, bot, place); err != nil {
			return fmt.Errorf("failed to save placement: %w", err)
		}
	}

	for p, issue := range res.Issues {
		if issue == nil {
			continue
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO issues (
			run_id, match_id, player, turn, diagnostic, input_failed, output_failed, stdout, stderr
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, res.ID, p, issue.Turn, issue.Diagnostic, boolInt(issue.InputFailed),
			boolInt(issue.OutputFailed), joinLines(issue.Stdout), joinLines(issue.Stderr)); err != nil {
			return fmt.Errorf("failed to save issue: %w", err)
		}
	}

	for p, warnings := range res.Warnings {
		for _, w := range warnings {
			if _, err = tx.ExecContext(ctx, `INSERT INTO warnings (run_id, match_id, player, turn, text)
				VALUES (?, ?, ?, ?, ?)`, runID, res.ID, p, w.Turn, w.Text); err != nil {
				return fmt.Errorf("failed to save warning: %w", err)
			}
		}
	}

	if _, err = tx.ExecContext(ctx, `UPDATE runs SET played = played + 1 WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return tx.Commit()
}

// FinishRun marks the run finished with the flagged match ranges
func (s *SQLiteDB) FinishRun(ctx context.Context, runID string, flagged [][2]int) error {
	if flagged == nil {
		flagged = [][2]int{}
	}
	data, err := json.Marshal(flagged)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE runs SET flagged_json = ?, finished_at = ? WHERE id = ?`,
		string(data), time.Now().UnixMilli(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

func (s *SQLiteDB) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run           Run
		bots, flagged string
		started       int64
		finished      sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, game, bots_json, games, arity, order_seed, config_seed,
		played, flagged_json, started_at, finished_at FROM runs WHERE id = ?`, id).Scan(
		&run.ID, &run.Game, &bots, &run.Games, &run.Arity, &run.OrderSeed, &run.ConfigSeed,
		&run.Played, &flagged, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(bots), &run.Bots); err != nil {
		return nil, fmt.Errorf("run %s: bad bots: %w", id, err)
	}
	if err := json.Unmarshal([]byte(flagged), &run.Flagged); err != nil {
		return nil, fmt.Errorf("run %s: bad flagged ranges: %w", id, err)
	}
	run.StartedAt = time.UnixMilli(started)
	if finished.Valid {
		t := time.UnixMilli(finished.Int64)
		run.FinishedAt = &t
	}
	return &run, nil
}

// ListMatches returns the run's matches ordered by id with their placements, issues and warnings
func (s *SQLiteDB) ListMatches(ctx context.Context, runID string) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT match_id, configuration, turns, duration_ns
		FROM matches WHERE run_id = ? ORDER BY match_id`, runID)
	if err != nil {
		return nil, err
	}

	var (
		records []MatchRecord
		index   = map[int]int{}
	)
	for rows.Next() {
		rec := MatchRecord{RunID: runID}
		var duration int64
		if err := rows.Scan(&rec.MatchID, &rec.Configuration, &rec.Turns, &duration); err != nil {
			return nil, multierr.Append(err, rows.Close())
		}
		rec.Duration = time.Duration(duration)
		index[rec.MatchID] = len(records)
		records = append(records, rec)
	}
	if err := multierr.Append(rows.Err(), rows.Close()); err != nil {
		return nil, err
	}

	if err := s.loadPlacements(ctx, runID, records, index); err != nil {
		return nil, err
	}
	if err := s.loadIssues(ctx, runID, records, index); err != nil {
		return nil, err
	}
	if err := s.loadWarnings(ctx, runID, records, index); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLiteDB) loadPlacements(ctx context.Context, runID string, records []MatchRecord, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT match_id, player, bot, place FROM placements
		WHERE run_id = ? ORDER BY match_id, player`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	type placed struct{ player, place int }
	finished := map[int][]placed{}
	for rows.Next() {
		var (
			matchID, player int
			bot             string
			place           sql.NullInt64
		)
		if err := rows.Scan(&matchID, &player, &bot, &place); err != nil {
			return err
		}
		rec := &records[index[matchID]]
		rec.Players = append(rec.Players, bot)
		if place.Valid {
			finished[matchID] = append(finished[matchID], placed{player, int(place.Int64)})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for matchID, entries := range finished {
		order := make([]int, len(entries))
		for _, e := range entries {
			order[e.place] = e.player
		}
		records[index[matchID]].FinishingOrder = order
	}
	return nil
}

func (s *SQLiteDB) loadIssues(ctx context.Context, runID string, records []MatchRecord, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT match_id, player, turn, diagnostic, input_failed, output_failed,
		stdout, stderr FROM issues WHERE run_id = ? ORDER BY match_id, player`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID        int
			issue          IssueRecord
			input, output  int
			stdout, stderr string
		)
		if err := rows.Scan(&matchID, &issue.Player, &issue.Turn, &issue.Diagnostic, &input, &output,
			&stdout, &stderr); err != nil {
			return err
		}
		issue.InputFailed = input != 0
		issue.OutputFailed = output != 0
		issue.Stdout = splitLines(stdout)
		issue.Stderr = splitLines(stderr)
		rec := &records[index[matchID]]
		rec.Issues = append(rec.Issues, issue)
	}
	return rows.Err()
}

func (s *SQLiteDB) loadWarnings(ctx context.Context, runID string, records []MatchRecord, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT match_id, player, turn, text FROM warnings
		WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			matchID int
			w       WarningRecord
		)
		if err := rows.Scan(&matchID, &w.Player, &w.Turn, &w.Text); err != nil {
			return err
		}
		rec := &records[index[matchID]]
		rec.Warnings = append(rec.Warnings, w)
	}
	return rows.Err()
}
