package store

import (
	"context"
	"errors"
	"time"

	"github.com/IlikeChooros/go-arena/pkg/match"
)

var (
	ErrNoRun       = errors.New("no run started")
	ErrRunNotFound = errors.New("run not found")
)

// DB persists tournament runs and their matches
type DB interface {
	Close() error
	Migrate() error
	StartRun(ctx context.Context, info RunInfo) (string, error)
	RecordMatch(ctx context.Context, result match.Result) error
	FinishRun(ctx context.Context, runID string, flagged [][2]int) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListMatches(ctx context.Context, runID string) ([]MatchRecord, error)
}

// RunInfo is what is known about a tournament before it starts
type RunInfo struct {
	Game       string   `json:"game"`
	Bots       []string `json:"bots"`
	Games      int      `json:"games"`
	Arity      int      `json:"arity"`
	OrderSeed  int64    `json:"order_seed"`
	ConfigSeed int64    `json:"config_seed"`
}

// Run is a stored tournament
type Run struct {
	ID string `json:"id"`
	RunInfo
	Played     int        `json:"played"`
	Flagged    [][2]int   `json:"flagged"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// MatchRecord is a stored match result
type MatchRecord struct {
	RunID         string `json:"run_id"`
	MatchID       int    `json:"match_id"`
	Configuration string `json:"configuration"`
	// Bot names by seat
	Players []string `json:"players"`
	// Seats from the winner down
	FinishingOrder []int           `json:"finishing_order"`
	Turns          int             `json:"turns"`
	Duration       time.Duration   `json:"duration"`
	Issues         []IssueRecord   `json:"issues,omitempty"`
	Warnings       []WarningRecord `json:"warnings,omitempty"`
}

type IssueRecord struct {
	Player       int      `json:"player"`
	Turn         int      `json:"turn"`
	Diagnostic   string   `json:"diagnostic"`
	InputFailed  bool     `json:"input_failed"`
	OutputFailed bool     `json:"output_failed"`
	Stdout       []string `json:"stdout"`
	Stderr       []string `json:"stderr"`
}

type WarningRecord struct {
	Player int    `json:"player"`
	Turn   int    `json:"turn"`
	Text   string `json:"text"`
}

// Winner is the bot in first place, empty if nobody finished
func (r MatchRecord) Winner() string {
	if len(r.FinishingOrder) == 0 {
		return ""
	}
	return r.Players[r.FinishingOrder[0]]
}
