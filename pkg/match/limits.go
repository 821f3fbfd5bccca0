package match

import (
	"encoding/json"
	"strings"
	"time"
)

// Limits bound how long the match waits for a player on every turn
type Limits struct {
	// Wait for the first line of the player's action
	TurnTimeout time.Duration
	// Extra short wait when fewer than ExpectedLines arrived
	GraceTimeout time.Duration
	// Wait for the error stream, it should be written by the time the action is
	StderrTimeout time.Duration
	ExpectedLines int
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultTurnTimeout   = 2 * time.Second
	DefaultGraceTimeout  = 10 * time.Millisecond
	DefaultStderrTimeout = 10 * time.Millisecond
	DefaultExpectedLines = 1
)

func DefaultLimits() *Limits {
	return &Limits{
		TurnTimeout:   DefaultTurnTimeout,
		GraceTimeout:  DefaultGraceTimeout,
		StderrTimeout: DefaultStderrTimeout,
		ExpectedLines: DefaultExpectedLines,
	}
}

func (l *Limits) SetTurnTimeout(d time.Duration) *Limits {
	l.TurnTimeout = max(d, 0)
	return l
}

func (l *Limits) SetGraceTimeout(d time.Duration) *Limits {
	l.GraceTimeout = max(d, 0)
	return l
}

func (l *Limits) SetStderrTimeout(d time.Duration) *Limits {
	l.StderrTimeout = max(d, 0)
	return l
}

func (l *Limits) SetExpectedLines(n int) *Limits {
	l.ExpectedLines = max(n, 0)
	return l
}
