package match

import (
	"errors"
	"time"

	"github.com/IlikeChooros/go-arena/pkg/game"
	"github.com/IlikeChooros/go-arena/pkg/process"
)

var (
	ErrNotActive = errors.New("match is not active")
	// The current player's process was already killed on an earlier turn
	ErrEliminated = errors.New("player already eliminated")
	ErrBadPlayer  = errors.New("rules returned an unknown current player")
)

type Phase int

const (
	PhaseCreated Phase = iota
	PhasePregame
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhasePregame:
		return "pregame"
	case PhaseActive:
		return "active"
	default:
		return "ended"
	}
}

// Channel is the match's view of one bot process, see process.Channel
type Channel interface {
	Write(lines ...string) error
	ReadStdout(timeout time.Duration) []string
	ReadStderr(timeout time.Duration) []string
	Kill() error
}

// Launcher starts a bot, 'noTimeLimit' asks the bot to ignore its own time limit
type Launcher func(bot string, noTimeLimit bool) (Channel, error)

// ProcessLauncher starts bots as OS processes
func ProcessLauncher(bot string, noTimeLimit bool) (Channel, error) {
	c, err := process.SpawnBot(bot, noTimeLimit)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Issue is the failure that eliminated a player, at most one is kept per player
type Issue struct {
	Turn         int
	Stdout       []string
	Stderr       []string
	Diagnostic   string
	InputFailed  bool
	OutputFailed bool
	// *process.ChannelError or *game.ProtocolError
	Err error
}

// Warning is a recognized diagnostic the player printed on its error stream
type Warning struct {
	Turn int
	Text string
}

// Timing accumulates the response times of one player. The first turn is counted in
// Turns but not timed, it includes the process startup.
type Timing struct {
	Total time.Duration
	Max   time.Duration
	Turns int
	Timed int
}

func (t *Timing) record(d time.Duration) {
	if t.Turns > 0 {
		t.Total += d
		t.Timed++
		t.Max = max(t.Max, d)
	}
	t.Turns++
}

// Average response time over the timed turns
func (t Timing) Average() time.Duration {
	if t.Timed == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Timed)
}

// TurnInfo describes a single played turn
type TurnInfo struct {
	Match      int
	Turn       int
	Player     int
	Stdout     []string
	Stderr     []string
	Verdict    game.Verdict
	Elapsed    time.Duration
	Eliminated bool
}

// Result of a finished (or aborted) match
type Result struct {
	ID            int
	Configuration string
	Players       []string
	// Player ids from the winner to the first eliminated
	FinishingOrder []int
	Issues         []*Issue
	Warnings       [][]Warning
	Timing         []Timing
	Turns          int
	Duration       time.Duration
}

// Winner is the player id in first place, -1 if nobody finished
func (r Result) Winner() int {
	if len(r.FinishingOrder) == 0 {
		return -1
	}
	return r.FinishingOrder[0]
}

// Placement of the player counted from 0, -1 if it is not in the finishing order
func (r Result) Placement(player int) int {
	for place, p := range r.FinishingOrder {
		if p == player {
			return place
		}
	}
	return -1
}
