package match

import (
	"errors"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/IlikeChooros/go-arena/pkg/game"
	"github.com/IlikeChooros/go-arena/pkg/process"
)

// Bot behaviour: what the bot prints after receiving the turn's input
type behavior func(turn int, input []string) (stdout, stderr []string)

func answer(lines ...string) behavior {
	return func(int, []string) ([]string, []string) { return lines, nil }
}

func silent() behavior {
	return func(int, []string) ([]string, []string) { return nil, nil }
}

type fakeChannel struct {
	bot behavior
	// Turn (counted from 1) whose write fails, 0 for none
	failOn int
	// Every write fails, init inputs included
	crashed bool
	// Delay of the first turn's read
	slow  time.Duration
	slept bool

	writes [][]string
	turns  int
	stdout []string
	stderr []string
	kills  int
}

func (f *fakeChannel) Write(lines ...string) error {
	if f.kills > 0 {
		return &process.ChannelError{Pid: -1, Err: os.ErrClosed}
	}
	if f.crashed {
		return &process.ChannelError{Pid: -1, Err: errors.New("broken pipe")}
	}
	f.writes = append(f.writes, lines)
	if len(f.writes) == 1 {
		return nil
	}
	f.turns++
	if f.turns == f.failOn {
		return &process.ChannelError{Pid: -1, Err: errors.New("broken pipe")}
	}
	f.stdout, f.stderr = f.bot(f.turns-1, lines)
	return nil
}

func (f *fakeChannel) ReadStdout(time.Duration) []string {
	if f.slow > 0 && !f.slept {
		f.slept = true
		time.Sleep(f.slow)
	}
	out := f.stdout
	f.stdout = nil
	return out
}

func (f *fakeChannel) ReadStderr(time.Duration) []string {
	out := f.stderr
	f.stderr = nil
	return out
}

func (f *fakeChannel) Kill() error {
	f.kills++
	return nil
}

type fakeLauncher struct {
	bots        map[string]*fakeChannel
	launched    []string
	noTimeLimit []bool
	fail        string
}

func newLauncher(bots map[string]*fakeChannel) *fakeLauncher {
	return &fakeLauncher{bots: bots}
}

func (l *fakeLauncher) Launch(bot string, noTimeLimit bool) (Channel, error) {
	if bot == l.fail {
		return nil, process.ErrBotNotFound
	}
	ch, ok := l.bots[bot]
	if !ok {
		return nil, process.ErrBotNotFound
	}
	l.launched = append(l.launched, bot)
	l.noTimeLimit = append(l.noTimeLimit, noTimeLimit)
	return ch, nil
}

// countRules is a minimal game: players take turns printing "ok", every accepted turn
// scores a point. It ends after 'turns' turns or when fewer than 2 players are left.
type countRules struct {
	turns  int
	scores []float64
}

func (r countRules) Metadata() game.Metadata {
	return game.Metadata{
		Name:          "count",
		MinPlayers:    2,
		MaxPlayers:    4,
		DefaultArity:  2,
		WarningTokens: []string{"OUT OF TIME", "Warning:"},
	}
}

func (r countRules) RandomConfiguration(rng *rand.Rand) string {
	return strconv.Itoa(rng.Intn(1000))
}

func (r countRules) Construct(config string) (game.State, error) {
	if _, err := strconv.Atoi(config); err != nil {
		return nil, game.NewConfigurationError("config", "not a number: %q", config)
	}
	return &countState{rules: r, out: make([]bool, 4), points: make([]float64, 4)}, nil
}

type countState struct {
	rules   countRules
	current int
	played  int
	players int
	out     []bool
	points  []float64
}

func (s *countState) InitInputs(player int) []string {
	s.players = max(s.players, player+1)
	return []string{"init", strconv.Itoa(player)}
}

func (s *countState) CurrentPlayer() int { return s.current }

func (s *countState) alive() int {
	n := 0
	for p := 0; p < s.players; p++ {
		if !s.out[p] {
			n++
		}
	}
	return n
}

func (s *countState) IsActive() bool {
	return s.played < s.rules.turns && s.alive() >= 2
}

func (s *countState) TurnInputs(int) []string {
	return []string{"turn " + strconv.Itoa(s.played)}
}

func (s *countState) ValidateOutput(lines []string) game.Verdict {
	if len(lines) == 0 {
		return game.Verdict{Diagnostic: "did not provide any output"}
	}
	if lines[0] != "ok" {
		return game.Verdict{Diagnostic: "printed " + strconv.Quote(lines[0])}
	}
	return game.Verdict{Action: "ok", Valid: true}
}

func (s *countState) ProcessOutput(player int, action string) {
	if action == "" {
		s.out[player] = true
	} else {
		s.points[player]++
	}
	s.played++
	for i := 1; i <= s.players; i++ {
		next := (s.current + i) % s.players
		if !s.out[next] {
			s.current = next
			return
		}
	}
}

func (s *countState) ScoreGame() []float64 {
	if s.rules.scores != nil {
		return s.rules.scores
	}
	return s.points[:s.players]
}
