package tournament

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlikeChooros/go-arena/pkg/game"
	"github.com/IlikeChooros/go-arena/pkg/games/tictactoe"
	"github.com/IlikeChooros/go-arena/pkg/match"
	"github.com/IlikeChooros/go-arena/pkg/process"
)

type strategy func(input []string) []string

// Plays the first legal move of the tic-tac-toe turn input
func firstMove(input []string) []string {
	if len(input) < 5 {
		return []string{"RESIGN"}
	}
	return []string{input[4]}
}

func resign([]string) []string { return []string{"RESIGN"} }

type fakeBot struct {
	play    strategy
	writes  int
	pending []string
	killed  bool
}

func (b *fakeBot) Write(lines ...string) error {
	if b.killed {
		return &process.ChannelError{Pid: -1, Err: os.ErrClosed}
	}
	b.writes++
	if b.writes > 1 {
		b.pending = b.play(lines)
	}
	return nil
}

func (b *fakeBot) ReadStdout(time.Duration) []string {
	out := b.pending
	b.pending = nil
	return out
}

func (b *fakeBot) ReadStderr(time.Duration) []string { return nil }

func (b *fakeBot) Kill() error {
	b.killed = true
	return nil
}

func launcher(strategies map[string]strategy, spawned *int) match.Launcher {
	return func(bot string, _ bool) (match.Channel, error) {
		play, ok := strategies[bot]
		if !ok {
			return nil, process.ErrBotNotFound
		}
		if spawned != nil {
			*spawned++
		}
		return &fakeBot{play: play}, nil
	}
}

type recorder struct {
	results []match.Result
	err     error
}

func (r *recorder) RecordMatch(_ context.Context, res match.Result) error {
	r.results = append(r.results, res)
	return r.err
}

func TestTournamentPlaysEveryGame(t *testing.T) {
	var spawned int
	rec := &recorder{}
	tour, err := New(Config{Games: 10, Bots: []string{"a", "b"}, OrderSeed: 1, ConfigSeed: 2},
		tictactoe.Rules{}, launcher(map[string]strategy{"a": firstMove, "b": firstMove}, &spawned),
		WithRecorder(rec))
	require.NoError(t, err)

	require.NoError(t, tour.Run(context.Background()))
	assert.Equal(t, 10, tour.Played())
	assert.Equal(t, 20, spawned)
	assert.Len(t, rec.results, 10)
	assert.Equal(t, 10, tour.Stats().Total(2))

	wins := tour.Stats().Wins("a") + tour.Stats().Wins("b")
	assert.Equal(t, 10, wins)
	for place := range 2 {
		assert.Equal(t, 10, tour.Stats().Placement("a", 2, place)+tour.Stats().Placement("b", 2, place))
	}
	assert.Empty(t, tour.Flagged(), "identical bots are deterministic")

	for i, res := range rec.results {
		assert.Equal(t, i, res.ID)
	}
}

func TestTournamentRoundsRotate(t *testing.T) {
	rec := &recorder{}
	tour, err := New(Config{Games: 6, Bots: []string{"a", "b", "c"}, OrderSeed: 3, ConfigSeed: 4},
		tictactoe.Rules{}, launcher(map[string]strategy{"a": firstMove, "b": firstMove, "c": firstMove}, nil),
		WithRecorder(rec))
	require.NoError(t, err)
	require.NoError(t, tour.Run(context.Background()))

	// Two rounds of three rotations, each round on a single configuration
	for r := 0; r < 2; r++ {
		round := rec.results[r*3 : r*3+3]
		for _, res := range round[1:] {
			assert.Equal(t, round[0].Configuration, res.Configuration)
		}
		assert.NotEqual(t, round[0].Players, round[1].Players)
	}
}

func TestTournamentFlagsAsymmetricRound(t *testing.T) {
	tour, err := New(Config{Games: 2, Bots: []string{"strong", "weak"}},
		tictactoe.Rules{}, launcher(map[string]strategy{"strong": firstMove, "weak": resign}, nil))
	require.NoError(t, err)
	require.NoError(t, tour.Run(context.Background()))

	require.Len(t, tour.Flagged(), 1)
	v := tour.Flagged()[0]
	assert.Equal(t, 0, v.First)
	assert.Equal(t, 1, v.Last)
	assert.True(t, errors.Is(v, ErrNondeterministic))
	assert.Equal(t, [][2]int{{0, 1}}, tour.Ranges())

	assert.Equal(t, 2, tour.Stats().Wins("strong"))
	assert.Equal(t, 2, tour.DiffStats().Wins("strong"))
	assert.Equal(t, 2, tour.DiffStats().Total(2))
}

func TestTournamentPartialRoundNotChecked(t *testing.T) {
	tour, err := New(Config{Games: 1, Bots: []string{"strong", "weak"}},
		tictactoe.Rules{}, launcher(map[string]strategy{"strong": firstMove, "weak": resign}, nil))
	require.NoError(t, err)
	require.NoError(t, tour.Run(context.Background()))
	assert.Empty(t, tour.Flagged())
}

func TestTournamentSeedsReproduce(t *testing.T) {
	configs := func() []string {
		rec := &recorder{}
		tour, err := New(Config{Games: 8, Bots: []string{"a", "b"}, OrderSeed: 11, ConfigSeed: 12},
			tictactoe.Rules{}, launcher(map[string]strategy{"a": firstMove, "b": firstMove}, nil),
			WithRecorder(rec))
		require.NoError(t, err)
		require.NoError(t, tour.Run(context.Background()))

		out := make([]string, len(rec.results))
		for i, res := range rec.results {
			out[i] = res.Configuration
		}
		return out
	}
	assert.Equal(t, configs(), configs())
}

func TestTournamentIssuesAndRecorderErrors(t *testing.T) {
	crash := func([]string) []string { return nil }
	rec := &recorder{err: errors.New("disk full")}
	tour, err := New(Config{Games: 2, Bots: []string{"good", "crash"}},
		tictactoe.Rules{}, launcher(map[string]strategy{"good": firstMove, "crash": crash}, nil),
		WithRecorder(rec))
	require.NoError(t, err)

	require.NoError(t, tour.Run(context.Background()), "recorder errors are not fatal")
	assert.Equal(t, []int{0, 1}, tour.Errors("crash"))
	assert.Empty(t, tour.Errors("good"))
	assert.Len(t, rec.results, 2)
}

func TestTournamentValidation(t *testing.T) {
	strategies := map[string]strategy{"a": firstMove, "b": firstMove}
	cases := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"no games", Config{Games: 0, Bots: []string{"a", "b"}}, "games"},
		{"one bot", Config{Games: 1, Bots: []string{"a"}}, "bots"},
		{"duplicates", Config{Games: 1, Bots: []string{"a", "b", "a"}}, "bots"},
		{"arity", Config{Games: 1, Bots: []string{"a", "b"}, Arity: 3}, "arity"},
	}
	for _, c := range cases {
		_, err := New(c.cfg, tictactoe.Rules{}, launcher(strategies, nil))
		var cfgErr *game.ConfigurationError
		if assert.ErrorAs(t, err, &cfgErr, c.name) {
			assert.Equal(t, c.field, cfgErr.Field, c.name)
		}
	}
}

func TestTournamentMissingBot(t *testing.T) {
	tour, err := New(Config{Games: 1, Bots: []string{"a", "ghost"}},
		tictactoe.Rules{}, launcher(map[string]strategy{"a": firstMove}, nil))
	require.NoError(t, err)
	assert.ErrorIs(t, tour.Run(context.Background()), process.ErrBotNotFound)
}

func TestTournamentCancelled(t *testing.T) {
	tour, err := New(Config{Games: 5, Bots: []string{"a", "b"}},
		tictactoe.Rules{}, launcher(map[string]strategy{"a": firstMove, "b": firstMove}, nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tour.Run(ctx), context.Canceled)
	assert.Zero(t, tour.Played())
}

func TestTournamentReport(t *testing.T) {
	out := &bytes.Buffer{}
	tour, err := New(Config{Games: 2, Bots: []string{"strong", "weak"}},
		tictactoe.Rules{}, launcher(map[string]strategy{"strong": firstMove, "weak": resign}, nil),
		WithOutput(out))
	require.NoError(t, err)
	require.NoError(t, tour.Run(context.Background()))

	report := &bytes.Buffer{}
	tour.WriteReport(report)
	text := report.String()
	assert.Contains(t, text, "Tournament Results 2/2 games:")
	assert.Contains(t, text, "strong : 2 [2] wins")
	assert.Contains(t, text, "weak : 0 [0] wins")
	assert.Contains(t, text, "2 player games:  1.   2 [  2] 2.   0 [  0]")
	assert.Contains(t, text, "Games where results differ: 0-1")

	// Match reports and the periodic tables go to the tournament's output
	assert.Contains(t, out.String(), "Tournament Results 0/2 games:")
	assert.Contains(t, out.String(), "Game 1 results:")
}
