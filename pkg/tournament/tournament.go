package tournament

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/IlikeChooros/go-arena/pkg/game"
	"github.com/IlikeChooros/go-arena/pkg/match"
)

const DefaultReportEvery = 10

type Config struct {
	Games int
	Bots  []string
	// Seats per match, 0 means the game's default
	Arity      int
	Limits     *match.Limits
	TimeLimits bool
	Verbose    bool
	ShowMap    bool
	// Seeds of the player order and game configuration generators
	OrderSeed  int64
	ConfigSeed int64
	// Print the tables every ReportEvery matches, 0 means DefaultReportEvery, negative only at the end
	ReportEvery int
}

// Recorder receives every finished match after the tables are updated
type Recorder interface {
	RecordMatch(ctx context.Context, result match.Result) error
}

type Option func(*Tournament)

func WithLogger(log zerolog.Logger) Option {
	return func(t *Tournament) { t.log = log }
}

// WithOutput sets where match and tournament reports are printed
func WithOutput(w io.Writer) Option {
	return func(t *Tournament) { t.out = w }
}

func WithRecorder(r Recorder) Option {
	return func(t *Tournament) { t.recorder = r }
}

func WithListener(l match.Listener) Option {
	return func(t *Tournament) { t.listener = l }
}

// Matchup is one scheduled match: who sits where and the shared configuration
type Matchup struct {
	Players       []string
	Configuration string
}

// Tournament plays rounds of rotated matchups and aggregates their results
type Tournament struct {
	cfg      Config
	rules    game.Rules
	launch   match.Launcher
	arity    int
	log      zerolog.Logger
	out      io.Writer
	recorder Recorder
	listener match.Listener

	orderRng  *rand.Rand
	configRng *rand.Rand

	pending    []Matchup
	roundStart int
	round      []match.Result

	stats    *Stats
	diff     *Stats
	errors   map[string][]int
	warnings map[string][]int
	flagged  []*InvariantViolation
	played   int
	started  time.Time
}

// New validates the configuration, no process is started before Run
func New(cfg Config, rules game.Rules, launch match.Launcher, opts ...Option) (*Tournament, error) {
	meta := rules.Metadata()
	if cfg.Games < 1 {
		return nil, game.NewConfigurationError("games", "must be positive, got %d", cfg.Games)
	}

	seen := make(map[string]bool, len(cfg.Bots))
	for _, bot := range cfg.Bots {
		if seen[bot] {
			return nil, game.NewConfigurationError("bots", "duplicate bot %q", bot)
		}
		seen[bot] = true
	}
	if len(seen) < 2 {
		return nil, game.NewConfigurationError("bots", "need at least 2 distinct bots, got %d", len(seen))
	}

	arity := cfg.Arity
	if arity == 0 {
		arity = meta.DefaultArity
	}
	if err := meta.CheckArity(arity); err != nil {
		return nil, err
	}

	if cfg.ReportEvery == 0 {
		cfg.ReportEvery = DefaultReportEvery
	}
	if cfg.Limits == nil {
		cfg.Limits = match.DefaultLimits()
	}
	cfg.Bots = slices.Clone(cfg.Bots)

	t := &Tournament{
		cfg:       cfg,
		rules:     rules,
		launch:    launch,
		arity:     arity,
		log:       zerolog.Nop(),
		out:       io.Discard,
		listener:  match.NopListener{},
		orderRng:  rand.New(rand.NewSource(cfg.OrderSeed)),
		configRng: rand.New(rand.NewSource(cfg.ConfigSeed)),
		stats:     newStats(),
		diff:      newStats(),
		errors:    make(map[string][]int),
		warnings:  make(map[string][]int),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With().Str("game", meta.Name).Logger()
	return t, nil
}

// NextRound draws a seat order (not all the same bot) and one configuration, then rotates
// the bots through the seats: one matchup per bot, all on the same configuration.
func (t *Tournament) NextRound() []Matchup {
	n := len(t.cfg.Bots)
	sample := make([]int, t.arity)
	for {
		for j := range sample {
			sample[j] = t.orderRng.Intn(n)
		}
		if !allSame(sample) {
			break
		}
	}
	config := t.rules.RandomConfiguration(t.configRng)

	round := make([]Matchup, n)
	for i := range round {
		players := make([]string, len(sample))
		for j, idx := range sample {
			players[j] = t.cfg.Bots[(idx+i)%n]
		}
		round[i] = Matchup{Players: players, Configuration: config}
	}
	t.log.Debug().Ints("sample", sample).Str("config", config).Msg("new round")
	return round
}

func allSame(s []int) bool {
	for _, v := range s {
		if v != s[0] {
			return false
		}
	}
	return true
}

// Run plays all the configured matches. Player failures never stop it, a failure to start
// a match or a cancelled context does.
func (t *Tournament) Run(ctx context.Context) error {
	t.started = time.Now()
	for t.played < t.cfg.Games {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.cfg.ReportEvery > 0 && t.played%t.cfg.ReportEvery == 0 {
			t.WriteReport(t.out)
		}

		if len(t.pending) == 0 {
			t.pending = t.NextRound()
			t.round = t.round[:0]
			t.roundStart = t.played
		}
		next := t.pending[0]
		t.pending = t.pending[1:]

		res, err := t.play(ctx, t.played, next)
		if err != nil {
			return err
		}
		t.update(res)
		t.played++

		if t.recorder != nil {
			if err := t.recorder.RecordMatch(ctx, res); err != nil {
				t.log.Error().Err(err).Int("match", res.ID).Msg("recording match")
			}
		}
		if len(t.pending) == 0 {
			t.checkRound()
		}
	}
	t.WriteReport(t.out)
	return nil
}

func (t *Tournament) play(ctx context.Context, id int, mu Matchup) (match.Result, error) {
	m, err := match.New(match.Config{
		ID:            id,
		Configuration: mu.Configuration,
		Players:       mu.Players,
		Limits:        t.cfg.Limits,
		TimeLimits:    t.cfg.TimeLimits,
		Verbose:       t.cfg.Verbose,
		ShowMap:       t.cfg.ShowMap,
		Output:        t.out,
		Logger:        t.log,
		Listener:      t.listener,
	}, t.rules, t.launch)
	if err != nil {
		return match.Result{}, err
	}
	return m.Run(ctx)
}

func (t *Tournament) update(res match.Result) {
	t.stats.add(res.Players, res.FinishingOrder)
	t.round = append(t.round, res)

	for p, issue := range res.Issues {
		if issue != nil {
			bot := res.Players[p]
			t.errors[bot] = append(t.errors[bot], res.ID)
		}
	}
	for p, warnings := range res.Warnings {
		if len(warnings) > 0 {
			bot := res.Players[p]
			t.warnings[bot] = append(t.warnings[bot], res.ID)
		}
	}
}

// Every rotation of a round should finish in the same seat order, otherwise the round is
// flagged and counted in the diff tables
func (t *Tournament) checkRound() {
	if len(t.round) < 2 {
		return
	}
	first := t.round[0].FinishingOrder
	same := true
	for _, res := range t.round[1:] {
		if !slices.Equal(first, res.FinishingOrder) {
			same = false
			break
		}
	}
	if same {
		return
	}

	v := &InvariantViolation{First: t.roundStart, Last: t.roundStart + len(t.round) - 1}
	for _, res := range t.round {
		v.Orders = append(v.Orders, res.FinishingOrder)
		t.diff.add(res.Players, res.FinishingOrder)
	}
	t.flagged = append(t.flagged, v)
	t.log.Warn().Err(v).Int("first", v.First).Int("last", v.Last).Msg("round flagged for review")
}

func (t *Tournament) Played() int                    { return t.played }
func (t *Tournament) Stats() *Stats                  { return t.stats }
func (t *Tournament) DiffStats() *Stats              { return t.diff }
func (t *Tournament) Flagged() []*InvariantViolation { return t.flagged }
func (t *Tournament) Bots() []string                 { return t.cfg.Bots }
func (t *Tournament) Arity() int                     { return t.arity }

// Ids of the matches where the bot had an issue
func (t *Tournament) Errors(bot string) []int { return t.errors[bot] }

// Ids of the matches where the bot printed warnings
func (t *Tournament) Warnings(bot string) []int { return t.warnings[bot] }

// Ranges returns the flagged rounds as [first, last] match ids
func (t *Tournament) Ranges() [][2]int {
	ranges := make([][2]int, len(t.flagged))
	for i, v := range t.flagged {
		ranges[i] = [2]int{v.First, v.Last}
	}
	return ranges
}

func (t *Tournament) String() string {
	return fmt.Sprintf("tournament of %d games, %d bots, %d seats", t.cfg.Games, len(t.cfg.Bots), t.arity)
}
