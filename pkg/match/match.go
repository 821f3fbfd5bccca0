package match

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/IlikeChooros/go-arena/pkg/game"
	"github.com/IlikeChooros/go-arena/pkg/process"
)

// Config of a single match
type Config struct {
	ID            int
	Configuration string
	// Bot paths, the index is the player id
	Players []string
	// nil means DefaultLimits()
	Limits *Limits
	// When false the bots are started with process.NoTimeLimitFlag
	TimeLimits bool
	Verbose    bool
	// Print the game after every turn (verbose only, the state must be a game.Printer)
	ShowMap bool
	// Reports are written here, nil discards them
	Output   io.Writer
	Logger   zerolog.Logger
	Listener Listener
}

// Match drives one game instance between its players, it is not safe for concurrent use
type Match struct {
	id       int
	config   string
	names    []string
	limits   Limits
	verbose  bool
	showMap  bool
	out      *termenv.Output
	log      zerolog.Logger
	listener Listener

	meta     game.Metadata
	state    game.State
	channels []Channel

	phase     Phase
	turn      int
	lossOrder []int
	issues    []*Issue
	warnings  [][]Warning
	timing    []Timing
	started   time.Time
	duration  time.Duration
}

// New validates the setup and starts every player's process. On error no process is left running.
func New(cfg Config, rules game.Rules, launch Launcher) (*Match, error) {
	meta := rules.Metadata()
	if err := meta.CheckArity(len(cfg.Players)); err != nil {
		return nil, err
	}

	state, err := rules.Construct(cfg.Configuration)
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", cfg.ID, err)
	}

	if launch == nil {
		launch = ProcessLauncher
	}
	if cfg.Limits == nil {
		cfg.Limits = DefaultLimits()
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	if cfg.Listener == nil {
		cfg.Listener = NopListener{}
	}

	n := len(cfg.Players)
	m := &Match{
		id:       cfg.ID,
		config:   cfg.Configuration,
		names:    slices.Clone(cfg.Players),
		limits:   *cfg.Limits,
		verbose:  cfg.Verbose,
		showMap:  cfg.ShowMap,
		out:      termenv.NewOutput(cfg.Output),
		log:      cfg.Logger.With().Int("match", cfg.ID).Logger(),
		listener: cfg.Listener,
		meta:     meta,
		state:    state,
		channels: make([]Channel, n),
		turn:     -1,
		issues:   make([]*Issue, n),
		warnings: make([][]Warning, n),
		timing:   make([]Timing, n),
	}

	for i, bot := range cfg.Players {
		ch, err := launch(bot, !cfg.TimeLimits)
		if err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("match %d: starting player %d (%s): %w", cfg.ID, i, bot, err)
		}
		m.channels[i] = ch
		m.log.Debug().Int("player", i).Str("bot", bot).Msg("spawned")
	}
	return m, nil
}

func (m *Match) ID() int           { return m.id }
func (m *Match) Phase() Phase      { return m.phase }
func (m *Match) Turn() int         { return m.turn }
func (m *Match) State() game.State { return m.state }
func (m *Match) Players() []string { return m.names }
func (m *Match) Limits() Limits    { return m.limits }

// Alive reports whether the player still has a running process
func (m *Match) Alive(player int) bool {
	return m.channels[player] != nil
}

// Pregame sends every player its init inputs. A failed write is ignored here,
// the dead player is caught on its first turn.
func (m *Match) Pregame() {
	if m.phase != PhaseCreated {
		return
	}
	m.phase = PhasePregame
	m.started = time.Now()
	m.writeHeader()

	for i, ch := range m.channels {
		if ch == nil {
			continue
		}
		if err := ch.Write(m.state.InitInputs(i)...); err != nil {
			m.log.Debug().Err(err).Int("player", i).Msg("init inputs not delivered")
		}
	}
	m.phase = PhaseActive
}

// IsActive reports whether the game wants more turns
func (m *Match) IsActive() bool {
	return m.phase == PhaseActive && m.state.IsActive()
}

// OneTurn plays a single turn of the current player. Player failures never return an error,
// they only eliminate the player.
func (m *Match) OneTurn() error {
	if m.phase != PhaseActive {
		return ErrNotActive
	}

	m.turn++
	player := m.state.CurrentPlayer()
	if player < 0 || player >= len(m.channels) {
		return fmt.Errorf("match %d, turn %d: %w: %d", m.id, m.turn, ErrBadPlayer, player)
	}

	var (
		inputErr       error
		stdout, stderr []string
		elapsed        time.Duration
	)

	ch := m.channels[player]
	if ch == nil {
		inputErr = ErrEliminated
	} else {
		inputErr = ch.Write(m.state.TurnInputs(player)...)
		sent := time.Now()
		stdout = ch.ReadStdout(m.limits.TurnTimeout)
		if len(stdout) < m.limits.ExpectedLines {
			stdout = append(stdout, ch.ReadStdout(m.limits.GraceTimeout)...)
		}
		elapsed = time.Since(sent)
		stderr = ch.ReadStderr(m.limits.StderrTimeout)
		m.scanWarnings(player, stderr)
	}

	verdict := m.state.ValidateOutput(stdout)
	if ch != nil {
		m.timing[player].record(elapsed)
	}

	eliminated := inputErr != nil || !verdict.Valid
	if eliminated {
		issue := &Issue{
			Turn:         m.turn,
			Stdout:       stdout,
			Stderr:       stderr,
			Diagnostic:   verdict.Diagnostic,
			InputFailed:  inputErr != nil,
			OutputFailed: !verdict.Valid,
			Err:          inputErr,
		}
		if inputErr == nil {
			issue.Err = &game.ProtocolError{Player: player, Turn: m.turn, Diagnostic: verdict.Diagnostic}
		}
		m.eliminate(player, issue)
	}

	if m.state.IsActive() {
		action := verdict.Action
		if eliminated {
			action = ""
		}
		m.state.ProcessOutput(player, action)
	}

	if m.verbose {
		m.writeTurn(player, stdout, stderr, verdict.Diagnostic, elapsed)
	}

	m.log.Debug().Int("turn", m.turn).Int("player", player).Dur("elapsed", elapsed).Msg("turn")
	m.listener.OnTurn(TurnInfo{
		Match:      m.id,
		Turn:       m.turn,
		Player:     player,
		Stdout:     stdout,
		Stderr:     stderr,
		Verdict:    verdict,
		Elapsed:    elapsed,
		Eliminated: eliminated,
	})
	return nil
}

func (m *Match) scanWarnings(player int, stderr []string) {
	seen := make(map[string]struct{})
	for _, line := range stderr {
		if !m.meta.IsWarning(line) {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		m.warnings[player] = append(m.warnings[player], Warning{Turn: m.turn, Text: line})
	}
}

// Kill the player's channel and put it on the loss order, only the first issue is kept
func (m *Match) eliminate(player int, issue *Issue) {
	if ch := m.channels[player]; ch != nil {
		if err := ch.Kill(); err != nil {
			m.log.Debug().Err(err).Int("player", player).Msg("kill")
		}
		m.channels[player] = nil
		m.lossOrder = append(m.lossOrder, player)
		if issue != nil {
			m.log.Warn().Int("player", player).Str("bot", m.names[player]).
				Int("turn", issue.Turn).Err(issue.Err).Msg("player eliminated")
		}
	}
	if issue != nil && m.issues[player] == nil {
		m.issues[player] = issue
	}
}

// EndOfGame ranks the remaining players by score, kills them worst first and writes the report
func (m *Match) EndOfGame() {
	if m.phase == PhaseEnded {
		return
	}

	scores := m.state.ScoreGame()
	score := func(p int) float64 {
		if p < len(scores) {
			return scores[p]
		}
		return 0
	}

	remaining := make([]int, 0, len(m.channels))
	for p, ch := range m.channels {
		if ch != nil {
			remaining = append(remaining, p)
		}
	}
	slices.SortStableFunc(remaining, func(a, b int) int {
		switch sa, sb := score(a), score(b); {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	for _, p := range remaining {
		m.eliminate(p, nil)
	}

	m.phase = PhaseEnded
	if !m.started.IsZero() {
		m.duration = time.Since(m.started)
	}
	m.writeResults()
	m.listener.OnEnd(m.Result())
}

// Run plays the whole match. Every process is killed when it returns, whatever the reason.
func (m *Match) Run(ctx context.Context) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = multierr.Append(fmt.Errorf("match %d: panic: %v", m.id, r), m.Close())
			res = m.Result()
			return
		}
		if cerr := m.Close(); cerr != nil {
			m.log.Debug().Err(cerr).Msg("close")
		}
	}()

	m.Pregame()
	for m.IsActive() {
		if err := ctx.Err(); err != nil {
			return m.Result(), err
		}
		if err := m.OneTurn(); err != nil {
			return m.Result(), err
		}
	}
	m.EndOfGame()
	return m.Result(), nil
}

// Close kills every live channel without touching the loss order
func (m *Match) Close() error {
	var err error
	for i, ch := range m.channels {
		if ch == nil {
			continue
		}
		err = multierr.Append(err, ch.Kill())
		m.channels[i] = nil
	}
	return err
}

// FinishingOrder is the loss order reversed: winner first
func (m *Match) FinishingOrder() []int {
	order := slices.Clone(m.lossOrder)
	slices.Reverse(order)
	return order
}

func (m *Match) Result() Result {
	warnings := make([][]Warning, len(m.warnings))
	for i, w := range m.warnings {
		warnings[i] = slices.Clone(w)
	}
	return Result{
		ID:             m.id,
		Configuration:  m.config,
		Players:        slices.Clone(m.names),
		FinishingOrder: m.FinishingOrder(),
		Issues:         slices.Clone(m.issues),
		Warnings:       warnings,
		Timing:         slices.Clone(m.timing),
		Turns:          m.turn + 1,
		Duration:       m.duration,
	}
}

// process.Channel is the production Channel
var _ Channel = (*process.Channel)(nil)
