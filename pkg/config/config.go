package config

import (
	"time"

	"github.com/IlikeChooros/go-arena/pkg/match"
	"github.com/IlikeChooros/go-arena/pkg/tournament"
)

// MaxBots is the largest pool a tournament file may list
const MaxBots = 4

// Tournament is the root of a tournament file
type Tournament struct {
	Game        string   `yaml:"game"`
	Bots        []string `yaml:"bots"`
	Games       int      `yaml:"games"`
	Arity       int      `yaml:"arity"`
	TimeLimits  bool     `yaml:"time_limits"`
	Verbose     bool     `yaml:"verbose"`
	ShowMap     bool     `yaml:"show_map"`
	Seeds       Seeds    `yaml:"seeds"`
	Limits      Limits   `yaml:"limits"`
	Store       string   `yaml:"store"`
	ReportEvery int      `yaml:"report_every"`
	LogLevel    string   `yaml:"log_level"`
}

type Seeds struct {
	Order  int64 `yaml:"order"`
	Config int64 `yaml:"config"`
}

// Limits are Go duration strings in the file ("2s", "10ms")
type Limits struct {
	TurnTimeout   time.Duration `yaml:"turn_timeout"`
	GraceTimeout  time.Duration `yaml:"grace_timeout"`
	StderrTimeout time.Duration `yaml:"stderr_timeout"`
	ExpectedLines int           `yaml:"expected_lines"`
}

// Default values, a file only overrides what it sets
func Default() *Tournament {
	return &Tournament{
		Game:  "tictactoe",
		Games: 10,
		Limits: Limits{
			TurnTimeout:   match.DefaultTurnTimeout,
			GraceTimeout:  match.DefaultGraceTimeout,
			StderrTimeout: match.DefaultStderrTimeout,
			ExpectedLines: match.DefaultExpectedLines,
		},
		ReportEvery: tournament.DefaultReportEvery,
		LogLevel:    "info",
	}
}

func (t *Tournament) MatchLimits() *match.Limits {
	return match.DefaultLimits().
		SetTurnTimeout(t.Limits.TurnTimeout).
		SetGraceTimeout(t.Limits.GraceTimeout).
		SetStderrTimeout(t.Limits.StderrTimeout).
		SetExpectedLines(t.Limits.ExpectedLines)
}

func (t *Tournament) TournamentConfig() tournament.Config {
	return tournament.Config{
		Games:       t.Games,
		Bots:        t.Bots,
		Arity:       t.Arity,
		Limits:      t.MatchLimits(),
		TimeLimits:  t.TimeLimits,
		Verbose:     t.Verbose,
		ShowMap:     t.ShowMap,
		OrderSeed:   t.Seeds.Order,
		ConfigSeed:  t.Seeds.Config,
		ReportEvery: t.ReportEvery,
	}
}
