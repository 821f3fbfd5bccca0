package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-arena/pkg/config"
	"github.com/IlikeChooros/go-arena/pkg/game"
	"github.com/IlikeChooros/go-arena/pkg/logging"
	"github.com/IlikeChooros/go-arena/pkg/match"
	"github.com/IlikeChooros/go-arena/pkg/process"
)

// Flags shared by every subcommand that plays matches
func addMatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("config", "c", "", "YAML tournament file, flags override it")
	f.String("game", "tictactoe", "game to play")
	f.BoolP("time-limits", "t", false, "let the bots enforce their own time limits")
	f.BoolP("verbose", "v", false, "print every turn")
	f.BoolP("show-map", "m", false, "print the game after every turn (with --verbose)")
	f.Duration("turn-timeout", match.DefaultTurnTimeout, "how long to wait for a bot's action")
	f.Duration("grace-timeout", match.DefaultGraceTimeout, "extra wait when the action is incomplete")
	f.Duration("stderr-timeout", match.DefaultStderrTimeout, "how long to wait for the error stream")
}

// applyFlags overrides the file configuration with the flags the user set
func applyFlags(cmd *cobra.Command, cfg *config.Tournament) error {
	f := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && f.Changed(name) {
			err = apply()
		}
	}

	set("game", func() (e error) { cfg.Game, e = f.GetString("game"); return })
	set("time-limits", func() (e error) { cfg.TimeLimits, e = f.GetBool("time-limits"); return })
	set("verbose", func() (e error) { cfg.Verbose, e = f.GetBool("verbose"); return })
	set("show-map", func() (e error) { cfg.ShowMap, e = f.GetBool("show-map"); return })
	set("turn-timeout", func() (e error) { cfg.Limits.TurnTimeout, e = f.GetDuration("turn-timeout"); return })
	set("grace-timeout", func() (e error) { cfg.Limits.GraceTimeout, e = f.GetDuration("grace-timeout"); return })
	set("stderr-timeout", func() (e error) { cfg.Limits.StderrTimeout, e = f.GetDuration("stderr-timeout"); return })
	set("games", func() (e error) { cfg.Games, e = f.GetInt("games"); return })
	set("arity", func() (e error) { cfg.Arity, e = f.GetInt("arity"); return })
	set("store", func() (e error) { cfg.Store, e = f.GetString("store"); return })
	set("seed-order", func() (e error) { cfg.Seeds.Order, e = f.GetInt64("seed-order"); return })
	set("seed-config", func() (e error) { cfg.Seeds.Config, e = f.GetInt64("seed-config"); return })
	set("log-level", func() (e error) { cfg.LogLevel, e = f.GetString("log-level"); return })
	return err
}

// loadConfig reads --config when given, then applies the flags and positional bots.
// Tournament settings are validated only when 'tournament' is set, single matches may
// seat the same bot twice.
func loadConfig(cmd *cobra.Command, bots []string, tournament bool) (*config.Tournament, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.NewLoader().LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if len(bots) > 0 {
		cfg.Bots = bots
	}
	if tournament {
		if err := config.NewValidator().Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Tournament) (zerolog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}
	return logging.New(os.Stderr, level), nil
}

// checkBots makes sure every bot can be started before any match is played
func checkBots(bots []string) error {
	for _, bot := range bots {
		if err := process.Resolve(bot); err != nil {
			return err
		}
	}
	return nil
}

func lookupRules(name string) (game.Rules, error) {
	rules, err := game.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w, available: %v", err, game.Names())
	}
	return rules, nil
}

// configString returns --config-string, or draws one from --seed-config
func configString(cmd *cobra.Command, rules game.Rules, cfg *config.Tournament) string {
	if s, _ := cmd.Flags().GetString("config-string"); s != "" {
		return s
	}
	return rules.RandomConfiguration(rand.New(rand.NewSource(cfg.Seeds.Config)))
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}
