package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-arena/pkg/match"
	"github.com/IlikeChooros/go-arena/pkg/store"
	"github.com/IlikeChooros/go-arena/pkg/tournament"
)

func Tournament() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tournament [bot...]",
		Short: "Play many rotated matches and print the win tables",
		Long:  "Bots are given as arguments or in the --config file, 2 to 4 of them.",
		Args:  cobra.MaximumNArgs(4),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args, true)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			if err := checkBots(cfg.Bots); err != nil {
				return err
			}
			rules, err := lookupRules(cfg.Game)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			opts := []tournament.Option{tournament.WithLogger(log), tournament.WithOutput(os.Stdout)}

			var (
				db    *store.SQLiteDB
				runID string
			)
			if cfg.Store != "" {
				db, err = store.Open(cfg.Store)
				if err != nil {
					return err
				}
				defer func() {
					if err := db.Close(); err != nil {
						log.Error().Err(err).Msg("closing store")
					}
				}()
				if err := db.Migrate(); err != nil {
					return err
				}
				opts = append(opts, tournament.WithRecorder(db))
			}

			t, err := tournament.New(cfg.TournamentConfig(), rules, match.ProcessLauncher, opts...)
			if err != nil {
				return err
			}

			if db != nil {
				runID, err = db.StartRun(ctx, store.RunInfo{
					Game:       cfg.Game,
					Bots:       cfg.Bots,
					Games:      cfg.Games,
					Arity:      t.Arity(),
					OrderSeed:  cfg.Seeds.Order,
					ConfigSeed: cfg.Seeds.Config,
				})
				if err != nil {
					return err
				}
				log.Info().Str("run", runID).Str("store", cfg.Store).Msg("recording")
			}

			log.Info().Stringer("tournament", t).Msg("starting")
			runErr := t.Run(ctx)

			if db != nil {
				// The run is closed even when interrupted
				if err := db.FinishRun(context.WithoutCancel(ctx), runID, t.Ranges()); err != nil {
					log.Error().Err(err).Msg("finishing run")
				}
			}
			if runErr != nil {
				return fmt.Errorf("tournament stopped after %d games: %w", t.Played(), runErr)
			}
			return nil
		},
	}

	addMatchFlags(cmd)
	f := cmd.Flags()
	f.IntP("games", "n", 10, "number of matches")
	f.IntP("arity", "a", 0, "players per match (0 for the game's default)")
	f.String("store", "", "SQLite file to record the results in")
	f.Int64("seed-order", 0, "seed of the player order")
	f.Int64("seed-config", 0, "seed of the game configurations")
	return cmd
}
