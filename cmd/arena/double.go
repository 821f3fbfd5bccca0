package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-arena/pkg/match"
)

func Double() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "double botA botB",
		Short: "Play the same configuration twice with the bots swapped, side by side",
		Long:  "Limits, seeds and the game may come from a --config file, its bots are replaced by the arguments.",
		Args:  cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args, false)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			if err := checkBots(args); err != nil {
				return err
			}
			rules, err := lookupRules(cfg.Game)
			if err != nil {
				return err
			}

			verbose := true
			if cmd.Flags().Changed("verbose") {
				verbose = cfg.Verbose
			}
			width, _ := cmd.Flags().GetInt("width")

			pair, err := match.NewPair(match.Config{
				Configuration: configString(cmd, rules, cfg),
				Players:       args,
				Limits:        cfg.MatchLimits(),
				TimeLimits:    cfg.TimeLimits,
				Verbose:       verbose,
				ShowMap:       cfg.ShowMap,
				Output:        os.Stdout,
				Logger:        log,
			}, rules, match.ProcessLauncher)
			if err != nil {
				return err
			}
			pair.SetWidth(width)

			ctx, cancel := signalContext(cmd)
			defer cancel()
			_, err = pair.Run(ctx)
			return err
		},
	}

	addMatchFlags(cmd)
	cmd.Flags().String("config-string", "", "game configuration (random when empty)")
	cmd.Flags().Int64("seed-config", 0, "seed of the random configuration")
	cmd.Flags().Int("width", match.PairColumnWidth, "column width")
	return cmd
}
