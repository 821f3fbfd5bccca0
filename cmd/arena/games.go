package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IlikeChooros/go-arena/pkg/game"
)

func Games() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List the available games",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range game.Names() {
				rules, err := game.Lookup(name)
				if err != nil {
					return err
				}
				meta := rules.Metadata()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d-%d players\n", meta.Name, meta.MinPlayers, meta.MaxPlayers)
			}
			return nil
		},
	}
}
