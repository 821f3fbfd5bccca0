package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/IlikeChooros/go-arena/pkg/games/tictactoe"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:          "arena",
		Short:        "Play bot programs against each other",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.AddCommand(Tournament(), Single(), Double(), Games())
	return root
}

func main() {
	if err := Root().Execute(); err != nil {
		os.Exit(1)
	}
}
