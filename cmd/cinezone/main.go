package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cinezone/cinezone/internal/interfaces/cli/migrate"
	"github.com/cinezone/cinezone/internal/interfaces/cli/seed"
	"github.com/cinezone/cinezone/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cinezone",
		Short:        "CineZone - movie catalog and ratings API",
		Long:         `CineZone serves the movie catalog, watchlist and ratings API, and ships the migration and seed tools it needs.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		seed.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
