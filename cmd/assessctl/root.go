package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "assessctl",
	Short:         "Inspect the assessment catalogue and result documents",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML catalogue (defaults to CATALOG_PATH, then the built-in catalogue)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level for diagnostics on stderr")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(scoreCmd)
}

// loadCatalog resolves the catalogue using --catalog (highest priority),
// then CATALOG_PATH, then the embedded default.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = os.Getenv("CATALOG_PATH")
	}
	return catalog.Load(path)
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.New(os.Stderr, level, "pretty")
}
