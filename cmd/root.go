// Package cmd provides the CLI commands for lexembed.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adalundhe/lexembed/core/config"
	"github.com/adalundhe/lexembed/core/storage"
)

var (
	rootVerbose bool

	rootCmd = &cobra.Command{
		Use:   "lexembed",
		Short: "Lexembed - word embeddings from corpus statistics",
		Long: `Lexembed builds word embeddings from a document corpus using windowed
co-occurrence counts, PMI association scores, and truncated SVD, and
answers nearest-neighbor similarity queries against the result.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if rootVerbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the platform directories and loads the user config.
func loadConfig() (*config.Config, *storage.Dirs, error) {
	dirs := storage.ResolveDirs()
	manager := config.NewManager(dirs)
	if err := manager.Load(); err != nil {
		return nil, nil, err
	}
	return manager.Get(), dirs, nil
}

// defaultStorePath returns the embedding database path: the configured one
// if set, otherwise the shared database under the data directory.
func defaultStorePath(cfg *config.Config, dirs *storage.Dirs) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	return dirs.DataFile("embeddings.db")
}
