// This file implements the runs command: list training runs in the store.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adalundhe/lexembed/core/store"
)

var (
	runsDBPath string
	runsJSON   bool
	runsDelete string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List training runs in the embedding store",
	Long: `Runs lists every training run in the store, newest first.

Examples:
  lexembed runs
  lexembed runs --json
  lexembed runs --delete 4f7c...`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsDBPath, "db", "", "Embedding store path")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "Output as JSON")
	runsCmd.Flags().StringVar(&runsDelete, "delete", "", "Delete the given run instead of listing")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, dirs, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath := runsDBPath
	if dbPath == "" {
		dbPath = defaultStorePath(cfg, dirs)
	}

	db, err := store.Open(store.Config{
		Path:         dbPath,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if runsDelete != "" {
		if err := db.DeleteRun(ctx, runsDelete); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted run %s\n", runsDelete)
		return nil
	}

	metas, err := db.Runs(ctx)
	if err != nil {
		return err
	}

	if runsJSON {
		return json.NewEncoder(out).Encode(metas)
	}

	if len(metas) == 0 {
		fmt.Fprintln(out, "no runs")
		return nil
	}
	for _, meta := range metas {
		fmt.Fprintf(out, "%s  %s  window=%d dims=%d vocab=%d  %s\n",
			meta.ID, meta.CreatedAt.Format("2006-01-02 15:04:05"),
			meta.WindowSize, meta.Dimensions, meta.VocabSize, meta.Corpus)
	}
	return nil
}
