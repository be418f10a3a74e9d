// This file implements the export command: write a stored embedding as a
// (word, dim, value) CSV table.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adalundhe/lexembed/core/storage"
	"github.com/adalundhe/lexembed/core/store"
)

var (
	exportRun    string
	exportOut    string
	exportDBPath string
	exportGzip   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored embedding as (word, dim, value) triples",
	Long: `Export writes the embedding of a run as a CSV table with one row per
(word, dimension-index, value) triple. By default the most recent run
is exported to stdout.

Examples:
  lexembed export > vectors.csv
  lexembed export --gzip --out vectors.csv.gz
  lexembed export --run 4f7c... --out vectors.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportRun, "run", "", "Run ID to export (default: latest)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportDBPath, "db", "", "Embedding store path")
	exportCmd.Flags().BoolVar(&exportGzip, "gzip", false, "Gzip the output")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, dirs, err := loadConfig()
	if err != nil {
		return err
	}

	dbPath := exportDBPath
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
	runID := exportRun
	if runID == "" {
		latest, err := db.LatestRun(ctx)
		if err != nil {
			return err
		}
		runID = latest.ID
	}

	compress := exportGzip || strings.HasSuffix(exportOut, ".gz")

	if exportOut == "" {
		return db.ExportCSV(ctx, cmd.OutOrStdout(), runID, compress)
	}

	meta, err := db.Run(ctx, runID)
	if err != nil {
		return err
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := db.ExportCSV(ctx, f, runID, compress); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported run %s (corpus %s, hash %s) to %s\n",
		runID, meta.Corpus, storage.CorpusHash(meta.Corpus), exportOut)
	return nil
}
