// This file implements the neighbors command: rank words by similarity to
// a query word against a stored embedding.
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adalundhe/lexembed/core/config"
	"github.com/adalundhe/lexembed/core/query"
	"github.com/adalundhe/lexembed/core/storage"
	"github.com/adalundhe/lexembed/core/store"
)

// NeighborsMaxLimit is the maximum number of results.
const NeighborsMaxLimit = 1000

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

var (
	neighborsLimit       int
	neighborsRun         string
	neighborsDBPath      string
	neighborsJSON        bool
	neighborsPlain       bool
	neighborsInteractive bool
)

var neighborsCmd = &cobra.Command{
	Use:   "neighbors [word]",
	Short: "Rank words by similarity to a query word",
	Long: `Neighbors looks the query word up in a trained embedding and ranks the
vocabulary by inner product against its vector. By default the most
recent run in the store is used.

With --interactive, words are read line by line from stdin and the
config file is watched for changes between queries.

Examples:
  lexembed neighbors error
  lexembed neighbors --limit 5 error
  lexembed neighbors --json error | jq '.matches'
  lexembed neighbors --interactive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNeighbors,
}

func init() {
	rootCmd.AddCommand(neighborsCmd)

	neighborsCmd.Flags().IntVarP(&neighborsLimit, "limit", "l", 0, "Maximum number of results")
	neighborsCmd.Flags().StringVar(&neighborsRun, "run", "", "Run ID to query (default: latest)")
	neighborsCmd.Flags().StringVar(&neighborsDBPath, "db", "", "Embedding store path")
	neighborsCmd.Flags().BoolVar(&neighborsJSON, "json", false, "Output results as JSON")
	neighborsCmd.Flags().BoolVar(&neighborsPlain, "plain", false, "Disable colored output")
	neighborsCmd.Flags().BoolVarP(&neighborsInteractive, "interactive", "i", false, "Read query words from stdin")
}

func runNeighbors(cmd *cobra.Command, args []string) error {
	if !neighborsInteractive && len(args) == 0 {
		return fmt.Errorf("a query word is required unless --interactive is set")
	}

	dirs := storage.ResolveDirs()
	manager := config.NewManager(dirs)
	if err := manager.Load(); err != nil {
		return err
	}
	cfg := manager.Get()

	dbPath := neighborsDBPath
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
	runID := neighborsRun
	if runID == "" {
		latest, err := db.LatestRun(ctx)
		if err != nil {
			return err
		}
		runID = latest.ID
	}

	emb, err := db.LoadEmbedding(ctx, runID)
	if err != nil {
		return err
	}

	engine, err := query.New(emb, cfg.Query.CacheSize)
	if err != nil {
		return err
	}

	if neighborsInteractive {
		return neighborsLoop(cmd, manager, engine, runID)
	}

	return printNeighbors(cmd, engine, runID, args[0], resolveLimit(cfg))
}

// resolveLimit applies the --limit flag over the configured default and
// clamps the result.
func resolveLimit(cfg *config.Config) int {
	limit := neighborsLimit
	if limit <= 0 {
		limit = cfg.Query.DefaultLimit
	}
	if limit > NeighborsMaxLimit {
		limit = NeighborsMaxLimit
	}
	return limit
}

// neighborsLoop reads query words from stdin until EOF. The config file is
// watched while the loop runs, so edits to the default limit take effect on
// the next query.
func neighborsLoop(cmd *cobra.Command, manager *config.Manager, engine *query.Engine, runID string) error {
	defer manager.Close()

	if err := manager.Watch(slog.Default()); err != nil {
		slog.Warn("config watch unavailable", slog.String("error", err.Error()))
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintln(out, "Enter a word per line (Ctrl-D to exit).")
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		if err := printNeighbors(cmd, engine, runID, word, resolveLimit(manager.Get())); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func printNeighbors(cmd *cobra.Command, engine *query.Engine, runID, word string, limit int) error {
	matches, err := engine.Neighbors(word, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if neighborsJSON {
		return json.NewEncoder(out).Encode(map[string]any{
			"run_id":  runID,
			"word":    word,
			"matches": matches,
		})
	}

	for i, match := range matches {
		if neighborsPlain {
			fmt.Fprintf(out, "%3d  %-24s %.4f\n", i+1, match.Word, match.Score)
			continue
		}
		fmt.Fprintf(out, "%s%3d%s  %s%-24s%s %s%.4f%s\n",
			colorGray, i+1, colorReset,
			colorBold+colorCyan, match.Word, colorReset,
			colorGray, match.Score, colorReset)
	}
	return nil
}
