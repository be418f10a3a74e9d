// This file implements the train command: build an embedding from a corpus
// and persist it to the embedding store.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adalundhe/lexembed/core/config"
	"github.com/adalundhe/lexembed/core/corpus"
	"github.com/adalundhe/lexembed/core/pipeline"
	"github.com/adalundhe/lexembed/core/storage"
	"github.com/adalundhe/lexembed/core/store"
	"github.com/adalundhe/lexembed/core/tokenize"
)

var (
	trainWindow      int
	trainDims        int
	trainMinCount    int
	trainMaxVocab    int
	trainWorkers     int
	trainNGramMax    int
	trainNGramMin    int
	trainStopWords   []string
	trainPositivePMI bool
	trainKeepCase    bool
	trainKeepPunct   bool
	trainDelimiter   string
	trainPattern     string
	trainDBPath      string
	trainJSON        bool
)

var trainCmd = &cobra.Command{
	Use:   "train <corpus-file-or-dir>",
	Short: "Build an embedding from a compressed delimited corpus",
	Long: `Train builds word embeddings from a corpus file with one document per
row (an id column and a text column). Files ending in .gz are
decompressed on the fly. When given a directory, every file matching
the corpus pattern (--pattern or corpus.pattern in the config) is
consumed.

Examples:
  lexembed train reviews.csv.gz
  lexembed train --window 7 --dims 200 reviews.csv.gz
  lexembed train --pattern "*.tsv.gz" corpora/
  lexembed train --ngram-max 2 --stop-word the --stop-word a reviews.csv.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().IntVarP(&trainWindow, "window", "w", 0, "Co-occurrence window size")
	trainCmd.Flags().IntVarP(&trainDims, "dims", "d", 0, "Embedding dimensionality")
	trainCmd.Flags().IntVar(&trainMinCount, "min-count", 0, "Drop words occurring fewer times")
	trainCmd.Flags().IntVar(&trainMaxVocab, "max-vocab", 0, "Keep only the most frequent words")
	trainCmd.Flags().IntVar(&trainWorkers, "workers", 0, "Counting workers (0 = all CPUs)")
	trainCmd.Flags().IntVar(&trainNGramMax, "ngram-max", 0, "Maximum n-gram order")
	trainCmd.Flags().IntVar(&trainNGramMin, "ngram-min", 0, "Minimum n-gram order")
	trainCmd.Flags().StringArrayVar(&trainStopWords, "stop-word", nil, "Stop word to remove (repeatable)")
	trainCmd.Flags().BoolVar(&trainPositivePMI, "positive-pmi", false, "Clamp PMI scores at zero")
	trainCmd.Flags().BoolVar(&trainKeepCase, "keep-case", false, "Disable lowercasing")
	trainCmd.Flags().BoolVar(&trainKeepPunct, "keep-punct", false, "Disable punctuation stripping")
	trainCmd.Flags().StringVar(&trainDelimiter, "delimiter", "", "Corpus field delimiter (default from config)")
	trainCmd.Flags().StringVar(&trainPattern, "pattern", "", "Glob for corpus files when training on a directory")
	trainCmd.Flags().StringVar(&trainDBPath, "db", "", "Embedding store path")
	trainCmd.Flags().BoolVar(&trainJSON, "json", false, "Print the run report as JSON")
}

func runTrain(cmd *cobra.Command, args []string) error {
	corpusPath := args[0]

	cfg, dirs, err := loadConfig()
	if err != nil {
		return err
	}
	runCfg := trainRunConfig(cfg, corpusPath)

	ctx := context.Background()
	result, err := pipeline.Run(ctx, runCfg, slog.Default())
	if err != nil {
		return err
	}

	dbPath := trainDBPath
	if dbPath == "" {
		dbPath = defaultStorePath(cfg, dirs)
	}
	if err := storage.EnsureDir(filepath.Dir(dbPath), 0); err != nil {
		return err
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

	runID, err := db.SaveEmbedding(ctx, corpusPath, runCfg.WindowSize, result.Embedding)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if trainJSON {
		return json.NewEncoder(out).Encode(map[string]any{
			"run_id": runID,
			"store":  dbPath,
			"report": result.Report,
		})
	}

	fmt.Fprintf(out, "run %s saved to %s\n", runID, dbPath)
	pipeline.WriteReport(out, result.Report)
	return nil
}

// trainRunConfig folds the config file defaults and the command flags into
// one pipeline configuration. Flags win where set.
func trainRunConfig(cfg *config.Config, corpusPath string) pipeline.RunConfig {
	runCfg := pipeline.RunConfig{
		CorpusPath: corpusPath,
		Pattern:    cfg.Corpus.Pattern,
		Corpus: corpus.Options{
			Delimiter:  delimiterRune(cfg.Corpus.Delimiter),
			Header:     cfg.Corpus.Header,
			IDColumn:   cfg.Corpus.IDColumn,
			TextColumn: cfg.Corpus.TextColumn,
		},
		Tokenizer: tokenize.Options{
			Lowercase:  cfg.Tokenizer.Lowercase,
			StripPunct: cfg.Tokenizer.StripPunct,
			NGramMin:   cfg.Tokenizer.NGramMin,
			NGramMax:   cfg.Tokenizer.NGramMax,
			Delimiter:  cfg.Tokenizer.Delimiter,
			StopWords:  cfg.Tokenizer.StopWords,
		},
		WindowSize:  cfg.Training.WindowSize,
		MinCount:    cfg.Training.MinCount,
		MaxVocab:    cfg.Training.MaxVocab,
		Dims:        cfg.Training.Dimensions,
		Power:       cfg.Training.Power,
		PositivePMI: cfg.Training.PositivePMI,
		Workers:     cfg.Training.Workers,
	}

	if trainDelimiter != "" {
		runCfg.Corpus.Delimiter = delimiterRune(trainDelimiter)
	}
	if trainPattern != "" {
		runCfg.Pattern = trainPattern
	}
	if trainWindow > 0 {
		runCfg.WindowSize = trainWindow
	}
	if trainDims > 0 {
		runCfg.Dims = trainDims
	}
	if trainMinCount > 0 {
		runCfg.MinCount = trainMinCount
	}
	if trainMaxVocab > 0 {
		runCfg.MaxVocab = trainMaxVocab
	}
	if trainWorkers > 0 {
		runCfg.Workers = trainWorkers
	}
	if trainNGramMax > 0 {
		runCfg.Tokenizer.NGramMax = trainNGramMax
	}
	if trainNGramMin > 0 {
		runCfg.Tokenizer.NGramMin = trainNGramMin
	}
	if len(trainStopWords) > 0 {
		runCfg.Tokenizer.StopWords = trainStopWords
	}
	if trainPositivePMI {
		runCfg.PositivePMI = true
	}
	if trainKeepCase {
		runCfg.Tokenizer.Lowercase = false
	}
	if trainKeepPunct {
		runCfg.Tokenizer.StripPunct = false
	}
	return runCfg
}

func delimiterRune(s string) rune {
	if s == "" {
		return ','
	}
	if s == "\\t" || s == "tab" {
		return '\t'
	}
	return []rune(s)[0]
}
