// Package pipeline runs the full embedding build: corpus loading,
// tokenization, windowed co-occurrence counting, PMI scoring, and SVD
// factorization. Per-document failures are tolerated and tallied; only
// run-level failures abort.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/adalundhe/lexembed/core/cooccur"
	"github.com/adalundhe/lexembed/core/corpus"
	"github.com/adalundhe/lexembed/core/embed"
	pipeerrors "github.com/adalundhe/lexembed/core/errors"
	"github.com/adalundhe/lexembed/core/pmi"
	"github.com/adalundhe/lexembed/core/tokenize"
	"github.com/adalundhe/lexembed/core/vocab"
)

// RunConfig gathers every knob of one training run.
type RunConfig struct {
	// CorpusPath is a corpus file, or a directory whose files matching
	// Pattern are all consumed.
	CorpusPath string

	// Pattern selects corpus files when CorpusPath is a directory.
	// Empty means every file.
	Pattern string

	Corpus    corpus.Options
	Tokenizer tokenize.Options

	WindowSize int
	MinCount   int
	MaxVocab   int

	Dims        int
	Power       float64
	PositivePMI bool

	// Workers bounds the counting pool. 0 means GOMAXPROCS.
	Workers int
}

// Result is the outcome of a run.
type Result struct {
	Embedding *embed.Embedding
	Report    Report
}

// Report summarizes what the run consumed and dropped.
type Report struct {
	DocsProcessed int64   `json:"docs_processed"`
	DocsDropped   int64   `json:"docs_dropped"`
	Windows       int64   `json:"windows"`
	VocabSize     int     `json:"vocab_size"`
	PairsScored   int     `json:"pairs_scored"`
	Dimensions    int     `json:"dimensions"`
	DroppedErrors []error `json:"-"`
}

// Run executes the full pipeline over one corpus file.
func Run(ctx context.Context, cfg RunConfig, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.WindowSize <= 0 {
		return nil, pipeerrors.Fatal(fmt.Errorf("window size %d is invalid", cfg.WindowSize))
	}

	analyzer, err := tokenize.New(cfg.Tokenizer)
	if err != nil {
		return nil, pipeerrors.Fatal(fmt.Errorf("build analyzer: %w", err))
	}

	paths, err := corpusFiles(cfg.CorpusPath, cfg.Pattern)
	if err != nil {
		return nil, pipeerrors.Fatal(err)
	}

	log.Info("loading corpus", "path", cfg.CorpusPath, "files", len(paths))
	var docs []corpus.Document
	var rowErrs []error
	for _, path := range paths {
		fileDocs, fileErrs, err := corpus.ReadAll(path, cfg.Corpus)
		if err != nil {
			return nil, pipeerrors.Fatal(err)
		}
		docs = append(docs, fileDocs...)
		rowErrs = append(rowErrs, fileErrs...)
	}
	log.Info("corpus loaded", "documents", len(docs), "malformed_rows", len(rowErrs))

	// Pass 1: token counts for the vocabulary.
	counts := vocab.NewCounts()
	tokenized := make([]cooccur.TokenizedDocument, 0, len(docs))
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return nil, pipeerrors.Fatal(ctx.Err())
		default:
		}
		terms := analyzer.Terms(doc.Text)
		counts.Add(terms)
		tokenized = append(tokenized, cooccur.TokenizedDocument{ID: doc.ID, Tokens: terms})
	}

	v := vocab.Build(counts, vocab.BuildOptions{
		MaxSize:  cfg.MaxVocab,
		MinCount: cfg.MinCount,
	})
	if v.Size() == 0 {
		return nil, pipeerrors.Fatal(fmt.Errorf("vocabulary is empty after pruning"))
	}
	log.Info("vocabulary built", "size", v.Size(), "raw_tokens", len(counts))

	// Pass 2: windowed co-occurrence counting, parallel across documents.
	counter := cooccur.NewCounter(v, cfg.WindowSize)
	for _, rowErr := range rowErrs {
		counter.DropDocument(rowErr)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ch := make(chan cooccur.TokenizedDocument, workers)
	go func() {
		defer close(ch)
		for _, doc := range tokenized {
			select {
			case <-ctx.Done():
				return
			case ch <- doc:
			}
		}
	}()
	stats := counter.AddAll(ctx, ch, workers)
	if err := ctx.Err(); err != nil {
		return nil, pipeerrors.Fatal(err)
	}
	log.Info("co-occurrence counted",
		"windows", stats.Windows,
		"pairs", counter.Matrix.NumEntries(),
		"docs_dropped", stats.DocsDropped)

	table, err := pmi.Score(counter.Matrix, v, pmi.Options{Positive: cfg.PositivePMI})
	if err != nil {
		return nil, pipeerrors.Fatal(err)
	}
	log.Info("pmi scored", "pairs", table.Matrix().NumEntries())

	emb, err := embed.Train(table.Matrix(), v, embed.Options{Dims: cfg.Dims, Power: cfg.Power})
	if err != nil {
		return nil, pipeerrors.Fatal(err)
	}
	log.Info("embedding trained", "dimensions", emb.Dim(), "words", emb.Size())

	return &Result{
		Embedding: emb,
		Report: Report{
			DocsProcessed: stats.DocsAdded,
			DocsDropped:   stats.DocsDropped,
			Windows:       stats.Windows,
			VocabSize:     v.Size(),
			PairsScored:   table.Matrix().NumEntries(),
			Dimensions:    emb.Dim(),
			DroppedErrors: stats.Errors,
		},
	}, nil
}

// corpusFiles expands the corpus path: a regular file is used as-is, a
// directory is globbed with pattern.
func corpusFiles(path, pattern string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	if pattern == "" {
		pattern = "*"
	}
	paths, err := corpus.List(path, pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("corpus: no files in %s match %q", path, pattern)
	}
	return paths, nil
}

// WriteReport renders a plain-text report.
func WriteReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "documents processed: %d\n", r.DocsProcessed)
	fmt.Fprintf(w, "documents dropped:   %d\n", r.DocsDropped)
	fmt.Fprintf(w, "windows:             %d\n", r.Windows)
	fmt.Fprintf(w, "vocabulary size:     %d\n", r.VocabSize)
	fmt.Fprintf(w, "pairs scored:        %d\n", r.PairsScored)
	fmt.Fprintf(w, "dimensions:          %d\n", r.Dimensions)
	for _, err := range r.DroppedErrors {
		fmt.Fprintf(w, "dropped: %v\n", err)
	}
}
