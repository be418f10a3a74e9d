package store

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportCSV streams a run's (word, dim, value) triples as CSV with a
// header row. When compress is true the output is gzipped.
func (s *DB) ExportCSV(ctx context.Context, w io.Writer, runID string, compress bool) error {
	if _, err := s.Run(ctx, runID); err != nil {
		return err
	}

	out := w
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(w)
		out = gz
	}

	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"word", "dim", "value"}); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT word, dim, value FROM vectors WHERE run_id = ? ORDER BY word, dim`, runID)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var word string
		var dim int
		var value float64
		if err := rows.Scan(&word, &dim, &value); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		record := []string{
			word,
			strconv.Itoa(dim),
			strconv.FormatFloat(value, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if gz != nil {
		return gz.Close()
	}
	return nil
}
