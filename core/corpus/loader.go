package corpus

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	pipeerrors "github.com/adalundhe/lexembed/core/errors"
)

// Errors returned by the loader.
var (
	// ErrNoIDColumn indicates a row too short to contain the id column.
	ErrNoIDColumn = errors.New("row has no id column")

	// ErrNoTextColumn indicates a row too short to contain the text column.
	ErrNoTextColumn = errors.New("row has no text column")

	// ErrEmptyID indicates a row whose id field is blank.
	ErrEmptyID = errors.New("row has an empty id")
)

// Options configures how the delimited corpus file is parsed.
type Options struct {
	// Delimiter is the field separator. Zero value means comma.
	Delimiter rune

	// Header, if true, skips the first row.
	Header bool

	// IDColumn and TextColumn are zero-based field indices.
	IDColumn   int
	TextColumn int
}

func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.TextColumn == 0 && o.IDColumn == 0 {
		o.TextColumn = 1
	}
	return o
}

// Reader streams documents from a single corpus file. Files ending in .gz
// or .gzip are transparently decompressed.
type Reader struct {
	opts    Options
	file    *os.File
	gz      *gzip.Reader
	csv     *csv.Reader
	line    int
	skipped bool
}

// Open opens a corpus file for streaming reads.
func Open(path string, opts Options) (*Reader, error) {
	opts = opts.withDefaults()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}

	r := &Reader{opts: opts, file: file}

	var src io.Reader = file
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".gzip") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open corpus: %w", err)
		}
		r.gz = gz
		src = gz
	}

	cr := csv.NewReader(src)
	cr.Comma = opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	r.csv = cr

	return r, nil
}

// Next returns the next document. It returns io.EOF at end of input.
// A malformed row yields a recoverable error; calling Next again resumes
// with the following row.
func (r *Reader) Next() (Document, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return Document{}, io.EOF
		}
		r.line++

		// The first row is the header whether or not it parses; marking it
		// consumed here keeps a malformed header from shifting the skip
		// onto the first data row.
		header := r.opts.Header && !r.skipped
		if header {
			r.skipped = true
		}

		if err != nil {
			rowID := fmt.Sprintf("line %d", r.line)
			return Document{}, pipeerrors.Recoverable(rowID, err)
		}
		if header {
			continue
		}

		return r.toDocument(record)
	}
}

func (r *Reader) toDocument(record []string) (Document, error) {
	rowID := fmt.Sprintf("line %d", r.line)

	if r.opts.IDColumn >= len(record) {
		return Document{}, pipeerrors.Recoverable(rowID, ErrNoIDColumn)
	}
	if r.opts.TextColumn >= len(record) {
		return Document{}, pipeerrors.Recoverable(rowID, ErrNoTextColumn)
	}

	id := strings.TrimSpace(record[r.opts.IDColumn])
	if id == "" {
		return Document{}, pipeerrors.Recoverable(rowID, ErrEmptyID)
	}

	return Document{ID: id, Text: record[r.opts.TextColumn]}, nil
}

// Close releases the underlying file handles.
func (r *Reader) Close() error {
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			r.file.Close()
			return err
		}
	}
	return r.file.Close()
}

// ReadAll drains the reader, returning the well-formed documents and the
// per-row errors encountered. Fatal errors abort immediately.
func ReadAll(path string, opts Options) ([]Document, []error, error) {
	r, err := Open(path, opts)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	var docs []Document
	var rowErrs []error
	for {
		doc, err := r.Next()
		if err == io.EOF {
			return docs, rowErrs, nil
		}
		if err != nil {
			if pipeerrors.IsRecoverable(err) {
				rowErrs = append(rowErrs, err)
				continue
			}
			return docs, rowErrs, err
		}
		docs = append(docs, doc)
	}
}
