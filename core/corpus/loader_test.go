package corpus

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "github.com/adalundhe/lexembed/core/errors"
)

func writeGzipCorpus(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func TestReadAllGzipWithHeader(t *testing.T) {
	path := writeGzipCorpus(t, "docs.csv.gz",
		"id,text\n"+
			"d1,the cat sat\n"+
			"d2,the dog ran\n")

	docs, rowErrs, err := ReadAll(path, Options{Header: true})
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, docs, 2)
	assert.Equal(t, Document{ID: "d1", Text: "the cat sat"}, docs[0])
	assert.Equal(t, Document{ID: "d2", Text: "the dog ran"}, docs[1])
}

func TestMalformedHeaderSkipsOnlyHeader(t *testing.T) {
	path := writeGzipCorpus(t, "docs.csv.gz",
		"id,te\"xt\n"+
			"d1,first doc\n"+
			"d2,second doc\n")

	docs, rowErrs, err := ReadAll(path, Options{Header: true})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "d2", docs[1].ID)

	require.Len(t, rowErrs, 1)
	assert.True(t, pipeerrors.IsRecoverable(rowErrs[0]))
	assert.Equal(t, "line 1", pipeerrors.DocID(rowErrs[0]))
}

func TestReadAllPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.csv")
	require.NoError(t, os.WriteFile(path, []byte("d1,hello world\n"), 0o644))

	docs, rowErrs, err := ReadAll(path, Options{})
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].ID)
}

func TestReadAllCustomDelimiterAndColumns(t *testing.T) {
	path := writeGzipCorpus(t, "docs.tsv.gz",
		"the cat sat\td1\n"+
			"the dog ran\td2\n")

	docs, rowErrs, err := ReadAll(path, Options{
		Delimiter:  '\t',
		IDColumn:   1,
		TextColumn: 0,
	})
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, docs, 2)
	assert.Equal(t, "d2", docs[1].ID)
	assert.Equal(t, "the dog ran", docs[1].Text)
}

func TestMalformedRowsAreRecoverable(t *testing.T) {
	path := writeGzipCorpus(t, "docs.csv.gz",
		"d1,first doc\n"+
			"only-one-field\n"+
			",missing id\n"+
			"d2,second doc\n")

	docs, rowErrs, err := ReadAll(path, Options{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "d2", docs[1].ID)

	require.Len(t, rowErrs, 2)
	for _, rowErr := range rowErrs {
		assert.True(t, pipeerrors.IsRecoverable(rowErr))
	}
	assert.True(t, errors.Is(rowErrs[0], ErrNoTextColumn))
	assert.True(t, errors.Is(rowErrs[1], ErrEmptyID))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.csv.gz"), Options{})
	require.Error(t, err)
}

func TestOpenBadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o644))

	_, err := Open(path, Options{})
	require.Error(t, err)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv.gz", "a.csv.gz", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	paths, err := List(dir, "*.csv.gz")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "a.csv.gz"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b.csv.gz"), paths[1])
}

func TestListBadPattern(t *testing.T) {
	_, err := List(t.TempDir(), "[")
	require.Error(t, err)
}
