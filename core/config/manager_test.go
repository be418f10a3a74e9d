package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adalundhe/lexembed/core/storage"
)

func testDirs(t *testing.T) *storage.Dirs {
	t.Helper()
	return &storage.Dirs{
		Config: t.TempDir(),
		Data:   t.TempDir(),
		Cache:  t.TempDir(),
		State:  t.TempDir(),
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Training.WindowSize != 5 {
		t.Errorf("Training.WindowSize: got %d, want 5", cfg.Training.WindowSize)
	}
	if cfg.Training.Dimensions != 100 {
		t.Errorf("Training.Dimensions: got %d, want 100", cfg.Training.Dimensions)
	}
	if cfg.Training.Power != 0.5 {
		t.Errorf("Training.Power: got %v, want 0.5", cfg.Training.Power)
	}
	if !cfg.Tokenizer.Lowercase {
		t.Error("Tokenizer.Lowercase should default to true")
	}
	if cfg.Corpus.Delimiter != "," {
		t.Errorf("Corpus.Delimiter: got %q, want ,", cfg.Corpus.Delimiter)
	}
	if cfg.Query.DefaultLimit != 10 {
		t.Errorf("Query.DefaultLimit: got %d, want 10", cfg.Query.DefaultLimit)
	}
}

func TestManagerGet(t *testing.T) {
	m := NewManager(testDirs(t))

	cfg := m.Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Training.WindowSize != 5 {
		t.Errorf("default window size should be 5, got %d", cfg.Training.WindowSize)
	}
}

func TestManagerLoadFromFile(t *testing.T) {
	dirs := testDirs(t)
	m := NewManager(dirs)

	yaml := `
training:
  window_size: 7
  dimensions: 50
tokenizer:
  ngram_max: 2
`
	path := filepath.Join(dirs.Config, ConfigFileName)
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := m.Get()
	if cfg.Training.WindowSize != 7 {
		t.Errorf("WindowSize: got %d, want 7", cfg.Training.WindowSize)
	}
	if cfg.Training.Dimensions != 50 {
		t.Errorf("Dimensions: got %d, want 50", cfg.Training.Dimensions)
	}
	if cfg.Tokenizer.NGramMax != 2 {
		t.Errorf("NGramMax: got %d, want 2", cfg.Tokenizer.NGramMax)
	}
	// Untouched fields keep defaults.
	if cfg.Training.MinCount != 2 {
		t.Errorf("MinCount should keep default 2, got %d", cfg.Training.MinCount)
	}
}

func TestManagerMissingFileUsesDefaults(t *testing.T) {
	m := NewManager(testDirs(t))
	if err := m.Load(); err != nil {
		t.Fatalf("Load with no file should succeed: %v", err)
	}
	if m.Get().Training.Dimensions != 100 {
		t.Error("missing file should leave defaults intact")
	}
}

func TestManagerEnvironmentOverrides(t *testing.T) {
	t.Setenv("LEXEMBED_WINDOW_SIZE", "3")
	t.Setenv("LEXEMBED_POSITIVE_PMI", "TRUE")

	m := NewManager(testDirs(t))
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}

	cfg := m.Get()
	if cfg.Training.WindowSize != 3 {
		t.Errorf("env override WindowSize: got %d, want 3", cfg.Training.WindowSize)
	}
	if !cfg.Training.PositivePMI {
		t.Error("env override PositivePMI should be true")
	}
}

func TestManagerNotifiesWatchers(t *testing.T) {
	m := NewManager(testDirs(t))

	var notified *Config
	m.OnChange(func(c *Config) { notified = c })

	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	if notified == nil {
		t.Fatal("watcher was not notified")
	}
	if notified != m.Get() {
		t.Error("watcher should receive the published snapshot")
	}
}

func TestManagerWatchTwice(t *testing.T) {
	m := NewManager(testDirs(t))
	defer m.Close()

	if err := m.Watch(nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Watch(nil); !errors.Is(err, ErrAlreadyWatching) {
		t.Fatalf("second Watch: got %v, want ErrAlreadyWatching", err)
	}
}

func TestManagerCloseIdempotent(t *testing.T) {
	m := NewManager(testDirs(t))
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal("second Close should not panic or fail")
	}
}
