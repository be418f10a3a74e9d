package storage

import (
	"path/filepath"
	"testing"
)

func TestResolveDirWithEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	got := resolveDir("XDG_CONFIG_HOME", "/fallback")
	want := filepath.Join("/custom/config", "lexembed")
	if got != want {
		t.Errorf("resolveDir: got %s, want %s", got, want)
	}
}

func TestResolveDirFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	got := resolveDir("XDG_CONFIG_HOME", "/fallback")
	if got != "/fallback" {
		t.Errorf("resolveDir: got %s, want /fallback", got)
	}
}

func TestDirsFileHelpers(t *testing.T) {
	d := &Dirs{Config: "/cfg", Data: "/data"}

	if got := d.ConfigFile("config.yaml"); got != filepath.Join("/cfg", "config.yaml") {
		t.Errorf("ConfigFile: got %s", got)
	}
	if got := d.DataFile("embeddings.db"); got != filepath.Join("/data", "embeddings.db") {
		t.Errorf("DataFile: got %s", got)
	}
}

func TestCorpusHashStable(t *testing.T) {
	a := CorpusHash("corpus/reviews.csv.gz")
	b := CorpusHash("corpus/reviews.csv.gz")
	if a != b {
		t.Errorf("hash not stable: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("hash length: got %d, want 16", len(a))
	}
	if CorpusHash("corpus/other.csv.gz") == a {
		t.Error("different paths should hash differently")
	}
}
