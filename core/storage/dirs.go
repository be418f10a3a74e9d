// Package storage provides platform-native directory resolution with XDG support.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
)

// Dirs provides platform-native directory resolution with XDG support.
type Dirs struct {
	Config string // User configuration (config.yaml, stop-word lists)
	Data   string // Persistent data (embedding databases)
	Cache  string // Regenerable cache (scratch exports)
	State  string // Runtime state (logs)
}

var (
	globalDirs     *Dirs
	globalDirsOnce sync.Once
)

// ResolveDirs returns platform-appropriate directories.
// Results are cached after first call.
func ResolveDirs() *Dirs {
	globalDirsOnce.Do(func() {
		globalDirs = &Dirs{
			Config: resolveDir("XDG_CONFIG_HOME", platformConfigDefault()),
			Data:   resolveDir("XDG_DATA_HOME", platformDataDefault()),
			Cache:  resolveDir("XDG_CACHE_HOME", platformCacheDefault()),
			State:  resolveDir("XDG_STATE_HOME", platformStateDefault()),
		}
	})
	return globalDirs
}

func resolveDir(envVar, fallback string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, "lexembed")
	}
	return fallback
}

// ConfigFile returns the path of a file inside the config directory.
func (d *Dirs) ConfigFile(name string) string {
	return filepath.Join(d.Config, name)
}

// DataFile returns the path of a file inside the data directory.
func (d *Dirs) DataFile(name string) string {
	return filepath.Join(d.Data, name)
}

// CorpusHash generates a consistent short hash for a corpus path.
// Used to keep embedding databases for different corpora apart.
func CorpusHash(corpusPath string) string {
	absPath, err := filepath.Abs(corpusPath)
	if err != nil {
		absPath = corpusPath
	}
	hash := sha256.Sum256([]byte(absPath))
	return hex.EncodeToString(hash[:8])
}

// EnsureDir creates a directory with the specified permissions if it doesn't exist.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o755
	}
	return os.MkdirAll(path, perm)
}
