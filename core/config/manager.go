// Package config loads and watches the lexembed configuration. Settings come
// from defaults, overlaid by the user config file, overlaid by environment
// variables. Snapshots are immutable; readers always see a complete config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/adalundhe/lexembed/core/storage"
)

// ConfigFileName is the name of the user configuration file.
const ConfigFileName = "config.yaml"

type Manager struct {
	config    atomic.Pointer[Config]
	dirs      *storage.Dirs
	watchers  []func(*Config)
	watcherMu sync.RWMutex
	stopWatch chan struct{}
	watching  atomic.Bool
	watchOnce sync.Once
}

type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Training  TrainingConfig  `yaml:"training"`
	Query     QueryConfig     `yaml:"query"`
	Store     StoreConfig     `yaml:"store"`
}

// CorpusConfig controls how the compressed delimited corpus file is read.
type CorpusConfig struct {
	Delimiter  string `yaml:"delimiter"`
	Header     bool   `yaml:"header"`
	IDColumn   int    `yaml:"id_column"`
	TextColumn int    `yaml:"text_column"`
	Pattern    string `yaml:"pattern"`
}

// TokenizerConfig mirrors the parameters of the text analysis chain.
type TokenizerConfig struct {
	Lowercase  bool     `yaml:"lowercase"`
	StripPunct bool     `yaml:"strip_punct"`
	NGramMin   int      `yaml:"ngram_min"`
	NGramMax   int      `yaml:"ngram_max"`
	Delimiter  string   `yaml:"delimiter"`
	StopWords  []string `yaml:"stop_words"`
}

// TrainingConfig controls co-occurrence counting and factorization.
type TrainingConfig struct {
	WindowSize  int     `yaml:"window_size"`
	Dimensions  int     `yaml:"dimensions"`
	MinCount    int     `yaml:"min_count"`
	MaxVocab    int     `yaml:"max_vocab"`
	Workers     int     `yaml:"workers"`
	Power       float64 `yaml:"power"`
	PositivePMI bool    `yaml:"positive_pmi"`
}

type QueryConfig struct {
	CacheSize    int `yaml:"cache_size"`
	DefaultLimit int `yaml:"default_limit"`
}

type StoreConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

func NewManager(dirs *storage.Dirs) *Manager {
	m := &Manager{
		dirs:      dirs,
		stopWatch: make(chan struct{}),
	}
	m.config.Store(DefaultConfig())
	return m
}

func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Delimiter:  ",",
			Header:     true,
			IDColumn:   0,
			TextColumn: 1,
			Pattern:    "*.csv.gz",
		},
		Tokenizer: TokenizerConfig{
			Lowercase:  true,
			StripPunct: true,
			NGramMin:   1,
			NGramMax:   1,
			Delimiter:  " ",
		},
		Training: TrainingConfig{
			WindowSize:  5,
			Dimensions:  100,
			MinCount:    2,
			MaxVocab:    50000,
			Workers:     0, // 0 = GOMAXPROCS
			Power:       0.5,
			PositivePMI: false,
		},
		Query: QueryConfig{
			CacheSize:    256,
			DefaultLimit: 10,
		},
		Store: StoreConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
	}
}

// Get returns the current config snapshot. The returned value must not be
// mutated.
func (m *Manager) Get() *Config {
	return m.config.Load()
}

// Load rebuilds the config from defaults, the user config file, and the
// environment, then publishes it to watchers.
func (m *Manager) Load() error {
	cfg := DefaultConfig()

	if err := m.loadUserConfig(cfg); err != nil {
		return fmt.Errorf("user config: %w", err)
	}

	m.applyEnvironment(cfg)

	m.config.Store(cfg)
	m.notifyWatchers(cfg)

	return nil
}

// ConfigPath returns the path of the user config file.
func (m *Manager) ConfigPath() string {
	return m.dirs.ConfigFile(ConfigFileName)
}

func (m *Manager) loadUserConfig(cfg *Config) error {
	return loadYAMLFile(m.ConfigPath(), cfg)
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func (m *Manager) applyEnvironment(cfg *Config) {
	if v := os.Getenv("LEXEMBED_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Training.WindowSize = n
		}
	}
	if v := os.Getenv("LEXEMBED_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Training.Dimensions = n
		}
	}
	if v := os.Getenv("LEXEMBED_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Training.Workers = n
		}
	}
	if v := os.Getenv("LEXEMBED_MIN_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Training.MinCount = n
		}
	}
	if v := os.Getenv("LEXEMBED_POSITIVE_PMI"); v != "" {
		cfg.Training.PositivePMI = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("LEXEMBED_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
}

// OnChange registers a callback invoked with each newly published config.
func (m *Manager) OnChange(fn func(*Config)) {
	m.watcherMu.Lock()
	m.watchers = append(m.watchers, fn)
	m.watcherMu.Unlock()
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.watcherMu.RLock()
	watchers := m.watchers
	m.watcherMu.RUnlock()

	for _, fn := range watchers {
		fn(cfg)
	}
}

func (m *Manager) Reload() error {
	return m.Load()
}

func (m *Manager) Close() error {
	m.watchOnce.Do(func() {
		close(m.stopWatch)
	})
	return nil
}
