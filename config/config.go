// Package config loads stressifier settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the YAML file Load reads when no path is given.
const EnvConfigPath = "UK_STRESS_CONFIG"

// Config is the root configuration.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Stress     StressConfig     `yaml:"stress"`
	Tagger     TaggerConfig     `yaml:"tagger"`
	Log        LogConfig        `yaml:"log"`
}

// DictionaryConfig locates the compiled dictionary.
type DictionaryConfig struct {
	Path      string `yaml:"path"       env:"UK_STRESS_DICT"            env-default:"./stress.trie"`
	URL       string `yaml:"url"        env:"UK_STRESS_DICT_URL"`
	CacheDir  string `yaml:"cache_dir"  env:"UK_STRESS_CACHE_DIR"`
	CacheSize int    `yaml:"cache_size" env:"UK_STRESS_LRU_SIZE"        env-default:"65536"`
}

// Location returns the URL when one is configured, the path otherwise.
func (d DictionaryConfig) Location() string {
	if d.URL != "" {
		return d.URL
	}
	return d.Path
}

// StressConfig holds how stress is rendered and how ambiguity is resolved.
type StressConfig struct {
	Symbol           string `yaml:"symbol"            env:"UK_STRESS_SYMBOL"            env-default:"´"`
	OnAmbiguity      string `yaml:"on_ambiguity"      env:"UK_STRESS_ON_AMBIGUITY"      env-default:"skip"`
	PenaltyTolerance int    `yaml:"penalty_tolerance" env:"UK_STRESS_PENALTY_TOLERANCE" env-default:"1"`
}

// TaggerConfig selects the tokenizer and tagger.
type TaggerConfig struct {
	Kind        string        `yaml:"kind"         env:"UK_STRESS_TAGGER"       env-default:"udpipe"`
	UDPipeURL   string        `yaml:"udpipe_url"   env:"UK_STRESS_UDPIPE_URL"   env-default:"https://lindat.mff.cuni.cz/services/udpipe/api"`
	UDPipeModel string        `yaml:"udpipe_model" env:"UK_STRESS_UDPIPE_MODEL" env-default:"ukrainian"`
	Command     string        `yaml:"command"      env:"UK_STRESS_TAGGER_COMMAND"`
	Timeout     time.Duration `yaml:"timeout"      env:"UK_STRESS_TAGGER_TIMEOUT" env-default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"UK_STRESS_LOG_LEVEL" env-default:"info"`
	Path  string `yaml:"path"  env:"UK_STRESS_LOG_PATH"`
}

var (
	Policies    = []string{"skip", "first", "all"}
	TaggerKinds = []string{"udpipe", "command", "prose", "simple"}
	LogLevels   = []string{"debug", "info", "warn", "warning", "error",
		"fatal", "panic"}
)

// Validate checks enumerated settings and ranges.
func (c *Config) Validate() error {
	if c.Dictionary.Location() == "" {
		return fmt.Errorf("dictionary: path or url is required")
	}
	if c.Dictionary.CacheSize < 0 {
		return fmt.Errorf("dictionary.cache_size must be >= 0 (got %d)",
			c.Dictionary.CacheSize)
	}
	if c.Stress.Symbol == "" {
		return fmt.Errorf("stress.symbol must not be empty")
	}
	if !slices.Contains(Policies, c.Stress.OnAmbiguity) {
		return fmt.Errorf("stress.on_ambiguity must be one of %v (got %q)",
			Policies, c.Stress.OnAmbiguity)
	}
	if c.Stress.PenaltyTolerance < 0 {
		return fmt.Errorf("stress.penalty_tolerance must be >= 0 (got %d)",
			c.Stress.PenaltyTolerance)
	}
	if !slices.Contains(TaggerKinds, c.Tagger.Kind) {
		return fmt.Errorf("tagger.kind must be one of %v (got %q)",
			TaggerKinds, c.Tagger.Kind)
	}
	if c.Tagger.Kind == "udpipe" && c.Tagger.UDPipeURL == "" {
		return fmt.Errorf("tagger.udpipe_url is required for the udpipe tagger")
	}
	if c.Tagger.Kind == "command" && c.Tagger.Command == "" {
		return fmt.Errorf("tagger.command is required for the command tagger")
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v (got %q)",
			LogLevels, c.Log.Level)
	}
	return nil
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. An empty path falls back to
// UK_STRESS_CONFIG; with neither, only ENV and defaults are used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration implied by defaults and the
// environment alone.
func Default() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}
