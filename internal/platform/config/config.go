package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	EnvBackend = "STILLPOINT_BACKEND"
)

type Config struct {
	DataDir    string `yaml:"-"`
	StateDir   string `yaml:"-"`
	ConfigPath string `yaml:"-"`
	DBPath     string `yaml:"-"`

	Backend  string      `yaml:"backend"`
	LogLevel string      `yaml:"log_level"`
	Timezone string      `yaml:"timezone,omitempty"`
	Stage    StageConfig `yaml:"stage_policy"`
}

// StageConfig overrides the built-in stage ladder. Zero values keep the
// built-in setting.
type StageConfig struct {
	MinSessions             int              `yaml:"min_sessions,omitempty"`
	MinCompletionRate       float64          `yaml:"min_completion_rate,omitempty"`
	CompletedSessionMinutes int              `yaml:"completed_session_minutes,omitempty"`
	Ladder                  []StageRuleEntry `yaml:"ladder,omitempty"`
}

type StageRuleEntry struct {
	Stage          int     `yaml:"stage"`
	CompletionRate float64 `yaml:"completion_rate"`
	AverageMinutes float64 `yaml:"average_minutes"`
	DistinctDays   int     `yaml:"distinct_days"`
}

func Default(dataDir string) Config {
	state := filepath.Join(dataDir, ".stillpoint")
	return Config{
		DataDir:    dataDir,
		StateDir:   state,
		ConfigPath: filepath.Join(state, "config.yaml"),
		DBPath:     filepath.Join(state, "stillpoint.db"),
		Backend:    BackendFile,
		LogLevel:   "warn",
	}
}

// New resolves paths under dataDir and overlays config.yaml when present.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)

	raw, err := os.ReadFile(cfg.ConfigPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		cfg.Backend = v
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	if c.Stage.MinCompletionRate < 0 || c.Stage.MinCompletionRate > 1 {
		return fmt.Errorf("stage_policy.min_completion_rate must be within [0,1]")
	}
	return nil
}

// Save writes the config file, creating the state directory.
func (c Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.ConfigPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
