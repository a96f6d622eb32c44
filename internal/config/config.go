// Package config loads zphrase settings from defaults, an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/zarlcorp/zphrase/internal/diceware"
	"github.com/zarlcorp/zphrase/internal/report"
	"gopkg.in/yaml.v3"
)

// DefaultDelimiter joins words when no delimiter is configured. An explicit
// empty delimiter in the file or environment is kept.
const DefaultDelimiter = " "

// Config is the root application configuration.
type Config struct {
	Words     int    `yaml:"words"     env:"ZPHRASE_WORDS"`
	Delimiter string `yaml:"delimiter" env:"ZPHRASE_DELIMITER"`
	Wordlist  string `yaml:"wordlist"  env:"ZPHRASE_WORDLIST"  env-default:"diceware.txt"`
	Report    string `yaml:"report"    env:"ZPHRASE_REPORT"`
	LogLevel  string `yaml:"log_level" env:"ZPHRASE_LOG_LEVEL" env-default:"warn"`

	Pwned PwnedConfig `yaml:"pwned"`
}

// PwnedConfig holds range API settings.
type PwnedConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"ZPHRASE_PWNED_URL"        env-default:"https://api.pwnedpasswords.com"`
	UserAgent string        `yaml:"user_agent" env:"ZPHRASE_PWNED_USER_AGENT" env-default:"zphrase"`
	Timeout   time.Duration `yaml:"timeout"    env:"ZPHRASE_PWNED_TIMEOUT"    env-default:"30s"`
}

// Load reads configuration. Priority: ENV > YAML > defaults.
// The YAML path comes from ZPHRASE_CONFIG; otherwise Path() is used when the
// file exists.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("ZPHRASE_CONFIG")
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	fileDelim := false
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if fileDelim, err = setsDelimiter(path); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if _, envDelim := os.LookupEnv("ZPHRASE_DELIMITER"); !envDelim && !fileDelim {
		cfg.Delimiter = DefaultDelimiter
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset fields from the package defaults.
func (c *Config) applyDefaults() {
	if c.Words == 0 {
		c.Words = diceware.DefaultWords
	}
	if c.Report == "" {
		c.Report = report.DefaultName
	}
}

// setsDelimiter reports whether the YAML file at path has a delimiter key.
// Files in other formats never do.
func setsDelimiter(path string) (bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	var keys struct {
		Delimiter *string `yaml:"delimiter"`
	}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return false, err
	}
	return keys.Delimiter != nil, nil
}

// Path returns the default config file location.
func Path() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "zphrase", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "zphrase.yaml"
	}
	return filepath.Join(home, ".config", "zphrase", "config.yaml")
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Words < 1 {
		errs = append(errs, fmt.Errorf("words must be at least 1, got %d", c.Words))
	}
	if strings.TrimSpace(c.Wordlist) == "" {
		errs = append(errs, errors.New("wordlist path is required"))
	}
	if c.Pwned.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("pwned timeout must be positive, got %s", c.Pwned.Timeout))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
