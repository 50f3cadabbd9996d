package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/csheth/resumotube/internal/api"
	"github.com/csheth/resumotube/internal/session"
)

const envPrefix = "RESUMOTUBE_"

// Config aggregates the client's runtime settings.
type Config struct {
	APIBaseURL       string          `yaml:"apiBaseUrl"`
	DefaultProvider  string          `yaml:"defaultProvider"`
	RequestTimeout   time.Duration   `yaml:"requestTimeout"`
	SummarizeTimeout time.Duration   `yaml:"summarizeTimeout"`
	CopiedDisplay    time.Duration   `yaml:"copiedDisplay"`
	RateLimit        RateLimitConfig `yaml:"rateLimit"`
	HistoryPath      string          `yaml:"historyPath"`
	Log              LogConfig       `yaml:"log"`
}

// RateLimitConfig throttles /summarize on the client side. PerMinute <= 0
// disables the limiter.
type RateLimitConfig struct {
	PerMinute int `yaml:"perMinute"`
	Burst     int `yaml:"burst"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Options selects where Load looks for its inputs.
type Options struct {
	// Path to a YAML file. Empty falls back to RESUMOTUBE_CONFIG and then
	// to DefaultPath when that file exists.
	Path string
	// EnvFile is loaded with godotenv when present. Variables already set
	// in the environment win.
	EnvFile string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIBaseURL:       api.DefaultBaseURL,
		DefaultProvider:  string(api.DefaultProvider),
		RequestTimeout:   session.DefaultRequestTimeout,
		SummarizeTimeout: session.DefaultSummarizeTimeout,
		CopiedDisplay:    session.DefaultCopiedDisplay,
		RateLimit: RateLimitConfig{
			PerMinute: 10,
			Burst:     3,
		},
		HistoryPath: defaultDataFile("history.json"),
		Log: LogConfig{
			Level:      "info",
			File:       defaultDataFile("resumotube.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultPath is the config file used when nothing else is specified.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "resumotube", "config.yaml")
}

func defaultDataFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", name)
	}
	return filepath.Join(home, ".resumotube", name)
}

// Load layers defaults, the YAML file, the .env file and RESUMOTUBE_*
// environment variables, then validates the result.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "load %s", opts.EnvFile)
		}
	}

	path := opts.Path
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if fallback := DefaultPath(); fallback != "" {
		if _, err := os.Stat(fallback); err == nil {
			if err := hydrateFromFile(cfg, fallback); err != nil {
				return nil, err
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse config file")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.APIBaseURL = getEnv("API_BASE_URL", cfg.APIBaseURL)
	cfg.DefaultProvider = getEnv("PROVIDER", cfg.DefaultProvider)
	cfg.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.SummarizeTimeout = getEnvAsDuration("SUMMARIZE_TIMEOUT", cfg.SummarizeTimeout)
	cfg.CopiedDisplay = getEnvAsDuration("COPIED_DISPLAY", cfg.CopiedDisplay)
	cfg.RateLimit.PerMinute = getEnvAsInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimit.PerMinute)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.HistoryPath = getEnv("HISTORY_PATH", cfg.HistoryPath)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(envPrefix + key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          envPrefix + key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logrus.WithFields(logrus.Fields{
			"key":          envPrefix + key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

// Provider returns the validated default provider.
func (c *Config) Provider() api.Provider {
	provider, err := api.ParseProvider(c.DefaultProvider)
	if err != nil {
		return api.DefaultProvider
	}
	return provider
}

// Validate performs basic sanity checks.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("apiBaseUrl is required")
	}
	if _, err := api.ParseProvider(c.DefaultProvider); err != nil {
		return err
	}
	if c.RequestTimeout <= 0 {
		return errors.New("requestTimeout must be positive")
	}
	if c.SummarizeTimeout <= 0 {
		return errors.New("summarizeTimeout must be positive")
	}
	if c.CopiedDisplay <= 0 {
		return errors.New("copiedDisplay must be positive")
	}
	if c.RateLimit.PerMinute > 0 && c.RateLimit.Burst <= 0 {
		return errors.New("rateLimit.burst must be positive when the limiter is enabled")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}
