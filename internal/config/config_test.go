package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csheth/resumotube/internal/api"
	"github.com/csheth/resumotube/internal/session"
)

// isolate points every lookup at an empty temp dir so the developer's own
// config cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"CONFIG", "API_BASE_URL", "PROVIDER", "REQUEST_TIMEOUT", "SUMMARIZE_TIMEOUT",
		"COPIED_DISPLAY", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "HISTORY_PATH",
		"LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(envPrefix+key, "")
		os.Unsetenv(envPrefix + key)
	}
	return dir
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.Equal(t, api.DefaultBaseURL, cfg.APIBaseURL)
	require.Equal(t, api.ProviderGemini, cfg.Provider())
	require.Equal(t, session.DefaultRequestTimeout, cfg.RequestTimeout)
	require.Equal(t, session.DefaultSummarizeTimeout, cfg.SummarizeTimeout)
	require.Equal(t, session.DefaultCopiedDisplay, cfg.CopiedDisplay)
	require.Equal(t, RateLimitConfig{PerMinute: 10, Burst: 3}, cfg.RateLimit)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromYAML(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "custom.yaml"), `
apiBaseUrl: https://resumo.example.com/api
defaultProvider: openai
summarizeTimeout: 2m
rateLimit:
  perMinute: 0
log:
  level: debug
`)

	cfg, err := Load(Options{Path: path})
	require.NoError(t, err)
	require.Equal(t, "https://resumo.example.com/api", cfg.APIBaseURL)
	require.Equal(t, api.ProviderOpenAI, cfg.Provider())
	require.Equal(t, 2*time.Minute, cfg.SummarizeTimeout)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Zero(t, cfg.RateLimit.PerMinute)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadUsesDefaultPathWhenPresent(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "resumotube", "config.yaml"), "defaultProvider: openai\n")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.Equal(t, api.ProviderOpenAI, cfg.Provider())
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "c.yaml"), "apiBaseUrl: http://file/api\n")
	t.Setenv("RESUMOTUBE_CONFIG", path)
	t.Setenv("RESUMOTUBE_API_BASE_URL", "http://env/api")
	t.Setenv("RESUMOTUBE_REQUEST_TIMEOUT", "5s")
	t.Setenv("RESUMOTUBE_RATE_LIMIT_BURST", "7")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.Equal(t, "http://env/api", cfg.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 7, cfg.RateLimit.Burst)
}

func TestInvalidEnvValuesKeepDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("RESUMOTUBE_SUMMARIZE_TIMEOUT", "soon")
	t.Setenv("RESUMOTUBE_RATE_LIMIT_PER_MINUTE", "many")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, cfg.SummarizeTimeout)
	require.Equal(t, 10, cfg.RateLimit.PerMinute)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	envFile := writeFile(t, filepath.Join(dir, ".env"), "RESUMOTUBE_PROVIDER=openai\nRESUMOTUBE_LOG_LEVEL=warn\n")
	t.Setenv("RESUMOTUBE_LOG_LEVEL", "error")

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	require.Equal(t, api.ProviderOpenAI, cfg.Provider())
	require.Equal(t, "error", cfg.Log.Level, "process environment wins over .env")
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{EnvFile: filepath.Join(dir, "absent.env")})
	require.NoError(t, err)
}

func TestMissingExplicitFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{Path: filepath.Join(dir, "nope.yaml")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config file")
}

func TestMalformedYAMLFails(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "bad.yaml"), "apiBaseUrl: [unterminated\n")
	_, err := Load(Options{Path: path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty base url", func(c *Config) { c.APIBaseURL = " " }, "apiBaseUrl"},
		{"unknown provider", func(c *Config) { c.DefaultProvider = "claude" }, "unknown provider"},
		{"request timeout", func(c *Config) { c.RequestTimeout = 0 }, "requestTimeout"},
		{"summarize timeout", func(c *Config) { c.SummarizeTimeout = -time.Second }, "summarizeTimeout"},
		{"copied display", func(c *Config) { c.CopiedDisplay = 0 }, "copiedDisplay"},
		{"burst", func(c *Config) { c.RateLimit.Burst = 0 }, "rateLimit.burst"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
	require.NoError(t, Default().Validate())
}

func TestInvalidConfigIsWrapped(t *testing.T) {
	isolate(t)
	t.Setenv("RESUMOTUBE_PROVIDER", "claude")
	_, err := Load(Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid config")
}
