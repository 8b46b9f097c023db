package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, CommandRun, cfg.App.Command)
	assert.Equal(t, DefaultBackendURL, cfg.App.BackendURL)
	assert.Equal(t, "ws://127.0.0.1:7777/events", cfg.App.EventsURL)
	assert.Equal(t, 10*time.Second, cfg.App.SubmitTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.App.FocusDelay)
	assert.Equal(t, 2500*time.Millisecond, cfg.App.ErrorDuration)
	assert.Equal(t, 5*time.Second, cfg.App.CommandTimeout)
	assert.Equal(t, 100, cfg.App.HistorySize)
	assert.False(t, cfg.Logging.Trace)
	assert.NoError(t, Validate(cfg))
}

func TestLoadArgsSubcommand(t *testing.T) {
	cfg, err := LoadArgs([]string{"settings", "-backend", "https://example.test/api"}, nil)
	require.NoError(t, err)
	assert.Equal(t, CommandSettings, cfg.App.Command)
	assert.Equal(t, "wss://example.test/api/events", cfg.App.EventsURL)
	assert.Equal(t, "settings", cfg.Flags["command"])

	_, err = LoadArgs([]string{"launch"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestLoadArgsRejectsTrailingArguments(t *testing.T) {
	_, err := LoadArgs([]string{"run", "-width", "40", "extra"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected arguments")
}

func TestLoadArgsEnvironmentFallbacks(t *testing.T) {
	env := []string{
		"CHAT_LAUNCHER_BACKEND_URL=http://10.0.0.2:9000",
		"CHAT_LAUNCHER_TOKEN=tok",
		"CHAT_LAUNCHER_SUBMIT_TIMEOUT=3s",
		"CHAT_LAUNCHER_HISTORY_SIZE=7",
		"CHAT_LAUNCHER_FOOTER=true",
		"CHAT_LAUNCHER_TRACE=1",
		"CHAT_LAUNCHER_WIDTH=not-a-number",
	}
	cfg, err := LoadArgs(nil, env)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.2:9000", cfg.App.BackendURL)
	assert.Equal(t, "ws://10.0.0.2:9000/events", cfg.App.EventsURL)
	assert.Equal(t, "tok", cfg.App.Token)
	assert.Equal(t, 3*time.Second, cfg.App.SubmitTimeout)
	assert.Equal(t, 7, cfg.App.HistorySize)
	assert.True(t, cfg.App.ShowFooter)
	assert.True(t, cfg.Logging.Trace)
	assert.Equal(t, 0, cfg.App.Width, "unparsable env values fall back")
}

func TestLoadArgsFlagsOverrideEnvironment(t *testing.T) {
	env := []string{"CHAT_LAUNCHER_SUBMIT_TIMEOUT=3s", "CHAT_LAUNCHER_EVENTS_URL=ws://bus.test/e"}
	cfg, err := LoadArgs([]string{"--submit-timeout", "1s", "--events=ws://other.test/e"}, env)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.App.SubmitTimeout)
	assert.Equal(t, "ws://other.test/e", cfg.App.EventsURL)
}

func TestLoadArgsConfigFileLayer(t *testing.T) {
	path := writeFile(t, "launcher.yaml", `
backend_url: https://backend.test
token: ${LAUNCHER_SECRET}
submit_timeout: 4s
focus_delay: 50ms
history_size: 12
footer: true
logging:
  log_file: /tmp/launcher.log
  trace: true
`)
	env := []string{
		"LAUNCHER_SECRET=from-env",
		"CHAT_LAUNCHER_HISTORY_SIZE=20",
	}
	cfg, err := LoadArgs([]string{"-config", path, "-focus-delay", "75ms"}, env)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Sources.ConfigFile)
	assert.Equal(t, "https://backend.test", cfg.App.BackendURL)
	assert.Equal(t, "wss://backend.test/events", cfg.App.EventsURL)
	assert.Equal(t, "from-env", cfg.App.Token)
	assert.Equal(t, 4*time.Second, cfg.App.SubmitTimeout)
	assert.Equal(t, 75*time.Millisecond, cfg.App.FocusDelay, "flag beats file")
	assert.Equal(t, 20, cfg.App.HistorySize, "env beats file")
	assert.True(t, cfg.App.ShowFooter)
	assert.Equal(t, "/tmp/launcher.log", cfg.Logging.FilePath)
	assert.True(t, cfg.Logging.Trace)
}

func TestLoadArgsConfigFileErrors(t *testing.T) {
	_, err := LoadArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")

	bad := writeFile(t, "bad.yaml", "submit_timeout: [1, 2]\n")
	_, err = LoadArgs([]string{"--config", bad}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadArgsEnvFileLayer(t *testing.T) {
	path := writeFile(t, ".env", "CHAT_LAUNCHER_TOKEN=dotenv\nCHAT_LAUNCHER_HISTORY_SIZE=3\n")
	env := []string{"CHAT_LAUNCHER_TOKEN=real"}

	cfg, err := LoadArgs([]string{"--env-file", path}, env)
	require.NoError(t, err)
	assert.Equal(t, "real", cfg.App.Token, "process environment wins over .env")
	assert.Equal(t, 3, cfg.App.HistorySize)
	assert.Equal(t, path, cfg.Sources.EnvFile)

	cfg, err = LoadArgs(nil, []string{"CHAT_LAUNCHER_ENV_FILE=" + filepath.Join(t.TempDir(), "absent.env")})
	require.NoError(t, err, "a missing .env file is ignored")
	assert.Equal(t, 100, cfg.App.HistorySize)
}

func TestLoadArgsRejectsNegativeDimensions(t *testing.T) {
	_, err := LoadArgs([]string{"-width", "-1"}, nil)
	require.Error(t, err)
	_, err = LoadArgs([]string{"-height", "-5"}, nil)
	require.Error(t, err)
}

func TestDeriveEventsURL(t *testing.T) {
	got, err := DeriveEventsURL("http://localhost:1234/")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:1234/events", got)

	_, err = DeriveEventsURL("ftp://localhost")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := LoadArgs(nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "zero submit timeout", mutate: func(c *Config) { c.App.SubmitTimeout = 0 }, want: "submit-timeout"},
		{name: "negative focus delay", mutate: func(c *Config) { c.App.FocusDelay = -time.Millisecond }, want: "focus-delay"},
		{name: "zero error duration", mutate: func(c *Config) { c.App.ErrorDuration = 0 }, want: "error-duration"},
		{name: "zero command timeout", mutate: func(c *Config) { c.App.CommandTimeout = 0 }, want: "command-timeout"},
		{name: "negative history", mutate: func(c *Config) { c.App.HistorySize = -1 }, want: "history"},
		{name: "backend without host", mutate: func(c *Config) { c.App.BackendURL = "http://" }, want: "backend url"},
		{name: "backend wrong scheme", mutate: func(c *Config) { c.App.BackendURL = "ws://x" }, want: "backend url"},
		{name: "events wrong scheme", mutate: func(c *Config) { c.App.EventsURL = "http://x/events" }, want: "events url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFlagValue(t *testing.T) {
	assert.Equal(t, "a.yaml", flagValue([]string{"-config", "a.yaml"}, "config", ""))
	assert.Equal(t, "b.yaml", flagValue([]string{"--config=b.yaml"}, "config", ""))
	assert.Equal(t, "fallback", flagValue([]string{"--", "-config", "c"}, "config", "fallback"))
	assert.Equal(t, "fallback", flagValue([]string{"-configx", "c"}, "config", "fallback"))
}
