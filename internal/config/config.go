package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/chat-launcher/internal/app"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Sources Sources
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string `yaml:"log_file"`
	Trace    bool   `yaml:"trace"`
}

// Sources records which optional files fed the configuration.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

const (
	CommandRun      = app.CommandRun
	CommandSettings = app.CommandSettings

	DefaultBackendURL = "http://127.0.0.1:7777"
)

const (
	envBackendURL     = "CHAT_LAUNCHER_BACKEND_URL"
	envEventsURL      = "CHAT_LAUNCHER_EVENTS_URL"
	envToken          = "CHAT_LAUNCHER_TOKEN"
	envSubmitTimeout  = "CHAT_LAUNCHER_SUBMIT_TIMEOUT"
	envFocusDelay     = "CHAT_LAUNCHER_FOCUS_DELAY"
	envErrorDuration  = "CHAT_LAUNCHER_ERROR_DURATION"
	envCommandTimeout = "CHAT_LAUNCHER_COMMAND_TIMEOUT"
	envHistorySize    = "CHAT_LAUNCHER_HISTORY_SIZE"
	envWidth          = "CHAT_LAUNCHER_WIDTH"
	envHeight         = "CHAT_LAUNCHER_HEIGHT"
	envShowFooter     = "CHAT_LAUNCHER_FOOTER"
	envTrace          = "CHAT_LAUNCHER_TRACE"
	envLogFile        = "CHAT_LAUNCHER_LOG_FILE"
	envSocketPath     = "CHAT_LAUNCHER_TMUX_SOCKET"
	envConfigFile     = "CHAT_LAUNCHER_CONFIG"
	envEnvFile        = "CHAT_LAUNCHER_ENV_FILE"
)

// fileConfig is the YAML layout accepted by --config.
type fileConfig struct {
	BackendURL     string        `yaml:"backend_url"`
	EventsURL      string        `yaml:"events_url"`
	Token          string        `yaml:"token"`
	SubmitTimeout  time.Duration `yaml:"submit_timeout"`
	FocusDelay     time.Duration `yaml:"focus_delay"`
	ErrorDuration  time.Duration `yaml:"error_duration"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	HistorySize    int           `yaml:"history_size"`
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	Footer         bool          `yaml:"footer"`
	TmuxSocket     string        `yaml:"tmux_socket"`
	Logging        Logging       `yaml:"logging"`
}

func defaults() fileConfig {
	return fileConfig{
		BackendURL:     DefaultBackendURL,
		SubmitTimeout:  10 * time.Second,
		FocusDelay:     100 * time.Millisecond,
		ErrorDuration:  2500 * time.Millisecond,
		CommandTimeout: 5 * time.Second,
		HistorySize:    100,
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence from
// lowest to highest: defaults, the YAML file, the .env file, the environment,
// flags.
func LoadArgs(args []string, environ []string) (Config, error) {
	command := CommandRun
	rest := args
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		switch rest[0] {
		case CommandRun, CommandSettings:
			command = rest[0]
			rest = rest[1:]
		default:
			return Config{}, fmt.Errorf("unknown command %q (want %q or %q)", rest[0], CommandRun, CommandSettings)
		}
	}

	env := parseEnv(environ)
	sources := Sources{
		ConfigFile: flagValue(rest, "config", envOrDefault(env, envConfigFile, "")),
		EnvFile:    flagValue(rest, "env-file", envOrDefault(env, envEnvFile, "")),
	}
	if sources.EnvFile != "" {
		if err := mergeDotEnv(env, sources.EnvFile); err != nil {
			return Config{}, err
		}
	}
	base := defaults()
	if sources.ConfigFile != "" {
		if err := loadFile(sources.ConfigFile, env, &base); err != nil {
			return Config{}, err
		}
	}

	fs := flag.NewFlagSet("chat-launcher", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", sources.ConfigFile, "path to a YAML config file")
	fs.String("env-file", sources.EnvFile, "path to a .env file merged under the environment")
	backendURL := fs.String("backend", envOrDefault(env, envBackendURL, base.BackendURL), "base URL of the backend command endpoint")
	eventsURL := fs.String("events", envOrDefault(env, envEventsURL, base.EventsURL), "websocket URL of the backend event bus (derived from -backend when empty)")
	token := fs.String("token", envOrDefault(env, envToken, base.Token), "bearer token sent with backend requests")
	submitTimeout := fs.Duration("submit-timeout", envOrDuration(env, envSubmitTimeout, base.SubmitTimeout), "how long a submission may take before it is restored")
	focusDelay := fs.Duration("focus-delay", envOrDuration(env, envFocusDelay, base.FocusDelay), "debounce before refocusing the input")
	errorDuration := fs.Duration("error-duration", envOrDuration(env, envErrorDuration, base.ErrorDuration), "how long a delivery error stays visible")
	commandTimeout := fs.Duration("command-timeout", envOrDuration(env, envCommandTimeout, base.CommandTimeout), "deadline for settings and show/hide commands")
	historySize := fs.Int("history", envOrInt(env, envHistorySize, base.HistorySize), "number of submitted messages kept for recall")
	width := fs.Int("width", envOrInt(env, envWidth, base.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, base.Height), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, base.Footer), "enable footer key hints")
	trace := fs.Bool("trace", envOrBool(env, envTrace, base.Logging.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, base.Logging.FilePath), "path to the log file")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, base.TmuxSocket), "path to the tmux socket used to name the launching client")

	if err := fs.Parse(rest); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	events := strings.TrimSpace(*eventsURL)
	if events == "" {
		derived, err := DeriveEventsURL(*backendURL)
		if err != nil {
			return Config{}, err
		}
		events = derived
	}

	cfg := Config{
		App: app.Config{
			Command:        command,
			BackendURL:     strings.TrimSpace(*backendURL),
			EventsURL:      events,
			Token:          *token,
			SubmitTimeout:  *submitTimeout,
			FocusDelay:     *focusDelay,
			ErrorDuration:  *errorDuration,
			CommandTimeout: *commandTimeout,
			HistorySize:    *historySize,
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
			SocketPath:     *socket,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Sources: sources,
		Flags: map[string]string{
			"command":        command,
			"backend":        *backendURL,
			"events":         events,
			"submitTimeout":  submitTimeout.String(),
			"focusDelay":     focusDelay.String(),
			"errorDuration":  errorDuration.String(),
			"commandTimeout": commandTimeout.String(),
			"history":        strconv.Itoa(*historySize),
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"trace":          strconv.FormatBool(*trace),
			"logFile":        *logFile,
			"socket":         *socket,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// DeriveEventsURL maps the backend command URL onto its websocket endpoint:
// http becomes ws, https becomes wss, and /events is appended to the path.
func DeriveEventsURL(backendURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(backendURL))
	if err != nil {
		return "", fmt.Errorf("backend url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("backend url %q: scheme must be http or https", backendURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/events"
	return u.String(), nil
}

func loadFile(path string, env map[string]string, into *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	expanded := os.Expand(string(data), func(key string) string { return env[key] })
	if err := yaml.Unmarshal([]byte(expanded), into); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// mergeDotEnv adds entries from path that the real environment does not set.
// A missing file is ignored.
func mergeDotEnv(env map[string]string, path string) error {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	for k, v := range values {
		if _, ok := env[k]; !ok {
			env[k] = v
		}
	}
	return nil
}

// flagValue finds -name/--name in args ahead of the real parse.
func flagValue(args []string, name, fallback string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == arg || len(arg)-len(trimmed) > 2 {
			continue
		}
		if trimmed == name {
			if i+1 < len(args) {
				return args[i+1]
			}
			return fallback
		}
		if strings.HasPrefix(trimmed, name+"=") {
			return strings.TrimPrefix(trimmed, name+"=")
		}
	}
	return fallback
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	a := cfg.App
	if err := checkURL("backend", a.BackendURL, "http", "https"); err != nil {
		return err
	}
	if err := checkURL("events", a.EventsURL, "ws", "wss"); err != nil {
		return err
	}
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"submit-timeout", a.SubmitTimeout},
		{"focus-delay", a.FocusDelay},
		{"error-duration", a.ErrorDuration},
		{"command-timeout", a.CommandTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive (got %s)", d.name, d.value)
		}
	}
	if a.HistorySize < 0 {
		return fmt.Errorf("history must be >= 0 (got %d)", a.HistorySize)
	}
	return nil
}

func checkURL(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s url: %w", name, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s url %q: want %s with a host", name, raw, strings.Join(schemes, " or "))
}
