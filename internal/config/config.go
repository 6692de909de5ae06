// Package config parses botctl.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "botctl.toml"

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// Poll interval bounds, in seconds.
const (
	MinPollIntervalSeconds = 5
	MaxPollIntervalSeconds = 10
)

// Environment overrides applied after the TOML decode.
const (
	EnvBackendURL = "BOTCTL_BACKEND_URL"
	EnvLogLevel   = "BOTCTL_LOG_LEVEL"
	EnvListen     = "BOTCTL_LISTEN"
)

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "warning": true, "error": true,
}

// Config is the top-level botctl.toml configuration.
type Config struct {
	Project       ProjectConfig       `toml:"project"`
	Backend       BackendConfig       `toml:"backend"`
	Server        ServerConfig        `toml:"server"`
	Log           LogConfig           `toml:"log"`
	TUI           TUIConfig           `toml:"tui"`
	Notifications NotificationsConfig `toml:"notifications"`
	Journal       JournalConfig       `toml:"journal"`

	// Path is the file the config was read from; empty for pure defaults.
	Path string `toml:"-"`
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `toml:"name"`
}

// BackendConfig points the control client at the bot backend.
type BackendConfig struct {
	URL                   string `toml:"url"`
	PollIntervalSeconds   int    `toml:"poll_interval_seconds"`
	ConfirmDelaySeconds   int    `toml:"confirm_delay_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// PollInterval returns the status poll period.
func (b BackendConfig) PollInterval() time.Duration {
	return time.Duration(b.PollIntervalSeconds) * time.Second
}

// ConfirmDelay returns the wait before the poll that confirms a transition.
func (b BackendConfig) ConfirmDelay() time.Duration {
	return time.Duration(b.ConfirmDelaySeconds) * time.Second
}

// RequestTimeout returns the per-request HTTP timeout.
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSeconds) * time.Second
}

// ServerConfig controls `botctl serve`: the supervised bot command and the
// HTTP listener that exposes it.
type ServerConfig struct {
	Listen             string   `toml:"listen"`
	Command            []string `toml:"command"`
	Dir                string   `toml:"dir"`
	StopTimeoutSeconds int      `toml:"stop_timeout_seconds"`
	StartSettleMillis  int      `toml:"start_settle_millis"`
}

// StopTimeout returns how long a stop waits for SIGTERM before SIGKILL.
func (s ServerConfig) StopTimeout() time.Duration {
	return time.Duration(s.StopTimeoutSeconds) * time.Second
}

// StartSettle returns how long a start waits before checking the child is alive.
func (s ServerConfig) StartSettle() time.Duration {
	return time.Duration(s.StartSettleMillis) * time.Millisecond
}

// LogConfig controls logging and log file rotation.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"` // empty = console only
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications.
type NotificationsConfig struct {
	URL       string `toml:"url"`
	OnSuccess bool   `toml:"on_success"`
	OnError   bool   `toml:"on_error"`
}

// JournalConfig controls the per-session activity journal.
type JournalConfig struct {
	Dir       string `toml:"dir"`
	Retention int    `toml:"retention"` // number of session journals to keep; 0 = unlimited
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if !isHTTPURL(c.Backend.URL) {
		errs = append(errs, fmt.Errorf("backend.url must be a valid http or https URL"))
	}
	if p := c.Backend.PollIntervalSeconds; p < MinPollIntervalSeconds || p > MaxPollIntervalSeconds {
		errs = append(errs, fmt.Errorf("backend.poll_interval_seconds must be between %d and %d", MinPollIntervalSeconds, MaxPollIntervalSeconds))
	}
	if c.Backend.ConfirmDelaySeconds < 1 {
		errs = append(errs, fmt.Errorf("backend.confirm_delay_seconds must be >= 1"))
	}
	if c.Backend.RequestTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("backend.request_timeout_seconds must be >= 1"))
	}

	if c.Server.Listen == "" {
		errs = append(errs, fmt.Errorf("server.listen must not be empty"))
	}
	if len(c.Server.Command) == 0 || strings.TrimSpace(c.Server.Command[0]) == "" {
		errs = append(errs, fmt.Errorf("server.command must name the bot executable"))
	}
	if c.Server.StopTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("server.stop_timeout_seconds must be >= 1"))
	}
	if c.Server.StopTimeoutSeconds >= 1 && c.Backend.RequestTimeoutSeconds >= 1 &&
		c.Server.StopTimeoutSeconds >= c.Backend.RequestTimeoutSeconds {
		errs = append(errs, fmt.Errorf("server.stop_timeout_seconds (%d) must be less than backend.request_timeout_seconds (%d)",
			c.Server.StopTimeoutSeconds, c.Backend.RequestTimeoutSeconds))
	}
	if c.Server.StartSettleMillis < 0 {
		errs = append(errs, fmt.Errorf("server.start_settle_millis must be >= 0"))
	}

	if !logLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level must be one of trace, debug, info, warn, error"))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("log.max_size_mb, log.max_backups and log.max_age_days must be >= 0"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}

	if c.Notifications.URL != "" && !isHTTPURL(c.Notifications.URL) {
		errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
	}

	if c.Journal.Dir == "" {
		errs = append(errs, fmt.Errorf("journal.dir must not be empty"))
	}
	if c.Journal.Retention < 0 {
		errs = append(errs, fmt.Errorf("journal.retention must be >= 0 (0 = unlimited)"))
	}

	return errors.Join(errs...)
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Defaults returns a Config with the stock settings:
// a local backend on port 5000 polled every five seconds.
func Defaults() Config {
	return Config{
		Backend: BackendConfig{
			URL:                   "http://127.0.0.1:5000",
			PollIntervalSeconds:   5,
			ConfirmDelaySeconds:   2,
			RequestTimeoutSeconds: 10,
		},
		Server: ServerConfig{
			Listen:             "127.0.0.1:5000",
			Command:            []string{"python3", "bot.py"},
			StopTimeoutSeconds: 5,
			StartSettleMillis:  300,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
		Notifications: NotificationsConfig{
			OnSuccess: false,
			OnError:   true,
		},
		Journal: JournalConfig{
			Dir:       filepath.Join(".botctl", "journal"),
			Retention: 20,
		},
	}
}

// Load reads botctl.toml from the given path. If path is empty, it walks up
// from the current working directory looking for botctl.toml and falls back
// to Defaults when none exists. A .env file next to the config (or in the
// working directory) is loaded first; environment overrides apply after the
// TOML decode. Returns an error if the file contains unknown keys (likely
// typos) or fails validation.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		found, err := findConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
		}
		cfg.Path = path
		root = filepath.Dir(path)
	}

	if err := loadDotEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)

	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", displayPath(path), err)
	}
	return &cfg, nil
}

// loadDotEnv loads a .env file into the process environment. Variables that
// are already set win; a missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBackendURL); ok && v != "" {
		c.Backend.URL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		c.Server.Listen = v
	}
}

func displayPath(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig walks up from the current directory looking for botctl.toml.
// The returned error wraps fs.ErrNotExist when no file is found.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config: %s not found (searched up from %s): %w", FileName, dir, fs.ErrNotExist)
		}
		dir = parent
	}
}

// InitFile writes a default botctl.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	if err := os.WriteFile(path, []byte(template), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

const template = `# botctl.toml: trading bot control configuration
# Place this file in the root of your bot project.

[project]
name = ""

[backend]
url = "http://127.0.0.1:5000"
poll_interval_seconds = 5    # 5..10
confirm_delay_seconds = 2    # re-check status this long after a start/stop
request_timeout_seconds = 10

[server]
listen = "127.0.0.1:5000"
command = ["python3", "bot.py"]  # argv of the bot process run by ` + "`botctl serve`" + `
dir = ""                         # working directory; empty = current
stop_timeout_seconds = 5         # SIGTERM grace before SIGKILL; below request_timeout_seconds
start_settle_millis = 300        # a child that exits within this window failed to start

[log]
level = "info"
file = ""          # rotating log file; empty = console only
max_size_mb = 10
max_backups = 3
max_age_days = 28
compress = false

[tui]
accent_color = "#7D56F4"

[notifications]
url = ""           # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_success = false # notify when a start/stop succeeds
on_error = true    # notify when a start/stop fails

[journal]
dir = ".botctl/journal"
retention = 20     # number of session journals to keep; 0 = unlimited
`
