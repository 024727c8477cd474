// Package config loads the kbddocs YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/giellalt/kbddocs/internal/embed"
)

// Config represents the application configuration.
type Config struct {
	BundleRoot   string        `yaml:"bundle_root,omitempty"` // directory searched for *.kbdgen bundles
	Embed        EmbedConfig   `yaml:"embed,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
	Repositories []Repository  `yaml:"repositories,omitempty"` // keyboard repos for fetch mode
	Watch        WatchConfig   `yaml:"watch,omitempty"`
	History      HistoryConfig `yaml:"history,omitempty"`
	Events       EventsConfig  `yaml:"events,omitempty"`
}

// EmbedConfig configures the keyboard visualization service endpoint.
type EmbedConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

// OutputConfig controls where generated pages land.
type OutputConfig struct {
	DocsDir    string `yaml:"docs_dir,omitempty"`    // default "docs"
	RootMirror *bool  `yaml:"root_mirror,omitempty"` // maintain root-level layout.md, default true
}

// MirrorEnabled reports whether the root-level mirror is maintained.
func (o OutputConfig) MirrorEnabled() bool {
	return o.RootMirror == nil || *o.RootMirror
}

// Repository represents a keyboard definition repository to fetch.
type Repository struct {
	URL    string      `yaml:"url"`
	Name   string      `yaml:"name"`
	Branch string      `yaml:"branch,omitempty"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig represents git authentication configuration.
type AuthConfig struct {
	Type     string `yaml:"type"` // "ssh", "token", "basic"
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Token    string `yaml:"token,omitempty"`
	KeyPath  string `yaml:"key_path,omitempty"`
}

// WatchConfig controls watch mode behavior. Durations are Go duration
// strings ("750ms", "5s").
type WatchConfig struct {
	QuietWindow string `yaml:"quiet_window,omitempty"` // debounce quiet window, default 1s
	MaxDelay    string `yaml:"max_delay,omitempty"`    // regeneration cannot wait longer, default 10s
	Interval    string `yaml:"interval,omitempty"`     // periodic regeneration, empty disables
	Listen      string `yaml:"listen,omitempty"`       // health/metrics address, default :9321
}

// QuietWindowDuration returns the parsed quiet window.
func (w WatchConfig) QuietWindowDuration() (time.Duration, error) {
	return parseDuration(w.QuietWindow, "quiet_window")
}

// MaxDelayDuration returns the parsed max delay.
func (w WatchConfig) MaxDelayDuration() (time.Duration, error) {
	return parseDuration(w.MaxDelay, "max_delay")
}

// IntervalDuration returns the parsed periodic interval; zero means
// periodic regeneration is disabled.
func (w WatchConfig) IntervalDuration() (time.Duration, error) {
	if w.Interval == "" {
		return 0, nil
	}
	return parseDuration(w.Interval, "interval")
}

func parseDuration(value, field string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.%s %q: %w", field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.%s must be > 0", field)
	}
	return d, nil
}

// HistoryConfig controls the run history store.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"` // sqlite file, default kbddocs-history.db
}

// EventsConfig controls NATS event publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Stream  string `yaml:"stream,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file, expanding ${VAR}
// references after reading .env / .env.local when present.
func Load(configPath string) (*Config, error) {
	// Missing .env files are fine; only report real load failures.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", envPath, err)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default returns a configuration with defaults applied, used when no
// config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BundleRoot == "" {
		c.BundleRoot = "."
	}
	if c.Embed.BaseURL == "" {
		c.Embed.BaseURL = embed.DefaultBaseURL
	}
	if c.Output.DocsDir == "" {
		c.Output.DocsDir = "docs"
	}
	if c.Watch.QuietWindow == "" {
		c.Watch.QuietWindow = "1s"
	}
	if c.Watch.MaxDelay == "" {
		c.Watch.MaxDelay = "10s"
	}
	if c.Watch.Listen == "" {
		c.Watch.Listen = ":9321"
	}
	if c.History.Path == "" {
		c.History.Path = "kbddocs-history.db"
	}
	if c.Events.Enabled {
		if c.Events.Stream == "" {
			c.Events.Stream = "KBDDOCS"
		}
		if c.Events.Subject == "" {
			c.Events.Subject = "kbddocs.events"
		}
	}
	for i := range c.Repositories {
		if c.Repositories[i].Branch == "" {
			c.Repositories[i].Branch = "main"
		}
	}
}

// exampleConfig is the commented template written by Init. ${VAR}
// references are expanded from the environment at load time.
const exampleConfig = `# kbddocs configuration.
# ${VAR} values are expanded from the environment; .env and .env.local
# are loaded first when present.

# Directory searched for *.kbdgen bundles.
bundle_root: .

# Keyboard visualization service the generated iframes point at.
embed:
  base_url: https://keyboard.giellalt.org/embed

output:
  # Directory the layout page is written into.
  docs_dir: docs
  # Maintain an identical root-level layout.md next to the docs copy.
  root_mirror: true

# Keyboard repositories for the fetch command.
repositories:
  - url: https://github.com/giellalt/keyboard-sma.git
    name: keyboard-sma
    branch: main
  - url: https://github.com/giellalt/keyboard-sme.git
    name: keyboard-sme
    branch: main
    auth:
      type: token
      token: ${GITHUB_TOKEN}

watch:
  # Regenerate after this much quiet time following a change.
  quiet_window: 1s
  # A pending regeneration is never postponed longer than this.
  max_delay: 10s
  # Periodic regeneration; remove to disable.
  interval: 1h
  # Health and metrics listen address.
  listen: ":9321"

history:
  # SQLite file recording generation and lint runs.
  path: kbddocs-history.db

# NATS JetStream event publishing (optional).
events:
  enabled: false
  url: nats://localhost:4222
  stream: KBDDOCS
  subject: kbddocs.events
`

// Init creates a new configuration file with commented example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil { // #nosec G306 -- example config
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
