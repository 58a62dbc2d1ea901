// Package config loads and validates the presskit configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	WordPress WordPressConfig `yaml:"wordpress"`
	Site      SiteConfig      `yaml:"site"`
	Cache     CacheConfig     `yaml:"cache"`
	Server    ServerConfig    `yaml:"server"`
	Warm      WarmConfig      `yaml:"warm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WordPressConfig describes the upstream WordPress REST API.
type WordPressConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	PerPage int           `yaml:"per_page,omitempty"`
	Retry   RetryConfig   `yaml:"retry,omitempty"`
}

// RetryConfig tunes backoff for transient upstream failures.
type RetryConfig struct {
	Mode       string        `yaml:"mode,omitempty"` // fixed|linear|exponential
	Initial    time.Duration `yaml:"initial,omitempty"`
	Max        time.Duration `yaml:"max,omitempty"`
	MaxRetries int           `yaml:"max_retries"`
}

// SiteConfig holds presentation settings for the rendered site.
type SiteConfig struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description,omitempty"`
	Menu        []MenuEntry `yaml:"menu,omitempty"`
	PostTypes   []PostType  `yaml:"post_types,omitempty"`
}

// MenuEntry is a single navigation link.
type MenuEntry struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// PostType declares a custom post type exposed by the WordPress instance.
type PostType struct {
	Slug     string `yaml:"slug"`                // route segment, e.g. "projects"
	RestBase string `yaml:"rest_base,omitempty"` // REST collection name; defaults to Slug
	Label    string `yaml:"label,omitempty"`     // heading text; defaults to title-cased Slug
}

// CacheConfig tunes the in-memory session cache.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl,omitempty"`
	MaxEntries int           `yaml:"max_entries,omitempty"`
}

// ServerConfig holds listen ports for the site and admin servers.
type ServerConfig struct {
	SitePort  int `yaml:"site_port,omitempty"`
	AdminPort int `yaml:"admin_port,omitempty"`
}

// WarmConfig controls scheduled cache warming.
type WarmConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug|info|warn|error
}

// Load loads configuration from the specified file. Environment variables
// referenced as ${VAR} in the YAML are expanded; a .env file, when present,
// is loaded first without overriding the process environment.
func Load(configPath string) (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	return os.WriteFile(configPath, []byte(exampleConfig), 0o644)
}

const exampleConfig = `# presskit configuration
wordpress:
  base_url: https://example.com
  timeout: 15s
  per_page: 10
  retry:
    mode: linear
    initial: 500ms
    max: 5s
    max_retries: 2

site:
  title: Example Site
  description: A headless WordPress front-end
  menu:
    - label: Home
      url: /
    - label: Blog
      url: /posts
  post_types:
    - slug: projects
      rest_base: project
      label: Projects

cache:
  ttl: 5m
  max_entries: 512

server:
  site_port: 8080
  admin_port: 9090

warm:
  enabled: false
  interval: 10m

logging:
  level: info
`
