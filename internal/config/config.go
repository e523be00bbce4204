// Package config loads the service configuration from YAML or TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/compliance-go/internal/logging"
	"github.com/ukaji3/compliance-go/pkg/compliance"
)

// Config holds all compliance service configuration.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Source SourceConfig `yaml:"source" toml:"source"`
	Cache  CacheConfig  `yaml:"cache" toml:"cache"`
	Log    LogConfig    `yaml:"log" toml:"log"`

	// Parse holds layout, rules and the first sheet index.
	Parse compliance.Options `yaml:"parse" toml:"parse"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr" toml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
	DevMode        bool     `yaml:"dev_mode" toml:"dev_mode"`
	// MaxUploadMB caps uploaded and fetched workbooks.
	MaxUploadMB int `yaml:"max_upload_mb" toml:"max_upload_mb"`
}

// SourceConfig configures where workbooks come from.
type SourceConfig struct {
	// SheetURL is a Google Sheets link used by refresh requests without a URL.
	SheetURL string `yaml:"sheet_url" toml:"sheet_url"`
	// WatchFile is re-parsed whenever it changes.
	WatchFile string `yaml:"watch_file" toml:"watch_file"`
	// Debounce delays reloads after the last change.
	Debounce string `yaml:"debounce" toml:"debounce"`
	// FetchTimeout bounds one remote fetch.
	FetchTimeout string `yaml:"fetch_timeout" toml:"fetch_timeout"`
}

// CacheConfig configures the parse cache.
type CacheConfig struct {
	TTL             string `yaml:"ttl" toml:"ttl"`
	CleanupInterval string `yaml:"cleanup_interval" toml:"cleanup_interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxUploadMB:    10,
		},
		Source: SourceConfig{
			Debounce:     "500ms",
			FetchTimeout: "30s",
		},
		Cache: CacheConfig{
			TTL:             "1h",
			CleanupInterval: "2h",
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
		Parse: compliance.DefaultOptions(),
	}
}

// Load loads configuration from path. The format follows the extension:
// .toml is TOML, anything else YAML. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := unmarshal(path, data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration to path in the format its extension names.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := marshal(path, c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func marshal(path string, cfg *Config) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(cfg)
	}
	return yaml.Marshal(cfg)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("COMPLIANCE_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if url := os.Getenv("COMPLIANCE_SHEET_URL"); url != "" {
		c.Source.SheetURL = url
	}
	if level := os.Getenv("COMPLIANCE_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if path := os.Getenv("COMPLIANCE_WATCH"); path != "" {
		c.Source.WatchFile = path
	}
	if mb := os.Getenv("COMPLIANCE_MAX_UPLOAD_MB"); mb != "" {
		if n, err := strconv.Atoi(mb); err == nil {
			c.Server.MaxUploadMB = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	for name, s := range map[string]string{
		"source.debounce":        c.Source.Debounce,
		"source.fetch_timeout":   c.Source.FetchTimeout,
		"cache.ttl":              c.Cache.TTL,
		"cache.cleanup_interval": c.Cache.CleanupInterval,
	} {
		if s == "" {
			continue
		}
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if err := c.Parse.Validate(); err != nil {
		return fmt.Errorf("invalid parse options: %w", err)
	}
	return nil
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	return parseDuration(c.Source.Debounce, 500*time.Millisecond)
}

// GetFetchTimeout returns the remote fetch timeout as a duration.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDuration(c.Source.FetchTimeout, 30*time.Second)
}

// GetCacheTTL returns the parse cache TTL as a duration.
func (c *Config) GetCacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, time.Hour)
}

// GetCacheCleanupInterval returns the parse cache cleanup interval.
// Zero disables the cleanup goroutine.
func (c *Config) GetCacheCleanupInterval() time.Duration {
	return parseDuration(c.Cache.CleanupInterval, 0)
}

// MaxUploadBytes returns the workbook size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
