package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override (DSAVIEW_BACKEND_URL, ...)
	EnvPrefix = "DSAVIEW"

	configName = "config"
	configType = "toml"
)

// Sequencing policies for overlapping search/filter responses
const (
	SequencingLatest  = "latest"
	SequencingArrival = "arrival"
)

// AI drivers
const (
	DriverService = "service"
	DriverOpenAI  = "openai"
)

// Config represents the application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend" toml:"backend"`
	AI      AIConfig      `mapstructure:"ai" toml:"ai"`
	UI      UISettings    `mapstructure:"ui" toml:"ui"`
	HTTP    HTTPConfig    `mapstructure:"http" toml:"http"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging"`
}

// BackendConfig points at the search/file service
type BackendConfig struct {
	URL string `mapstructure:"url" toml:"url"`
}

// AIConfig selects and configures the explanation backend
type AIConfig struct {
	Driver  string `mapstructure:"driver" toml:"driver"`             // service or openai
	URL     string `mapstructure:"url" toml:"url"`                   // explanation service base URL
	APIKey  string `mapstructure:"api_key" toml:"api_key,omitempty"` // openai driver only
	BaseURL string `mapstructure:"base_url" toml:"base_url,omitempty"`
	Model   string `mapstructure:"model" toml:"model"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	DebounceMS        int    `mapstructure:"debounce_ms" toml:"debounce_ms"`
	MinQueryLength    int    `mapstructure:"min_query_length" toml:"min_query_length"`
	NotificationTTLMS int    `mapstructure:"notification_ttl_ms" toml:"notification_ttl_ms"`
	Sequencing        string `mapstructure:"sequencing" toml:"sequencing"`
	AltScreen         bool   `mapstructure:"alt_screen" toml:"alt_screen"`
}

// HTTPConfig holds outbound HTTP settings
type HTTPConfig struct {
	TimeoutSec int `mapstructure:"timeout_sec" toml:"timeout_sec"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	File   string `mapstructure:"file" toml:"file"`
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{URL: "http://localhost:8000"},
		AI: AIConfig{
			Driver: DriverService,
			URL:    "http://127.0.0.1:5000",
			Model:  "gpt-4o-mini",
		},
		UI: UISettings{
			DebounceMS:        500,
			MinQueryLength:    2,
			NotificationTTLMS: 3000,
			Sequencing:        SequencingLatest,
			AltScreen:         true,
		},
		HTTP:    HTTPConfig{TimeoutSec: 30},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// DefaultDir returns the directory holding config.toml and preferences.toml
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ".dsaview"
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "dsaview")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(DefaultDir(), configName+"."+configType)
}

// SetDefaults registers every key with viper so env overrides resolve
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("ai.driver", d.AI.Driver)
	v.SetDefault("ai.url", d.AI.URL)
	v.SetDefault("ai.api_key", d.AI.APIKey)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ui.debounce_ms", d.UI.DebounceMS)
	v.SetDefault("ui.min_query_length", d.UI.MinQueryLength)
	v.SetDefault("ui.notification_ttl_ms", d.UI.NotificationTTLMS)
	v.SetDefault("ui.sequencing", d.UI.Sequencing)
	v.SetDefault("ui.alt_screen", d.UI.AltScreen)
	v.SetDefault("http.timeout_sec", d.HTTP.TimeoutSec)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads configuration through viper. An explicit path must exist;
// the default location is optional.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(DefaultDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	c.AI.URL = strings.TrimRight(strings.TrimSpace(c.AI.URL), "/")
	c.AI.Driver = strings.ToLower(strings.TrimSpace(c.AI.Driver))
	c.UI.Sequencing = strings.ToLower(strings.TrimSpace(c.UI.Sequencing))
}

// Validate checks the configuration for correctness
func (c *Config) Validate() error {
	if err := validateURL("backend.url", c.Backend.URL); err != nil {
		return err
	}
	switch c.AI.Driver {
	case DriverService:
		if err := validateURL("ai.url", c.AI.URL); err != nil {
			return err
		}
	case DriverOpenAI:
		if c.AI.Model == "" {
			return fmt.Errorf("ai.model is required for the openai driver")
		}
		if c.AI.BaseURL != "" {
			if err := validateURL("ai.base_url", c.AI.BaseURL); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("ai.driver must be %q or %q, got %q", DriverService, DriverOpenAI, c.AI.Driver)
	}
	if c.UI.DebounceMS <= 0 {
		return fmt.Errorf("ui.debounce_ms must be > 0 (got %d)", c.UI.DebounceMS)
	}
	if c.UI.MinQueryLength < 1 {
		return fmt.Errorf("ui.min_query_length must be >= 1 (got %d)", c.UI.MinQueryLength)
	}
	if c.UI.NotificationTTLMS <= 0 {
		return fmt.Errorf("ui.notification_ttl_ms must be > 0 (got %d)", c.UI.NotificationTTLMS)
	}
	switch c.UI.Sequencing {
	case SequencingLatest, SequencingArrival:
	default:
		return fmt.Errorf("ui.sequencing must be %q or %q, got %q", SequencingLatest, SequencingArrival, c.UI.Sequencing)
	}
	if c.HTTP.TimeoutSec <= 0 {
		return fmt.Errorf("http.timeout_sec must be > 0 (got %d)", c.HTTP.TimeoutSec)
	}
	return nil
}

func validateURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", key, raw)
	}
	return nil
}

// Debounce returns the search quiescence window
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMS) * time.Millisecond
}

// NotificationTTL returns the default notification lifetime
func (c *Config) NotificationTTL() time.Duration {
	return time.Duration(c.UI.NotificationTTLMS) * time.Millisecond
}

// Timeout returns the per-request HTTP timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSec) * time.Second
}

// SaveToPath writes the configuration as TOML to a specific path on fs
func SaveToPath(fs afero.Fs, cfg *Config, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as TOML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
