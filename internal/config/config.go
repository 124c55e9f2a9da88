// Package config provides configuration loading and validation for the
// feedback editor service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Generation modes.
const (
	GenerationRemote = "remote" // AI content comes from the backend
	GenerationLocal  = "local"  // AI content comes from Gemini directly
)

// Config represents the service configuration, loaded from a JSON or YAML
// file and completed from the environment. All fields are optional; missing
// values use defaults.
type Config struct {
	// Server
	Port           int      `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty" validate:"omitempty,dive,required"`
	RateLimit      float64  `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty" validate:"omitempty,gt=0"` // Requests per second per client
	RateBurst      int      `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty" validate:"omitempty,min=1"`

	// Backend
	BackendURL   string `json:"backend_url,omitempty" yaml:"backend_url,omitempty" validate:"omitempty,url"`
	BackendToken string `json:"backend_token,omitempty" yaml:"backend_token,omitempty"`

	// Persistence
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath  string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`   // Local snapshot database

	// Generation
	APIKey         string   `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key
	GenerationMode string   `json:"generation_mode,omitempty" yaml:"generation_mode,omitempty" validate:"omitempty,oneof=remote local"`
	AutosaveDelay  Duration `json:"autosave_delay,omitempty" yaml:"autosave_delay,omitempty"`
	ChromeTimeout  Duration `json:"chrome_timeout,omitempty" yaml:"chrome_timeout,omitempty"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the values used for anything left unset.
func Defaults() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"*"},
		RateLimit:      10,
		RateBurst:      20,
		GenerationMode: GenerationRemote,
		AutosaveDelay:  Duration(3 * time.Second),
		ChromeTimeout:  Duration(30 * time.Second),
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables. Callers load
// .env files beforehand.
func FromEnv() (Config, error) {
	cfg := Config{
		BackendURL:     os.Getenv("BACKEND_URL"),
		BackendToken:   os.Getenv("BACKEND_TOKEN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     os.Getenv("SQLITE_PATH"),
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		GenerationMode: os.Getenv("GENERATION_MODE"),
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("AUTOSAVE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid AUTOSAVE_DELAY: %v", err)
		}
		cfg.AutosaveDelay = Duration(d)
	}
	return cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed on the '%s' rule", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.DatabaseURL != "" && c.SQLitePath != "" {
		return fmt.Errorf("config error: 'database_url' and 'sqlite_path' are mutually exclusive")
	}
	if c.AutosaveDelay != 0 && (c.AutosaveDelay.Std() < time.Second || c.AutosaveDelay.Std() > time.Minute) {
		return fmt.Errorf("config error: 'autosave_delay' must be between 1s and 1m, got %s", c.AutosaveDelay.Std())
	}
	if c.ChromeTimeout < 0 {
		return fmt.Errorf("config error: 'chrome_timeout' must be non-negative")
	}
	if c.GenerationMode == GenerationLocal && c.APIKey == "" {
		return fmt.Errorf("config error: 'api_key' is required when generation_mode is local")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.BackendToken == "" {
		result.BackendToken = defaults.BackendToken
	}
	if result.DatabaseURL == "" && result.SQLitePath == "" {
		result.DatabaseURL = defaults.DatabaseURL
		result.SQLitePath = defaults.SQLitePath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GenerationMode == "" {
		result.GenerationMode = defaults.GenerationMode
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.RateBurst == 0 {
		result.RateBurst = defaults.RateBurst
	}
	if result.AutosaveDelay == 0 {
		result.AutosaveDelay = defaults.AutosaveDelay
	}
	if result.ChromeTimeout == 0 {
		result.ChromeTimeout = defaults.ChromeTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load reads the optional config file, fills gaps from the environment and
// then from Defaults, and validates the result.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = *loaded
	}

	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.MergeWithDefaults(env)
	cfg = cfg.MergeWithDefaults(Defaults())

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
