package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort                   = "8080"
	defaultLogLevel               = "info"
	defaultLogFormat              = "json"
	defaultSessionTTL             = 720 * time.Hour // 30 days
	defaultSessionCleanupInterval = 10 * time.Minute
)

var (
	ErrMissingDBConnection = errors.New("missing DB_CONNECTION_STRING in environment variables")
	ErrInvalidSessionTTL   = errors.New("SESSION_TTL must be greater than zero")
)

// Config holds application configuration
type Config struct {
	Port                   string        `yaml:"port"`
	DBConnectionString     string        `yaml:"db_connection_string"`
	LogLevel               string        `yaml:"log_level"`
	LogFormat              string        `yaml:"log_format"`
	SessionTTL             time.Duration `yaml:"session_ttl"`
	SessionCleanupInterval time.Duration `yaml:"session_cleanup_interval"`
	CookieSecure           bool          `yaml:"cookie_secure"`
	TemplatesDir           string        `yaml:"templates_dir"`
	RecurringSchedule      string        `yaml:"recurring_schedule"`
	TriggerSecret          string        `yaml:"trigger_secret"`

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool `yaml:"-"`
}

// Load reads the .env file (if any), the process environment and, when path is
// not empty, a YAML file whose values take precedence over the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not parse .env file: %w", err)
		}
	} else {
		cfg.EnvFileLoaded = true
	}

	var err error
	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DBConnectionString = getEnv("DB_CONNECTION_STRING", "")
	cfg.LogLevel = getEnv("LOG_LEVEL", defaultLogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", defaultLogFormat)
	cfg.TemplatesDir = getEnv("TEMPLATES_DIR", "")
	cfg.RecurringSchedule = getEnv("RECURRING_SCHEDULE", "")
	cfg.TriggerSecret = getEnv("TRIGGER_SECRET", "")

	if cfg.SessionTTL, err = getDurationEnv("SESSION_TTL", defaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.SessionCleanupInterval, err = getDurationEnv("SESSION_CLEANUP_INTERVAL", defaultSessionCleanupInterval); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBoolEnv("COOKIE_SECURE", false); err != nil {
		return nil, err
	}

	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.DBConnectionString == "" {
		return ErrMissingDBConnection
	}
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}
	if c.SessionCleanupInterval <= 0 {
		c.SessionCleanupInterval = defaultSessionCleanupInterval
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBoolEnv(key string, defaultVal bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
