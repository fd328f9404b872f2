package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// insecureDefault marks secrets that must be replaced outside development
const insecureDefault = "change-me"

// Config holds all configuration for the planner
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Port        string `mapstructure:"PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`

	// Database: postgres when DatabaseURL is set, sqlite file otherwise
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DataPath    string `mapstructure:"DATA_PATH"`

	JWTSecret       string `mapstructure:"JWT_SECRET"`
	APIMasterSecret string `mapstructure:"API_MASTER_SECRET"`
	AdminUsername   string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword   string `mapstructure:"ADMIN_PASSWORD"`

	// Scheduling
	BufferMinutes             int    `mapstructure:"BUFFER_MINUTES"`
	SubstituteTopN            int    `mapstructure:"SUBSTITUTE_TOP_N"`
	SubstituteDefaultStart    string `mapstructure:"SUBSTITUTE_DEFAULT_START"`
	SubstituteDefaultEnd      string `mapstructure:"SUBSTITUTE_DEFAULT_END"`
	SubstituteIsolateFailures bool   `mapstructure:"SUBSTITUTE_ISOLATE_FAILURES"`
}

// LoadDotEnv loads the first .env found in the working directory or its parents
func LoadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads configuration from .env and environment variables
func Load() (*Config, error) {
	LoadDotEnv()
	return FromViper(viper.New())
}

// FromViper unmarshals and validates configuration from a viper instance
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_PATH", "horarios.db")

	v.SetDefault("JWT_SECRET", insecureDefault)
	v.SetDefault("API_MASTER_SECRET", insecureDefault)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("BUFFER_MINUTES", 15)
	v.SetDefault("SUBSTITUTE_TOP_N", 5)
	v.SetDefault("SUBSTITUTE_DEFAULT_START", "08:00")
	v.SetDefault("SUBSTITUTE_DEFAULT_END", "14:00")
	v.SetDefault("SUBSTITUTE_ISOLATE_FAILURES", false)
}

func validate(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.JWTSecret == insecureDefault || cfg.APIMasterSecret == insecureDefault {
			return errors.New("JWT_SECRET and API_MASTER_SECRET must be set in production")
		}
	}
	if cfg.BufferMinutes < 0 {
		return errors.New("BUFFER_MINUTES must not be negative")
	}
	if cfg.SubstituteTopN <= 0 {
		return errors.New("SUBSTITUTE_TOP_N must be positive")
	}
	window, err := cfg.SubstituteWindow()
	if err != nil {
		return fmt.Errorf("substitute window: %w", err)
	}
	if window.End <= window.Start {
		return errors.New("SUBSTITUTE_DEFAULT_START must be before SUBSTITUTE_DEFAULT_END")
	}
	return nil
}

// Buffer is the shift padding as a duration
func (c *Config) Buffer() time.Duration {
	return time.Duration(c.BufferMinutes) * time.Minute
}

// SubstituteWindow is the default working window of an assigned substitute
func (c *Config) SubstituteWindow() (calendar.TimeRange, error) {
	return calendar.NewRange(c.SubstituteDefaultStart, c.SubstituteDefaultEnd)
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
