package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Timezone string         `mapstructure:"timezone" validate:"required,timezone"`
	Learning LearningConfig `mapstructure:"learning"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=sqlite3 postgres pgx"`
	DSN          string `mapstructure:"dsn" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

type LearningConfig struct {
	UpdateRetryAttempts uint `mapstructure:"update_retry_attempts" validate:"min=1,max=20"`
}

type ReminderConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

// Location returns the timezone used to decide what "today" is
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       "sqlite3",
			DSN:          "data/leitner.db",
			MaxOpenConns: 1,
		},
		Timezone: "UTC",
		Learning: LearningConfig{UpdateRetryAttempts: 5},
		Reminder: ReminderConfig{Enabled: true},
		Log:      LogConfig{Level: "info"},
	}
}

var envBindings = map[string]string{
	"database.driver":                "DATABASE_DRIVER",
	"database.dsn":                   "DATABASE_URL",
	"database.max_open_conns":        "DATABASE_MAX_OPEN_CONNS",
	"timezone":                       "TIMEZONE",
	"learning.update_retry_attempts": "UPDATE_RETRY_ATTEMPTS",
	"reminder.enabled":               "REMINDER_ENABLED",
	"log.level":                      "LOG_LEVEL",
	"log.file":                       "LOG_FILE",
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
	envFiles   []string
	configFile string
}

// NewConfigLoader prepares a loader; configFile may be empty
func NewConfigLoader(configFile string, envFiles ...string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("leitnerbot")
		v.AddConfigPath(".")
	}
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
		envFiles:   envFiles,
		configFile: configFile,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	// Environment variables already set win over .env values
	for _, f := range loader.envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := loader.viper
	def := DefaultConfig()
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.dsn", def.Database.DSN)
	v.SetDefault("database.max_open_conns", def.Database.MaxOpenConns)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("learning.update_retry_attempts", def.Learning.UpdateRetryAttempts)
	v.SetDefault("reminder.enabled", def.Reminder.Enabled)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if loader.configFile != "" {
		if _, err := os.Stat(loader.configFile); err != nil {
			return nil, fmt.Errorf("configuration file could not be read: %w", err)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Load reads configuration from .env, an optional YAML file and the environment
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
