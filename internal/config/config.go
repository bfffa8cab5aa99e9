package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the global configuration structure
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Review   ReviewConfig   `mapstructure:"review"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// Telegram bot configuration
type TelegramConfig struct {
	BotToken     string  `mapstructure:"bot_token"`
	Debug        bool    `mapstructure:"debug"`
	PollTimeout  int     `mapstructure:"poll_timeout" validate:"min=0"`
	AdminUserIDs []int64 `mapstructure:"admin_user_ids"`
}

// DatabaseConfig selects the SQL backend
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite3 postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

// ReminderConfig drives the reminder sweep
type ReminderConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Cron     string `mapstructure:"cron" validate:"required_if=Enabled true"`
	Timezone string `mapstructure:"timezone" validate:"required"`
	Message  string `mapstructure:"message" validate:"required"`
}

// ReviewConfig controls pending review and edit markers
type ReviewConfig struct {
	PendingTTL     time.Duration `mapstructure:"pending_ttl" validate:"min=0"`
	ExpiryInterval time.Duration `mapstructure:"expiry_interval" validate:"min=0"`
}

// LoggerConfig configures log output; an empty Directory disables the log file
type LoggerConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

// Location returns the time zone used for calendar days and reminder times
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminder.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder timezone %q: %w", c.Reminder.Timezone, err)
	}
	return loc, nil
}

// IsAdmin reports whether userID is listed as an administrator
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Load reads configuration from an optional .env file, an optional config
// file and the environment, in increasing order of precedence.
// configPath may be empty.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the time zone
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	return nil
}

// bindLegacyEnv maps the short variable names used in deployments
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.admin_user_ids", "TELEGRAM_ADMIN_USER_IDS", "ADMIN_USER_IDS")
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER", "DB_TYPE")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("telegram.admin_user_ids", []int64{})

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "data/leitner.db")

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.cron", "0 9 * * *")
	v.SetDefault("reminder.timezone", "UTC")
	v.SetDefault("reminder.message", "Time to review your flashcards! Use /review to start.")

	v.SetDefault("review.pending_ttl", time.Duration(0))
	v.SetDefault("review.expiry_interval", time.Minute)

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 30)
	v.SetDefault("logger.max_age", 90)
	v.SetDefault("logger.compress", true)
}
