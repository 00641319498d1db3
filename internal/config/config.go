package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

// EnvPrefix marks environment variables read into the config.
// REMINDERS_STORAGE__BACKEND maps to storage.backend.
const EnvPrefix = "REMINDERS_"

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Notification channels
const (
	ChannelTelegram = "telegram"
	ChannelConsole  = "console"
)

type Config struct {
	Storage       StorageConfig       `koanf:"storage"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Scheduler     SchedulerConfig     `koanf:"scheduler"`
	UI            UIConfig            `koanf:"ui"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Log           LogConfig           `koanf:"log"`
}

type StorageConfig struct {
	Backend    string      `koanf:"backend"`
	SQLitePath string      `koanf:"sqlite_path"`
	Redis      RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

type NotificationsConfig struct {
	Channels []string       `koanf:"channels"` // tried in order, first available wins
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken      string  `koanf:"bot_token"`
	ChatID        string  `koanf:"chat_id"`
	RatePerSecond float64 `koanf:"rate_per_second"`
}

type SchedulerConfig struct {
	Resync   string `koanf:"resync"`
	Rollover string `koanf:"rollover"`
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
	SeedPresets   bool `koanf:"seed_presets"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// Load layers defaults, the YAML file at configPath (if it exists) and
// REMINDERS_ environment variables.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.SQLitePath = expandPath(cfg.Storage.SQLitePath)
	cfg.Log.File = expandPath(cfg.Log.File)

	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s (supported: %s, %s, %s)",
			c.Storage.Backend, BackendSQLite, BackendRedis, BackendMemory)
	}

	for _, ch := range c.Notifications.Channels {
		switch ch {
		case ChannelTelegram, ChannelConsole:
		default:
			return fmt.Errorf("unknown notification channel: %s", ch)
		}
	}

	if len(c.Notifications.Channels) == 1 && c.Notifications.Channels[0] == ChannelTelegram &&
		c.Notifications.Telegram.BotToken == "" {
		return fmt.Errorf("notifications.telegram.bot_token is required when telegram is the only channel")
	}

	if c.Scheduler.Rollover == "" {
		return fmt.Errorf("scheduler.rollover must not be empty")
	}
	if _, err := cron.ParseStandard(c.Scheduler.Rollover); err != nil {
		return fmt.Errorf("invalid scheduler.rollover %q: %w", c.Scheduler.Rollover, err)
	}
	if c.Scheduler.Resync != "" {
		if _, err := cron.ParseStandard(c.Scheduler.Resync); err != nil {
			return fmt.Errorf("invalid scheduler.resync %q: %w", c.Scheduler.Resync, err)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}

	return nil
}

// HasChannel reports whether name is among the configured notification channels.
func (c *Config) HasChannel(name string) bool {
	for _, ch := range c.Notifications.Channels {
		if ch == name {
			return true
		}
	}
	return false
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
