package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var (
	ErrEmptyToken  = errors.New("error getting YS_TELEGRAM_TOKEN: variable not specified or contains an empty string")
	ErrEmptyChatID = errors.New("error getting YS_TELEGRAM_CHAT_ID: variable not specified or zero")
)

// DefaultSearchURL is the yard inventory search the tool was first written for.
const DefaultSearchURL = "https://www.picknpull.com/check-inventory/vehicle-search?make=147&model=2683&distance=10&zip=T5S1R2&year="

// Record locations used when storage.path is not set.
const (
	DefaultJSONPath   = "inventory_record.json"
	DefaultSQLitePath = "state.db"
)

type Config struct {
	Env     string // Env is the current environment: local, dev, prod.
	Search  Search
	Storage Storage
	Tg      Telegram
	Watch   Watch
	LogFile string // LogFile receives a copy of every log line when set.
}

type Search struct {
	URL     string        `validate:"required,url"`
	Title   string        `validate:"required"` // Title names the items in notification messages.
	Timeout time.Duration `validate:"gt=0"`     // Timeout bounds one page download.
}

type Storage struct {
	Driver string `validate:"oneof=json sqlite"`
	Path   string `validate:"required"`
}

type Telegram struct {
	Token   string        `validate:"required"` // Token is an unique telgram bot token.
	ChatID  int64         // ChatID receives the inventory updates. Only check and watch need it.
	Timeout time.Duration `validate:"gt=0"`     // Timeout is a poller timeout duration.
}

type Watch struct {
	Interval     time.Duration `validate:"gt=0"`
	RunOnStartup bool
}

// Load reads the configuration from environment variables prefixed with YS_ and,
// when path is not empty, from the config file at path. Environment variables win.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Automatically binds environment variables to config keys
	v.SetEnvPrefix("YS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// optional args
	v.SetDefault("env", "production")
	v.SetDefault("search.url", DefaultSearchURL)
	v.SetDefault("search.title", "vehicles")
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("storage.driver", "json")
	v.SetDefault("telegram.timeout", "15s")
	v.SetDefault("watch.interval", "30m")
	v.SetDefault("watch.run_on_startup", true)
	v.SetDefault("log.file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if v.GetString("telegram.token") == "" {
		return nil, ErrEmptyToken
	}

	cfg := &Config{
		Env: v.GetString("env"),
		Search: Search{
			URL:     v.GetString("search.url"),
			Title:   v.GetString("search.title"),
			Timeout: v.GetDuration("search.timeout"),
		},
		Storage: Storage{
			Driver: v.GetString("storage.driver"),
			Path:   storagePath(v.GetString("storage.driver"), v.GetString("storage.path")),
		},
		Tg: Telegram{
			Token:   v.GetString("telegram.token"),
			ChatID:  v.GetInt64("telegram.chat_id"),
			Timeout: v.GetDuration("telegram.timeout"),
		},
		Watch: Watch{
			Interval:     v.GetDuration("watch.interval"),
			RunOnStartup: v.GetBool("watch.run_on_startup"),
		},
		LogFile: v.GetString("log.file"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// RequireRecipient reports whether the configuration names a chat to notify.
func (c *Config) RequireRecipient() error {
	if c.Tg.ChatID == 0 {
		return ErrEmptyChatID
	}

	return nil
}

func storagePath(driver, path string) string {
	if path != "" {
		return path
	}
	if driver == "sqlite" {
		return DefaultSQLitePath
	}

	return DefaultJSONPath
}

// MustLoad loads the configuration and panics if it is missing or invalid.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}
