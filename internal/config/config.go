package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	AnchorPolicyForward  = "forward"
	AnchorPolicySaturday = "saturday"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Logger   *LoggerConfig   `mapstructure:"logger"`
	Market   *MarketConfig   `mapstructure:"market"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type MarketConfig struct {
	Timezone             string        `mapstructure:"timezone"`
	AnchorPolicy         string        `mapstructure:"anchor_policy"`
	AnchorLookaheadWeeks int           `mapstructure:"anchor_lookahead_weeks"`
	StaticFetchLimit     int           `mapstructure:"static_fetch_limit"`
	StaticFetchRetries   int           `mapstructure:"static_fetch_retries"`
	StaticRetryInterval  time.Duration `mapstructure:"static_retry_interval"`
	SearchDebounce       time.Duration `mapstructure:"search_debounce"`
}

func (c *MarketConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%q) -> %w", c.Timezone, err)
	}

	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"*"})

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db", "market")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 28)

	v.SetDefault("market.timezone", "America/Chicago")
	v.SetDefault("market.anchor_policy", AnchorPolicyForward)
	v.SetDefault("market.anchor_lookahead_weeks", 8)
	v.SetDefault("market.static_fetch_limit", 1000)
	v.SetDefault("market.static_fetch_retries", 2)
	v.SetDefault("market.static_retry_interval", 250*time.Millisecond)
	v.SetDefault("market.search_debounce", 350*time.Millisecond)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the YAML file at path, lets environment variables such as
// POSTGRES_HOST or MARKET_ANCHOR_POLICY override it and validates the result.
// A missing file is not an error; defaults and the environment still apply.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		if !isNotExist(err) {
			return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
		}
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Watch logs every change of the config file. Changes take effect on restart.
func Watch(path string) {
	v := newViper(path)
	v.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed, restart to apply",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()))
	})
	v.WatchConfig()
}

func (c *AppConfig) validate() error {
	switch c.Market.AnchorPolicy {
	case AnchorPolicyForward, AnchorPolicySaturday:
	default:
		return fmt.Errorf("market.anchor_policy must be %q or %q, got %q",
			AnchorPolicyForward, AnchorPolicySaturday, c.Market.AnchorPolicy)
	}

	if c.Market.AnchorLookaheadWeeks < 1 {
		return fmt.Errorf("market.anchor_lookahead_weeks must be positive, got %d", c.Market.AnchorLookaheadWeeks)
	}
	if c.Market.StaticFetchLimit < 1 {
		return fmt.Errorf("market.static_fetch_limit must be positive, got %d", c.Market.StaticFetchLimit)
	}
	if c.Market.StaticFetchRetries < 0 {
		return fmt.Errorf("market.static_fetch_retries must not be negative, got %d", c.Market.StaticFetchRetries)
	}

	if _, err := c.Market.Location(); err != nil {
		return err
	}

	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
