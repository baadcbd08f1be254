package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Scorer  ScorerConfig  `yaml:"scorer" mapstructure:"scorer"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ScorerConfig tunes the location ranking.
type ScorerConfig struct {
	// ProximityWeight boosts the preferred region and its neighbors by
	// (1 + ProximityWeight).
	ProximityWeight float64 `yaml:"proximity_weight" mapstructure:"proximity_weight"`
	TopN            int     `yaml:"top_n" mapstructure:"top_n"`
}

// EnrichConfig configures supplier enrichment of recommended regions.
type EnrichConfig struct {
	Workers     int     `yaml:"workers" mapstructure:"workers"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // lookups per second, 0 = unlimited
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives Prometheus text-format metrics after each
	// command for the node exporter textfile collector.
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// Load reads configuration from an optional ./config.yaml and the environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path and the environment. An empty path
// falls back to an optional ./config.yaml; an explicit path must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("PLANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "plant-locator.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("scorer.proximity_weight", 0.15)
	v.SetDefault("scorer.top_n", 5)
	v.SetDefault("enrich.workers", 4)
	v.SetDefault("enrich.timeout_secs", 5)
	v.SetDefault("enrich.rate_limit", 0)
	v.SetDefault("metrics.textfile", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	var errs []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			errs = append(errs, "store.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for the postgres driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
	}

	if c.Enrich.Workers < 1 {
		errs = append(errs, "enrich.workers must be >= 1")
	}
	if c.Enrich.TimeoutSecs < 1 {
		errs = append(errs, "enrich.timeout_secs must be >= 1")
	}
	if c.Enrich.RateLimit < 0 {
		errs = append(errs, "enrich.rate_limit must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
