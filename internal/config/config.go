package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Cookies CookiesConfig `yaml:"cookies" mapstructure:"cookies"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CookiesConfig points at the browser-exported cookie file.
type CookiesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig configures where the clip collection is written.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// FetchConfig configures the clip list pagination.
type FetchConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Count       int     `yaml:"count" mapstructure:"count"`
	Category    string  `yaml:"category" mapstructure:"category"`
	Sort        string  `yaml:"sort" mapstructure:"sort"`
	DelayMS     int     `yaml:"delay_ms" mapstructure:"delay_ms"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// Delay returns the pause between pages.
func (f FetchConfig) Delay() time.Duration {
	return time.Duration(f.DelayMS) * time.Millisecond
}

// Timeout returns the per-request timeout. Zero means no timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// StoreConfig configures the library database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// MetricsConfig configures the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BARMANIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cookies.path", "/tmp/barmania_cookies.txt")
	v.SetDefault("output.path", "/tmp/barmania_all_clips.json")
	v.SetDefault("fetch.base_url", "https://www.barmania.nl")
	v.SetDefault("fetch.count", 65)
	v.SetDefault("fetch.category", "all")
	v.SetDefault("fetch.sort", "dateasc")
	v.SetDefault("fetch.delay_ms", 300)
	v.SetDefault("fetch.timeout_secs", 0)
	v.SetDefault("fetch.rate_limit", 5.0)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "barmania.db")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// Validate checks the settings a command needs before it starts work.
// Mode is the command name: "fetch" or "import".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "fetch":
		if c.Cookies.Path == "" {
			problems = append(problems, "cookies.path is required")
		}
		if c.Output.Path == "" {
			problems = append(problems, "output.path is required")
		}
		if c.Fetch.BaseURL == "" {
			problems = append(problems, "fetch.base_url is required")
		}
		if c.Fetch.Count <= 0 {
			problems = append(problems, "fetch.count must be > 0")
		}
		if c.Fetch.DelayMS < 0 {
			problems = append(problems, "fetch.delay_ms must be >= 0")
		}
		if c.Fetch.TimeoutSecs < 0 {
			problems = append(problems, "fetch.timeout_secs must be >= 0")
		}
		if c.Fetch.RateLimit < 0 {
			problems = append(problems, "fetch.rate_limit must be >= 0")
		}
	case "import":
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			problems = append(problems, fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
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
