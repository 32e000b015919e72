// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	GitHub    GitHubConfig    `yaml:"github" mapstructure:"github"`
	Jobs      JobsConfig      `yaml:"jobs" mapstructure:"jobs"`
	Headcount HeadcountConfig `yaml:"headcount" mapstructure:"headcount"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// HTTPConfig configures outbound HTTP probing.
type HTTPConfig struct {
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ProbeTimeoutSecs int    `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	MaxBodyBytes     int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// Timeout returns the full-fetch timeout as a duration.
func (c HTTPConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSecs) * time.Second }

// ProbeTimeout returns the existence-probe timeout as a duration.
func (c HTTPConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSecs) * time.Second
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GitHubConfig holds code-host API settings. Token is optional; without it
// calls are unauthenticated and rate limits are lower.
type GitHubConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// JobsConfig configures job-board scraping.
type JobsConfig struct {
	ProbeTimeoutSecs int `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	TopPostings      int `yaml:"top_postings" mapstructure:"top_postings"`
}

// ProbeTimeout returns the job-board probe timeout as a duration.
func (c JobsConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSecs) * time.Second
}

// HeadcountConfig configures headcount estimation.
type HeadcountConfig struct {
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ENRICH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.user_agent", "enrich-cli/1.0 (+https://github.com/sells-group/enrich-cli)")
	v.SetDefault("http.timeout_secs", 10)
	v.SetDefault("http.probe_timeout_secs", 5)
	v.SetDefault("http.max_body_bytes", 2*1024*1024)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("github.base_url", "https://api.github.com")
	// Keys without defaults still need registering so AutomaticEnv
	// picks them up during Unmarshal.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("github.token", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("jobs.probe_timeout_secs", 8)
	v.SetDefault("jobs.top_postings", 25)
	v.SetDefault("headcount.search_base_url", "https://www.bing.com/search")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "enrich.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
