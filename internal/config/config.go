package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the market feed service.
type Config struct {
	// HTTP boundary
	ListenAddr    string `mapstructure:"listen_addr"`
	PortfolioFile string `mapstructure:"portfolio_file"`

	// Base URLs for the upstream providers (configurable for testing)
	QuoteBaseURL        string `mapstructure:"quote_base_url"`
	FundamentalsBaseURL string `mapstructure:"fundamentals_base_url"`
	UserAgent           string `mapstructure:"user_agent"`

	// Upstream request behaviour
	RequestTimeout         time.Duration `mapstructure:"request_timeout"`
	QuoteRevalidate        time.Duration `mapstructure:"quote_revalidate"`
	FundamentalsRevalidate time.Duration `mapstructure:"fundamentals_revalidate"`
	QuoteRateLimit         float64       `mapstructure:"quote_rate_limit"`
	FundamentalsRateLimit  float64       `mapstructure:"fundamentals_rate_limit"`

	// Portfolio-wide refresh
	RefreshConcurrency int           `mapstructure:"refresh_concurrency"`
	RefreshTimeout     time.Duration `mapstructure:"refresh_timeout"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over config file values. When
// path is empty, config.yaml is looked up in . and $HOME/.marketfeed.
//
// Recognised environment variables:
//   - LISTEN_ADDR, PORTFOLIO_FILE
//   - QUOTE_BASE_URL, FUNDAMENTALS_BASE_URL, USER_AGENT
//   - REQUEST_TIMEOUT, QUOTE_REVALIDATE, FUNDAMENTALS_REVALIDATE
//   - QUOTE_RATE_LIMIT, FUNDAMENTALS_RATE_LIMIT (requests per second, 0 = unlimited)
//   - REFRESH_CONCURRENCY, REFRESH_TIMEOUT
//   - LOG_LEVEL (debug, info, warn, error)
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("portfolio_file", "data/portfolio.json")
	v.SetDefault("quote_base_url", "https://query1.finance.yahoo.com/v7/finance/quote")
	v.SetDefault("fundamentals_base_url", "https://www.google.com/finance/quote")
	v.SetDefault("user_agent", "Mozilla/5.0 (compatible; marketfeed/1.0)")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("quote_revalidate", 15*time.Second)
	v.SetDefault("fundamentals_revalidate", 60*time.Second)
	v.SetDefault("quote_rate_limit", 5.0)
	v.SetDefault("fundamentals_rate_limit", 2.0)
	v.SetDefault("refresh_concurrency", 4)
	v.SetDefault("refresh_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.marketfeed")

		// Read config file (ignore if not found)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	for _, key := range []string{
		"listen_addr",
		"portfolio_file",
		"quote_base_url",
		"fundamentals_base_url",
		"user_agent",
		"request_timeout",
		"quote_revalidate",
		"fundamentals_revalidate",
		"quote_rate_limit",
		"fundamentals_rate_limit",
		"refresh_concurrency",
		"refresh_timeout",
		"log_level",
	} {
		v.BindEnv(key, strings.ToUpper(key))
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.ListenAddr == "" {
		problems = append(problems, "LISTEN_ADDR is empty")
	}
	if c.PortfolioFile == "" {
		problems = append(problems, "PORTFOLIO_FILE is empty")
	}
	if c.QuoteBaseURL == "" {
		problems = append(problems, "QUOTE_BASE_URL is empty")
	}
	if c.FundamentalsBaseURL == "" {
		problems = append(problems, "FUNDAMENTALS_BASE_URL is empty")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}
	if c.QuoteRevalidate < 0 || c.FundamentalsRevalidate < 0 {
		problems = append(problems, "revalidation windows must not be negative")
	}
	if c.QuoteRateLimit < 0 || c.FundamentalsRateLimit < 0 {
		problems = append(problems, "rate limits must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not a log level", c.LogLevel)
	}
	return level, nil
}
