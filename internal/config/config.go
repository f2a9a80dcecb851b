// Package config loads and validates spider configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SiteConfig identifies the target site and request behavior.
type SiteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	DelaySeconds   int    `mapstructure:"delay_seconds"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	InsecureTLS    bool   `mapstructure:"insecure_tls"`
}

// CrawlConfig governs the worker pool and artifact roots.
type CrawlConfig struct {
	Workers    int    `mapstructure:"workers"`
	OutputRoot string `mapstructure:"output_root"`
	WorkRoot   string `mapstructure:"work_root"`
	BarWidth   int    `mapstructure:"bar_width"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPIDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://learn.lianglianglee.com")
	v.SetDefault("site.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36")
	v.SetDefault("site.delay_seconds", 5)
	v.SetDefault("site.timeout_seconds", 30)
	v.SetDefault("site.insecure_tls", true)
	v.SetDefault("crawl.workers", 1)
	v.SetDefault("crawl.bar_width", 60)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must be set")
	}
	if _, err := url.Parse(c.Site.BaseURL); err != nil {
		return fmt.Errorf("site.base_url invalid: %w", err)
	}
	if c.Site.DelaySeconds < 0 {
		return fmt.Errorf("site.delay_seconds must be >= 0")
	}
	if c.Crawl.Workers <= 0 {
		return fmt.Errorf("crawl.workers must be > 0")
	}
	if c.Crawl.BarWidth <= 0 {
		return fmt.Errorf("crawl.bar_width must be > 0")
	}
	return nil
}

// Delay returns the configured inter-request spacing.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Site.DelaySeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Site.TimeoutSeconds) * time.Second
}
