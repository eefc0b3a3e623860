// Package config loads sharepoint-versions settings via Viper.
//
// Settings come from defaults, an optional YAML file and SPVERSIONS_* environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pfrederiksen/sharepoint-versions/internal/logger"
	"github.com/pfrederiksen/sharepoint-versions/internal/scraper"
)

// Config captures all settings
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Sources SourcesConfig `mapstructure:"sources"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// HTTPConfig controls the fetcher
type HTTPConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SourcesConfig lists the pages to scrape
type SourcesConfig struct {
	DocsURL   string           `mapstructure:"docs_url"`
	Community []scraper.Source `mapstructure:"community"`
}

// LoggingConfig selects log level and format
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load builds a Config from defaults, the file at path (if any) and the environment
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPVERSIONS")
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

	if len(cfg.Sources.Community) == 0 {
		cfg.Sources.Community = scraper.DefaultCommunitySources()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.user_agent", scraper.UserAgent)
	v.SetDefault("http.timeout", scraper.Timeout)
	v.SetDefault("sources.docs_url", scraper.DocsURL)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// Validate enforces required values
func (c Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	if strings.TrimSpace(c.HTTP.UserAgent) == "" {
		return fmt.Errorf("http.user_agent must be set")
	}
	if err := validURL(c.Sources.DocsURL); err != nil {
		return fmt.Errorf("sources.docs_url: %w", err)
	}
	for i, src := range c.Sources.Community {
		if strings.TrimSpace(src.PackageName) == "" {
			return fmt.Errorf("sources.community[%d].package_name must be set", i)
		}
		if err := validURL(src.URL); err != nil {
			return fmt.Errorf("sources.community[%d].url: %w", i, err)
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ScraperOptions converts the settings into scraper options
func (c Config) ScraperOptions() []scraper.Option {
	return []scraper.Option{
		scraper.WithTimeout(c.HTTP.Timeout),
		scraper.WithUserAgent(c.HTTP.UserAgent),
		scraper.WithDocsURL(c.Sources.DocsURL),
		scraper.WithCommunitySources(c.Sources.Community),
	}
}

func validURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme in %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
