// Package config handles avis scrape configuration from YAML files.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level scrape configuration.
type Config struct {
	Browser   BrowserConfig   `yaml:"browser"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Translate TranslateConfig `yaml:"translate"`

	// MapsURL is the map-search application entry point.
	MapsURL string `yaml:"maps_url"`

	// MaxReviews caps how many review elements are extracted.
	MaxReviews int `yaml:"max_reviews"`

	// PageSettle is the pause after navigation before querying elements.
	PageSettle time.Duration `yaml:"page_settle"`

	// SearchWait is the pause after submitting a search.
	SearchWait time.Duration `yaml:"search_wait"`

	// ReviewsWait is the pause after opening the reviews tab.
	ReviewsWait time.Duration `yaml:"reviews_wait"`

	// FieldTimeout bounds each per-field element lookup.
	FieldTimeout time.Duration `yaml:"field_timeout"`

	// AuthHash is a bcrypt hash enabling Basic Auth on the HTTP API.
	// Empty leaves the API open.
	AuthHash string `yaml:"auth_hash"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote           string        `yaml:"remote"`
	Stealth          string        `yaml:"stealth"` // headless | headful
	XvfbDisplay      string        `yaml:"xvfb_display"`
	ResourceBlocking []string      `yaml:"resource_blocking"`
	NavTimeout       time.Duration `yaml:"nav_timeout"`
}

// ScrollConfig controls the scroll-to-load loop.
type ScrollConfig struct {
	// Attempts is the fixed scroll budget.
	Attempts int `yaml:"attempts"`

	// Distance is the wheel delta per pass, in pixels.
	Distance int `yaml:"distance"`

	// Wait is the pause after each pass for lazy content to load.
	Wait time.Duration `yaml:"wait"`

	// MinAttempts is how many stable passes to tolerate before giving up.
	MinAttempts int `yaml:"min_attempts"`
}

// TranslateConfig selects and tunes the translation backend.
type TranslateConfig struct {
	Backend    string `yaml:"backend"` // google | openai | off
	TargetLang string `yaml:"target_lang"`
	APIKey     string `yaml:"api_key"` // for openai; env OPENAI_API_KEY also works
	Model      string `yaml:"model"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero values with the defaults the pipeline was tuned
// against.
func (c *Config) ApplyDefaults() {
	if c.MapsURL == "" {
		c.MapsURL = "https://www.google.com/maps"
	}
	if c.MaxReviews <= 0 {
		c.MaxReviews = 100
	}
	if c.PageSettle <= 0 {
		c.PageSettle = 2 * time.Second
	}
	if c.SearchWait <= 0 {
		c.SearchWait = 5 * time.Second
	}
	if c.ReviewsWait <= 0 {
		c.ReviewsWait = 3 * time.Second
	}
	if c.FieldTimeout <= 0 {
		c.FieldTimeout = 5 * time.Second
	}
	if c.Browser.Stealth == "" {
		c.Browser.Stealth = "headless"
	}
	if c.Browser.XvfbDisplay == "" {
		c.Browser.XvfbDisplay = ":99"
	}
	if c.Browser.NavTimeout <= 0 {
		c.Browser.NavTimeout = 30 * time.Second
	}
	if c.Scroll.Attempts <= 0 {
		c.Scroll.Attempts = 15
	}
	if c.Scroll.Distance <= 0 {
		c.Scroll.Distance = 3000
	}
	if c.Scroll.Wait <= 0 {
		c.Scroll.Wait = 2 * time.Second
	}
	if c.Scroll.MinAttempts <= 0 {
		c.Scroll.MinAttempts = 5
	}
	if c.Translate.Backend == "" {
		c.Translate.Backend = "off"
	}
	if c.Translate.TargetLang == "" {
		c.Translate.TargetLang = "en"
	}
}
