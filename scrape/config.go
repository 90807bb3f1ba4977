package scrape

import "github.com/hazyhaar/avis/scrape/internal/config"

// Config re-exports the scrape configuration.
type Config = config.Config

// BrowserConfig re-exports the browser section.
type BrowserConfig = config.BrowserConfig

// ScrollConfig re-exports the scroll section.
type ScrollConfig = config.ScrollConfig

// TranslateConfig re-exports the translation section.
type TranslateConfig = config.TranslateConfig

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}
