package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the optional folio.yaml file.
// Deployment-specific lists are easier to manage here than in env vars.
type YAMLConfig struct {
	Branding      BrandingConfig `yaml:"branding"`
	ReservedSlugs []string       `yaml:"reserved_slugs"` // extra slugs blocked beyond the built-in set
}

// BrandingConfig overrides the public page chrome.
type BrandingConfig struct {
	Title   string `yaml:"title,omitempty"`
	Tagline string `yaml:"tagline,omitempty"`
	Footer  string `yaml:"footer,omitempty"`
	LogoURL string `yaml:"logo_url,omitempty"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "folio.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "folio.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Apply folds the YAML overrides into the env-derived config.
func (y *YAMLConfig) Apply(c *Config) {
	if y == nil {
		return
	}
	if y.Branding.Title != "" {
		c.SiteTitle = y.Branding.Title
	}
	if y.Branding.Tagline != "" {
		c.SiteTagline = y.Branding.Tagline
	}
}
