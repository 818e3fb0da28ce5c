// Package config loads the static project table and site settings from
// templates.yaml.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Project is one tracked upstream project and its local template.
type Project struct {
	Name         string `mapstructure:"name"`
	XMLPath      string `mapstructure:"xml_path"`
	UpstreamRepo string `mapstructure:"upstream_repo"`
	ComposeURL   string `mapstructure:"compose_url"`
	DockerImage  string `mapstructure:"docker_image"`
}

// Site holds the URLs and labels the catalog generator renders into the
// index page. Every field has a default, so the section may be omitted.
type Site struct {
	Title     string `mapstructure:"title"`
	PagesURL  string `mapstructure:"pages_url"`
	RawURL    string `mapstructure:"raw_url"`
	RepoURL   string `mapstructure:"repo_url"`
	AvatarURL string `mapstructure:"avatar_url"`
}

// Config is the whole templates.yaml document.
type Config struct {
	Projects []Project `mapstructure:"projects"`
	Site     Site      `mapstructure:"site"`
}

// Load reads and validates a templates.yaml file.
func Load(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)

	v.SetDefault("site.title", "fgrfn Unraid Templates")
	v.SetDefault("site.pages_url", "https://fgrfn.github.io/unraid-templates")
	v.SetDefault("site.raw_url", "https://raw.githubusercontent.com/fgrfn/unraid-templates/main")
	v.SetDefault("site.repo_url", "https://github.com/fgrfn/unraid-templates")
	v.SetDefault("site.avatar_url", "https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=667eea,764ba2&textColor=ffffff")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return &cfg, nil
}

// Validate checks that every project carries the fields the reconciler
// needs. Informational fields may stay empty.
func (c *Config) Validate() error {
	if len(c.Projects) == 0 {
		return fmt.Errorf("no projects configured")
	}
	for i, p := range c.Projects {
		if p.Name == "" {
			return fmt.Errorf("project %d: missing name", i)
		}
		if p.XMLPath == "" {
			return fmt.Errorf("project %s: missing xml_path", p.Name)
		}
		if p.ComposeURL == "" {
			return fmt.Errorf("project %s: missing compose_url", p.Name)
		}
	}
	return nil
}
