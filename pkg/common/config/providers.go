package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProvidersFile mirrors the optional YAML file holding external provider
// credentials and limits. Environment variables take precedence over it.
type ProvidersFile struct {
	Mock struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"mock"`
	YouTube struct {
		APIKey     string `yaml:"api_key"`
		BaseURL    string `yaml:"base_url"`
		MaxResults int    `yaml:"max_results"`
	} `yaml:"youtube"`
	Vimeo struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		BaseURL      string `yaml:"base_url"`
		TokenURL     string `yaml:"token_url"`
	} `yaml:"vimeo"`
}

// ApplyProvidersFile overlays provider settings from cfg.ProvidersConfigFile,
// if set, onto values that were not already supplied via environment.
func (c *Config) ApplyProvidersFile() error {
	if c.ProvidersConfigFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.ProvidersConfigFile)
	if err != nil {
		return fmt.Errorf("reading providers config: %w", err)
	}
	var file ProvidersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing providers config: %w", err)
	}

	if file.Mock.Enabled != nil && os.Getenv("MOCK_PROVIDER_ENABLED") == "" {
		c.MockProviderEnabled = *file.Mock.Enabled
	}
	if c.YouTubeAPIKey == "" {
		c.YouTubeAPIKey = file.YouTube.APIKey
	}
	if file.YouTube.BaseURL != "" && os.Getenv("YOUTUBE_BASE_URL") == "" {
		c.YouTubeBaseURL = file.YouTube.BaseURL
	}
	if file.YouTube.MaxResults > 0 && os.Getenv("YOUTUBE_MAX_RESULTS") == "" {
		c.YouTubeMaxResults = file.YouTube.MaxResults
	}
	if c.VimeoClientID == "" {
		c.VimeoClientID = file.Vimeo.ClientID
	}
	if c.VimeoClientSecret == "" {
		c.VimeoClientSecret = file.Vimeo.ClientSecret
	}
	if file.Vimeo.BaseURL != "" && os.Getenv("VIMEO_BASE_URL") == "" {
		c.VimeoBaseURL = file.Vimeo.BaseURL
	}
	if file.Vimeo.TokenURL != "" && os.Getenv("VIMEO_TOKEN_URL") == "" {
		c.VimeoTokenURL = file.Vimeo.TokenURL
	}
	return nil
}
