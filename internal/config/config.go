// Package config loads the converter's optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config is the complete converter configuration.
type Config struct {
	Parse  ParseConfig  `yaml:"parse" json:"parse"`
	Notion NotionConfig `yaml:"notion" json:"notion"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// ParseConfig configures the markdown parser.
type ParseConfig struct {
	TabWidth int `yaml:"tab_width" json:"tab_width"`
}

// NotionConfig configures the page store client and uploader.
type NotionConfig struct {
	BaseURL          string        `yaml:"base_url" json:"base_url"`
	Version          string        `yaml:"version" json:"version"`
	TokenEnv         string        `yaml:"token_env" json:"token_env"`
	TokenFile        string        `yaml:"token_file" json:"token_file"`
	BatchSize        int           `yaml:"batch_size" json:"batch_size"`
	Workers          int           `yaml:"workers" json:"workers"`
	MaxRetries       int           `yaml:"max_retries" json:"max_retries"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	ValidatePayloads bool          `yaml:"validate_payloads" json:"validate_payloads"`
}

// LogConfig configures console and file logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Parse: ParseConfig{TabWidth: 4},
		Notion: NotionConfig{
			BaseURL:          "https://api.notion.com/v1",
			Version:          "2022-06-28",
			TokenEnv:         "NOTION_TOKEN",
			TokenFile:        ".env",
			BatchSize:        100,
			Workers:          4,
			MaxRetries:       5,
			Timeout:          30 * time.Second,
			ValidatePayloads: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   "markdown_notion.log",
		},
	}
}

// Load reads the YAML file at path over the defaults, and validates the
// result. An empty path loads just the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %v: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %v: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section of the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Parse),
		validation.Field(&c.Notion),
		validation.Field(&c.Log),
	)
}

// Validate checks parser options.
func (c ParseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TabWidth, validation.Required, validation.Min(1), validation.Max(16)),
	)
}

// Validate checks client and uploader options.
func (c NotionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.TokenEnv, validation.Required),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(16)),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(10)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
	)
}

// Validate checks logging options.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.In("console", "json", "pretty")),
		validation.Field(&c.File, validation.Required),
	)
}

var errNotAbsoluteURL = errors.New("must be an absolute http(s) URL")

func absoluteURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errNotAbsoluteURL
	}
	return nil
}
