package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the YAML layout of an optional config file.
// Durations are written as Go duration strings ("750ms", "10s").
type FileConfig struct {
	Crawler struct {
		BaseURL          string `yaml:"base_url"`
		MaxPages         int    `yaml:"max_pages"`
		Delay            string `yaml:"delay"`
		RandomDelay      string `yaml:"random_delay"`
		Timeout          string `yaml:"timeout"`
		UserAgent        string `yaml:"user_agent"`
		RespectRobotsTxt *bool  `yaml:"respect_robots_txt"`
		VisitedCacheSize int    `yaml:"visited_cache_size"`
	} `yaml:"crawler"`
	Output struct {
		File   string `yaml:"file"`
		Format string `yaml:"format"`
	} `yaml:"output"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

// Apply copies the file's set values onto cfg. Unset fields leave the
// existing setting untouched.
func (fc *FileConfig) Apply(cfg *Config) error {
	if fc.Crawler.BaseURL != "" {
		cfg.BaseURL = fc.Crawler.BaseURL
	}
	if fc.Crawler.MaxPages > 0 {
		cfg.MaxPages = fc.Crawler.MaxPages
	}
	if err := setDuration(&cfg.Delay, "delay", fc.Crawler.Delay); err != nil {
		return err
	}
	if err := setDuration(&cfg.RandomDelay, "random_delay", fc.Crawler.RandomDelay); err != nil {
		return err
	}
	if err := setDuration(&cfg.Timeout, "timeout", fc.Crawler.Timeout); err != nil {
		return err
	}
	if fc.Crawler.UserAgent != "" {
		cfg.UserAgent = fc.Crawler.UserAgent
	}
	if fc.Crawler.RespectRobotsTxt != nil {
		cfg.RespectRobotsTxt = *fc.Crawler.RespectRobotsTxt
	}
	if fc.Crawler.VisitedCacheSize > 0 {
		cfg.VisitedCacheSize = fc.Crawler.VisitedCacheSize
	}
	if fc.Output.File != "" {
		cfg.OutputFile = fc.Output.File
	}
	if fc.Output.Format != "" {
		cfg.OutputFormat = fc.Output.Format
	}
	if fc.Metrics.Addr != "" {
		cfg.MetricsAddr = fc.Metrics.Addr
	}
	return nil
}

func setDuration(dst *time.Duration, field, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", field, err)
	}
	*dst = d
	return nil
}
