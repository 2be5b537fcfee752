package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds crawler configuration.
type Config struct {
	BaseURL          string
	MaxPages         int
	Delay            time.Duration
	RandomDelay      time.Duration
	Timeout          time.Duration
	UserAgent        string
	RespectRobotsTxt bool
	VisitedCacheSize int
	OutputFile       string
	OutputFormat     string // json, text, or dual
	MetricsAddr      string
	Verbose          bool
}

// DefaultConfig returns conservative defaults for the Projekt Gutenberg
// mirror.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "http://gutenberg.spiegel.de",
		MaxPages:         2000,
		Delay:            500 * time.Millisecond,
		RandomDelay:      250 * time.Millisecond,
		Timeout:          10 * time.Second,
		UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		RespectRobotsTxt: false,
		VisitedCacheSize: 4096,
		OutputFile:       "output/book.json",
		OutputFormat:     "json",
		MetricsAddr:      "",
		Verbose:          false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.VisitedCacheSize <= 0 {
		return fmt.Errorf("visited cache size must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "json" && c.OutputFormat != "text" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be json, text, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
