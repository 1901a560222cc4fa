package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateURLs(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateStorefront(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateURLs() error {
	if err := validateAbsoluteURL("manifest.url", c.Manifest.URL); err != nil {
		return err
	}
	return validateAbsoluteURL("storefront.game_url", c.Storefront.GameURL)
}

func validateAbsoluteURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", field, value)
	}
	return nil
}

func (c *Config) validateSelection() error {
	switch c.Selection.Mode {
	case SelectionPlatforms:
	case SelectionTitle:
		if c.Selection.TargetTitle == "" {
			return errors.New("selection.target_title must be set when selection.mode is \"title\"")
		}
	default:
		return fmt.Errorf("selection.mode must be %q or %q, got %q", SelectionPlatforms, SelectionTitle, c.Selection.Mode)
	}
	return nil
}

func (c *Config) validateStorefront() error {
	if c.Storefront.RequestTimeout < 0 {
		return errors.New("storefront.request_timeout must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
}
