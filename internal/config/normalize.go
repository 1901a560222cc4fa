package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeManifest()
	c.normalizeStorefront()
	c.normalizeSelection()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeManifest() {
	c.Manifest.URL = strings.TrimSpace(c.Manifest.URL)
	if c.Manifest.URL == "" {
		c.Manifest.URL = defaultManifestURL
	}
}

func (c *Config) normalizeStorefront() {
	c.Storefront.GameURL = strings.TrimRight(strings.TrimSpace(c.Storefront.GameURL), "/")
	if c.Storefront.GameURL == "" {
		c.Storefront.GameURL = defaultGameURL
	}
	c.Storefront.CSRFToken = strings.TrimSpace(c.Storefront.CSRFToken)
	if c.Storefront.CSRFToken == "" {
		if value, ok := os.LookupEnv("CSRF_TOKEN"); ok {
			c.Storefront.CSRFToken = strings.TrimSpace(value)
		}
	}
	c.Storefront.UserAgent = strings.TrimSpace(c.Storefront.UserAgent)
	if c.Storefront.UserAgent == "" {
		c.Storefront.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeSelection() {
	c.Selection.Mode = strings.ToLower(strings.TrimSpace(c.Selection.Mode))
	if c.Selection.Mode == "" {
		c.Selection.Mode = SelectionPlatforms
	}
	c.Selection.TargetTitle = strings.TrimSpace(c.Selection.TargetTitle)
	if c.Selection.JarPrefix == "" {
		c.Selection.JarPrefix = defaultJarPrefix
	}
	c.Selection.JarExtension = strings.TrimPrefix(strings.TrimSpace(c.Selection.JarExtension), ".")
	if c.Selection.JarExtension == "" {
		c.Selection.JarExtension = defaultJarExtension
	}
}

func (c *Config) normalizePaths() error {
	workDir := strings.TrimSpace(c.Paths.WorkDir)
	if workDir == "" {
		workDir = defaultWorkDir
	}
	expanded, err := expandHome(workDir)
	if err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	c.Paths.WorkDir = filepath.Clean(expanded)

	c.Paths.LockFile = strings.TrimSpace(c.Paths.LockFile)
	if c.Paths.LockFile == "" {
		c.Paths.LockFile = defaultLockFile
	}
	if c.Paths.LockFile, err = expandHome(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	textfile := strings.TrimSpace(c.Metrics.Textfile)
	if textfile == "" {
		c.Metrics.Textfile = ""
		return nil
	}
	expanded, err := expandPath(textfile)
	if err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	c.Metrics.Textfile = expanded
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
