package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reachwatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with a unique work directory per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Storefront.CSRFToken = "test-token"
	cfgVal.Storefront.RequestTimeout = 5
	if err := os.MkdirAll(cfgVal.Paths.WorkDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStorefront points the manifest and game URLs at a fake storefront.
func WithStorefront(sf *Storefront) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.URL = sf.ManifestURL()
		b.cfg.Storefront.GameURL = sf.GameURL()
	}
}

// WithTitleMode switches selection to the single-download title policy.
func WithTitleMode(title string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Selection.Mode = config.SelectionTitle
		b.cfg.Selection.TargetTitle = title
	}
}
