package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reachwatch/internal/config"
	"reachwatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        config.Config
	storefront *testsupport.Storefront
	configPath string
	baseDir    string
}

// setupCLITestEnv starts a fake storefront and writes a config pointing at
// it. The working directory becomes the work dir so printed paths are
// relative, as they are for a cron job run from the archive checkout.
func setupCLITestEnv(t *testing.T, uploads ...testsupport.Upload) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CSRF_TOKEN", "")
	t.Setenv("LOG_LEVEL", "")

	workDir := filepath.Join(base, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	t.Chdir(workDir)

	sf := testsupport.NewStorefront(t, uploads...)
	cfg := config.Default()
	cfg.Manifest.URL = sf.ManifestURL()
	cfg.Storefront.GameURL = sf.GameURL()
	cfg.Storefront.CSRFToken = "test-token"
	cfg.Storefront.RequestTimeout = 5

	env := &cliTestEnv{
		cfg:        cfg,
		storefront: sf,
		configPath: filepath.Join(base, "reachwatch.toml"),
		baseDir:    base,
	}
	env.writeConfig(t)
	return env
}

func (e *cliTestEnv) writeConfig(t *testing.T) {
	t.Helper()
	data, err := toml.Marshal(e.cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(e.configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
