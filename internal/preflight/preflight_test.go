package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"reachwatch/internal/config"
	"reachwatch/internal/runlock"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".reachwatch.lock")
	if result := CheckLock("lock", path); !result.Passed {
		t.Fatalf("expected free lock, got: %s", result.Detail)
	}

	held := runlock.New(path)
	if err := held.Acquire(); err != nil {
		t.Fatal(err)
	}
	defer held.Release()

	if result := CheckLock("lock", path); result.Passed {
		t.Fatal("expected failure while another holder has the lock")
	}
}

func TestCheckCSRFToken(t *testing.T) {
	if CheckCSRFToken("  ").Passed {
		t.Fatal("expected empty token to fail")
	}
	if !CheckCSRFToken("abc").Passed {
		t.Fatal("expected configured token to pass")
	}
}

func TestCheckEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if result := CheckEndpoint(context.Background(), "ok", srv.Client(), srv.URL+"/versions.json"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckEndpoint(context.Background(), "missing", srv.Client(), srv.URL+"/missing"); result.Passed {
		t.Fatal("expected failure for 404")
	}
	if result := CheckEndpoint(context.Background(), "empty", nil, ""); result.Passed {
		t.Fatal("expected failure for missing url")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil, nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Storefront.CSRFToken = "token"
	cfg.Manifest.URL = srv.URL + "/versions.json"
	cfg.Storefront.GameURL = srv.URL + "/game"

	results := RunAll(context.Background(), &cfg, srv.Client())
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}
