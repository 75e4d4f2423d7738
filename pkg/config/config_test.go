package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lazorkit/lazor/pkg/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := Default()
	if cfg.Solver.TimeLimitSeconds != want.Solver.TimeLimitSeconds {
		t.Errorf("TimeLimitSeconds = %d, want %d", cfg.Solver.TimeLimitSeconds, want.Solver.TimeLimitSeconds)
	}
	if cfg.Solver.Convention != "wall" {
		t.Errorf("Convention = %q, want wall", cfg.Solver.Convention)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[solver]
time_limit_seconds = 30
convention = "center"
seeds = [4, 8]

[cache]
backend = "redis"
redis_addr = "cache:6379"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Solver.TimeLimitSeconds != 30 {
		t.Errorf("TimeLimitSeconds = %d, want 30", cfg.Solver.TimeLimitSeconds)
	}
	if cfg.Solver.Convention != "center" {
		t.Errorf("Convention = %q, want center", cfg.Solver.Convention)
	}
	if len(cfg.Solver.Seeds) != 2 || cfg.Solver.Seeds[0] != 4 || cfg.Solver.Seeds[1] != 8 {
		t.Errorf("Seeds = %v, want [4 8]", cfg.Solver.Seeds)
	}
	if cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("RedisAddr = %q, want cache:6379", cfg.Cache.RedisAddr)
	}
	// Untouched sections keep their defaults
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[solver\nbroken"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load of malformed TOML should error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := Path()
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if path != filepath.Join("/tmp/xdg", "lazor", "config.toml") {
		t.Errorf("Path = %q", path)
	}
}

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdgcache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdgcache", "lazor") {
		t.Errorf("CacheDir = %q", dir)
	}
}
