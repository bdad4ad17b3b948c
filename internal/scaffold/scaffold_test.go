package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorge-barreto/srcparam/internal/config"
	"github.com/jorge-barreto/srcparam/internal/param"
	"github.com/jorge-barreto/srcparam/internal/plan"
)

func TestInit_CreatesDirectoryStructure(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, path := range []string{
		".srcparam",
		filepath.Join(".srcparam", "plans"),
		filepath.Join(".srcparam", "config.yaml"),
		filepath.Join(".srcparam", "plans", "example.yaml"),
	} {
		full := filepath.Join(dir, path)
		info, err := os.Stat(full)
		if err != nil {
			t.Fatalf("%s not created: %v", path, err)
		}
		if !info.IsDir() && info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestInit_GeneratedConfigIsDefault(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dir, ".srcparam", "config.yaml"))
	if err != nil {
		t.Fatalf("config.Load failed on generated config: %v", err)
	}
	if cfg.ParamLimits() != param.DefaultLimits() {
		t.Fatalf("limits = %+v, want defaults", cfg.ParamLimits())
	}
	if cfg.OutputSuffix != config.DefaultOutputSuffix || cfg.Log.Level != config.DefaultLogLevel {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestInit_GeneratedPlanIsValid(t *testing.T) {
	dir := t.TempDir()
	if err := Init(dir); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	p, err := plan.Load(filepath.Join(dir, ".srcparam", "plans", "example.yaml"))
	if err != nil {
		t.Fatalf("plan.Load failed on generated plan: %v", err)
	}
	if len(p.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(p.Steps))
	}
}

func TestInit_FailsIfDirExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".srcparam"), 0755); err != nil {
		t.Fatal(err)
	}

	err := Init(dir)
	if err == nil {
		t.Fatal("expected error when .srcparam already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected error containing 'already exists', got: %s", err)
	}
}
