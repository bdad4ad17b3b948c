package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"

	"github.com/jorge-barreto/srcparam/internal/anchor"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func TestFindProjectRoot_WalksUp(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".srcparam"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "parts", "batch1")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	chdir(t, nested)

	got, err := findProjectRoot()
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Fatalf("got %q, want %q", got, root)
	}
}

func TestFindProjectRoot_NotFound(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := findProjectRoot()
	if err == nil || !strings.Contains(err.Error(), "no .srcparam directory found") {
		t.Fatalf("got %v", err)
	}
}

func parseAnchor(t *testing.T, args ...string) (anchor.Anchor, error) {
	t.Helper()
	var (
		got  anchor.Anchor
		perr error
	)
	cmd := &cli.Command{
		Name:  "bind",
		Flags: anchorFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			got, perr = anchorFromFlags(cmd)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"bind"}, args...)); err != nil {
		t.Fatal(err)
	}
	return got, perr
}

func TestAnchorFromFlags(t *testing.T) {
	a, err := parseAnchor(t, "--z", "12.5", "--kind", "TOOL_RPM")
	if err != nil {
		t.Fatal(err)
	}
	if a != anchor.AtZ(12.5) {
		t.Fatalf("got %+v", a)
	}

	a, err = parseAnchor(t, "--progress", "50", "-k", "cooling")
	if err != nil {
		t.Fatal(err)
	}
	if a != anchor.AtProgress(50) {
		t.Fatalf("got %+v", a)
	}

	if _, err := parseAnchor(t, "--z", "1", "--progress", "5", "--kind", "drive"); err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("got %v", err)
	}
	if _, err := parseAnchor(t, "--kind", "drive"); err == nil || !strings.Contains(err.Error(), "one of --z or --progress") {
		t.Fatalf("got %v", err)
	}
}
