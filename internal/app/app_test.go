package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/sdlaunch/tunnelhub/internal/errors"
	"github.com/sdlaunch/tunnelhub/internal/settings"
	"github.com/sdlaunch/tunnelhub/internal/tunnel"
)

// newTestApp builds an Application from command-line arguments, failing the
// test on parse errors.
func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	application, err := New(append([]string{"tunnelhub"}, args...), &errBuf)
	if err != nil {
		t.Fatalf("New(%v): %v\n%s", args, err, errBuf.String())
	}
	return application, &errBuf
}

// seedSettings writes a settings store with the public IP pre-cached so no
// test touches the network.
func seedSettings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := settings.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Write(tunnel.SettingsKeyPublicIP, "203.0.113.7"); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewRejectsUnknownCommand(t *testing.T) {
	var errBuf bytes.Buffer
	if _, err := New([]string{"tunnelhub", "deploy"}, &errBuf); err == nil {
		t.Fatal("expected an error for unknown command")
	}
}

func TestRunVersion(t *testing.T) {
	application, _ := newTestApp(t, "-version")

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.Contains(out.String(), "tunnelhub") {
		t.Errorf("version output %q", out.String())
	}
}

func TestRunTunnelNoClientsInstalled(t *testing.T) {
	// An empty PATH makes every provider client lookup fail fast.
	t.Setenv("PATH", t.TempDir())

	application, _ := newTestApp(t, "tunnel", "-settings", seedSettings(t), "-no-color")

	var out bytes.Buffer
	code := application.Run(context.Background(), &out)

	if code != apperrors.ExitErrorGeneric {
		t.Fatalf("exit code = %d, want %d\n%s", code, apperrors.ExitErrorGeneric, out.String())
	}
	if !strings.Contains(out.String(), "No tunnel established.") {
		t.Errorf("missing failure headline:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "not installed") {
		t.Errorf("missing per-provider reason:\n%s", out.String())
	}
}

func TestRunInstallBatch(t *testing.T) {
	// Stub out curl and git with always-succeeding scripts.
	binDir := t.TempDir()
	for _, tool := range []string{"curl", "git"} {
		script := filepath.Join(binDir, tool)
		if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", binDir)

	dataDir := t.TempDir()
	manifest := filepath.Join(t.TempDir(), "tasks.yaml")
	if err := os.WriteFile(manifest, []byte(`
tasks:
  - kind: download
    source: https://example.com/config.json
    destination: `+dataDir+`/config.json
  - kind: clone
    source: https://github.com/some/extension
    destination: `+dataDir+`/extension
`), 0o644); err != nil {
		t.Fatal(err)
	}

	application, _ := newTestApp(t, "install",
		"-manifest", manifest,
		"-settings", filepath.Join(t.TempDir(), "settings.json"),
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := application.Run(context.Background(), &out)

	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d\n%s", code, apperrors.ExitSuccess, out.String())
	}
	if !strings.Contains(out.String(), "All 2 tasks installed.") {
		t.Errorf("missing success headline:\n%s", out.String())
	}
}

func TestRunInstallAllTasksFail(t *testing.T) {
	binDir := t.TempDir()
	script := filepath.Join(binDir, "curl")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'curl: (22) 404' >&2\nexit 22\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	manifest := filepath.Join(t.TempDir(), "tasks.yaml")
	if err := os.WriteFile(manifest, []byte(`
tasks:
  - kind: download
    source: https://example.com/missing.bin
    destination: `+t.TempDir()+`/missing.bin
`), 0o644); err != nil {
		t.Fatal(err)
	}

	application, _ := newTestApp(t, "install",
		"-manifest", manifest,
		"-settings", filepath.Join(t.TempDir(), "settings.json"),
		"-quiet", "-no-color")

	var out bytes.Buffer
	code := application.Run(context.Background(), &out)

	if code != apperrors.ExitErrorGeneric {
		t.Fatalf("exit code = %d, want %d\n%s", code, apperrors.ExitErrorGeneric, out.String())
	}
}

func TestRunInstallMissingManifest(t *testing.T) {
	application, _ := newTestApp(t, "install",
		"-manifest", filepath.Join(t.TempDir(), "absent.yaml"),
		"-settings", filepath.Join(t.TempDir(), "settings.json"),
		"-quiet")

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}
