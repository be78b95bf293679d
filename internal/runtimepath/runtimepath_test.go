package runtimepath

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func fakeLocator(t *testing.T, env map[string]string) locator {
	t.Helper()
	root := t.TempDir()
	return locator{
		getenv:  func(k string) string { return env[k] },
		uid:     os.Getuid(),
		runRoot: filepath.Join(root, "run"),
		tmpRoot: filepath.Join(root, "tmp"),
	}
}

func TestLocator_Dir(t *testing.T) {
	xdg := t.TempDir()

	tests := []struct {
		name   string
		env    map[string]string
		mkRun  bool
		expect func(l locator) string
	}{
		{
			name:   "xdg wins",
			env:    map[string]string{"XDG_RUNTIME_DIR": xdg},
			mkRun:  true,
			expect: func(locator) string { return xdg },
		},
		{
			name:  "per-user run dir",
			mkRun: true,
			expect: func(l locator) string {
				return filepath.Join(l.runRoot, strconv.Itoa(l.uid))
			},
		},
		{
			name: "private temp fallback",
			expect: func(l locator) string {
				return filepath.Join(l.tmpRoot, "wintk-"+strconv.Itoa(l.uid))
			},
		},
	}
	for _, tt := range tests {
		l := fakeLocator(t, tt.env)
		if tt.mkRun {
			if err := os.MkdirAll(filepath.Join(l.runRoot, strconv.Itoa(l.uid)), 0o700); err != nil {
				t.Fatalf("%s: MkdirAll: %v", tt.name, err)
			}
		}
		got, err := l.dir()
		if err != nil {
			t.Fatalf("%s: dir: %v", tt.name, err)
		}
		if want := tt.expect(l); got != want {
			t.Errorf("%s: expected %q, got %q", tt.name, want, got)
		}
	}
}

func TestLocator_PrivateTempIsOwnerOnly(t *testing.T) {
	l := fakeLocator(t, nil)
	d, err := l.dir()
	if err != nil {
		t.Fatalf("dir: %v", err)
	}
	fi, err := os.Stat(d)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := fi.Mode().Perm(); perm&0o077 != 0 {
		t.Fatalf("expected an owner-only directory, got %v", perm)
	}
}

func TestLocator_SocketPath(t *testing.T) {
	xdg := t.TempDir()

	l := fakeLocator(t, map[string]string{"XDG_RUNTIME_DIR": xdg})
	if got, err := l.socketPath(); err != nil || got != filepath.Join(xdg, "wintk.sock") {
		t.Fatalf("expected socket under XDG_RUNTIME_DIR, got %q (%v)", got, err)
	}

	l = fakeLocator(t, map[string]string{"XDG_RUNTIME_DIR": xdg, SocketEnv: "/custom/ctl.sock"})
	if got, err := l.socketPath(); err != nil || got != "/custom/ctl.sock" {
		t.Fatalf("expected %s to override, got %q (%v)", SocketEnv, got, err)
	}
}

func TestSocketPath_FromEnvironment(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv(SocketEnv, "")
	t.Setenv("XDG_RUNTIME_DIR", xdg)
	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath: %v", err)
	}
	if got != filepath.Join(xdg, "wintk.sock") {
		t.Fatalf("unexpected socket path %q", got)
	}
}
