// Package runtimepath locates the per-user directory and socket used to
// talk to a running wintk window.
package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SocketEnv names a full socket path that overrides the computed one.
const SocketEnv = "WINTK_SOCKET"

const socketName = "wintk.sock"

// locator holds the inputs of the lookup so tests can replace them.
type locator struct {
	getenv  func(string) string
	uid     int
	runRoot string
	tmpRoot string
}

func system() locator {
	return locator{getenv: os.Getenv, uid: os.Getuid(), runRoot: "/run/user", tmpRoot: os.TempDir()}
}

// Dir returns the runtime directory: $XDG_RUNTIME_DIR, else /run/user/<uid>
// when it exists, else a private wintk-<uid> directory under the system
// temp dir.
func Dir() (string, error) { return system().dir() }

// SocketPath returns the control socket path, honouring $WINTK_SOCKET.
func SocketPath() (string, error) { return system().socketPath() }

func (l locator) dir() (string, error) {
	if d := l.getenv("XDG_RUNTIME_DIR"); d != "" {
		return d, nil
	}
	perUser := filepath.Join(l.runRoot, fmt.Sprint(l.uid))
	if fi, err := os.Stat(perUser); err == nil && fi.IsDir() {
		return perUser, nil
	}
	return l.privateTemp()
}

// privateTemp creates the temp fallback with mode 0700 and refuses one that
// another user owns.
func (l locator) privateTemp() (string, error) {
	d := filepath.Join(l.tmpRoot, fmt.Sprintf("wintk-%d", l.uid))
	if err := os.MkdirAll(d, 0o700); err != nil {
		return "", fmt.Errorf("runtime dir %s: %w", d, err)
	}
	fi, err := os.Stat(d)
	if err != nil {
		return "", fmt.Errorf("runtime dir %s: %w", d, err)
	}
	if owner, ok := fileOwner(fi); ok && owner != l.uid {
		return "", fmt.Errorf("runtime dir %s: %w", d, errForeignOwner)
	}
	return d, nil
}

var errForeignOwner = errors.New("owned by another user")

func (l locator) socketPath() (string, error) {
	if p := l.getenv(SocketEnv); p != "" {
		return p, nil
	}
	d, err := l.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, socketName), nil
}
