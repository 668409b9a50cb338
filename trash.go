package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"
)

// SoftDeleter moves a single path somewhere it can be recovered from.
type SoftDeleter interface {
	SoftDelete(path string) error
}

// SoftDeleteFunc adapts an ordinary function to SoftDeleter.
type SoftDeleteFunc func(path string) error

func (f SoftDeleteFunc) SoftDelete(path string) error { return f(path) }

var errTrashUnsupported = errors.New("trash: no trash location known for " + runtime.GOOS + "; set trash_dir in the config")

// trashBin implements SoftDeleter on a trash directory. With info enabled it
// follows the freedesktop.org layout (files/ + info/*.trashinfo) so desktop
// file managers can restore entries.
type trashBin struct {
	dir  string
	info bool
	now  func() time.Time
}

func newTrashBin(override string) (*trashBin, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return nil, fmt.Errorf("trash: resolve %s: %w", override, err)
		}
		return &trashBin{dir: abs, info: true, now: time.Now}, nil
	}
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("trash: %w", err)
		}
		return &trashBin{dir: filepath.Join(home, ".Trash"), now: time.Now}, nil
	case "windows", "plan9", "js", "wasip1":
		return nil, errTrashUnsupported
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return &trashBin{dir: filepath.Join(xdg, "Trash"), info: true, now: time.Now}, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("trash: %w", err)
		}
		return &trashBin{dir: filepath.Join(home, ".local", "share", "Trash"), info: true, now: time.Now}, nil
	}
}

func (t *trashBin) filesDir() string {
	if !t.info {
		return t.dir
	}
	return filepath.Join(t.dir, "files")
}

func (t *trashBin) infoDir() string {
	return filepath.Join(t.dir, "info")
}

func (t *trashBin) SoftDelete(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}
	if err := os.MkdirAll(t.filesDir(), 0o700); err != nil {
		return err
	}
	if t.info {
		if err := os.MkdirAll(t.infoDir(), 0o700); err != nil {
			return err
		}
	}

	name, infoPath, err := t.reserve(abs)
	if err != nil {
		return err
	}
	dst := filepath.Join(t.filesDir(), name)
	if err := os.Rename(abs, dst); err != nil {
		if infoPath != "" {
			_ = os.Remove(infoPath)
		}
		if errors.Is(err, syscall.EXDEV) {
			return fmt.Errorf("%s is on a different filesystem than the trash at %s", abs, t.dir)
		}
		return err
	}
	return nil
}

// reserve picks an unused name in the trash. In info mode the name is claimed
// by creating its .trashinfo file exclusively.
func (t *trashBin) reserve(abs string) (string, string, error) {
	base := filepath.Base(abs)
	for attempt := 0; attempt < 8; attempt++ {
		name := base
		if attempt > 0 {
			name = base + uniqueSuffix()
		}
		if !t.info {
			if _, err := os.Lstat(filepath.Join(t.filesDir(), name)); errors.Is(err, os.ErrNotExist) {
				return name, "", nil
			}
			continue
		}
		if _, err := os.Lstat(filepath.Join(t.filesDir(), name)); err == nil {
			continue
		}
		infoPath := filepath.Join(t.infoDir(), name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", err
		}
		_, writeErr := f.WriteString(trashInfo(abs, t.now()))
		closeErr := f.Close()
		if err := errors.Join(writeErr, closeErr); err != nil {
			_ = os.Remove(infoPath)
			return "", "", err
		}
		return name, infoPath, nil
	}
	return "", "", fmt.Errorf("no free name for %s in %s", base, t.dir)
}

func trashInfo(abs string, deletedAt time.Time) string {
	escaped := (&url.URL{Path: filepath.ToSlash(abs)}).EscapedPath()
	var b strings.Builder
	b.WriteString("[Trash Info]\n")
	b.WriteString("Path=" + escaped + "\n")
	b.WriteString("DeletionDate=" + deletedAt.Format("2006-01-02T15:04:05") + "\n")
	return b.String()
}

func uniqueSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf(".%d", time.Now().UnixNano())
	}
	return "." + hex.EncodeToString(b)
}
