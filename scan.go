package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileEntry is one regular file found under the scanned root.
type FileEntry struct {
	Path    string
	RelPath string
	Size    int64
}

type ScanOptions struct {
	Root     string
	SkipDirs map[string]struct{}
}

type ScanResult struct {
	Root     string
	Entries  []FileEntry
	Warnings []ScanWarning
	Visited  int
	Elapsed  time.Duration
	// Err is set when the walk was cancelled before it covered the whole
	// tree. Entries is then partial and must not replace a complete index.
	Err error
}

// Scanner produces a ScanResult for a validated root. The session calls it
// through this type so the terminal front end can wrap it with a spinner.
type Scanner func(ctx context.Context, opts ScanOptions) ScanResult

// Scan walks opts.Root and returns every reachable regular file, including
// symlinks whose target is a regular file. Symlinked directories are not
// descended. A root that is itself a file yields that one file. Entries that
// cannot be read are reported as warnings and skipped; the walk itself always
// completes unless ctx is cancelled.
func Scan(ctx context.Context, opts ScanOptions) (result ScanResult) {
	start := time.Now()
	result = ScanResult{Root: opts.Root}
	defer func() { result.Elapsed = time.Since(start) }()

	if info, err := os.Stat(opts.Root); err == nil && info.Mode().IsRegular() {
		if err := ctx.Err(); err != nil {
			result.Err = err
			return result
		}
		result.Entries = append(result.Entries, FileEntry{
			Path:    opts.Root,
			RelPath: filepath.Base(opts.Root),
			Size:    info.Size(),
		})
		return result
	}

	rootHandle, err := os.OpenRoot(opts.Root)
	if err != nil {
		result.Warnings = append(result.Warnings, ScanWarning{Path: opts.Root, Err: fmt.Errorf("scan: open root: %w", err)})
		return result
	}
	defer rootHandle.Close()

	walkErr := fs.WalkDir(rootHandle.FS(), ".", func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		full := filepath.Join(opts.Root, filepath.FromSlash(path))
		if err != nil {
			result.Warnings = append(result.Warnings, ScanWarning{Path: full, Err: err})
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			result.Visited++
			if path == "." {
				return nil
			}
			if _, ok := opts.SkipDirs[entry.Name()]; ok {
				return fs.SkipDir
			}
			return nil
		}
		var info fs.FileInfo
		switch {
		case entry.Type().IsRegular():
			var infoErr error
			info, infoErr = entry.Info()
			if infoErr != nil {
				result.Warnings = append(result.Warnings, ScanWarning{Path: full, Err: infoErr})
				return nil
			}
		case entry.Type()&fs.ModeSymlink != 0:
			// Targets may live outside the root, so resolve through the
			// host filesystem rather than the root handle. Dangling links
			// are not files and are skipped quietly.
			target, statErr := os.Stat(full)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
			info = target
		default:
			return nil
		}
		result.Entries = append(result.Entries, FileEntry{
			Path:    full,
			RelPath: filepath.FromSlash(path),
			Size:    info.Size(),
		})
		return nil
	})

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			result.Err = walkErr
			walkErr = fmt.Errorf("scan: stopped early: %w", walkErr)
		}
		result.Warnings = append(result.Warnings, ScanWarning{Path: opts.Root, Err: walkErr})
	}
	return result
}
