package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	configFileName = ".extsweep.json"
	configDirName  = "extsweep"
)

// Config is the on-disk configuration. Flags override every field.
type Config struct {
	PageSize int      `json:"page_size"`
	Confirm  *bool    `json:"confirm"`
	Skip     []string `json:"skip"`
	TrashDir string   `json:"trash_dir"`
}

// configSearchPath lists config locations, most specific first: the scanned
// root, then the XDG config dir, then ~/.config.
func configSearchPath(root string) []string {
	var paths []string
	if root != "" {
		paths = append(paths, filepath.Join(root, configFileName))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, configDirName, "config.json"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", configDirName, "config.json"))
	}
	return paths
}

// findConfig picks the config file to load. An explicit path must exist;
// search path entries that are missing are passed over.
func findConfig(root, explicit string) (string, bool, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", false, &ConfigurationError{Setting: "file", Err: err}
		}
		return explicit, true, nil
	}
	for _, candidate := range configSearchPath(root) {
		info, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", false, &ConfigurationError{Setting: "file", Err: err}
		}
		if info.Mode().IsRegular() {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// loadConfig decodes path strictly: unknown keys are rejected so a typo does
// not silently fall back to a default.
func loadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigurationError{Setting: "file", Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ConfigurationError{Setting: "file", Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return cfg, nil
}

// normalizeConfig fills defaults. A zero page size means the default.
func normalizeConfig(cfg Config) (Config, error) {
	switch {
	case cfg.PageSize < 0:
		return Config{}, &ConfigurationError{
			Setting: "page_size",
			Err:     fmt.Errorf("%w (got %d)", ErrInvalidPageSize, cfg.PageSize),
		}
	case cfg.PageSize == 0:
		cfg.PageSize = defaultPageSize
	}
	return cfg, nil
}

// skipSet holds directory base names the scanner prunes.
type skipSet map[string]struct{}

// newSkipSet unions the given name lists. It is nil when no name is given.
func newSkipSet(lists ...[]string) skipSet {
	var set skipSet
	for _, list := range lists {
		for _, name := range list {
			if name == "" {
				continue
			}
			if set == nil {
				set = skipSet{}
			}
			set[name] = struct{}{}
		}
	}
	return set
}
