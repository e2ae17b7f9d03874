package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func validateAndNormalizePath(path string) (string, error) {
	abs, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, not a file", abs)
	}

	return abs, nil
}

func normalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("runbook path cannot be empty")
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	return filepath.Abs(path)
}

// resolveRunbook accepts either a file path or a registry id.
func (a *appContext) resolveRunbook(arg string) (string, error) {
	abs, pathErr := validateAndNormalizePath(arg)
	if pathErr == nil {
		return abs, nil
	}

	if !strings.ContainsAny(arg, `/\.`) {
		reg, err := a.openRegistry()
		if err == nil {
			if entry, err := reg.Get(arg); err == nil {
				return validateAndNormalizePath(entry.Path)
			}
		}
	}
	return "", pathErr
}

func deriveTitleFromPath(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return strings.TrimSpace(base)
}
