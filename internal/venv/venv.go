// SPDX-License-Identifier: Apache-2.0

// Package venv locates Python virtual environments inside a project
// directory. A directory counts as a virtual environment when it contains a
// regular, executable bin/python.
package venv

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"runwrap/internal/logger"
)

// ErrNotFound is returned when a project contains no virtual environment.
var ErrNotFound = fmt.Errorf("no virtual environment found")

// PythonRelPath is the interpreter location inside a venv directory.
const PythonRelPath = "bin/python"

// DepsFlagFile is the marker file the generated wrapper touches after a
// successful dependency install. It lives inside the venv directory so a
// rebuilt venv always triggers a reinstall.
const DepsFlagFile = ".deps_installed"

// IsVenv reports whether dir contains an executable bin/python.
func IsVenv(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, PythonRelPath))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}

// List returns every venv directory name found in the project, preferred
// names first, then the remaining matches in directory order.
func List(projectPath string, preferred []string) ([]string, error) {
	var found []string

	for _, name := range preferred {
		if IsVenv(filepath.Join(projectPath, name)) {
			found = append(found, name)
		}
	}

	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory %s: %w", projectPath, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || slices.Contains(found, entry.Name()) {
			continue
		}
		if IsVenv(filepath.Join(projectPath, entry.Name())) {
			found = append(found, entry.Name())
		}
	}

	return found, nil
}

// Find returns the venv directory name the generator should use: the first
// preferred name that holds a venv, else the first match from a full scan.
func Find(projectPath string, preferred []string) (string, error) {
	logger.Debug("Searching for virtual environment", "project", projectPath)

	found, err := List(projectPath, preferred)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNotFound, projectPath)
	}

	logger.Debug("Virtual environment found", "project", projectPath, "venv", found[0])
	return found[0], nil
}

// Validate checks that an explicitly named venv directory is usable.
func Validate(projectPath, name string) error {
	dir := filepath.Join(projectPath, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("'%s' is not a directory in %s", name, projectPath)
	}
	if !IsVenv(dir) {
		return fmt.Errorf("'%s' is not a valid virtual environment (no executable %s)", dir, PythonRelPath)
	}
	return nil
}
