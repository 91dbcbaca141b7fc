// SPDX-License-Identifier: Apache-2.0

package venv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/venv"
)

// makeVenv creates dir/name/bin/python with the given mode.
func makeVenv(t *testing.T, dir, name string, mode os.FileMode) {
	t.Helper()
	binDir := filepath.Join(dir, name, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/true\n"), mode))
}

func TestIsVenv(t *testing.T) {
	dir := t.TempDir()

	makeVenv(t, dir, ".venv", 0o755)
	assert.True(t, venv.IsVenv(filepath.Join(dir, ".venv")))

	// Missing entirely.
	assert.False(t, venv.IsVenv(filepath.Join(dir, "nope")))

	// bin/python present but not executable.
	makeVenv(t, dir, "broken", 0o644)
	assert.False(t, venv.IsVenv(filepath.Join(dir, "broken")))
}

func TestList_PreferredFirst(t *testing.T) {
	dir := t.TempDir()
	makeVenv(t, dir, "aaa", 0o755)
	makeVenv(t, dir, "venv", 0o755)
	makeVenv(t, dir, ".venv", 0o755)

	found, err := venv.List(dir, []string{".venv", "venv", "env"})
	require.NoError(t, err)

	// Preferred names lead, the scan picks up the rest without duplicates.
	assert.Equal(t, []string{".venv", "venv", "aaa"}, found)
}

func TestList_ScanFallback(t *testing.T) {
	dir := t.TempDir()
	makeVenv(t, dir, "custom-env", 0o755)

	// Non-venv noise is ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print()\n"), 0o644))

	found, err := venv.List(dir, []string{".venv", "venv", "env"})
	require.NoError(t, err)
	assert.Equal(t, []string{"custom-env"}, found)
}

func TestList_UnreadableProject(t *testing.T) {
	_, err := venv.List(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	makeVenv(t, dir, "env", 0o755)

	name, err := venv.Find(dir, []string{".venv", "venv", "env"})
	require.NoError(t, err)
	assert.Equal(t, "env", name)
}

func TestFind_NotFound(t *testing.T) {
	_, err := venv.Find(t.TempDir(), []string{".venv"})
	require.Error(t, err)
	assert.ErrorIs(t, err, venv.ErrNotFound)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	makeVenv(t, dir, ".venv", 0o755)

	assert.NoError(t, venv.Validate(dir, ".venv"))
	assert.Error(t, venv.Validate(dir, "missing"))

	// A directory without bin/python is rejected.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "plain"), 0o755))
	assert.Error(t, venv.Validate(dir, "plain"))
}
