// SPDX-License-Identifier: Apache-2.0

package generate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/generate"
	"runwrap/internal/install"
	"runwrap/internal/venv"
)

// makeLocalProject creates a project directory with an entry point and a venv.
func makeLocalProject(t *testing.T, venvName, entryPoint string) discovery.Project {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, entryPoint), []byte("print('hi')\n"), 0o644))

	binDir := filepath.Join(dir, venvName, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/true\n"), 0o755))

	return discovery.Project{
		Name:       filepath.Base(dir),
		Path:       dir,
		ServerName: "local",
	}
}

func TestRun_Defaults(t *testing.T) {
	p := makeLocalProject(t, ".venv", "main.py")

	result, err := generate.Run(p, generate.Options{}, config.Config{})
	require.NoError(t, err)

	assert.Equal(t, ".venv", result.VenvName)
	assert.Equal(t, filepath.Join(p.Path, "run.sh"), result.Path)
	assert.Contains(t, result.Script, "PYTHON='.venv/bin/python'")
	assert.Contains(t, result.Script, `exec "$PYTHON" 'main.py' "$@"`)

	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestRun_InstallDeps(t *testing.T) {
	p := makeLocalProject(t, ".venv", "main.py")

	result, err := generate.Run(p, generate.Options{InstallDeps: true}, config.Config{})
	require.NoError(t, err)

	assert.Contains(t, result.Script, "REQUIREMENTS='requirements.txt'")
	assert.Contains(t, result.Script, "DEPS_FLAG='.venv/.deps_installed'")
	assert.Contains(t, result.Script, "pip install")
}

func TestRun_ExplicitOptions(t *testing.T) {
	p := makeLocalProject(t, "env", "serve.py")

	result, err := generate.Run(p, generate.Options{
		EntryPoint:       "serve.py",
		VenvName:         "env",
		Output:           "start.sh",
		InstallDeps:      true,
		RequirementsFile: "requirements-prod.txt",
	}, config.Config{})
	require.NoError(t, err)

	assert.Equal(t, "env", result.VenvName)
	assert.Equal(t, filepath.Join(p.Path, "start.sh"), result.Path)
	assert.Contains(t, result.Script, "REQUIREMENTS='requirements-prod.txt'")
	assert.Contains(t, result.Script, `exec "$PYTHON" 'serve.py' "$@"`)
}

func TestRun_NoVenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("x\n"), 0o644))
	p := discovery.Project{Name: "bare", Path: dir, ServerName: "local"}

	_, err := generate.Run(p, generate.Options{}, config.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, venv.ErrNotFound)
	assert.Contains(t, err.Error(), "python -m venv")
}

func TestRun_BadExplicitVenv(t *testing.T) {
	p := makeLocalProject(t, ".venv", "main.py")

	_, err := generate.Run(p, generate.Options{VenvName: "missing"}, config.Config{})
	assert.Error(t, err)
}

func TestRun_MissingEntryPoint(t *testing.T) {
	p := makeLocalProject(t, ".venv", "main.py")

	_, err := generate.Run(p, generate.Options{EntryPoint: "other.py"}, config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry point")
}

func TestRun_ExistingWrapper(t *testing.T) {
	p := makeLocalProject(t, ".venv", "main.py")
	require.NoError(t, os.WriteFile(filepath.Join(p.Path, "run.sh"), []byte("old\n"), 0o644))

	_, err := generate.Run(p, generate.Options{}, config.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, install.ErrExists)

	// Force replaces it.
	result, err := generate.Run(p, generate.Options{Force: true}, config.Config{})
	require.NoError(t, err)
	content, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "#!/usr/bin/env bash")
}
