// SPDX-License-Identifier: Apache-2.0

package install_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/discovery"
	"runwrap/internal/install"
)

const script = "#!/usr/bin/env bash\necho hi\n"

func localProject(t *testing.T) discovery.Project {
	t.Helper()
	return discovery.Project{
		Name:       "demo",
		Path:       t.TempDir(),
		ServerName: "local",
	}
}

func TestInstall_Local(t *testing.T) {
	p := localProject(t)

	path, err := install.Install(install.Request{Project: p, Script: script, Output: "run.sh"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(p.Path, "run.sh"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, script, string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestInstall_RefusesOverwrite(t *testing.T) {
	p := localProject(t)
	target := filepath.Join(p.Path, "run.sh")
	require.NoError(t, os.WriteFile(target, []byte("old\n"), 0o644))

	_, err := install.Install(install.Request{Project: p, Script: script, Output: "run.sh"})
	require.Error(t, err)
	assert.ErrorIs(t, err, install.ErrExists)

	// The existing file is untouched.
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(content))
}

func TestInstall_ForceOverwrites(t *testing.T) {
	p := localProject(t)
	target := filepath.Join(p.Path, "run.sh")
	require.NoError(t, os.WriteFile(target, []byte("old\n"), 0o644))

	path, err := install.Install(install.Request{Project: p, Script: script, Output: "run.sh", Force: true})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, script, string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestInstall_RejectsEmptyInput(t *testing.T) {
	p := localProject(t)

	_, err := install.Install(install.Request{Project: p, Script: "", Output: "run.sh"})
	assert.Error(t, err)

	_, err = install.Install(install.Request{Project: p, Script: script, Output: ""})
	assert.Error(t, err)
}
