// SPDX-License-Identifier: Apache-2.0

package wrapper_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/wrapper"
)

func TestNewData(t *testing.T) {
	d := wrapper.NewData(".venv", "main.py", "requirements.txt", true)

	assert.Equal(t, ".venv/bin/python", d.VenvPython)
	assert.Equal(t, "main.py", d.EntryPoint)
	assert.Equal(t, "requirements.txt", d.RequirementsFile)
	assert.Equal(t, ".venv/.deps_installed", d.FlagFile)
	assert.True(t, d.InstallDeps)
}

func TestRender_Minimal(t *testing.T) {
	script, err := wrapper.Render(wrapper.NewData("venv", "app.py", "requirements.txt", false))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "#!/usr/bin/env bash\n"))
	assert.Contains(t, script, "set -euo pipefail")
	assert.Contains(t, script, `cd "$(dirname "${BASH_SOURCE[0]}")"`)
	assert.Contains(t, script, "PYTHON='venv/bin/python'")
	assert.Contains(t, script, `exec "$PYTHON" 'app.py' "$@"`)

	// No dependency handling without InstallDeps.
	assert.NotContains(t, script, "pip install")
	assert.NotContains(t, script, "DEPS_FLAG")
}

func TestRender_WithInstallDeps(t *testing.T) {
	script, err := wrapper.Render(wrapper.NewData(".venv", "main.py", "requirements.txt", true))
	require.NoError(t, err)

	assert.Contains(t, script, "REQUIREMENTS='requirements.txt'")
	assert.Contains(t, script, "DEPS_FLAG='.venv/.deps_installed'")
	assert.Contains(t, script, `[ ! -e "$DEPS_FLAG" ] || [ "$REQUIREMENTS" -nt "$DEPS_FLAG" ]`)
	assert.Contains(t, script, `"$PYTHON" -m pip install -r "$REQUIREMENTS"`)
	assert.Contains(t, script, `touch "$DEPS_FLAG"`)
}

func TestRender_QuotesAwkwardNames(t *testing.T) {
	script, err := wrapper.Render(wrapper.NewData("my venv", "it's main.py", "requirements.txt", false))
	require.NoError(t, err)

	assert.Contains(t, script, "PYTHON='my venv/bin/python'")
	assert.Contains(t, script, `exec "$PYTHON" 'it'\''s main.py' "$@"`)
}

func TestRender_MissingFields(t *testing.T) {
	_, err := wrapper.Render(wrapper.Data{EntryPoint: "main.py"})
	assert.Error(t, err)

	_, err = wrapper.Render(wrapper.Data{VenvPython: ".venv/bin/python"})
	assert.Error(t, err)

	// InstallDeps requires the lockfile and flag file.
	_, err = wrapper.Render(wrapper.Data{
		VenvPython:  ".venv/bin/python",
		EntryPoint:  "main.py",
		InstallDeps: true,
	})
	assert.Error(t, err)
}
