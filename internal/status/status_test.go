// SPDX-License-Identifier: Apache-2.0

package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/status"
)

func makeProject(t *testing.T, withVenv, withWrapper bool) discovery.Project {
	t.Helper()
	dir := t.TempDir()

	if withVenv {
		binDir := filepath.Join(dir, ".venv", "bin")
		require.NoError(t, os.MkdirAll(binDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/true\n"), 0o755))
	}
	if withWrapper {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/usr/bin/env bash\n"), 0o755))
	}

	return discovery.Project{Name: filepath.Base(dir), Path: dir, ServerName: "local"}
}

func TestCheck_VenvAndWrapper(t *testing.T) {
	st := status.Check(makeProject(t, true, true), config.Config{})
	require.NoError(t, st.Err)
	assert.Equal(t, ".venv", st.VenvName)
	assert.True(t, st.HasWrapper)
}

func TestCheck_NothingFound(t *testing.T) {
	st := status.Check(makeProject(t, false, false), config.Config{})
	require.NoError(t, st.Err)
	assert.Empty(t, st.VenvName)
	assert.False(t, st.HasWrapper)
}

func TestCheck_CustomWrapperName(t *testing.T) {
	p := makeProject(t, true, false)
	require.NoError(t, os.WriteFile(filepath.Join(p.Path, "start.sh"), []byte("x\n"), 0o755))

	st := status.Check(p, config.Config{WrapperName: "start.sh"})
	require.NoError(t, st.Err)
	assert.True(t, st.HasWrapper)
}

func TestCheckAll(t *testing.T) {
	projects := []discovery.Project{
		makeProject(t, true, true),
		makeProject(t, true, false),
		makeProject(t, false, false),
	}

	statuses := status.CheckAll(projects, config.Config{})
	require.Len(t, statuses, 3)

	byName := make(map[string]status.ProjectStatus, len(statuses))
	for _, st := range statuses {
		byName[st.Project.Name] = st
	}
	assert.True(t, byName[projects[0].Name].HasWrapper)
	assert.Equal(t, ".venv", byName[projects[1].Name].VenvName)
	assert.Empty(t, byName[projects[2].Name].VenvName)
}

func TestCheckAll_Empty(t *testing.T) {
	assert.Nil(t, status.CheckAll(nil, config.Config{}))
}
