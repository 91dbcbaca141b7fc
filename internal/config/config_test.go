// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/config"
)

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.SSHHosts)
	assert.Empty(t, cfg.LocalRoot)
}

func TestSaveAndLoadConfig_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	want := config.Config{
		LocalRoot:        "~/code",
		EntryPoint:       "app.py",
		WrapperName:      "start.sh",
		RequirementsFile: "requirements-prod.txt",
		VenvDirs:         []string{".virtualenv"},
		SSHHosts: []config.SSHHost{
			{Name: "web1", Hostname: "web1.example.com", User: "deploy", Port: 2222, RemoteRoot: "~/apps"},
		},
	}
	require.NoError(t, config.SaveConfig(want))

	got, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfig_KeepsDisabledHosts(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, config.SaveConfig(config.Config{
		SSHHosts: []config.SSHHost{
			{Name: "on", Hostname: "a", User: "u"},
			{Name: "off", Hostname: "b", User: "u", Disabled: true},
		},
	}))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.SSHHosts, 2)
	assert.True(t, cfg.SSHHosts[1].Disabled)

	enabled := cfg.EnabledSSHHosts()
	require.Len(t, enabled, 1)
	assert.Equal(t, "on", enabled[0].Name)
}

func TestSaveConfig_MutationPreservesDisabledHosts(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	require.NoError(t, config.SaveConfig(config.Config{
		SSHHosts: []config.SSHHost{
			{Name: "on", Hostname: "a", User: "u"},
			{Name: "off", Hostname: "b", User: "u", Disabled: true},
		},
	}))

	// The load-mutate-save cycle every config subcommand performs.
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.EntryPoint = "app.py"
	require.NoError(t, config.SaveConfig(cfg))

	got, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "app.py", got.EntryPoint)
	require.Len(t, got.SSHHosts, 2)
	assert.Equal(t, "off", got.SSHHosts[1].Name)
	assert.True(t, got.SSHHosts[1].Disabled)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	require.NoError(t, os.MkdirAll(filepath.Join(configHome, "runwrap"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(configHome, "runwrap", "config.yaml"),
		[]byte("ssh_hosts: [unterminated"), 0o640))

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestEffectiveDefaults(t *testing.T) {
	var cfg config.Config
	assert.Equal(t, "main.py", cfg.EffectiveEntryPoint())
	assert.Equal(t, "run.sh", cfg.EffectiveWrapperName())
	assert.Equal(t, "requirements.txt", cfg.EffectiveRequirementsFile())
	assert.Equal(t, []string{".venv", "venv", "env"}, cfg.EffectiveVenvDirs())

	cfg = config.Config{
		EntryPoint:       "serve.py",
		WrapperName:      "go.sh",
		RequirementsFile: "reqs.txt",
		VenvDirs:         []string{"environment"},
	}
	assert.Equal(t, "serve.py", cfg.EffectiveEntryPoint())
	assert.Equal(t, "go.sh", cfg.EffectiveWrapperName())
	assert.Equal(t, "reqs.txt", cfg.EffectiveRequirementsFile())
	assert.Equal(t, []string{"environment"}, cfg.EffectiveVenvDirs())
}

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	resolved, err := config.ResolvePath("~/projects")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "projects"), resolved)

	// Paths without the prefix pass through untouched.
	resolved, err = config.ResolvePath("/opt/projects")
	require.NoError(t, err)
	assert.Equal(t, "/opt/projects", resolved)
}
