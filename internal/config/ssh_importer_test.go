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

func writeSSHConfig(t *testing.T, content string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".ssh"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".ssh", "config"), []byte(content), 0o600))
}

func TestParseSSHConfig(t *testing.T) {
	writeSSHConfig(t, `
Host web1
    HostName web1.example.com
    User deploy
    Port 2222
    IdentityFile ~/.ssh/id_ed25519

Host bare
    User alice

Host *
    ForwardAgent yes

Host no-user
    HostName nouser.example.com
`)

	hosts, err := config.ParseSSHConfig()
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	web1 := hosts[0]
	assert.Equal(t, "web1", web1.Alias)
	assert.Equal(t, "web1.example.com", web1.Hostname)
	assert.Equal(t, "deploy", web1.User)
	assert.Equal(t, 2222, web1.Port)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), web1.KeyPath)

	// Without a HostName the alias is used, and the port defaults.
	bare := hosts[1]
	assert.Equal(t, "bare", bare.Alias)
	assert.Equal(t, "bare", bare.Hostname)
	assert.Equal(t, 22, bare.Port)
}

func TestParseSSHConfig_MissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	hosts, err := config.ParseSSHConfig()
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestConvertToSSHHost(t *testing.T) {
	p := config.PotentialHost{
		Alias:    "web1",
		Hostname: "web1.example.com",
		User:     "deploy",
		Port:     2222,
		KeyPath:  "/home/me/.ssh/id_ed25519",
	}

	host, err := config.ConvertToSSHHost(p, "prod-web", "~/apps")
	require.NoError(t, err)
	assert.Equal(t, "prod-web", host.Name)
	assert.Equal(t, "web1.example.com", host.Hostname)
	assert.Equal(t, "deploy", host.User)
	assert.Equal(t, 2222, host.Port)
	assert.Equal(t, "~/apps", host.RemoteRoot)

	_, err = config.ConvertToSSHHost(p, "", "")
	assert.Error(t, err)

	_, err = config.ConvertToSSHHost(config.PotentialHost{Alias: "x"}, "x", "")
	assert.Error(t, err)
}
