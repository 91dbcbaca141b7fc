// SPDX-License-Identifier: Apache-2.0

// Package config handles application configuration including reading and
// writing the configuration file, managing SSH host definitions, and the
// defaults used when generating wrapper scripts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Generator defaults used when the corresponding flag is not given.
const (
	DefaultEntryPoint       = "main.py"
	DefaultWrapperName      = "run.sh"
	DefaultRequirementsFile = "requirements.txt"
)

// DefaultVenvDirs are the venv directory names probed before falling back to
// a full scan of the project.
var DefaultVenvDirs = []string{".venv", "venv", "env"}

// SSHHost represents a remote SSH host on which wrappers can be generated.
type SSHHost struct {
	// Name is the unique identifier for this host configuration
	Name string `yaml:"name"`

	// Hostname is the server address (IP or domain)
	Hostname string `yaml:"hostname"`

	// User is the SSH username for authentication
	User string `yaml:"user"`

	// Port is the SSH port number (optional, defaults to standard SSH port)
	Port int `yaml:"port,omitempty"`

	// KeyPath is the path to the SSH private key file
	KeyPath string `yaml:"key_path,omitempty"`

	// Password is an optional authentication method (plaintext, discouraged)
	Password string `yaml:"password,omitempty"`

	// RemoteRoot is the directory to search for Python projects on the host
	RemoteRoot string `yaml:"remote_root,omitempty"`

	// Disabled indicates whether this host should be skipped during discovery
	Disabled bool `yaml:"disabled,omitempty"`
}

// Config represents the top-level application configuration
type Config struct {
	// LocalRoot is the custom directory to search for projects locally (optional)
	LocalRoot string `yaml:"local_root,omitempty"`

	// EntryPoint overrides the default entry-point script name (main.py)
	EntryPoint string `yaml:"entry_point,omitempty"`

	// WrapperName overrides the default wrapper file name (run.sh)
	WrapperName string `yaml:"wrapper_name,omitempty"`

	// RequirementsFile overrides the default lockfile name (requirements.txt)
	RequirementsFile string `yaml:"requirements_file,omitempty"`

	// VenvDirs overrides the preferred venv directory names (.venv, venv, env)
	VenvDirs []string `yaml:"venv_dirs,omitempty"`

	// SSHHosts is a list of remote SSH host configurations
	SSHHosts []SSHHost `yaml:"ssh_hosts"`
}

// EffectiveEntryPoint returns the configured entry point or the default.
func (c Config) EffectiveEntryPoint() string {
	if c.EntryPoint != "" {
		return c.EntryPoint
	}
	return DefaultEntryPoint
}

// EffectiveWrapperName returns the configured wrapper name or the default.
func (c Config) EffectiveWrapperName() string {
	if c.WrapperName != "" {
		return c.WrapperName
	}
	return DefaultWrapperName
}

// EffectiveRequirementsFile returns the configured lockfile name or the default.
func (c Config) EffectiveRequirementsFile() string {
	if c.RequirementsFile != "" {
		return c.RequirementsFile
	}
	return DefaultRequirementsFile
}

// EffectiveVenvDirs returns the configured preferred venv names or the defaults.
func (c Config) EffectiveVenvDirs() []string {
	if len(c.VenvDirs) > 0 {
		return c.VenvDirs
	}
	return DefaultVenvDirs
}

// EnabledSSHHosts returns the hosts not marked disabled. Disabled hosts stay
// in the configuration so they survive load/save cycles; every consumer that
// talks to hosts goes through this filter.
func (c Config) EnabledSSHHosts() []SSHHost {
	hosts := make([]SSHHost, 0, len(c.SSHHosts))
	for _, h := range c.SSHHosts {
		if !h.Disabled {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "runwrap", "config.yaml"), nil
}

func LoadConfig() (Config, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return cfg, nil
}

func EnsureConfigDir() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)
	err = os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func SaveConfig(cfg Config) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}

	err = EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	err = os.WriteFile(configPath, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

// ResolvePath expands a leading "~/" to the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
