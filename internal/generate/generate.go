// SPDX-License-Identifier: Apache-2.0

// Package generate drives one wrapper generation end to end: resolve the
// virtual environment, verify the entry point, render the script, and
// install it into the project. It is shared by the CLI, the HTTP API, and
// the TUI.
package generate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/install"
	"runwrap/internal/logger"
	"runwrap/internal/ssh"
	"runwrap/internal/util"
	"runwrap/internal/venv"
	"runwrap/internal/wrapper"
)

// sshManager provides access to SSH connections for remote entry-point checks
var sshManager *ssh.Manager

// InitSSHManager sets the package-level SSH manager instance.
// This must be called before generating for remote projects.
func InitSSHManager(manager *ssh.Manager) {
	if sshManager != nil {
		return
	}
	sshManager = manager
}

// Options control a single generation. Zero values fall back to the
// configured defaults.
type Options struct {
	EntryPoint       string // main script, relative to the project
	VenvName         string // explicit venv directory name; empty means auto-detect
	Output           string // wrapper file name
	InstallDeps      bool   // include the dependency-refresh block
	RequirementsFile string // lockfile name for the refresh block
	Force            bool   // overwrite an existing wrapper
}

// withDefaults fills unset options from the configuration.
func (o Options) withDefaults(cfg config.Config) Options {
	if o.EntryPoint == "" {
		o.EntryPoint = cfg.EffectiveEntryPoint()
	}
	if o.Output == "" {
		o.Output = cfg.EffectiveWrapperName()
	}
	if o.RequirementsFile == "" {
		o.RequirementsFile = cfg.EffectiveRequirementsFile()
	}
	return o
}

// Result describes a completed generation.
type Result struct {
	Project  discovery.Project
	VenvName string // venv directory the wrapper uses
	Path     string // installed wrapper location on the project's server
	Script   string // rendered script content
}

// Run generates and installs a wrapper for the project.
func Run(project discovery.Project, opts Options, cfg config.Config) (Result, error) {
	opts = opts.withDefaults(cfg)

	venvName, err := resolveVenv(project, opts.VenvName, cfg.EffectiveVenvDirs())
	if err != nil {
		return Result{}, err
	}

	if err := checkEntryPoint(project, opts.EntryPoint); err != nil {
		return Result{}, err
	}

	script, err := wrapper.Render(wrapper.NewData(venvName, opts.EntryPoint, opts.RequirementsFile, opts.InstallDeps))
	if err != nil {
		return Result{}, err
	}

	installedPath, err := install.Install(install.Request{
		Project: project,
		Script:  script,
		Output:  opts.Output,
		Force:   opts.Force,
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info("Wrapper generated",
		"project", project.Identifier(),
		"venv", venvName,
		"entry_point", opts.EntryPoint,
		"output", opts.Output,
		"install_deps", opts.InstallDeps)

	return Result{
		Project:  project,
		VenvName: venvName,
		Path:     installedPath,
		Script:   script,
	}, nil
}

// resolveVenv validates an explicit venv name or auto-detects one.
func resolveVenv(project discovery.Project, explicit string, preferred []string) (string, error) {
	if project.IsRemote {
		if explicit != "" {
			if err := venv.ValidateRemote(project.HostConfig, project.AbsolutePath(), explicit); err != nil {
				return "", err
			}
			return explicit, nil
		}
		name, err := venv.FindRemote(project.HostConfig, project.AbsolutePath(), preferred)
		if err != nil {
			return "", venvHint(err)
		}
		return name, nil
	}

	if explicit != "" {
		if err := venv.Validate(project.Path, explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}
	name, err := venv.Find(project.Path, preferred)
	if err != nil {
		return "", venvHint(err)
	}
	return name, nil
}

// venvHint attaches the remediation hint to a not-found error.
func venvHint(err error) error {
	return fmt.Errorf("%w (create one with 'python -m venv .venv' or pass --venv)", err)
}

// checkEntryPoint verifies the entry-point script exists in the project.
func checkEntryPoint(project discovery.Project, entryPoint string) error {
	if project.IsRemote {
		if sshManager == nil {
			return fmt.Errorf("ssh manager not initialized for entry-point check on %s", project.ServerName)
		}
		entryPath := path.Join(project.AbsolutePath(), entryPoint)
		testCmd := fmt.Sprintf("test -f %s", util.QuoteArgForShell(entryPath))
		if _, err := sshManager.CombinedOutput(*project.HostConfig, testCmd); err != nil {
			return fmt.Errorf("entry point script not found at '%s' on %s", entryPath, project.ServerName)
		}
		return nil
	}

	entryPath := filepath.Join(project.Path, entryPoint)
	info, err := os.Stat(entryPath)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("entry point script not found at '%s'", entryPath)
	}
	return nil
}
