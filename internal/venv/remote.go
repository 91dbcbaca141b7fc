// SPDX-License-Identifier: Apache-2.0

package venv

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"slices"
	"strings"

	"runwrap/internal/config"
	"runwrap/internal/ssh"
	"runwrap/internal/util"
)

// sshManager provides access to SSH connections for remote probing
var sshManager *ssh.Manager

// InitSSHManager sets the package-level SSH manager instance.
// This must be called before any remote venv operations.
func InitSSHManager(manager *ssh.Manager) {
	if sshManager != nil {
		return
	}
	sshManager = manager
}

// ListRemote returns the venv directory names found in a remote project
// directory, preferred names first. projectPath must be absolute on the host.
func ListRemote(hostConfig *config.SSHHost, projectPath string, preferred []string) ([]string, error) {
	if sshManager == nil {
		return nil, fmt.Errorf("ssh manager not initialized for venv probe on %s", hostConfig.Name)
	}

	// One find call lists every <venv>/bin/python two levels below the
	// project; ordering is applied client side.
	findCmd := fmt.Sprintf(
		`find %s -mindepth 3 -maxdepth 3 -type f -perm -100 -path '*/bin/python'`,
		util.QuoteArgForShell(projectPath),
	)

	output, err := sshManager.CombinedOutput(*hostConfig, findCmd)
	if err != nil {
		return nil, fmt.Errorf("remote venv probe failed for %s on %s: %w\nOutput: %s",
			projectPath, hostConfig.Name, err, string(output))
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		pythonPath := strings.TrimSpace(scanner.Text())
		if pythonPath == "" {
			continue
		}
		// <project>/<venv>/bin/python
		names = append(names, path.Base(path.Dir(path.Dir(pythonPath))))
	}
	if err := scanner.Err(); err != nil {
		return names, fmt.Errorf("error reading probe output from %s: %w", hostConfig.Name, err)
	}

	slices.SortStableFunc(names, func(a, b string) int {
		ia, ib := slices.Index(preferred, a), slices.Index(preferred, b)
		if ia < 0 {
			ia = len(preferred)
		}
		if ib < 0 {
			ib = len(preferred)
		}
		return ia - ib
	})

	return names, nil
}

// FindRemote returns the venv directory name to use in a remote project.
func FindRemote(hostConfig *config.SSHHost, projectPath string, preferred []string) (string, error) {
	names, err := ListRemote(hostConfig, projectPath, preferred)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s on %s", ErrNotFound, projectPath, hostConfig.Name)
	}
	return names[0], nil
}

// ValidateRemote checks that a named venv exists in a remote project.
func ValidateRemote(hostConfig *config.SSHHost, projectPath, name string) error {
	if sshManager == nil {
		return fmt.Errorf("ssh manager not initialized for venv probe on %s", hostConfig.Name)
	}

	pythonPath := path.Join(projectPath, name, PythonRelPath)
	testCmd := fmt.Sprintf("test -f %s && test -x %s",
		util.QuoteArgForShell(pythonPath), util.QuoteArgForShell(pythonPath))

	if output, err := sshManager.CombinedOutput(*hostConfig, testCmd); err != nil {
		return fmt.Errorf("'%s' is not a valid virtual environment on %s (no executable %s): %s",
			name, hostConfig.Name, pythonPath, strings.TrimSpace(string(output)))
	}
	return nil
}
