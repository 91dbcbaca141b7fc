// SPDX-License-Identifier: Apache-2.0

package install

import (
	"fmt"
	"path"
	"strings"

	gossh "golang.org/x/crypto/ssh"

	"runwrap/internal/logger"
	"runwrap/internal/util"
)

// installRemote uploads the wrapper over SSH, writing to a temporary path in
// the project directory and renaming into place so the install is atomic on
// the remote side too.
func installRemote(req Request) (string, error) {
	if sshManager == nil {
		return "", fmt.Errorf("ssh manager not initialized for install on %s", req.Project.ServerName)
	}
	if req.Project.HostConfig == nil {
		return "", fmt.Errorf("internal error: HostConfig is nil for %s", req.Project.Identifier())
	}
	if req.Project.AbsoluteRemoteRoot == "" {
		return "", fmt.Errorf("internal error: AbsoluteRemoteRoot is empty for %s", req.Project.Identifier())
	}

	target := path.Join(req.Project.AbsoluteRemoteRoot, req.Project.Path, req.Output)
	tempPath := target + ".tmp"

	if !req.Force {
		testCmd := fmt.Sprintf("test -e %s", util.QuoteArgForShell(target))
		if _, err := sshManager.CombinedOutput(*req.Project.HostConfig, testCmd); err == nil {
			return "", fmt.Errorf("%w: %s on %s (use --force to overwrite)",
				ErrExists, target, req.Project.ServerName)
		}
	}

	client, err := sshManager.GetClient(*req.Project.HostConfig)
	if err != nil {
		return "", fmt.Errorf("failed to get ssh client for %s: %w", req.Project.ServerName, err)
	}

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create ssh session for %s: %w", req.Project.ServerName, err)
	}
	defer session.Close()

	session.Stdin = strings.NewReader(req.Script)
	uploadCmd := fmt.Sprintf("cat > %s && chmod 755 %s && mv %s %s",
		util.QuoteArgForShell(tempPath),
		util.QuoteArgForShell(tempPath),
		util.QuoteArgForShell(tempPath),
		util.QuoteArgForShell(target),
	)

	if output, err := session.CombinedOutput(uploadCmd); err != nil {
		if exitErr, ok := err.(*gossh.ExitError); ok {
			return "", fmt.Errorf("remote install on %s exited with status %d: %s",
				req.Project.ServerName, exitErr.ExitStatus(), strings.TrimSpace(string(output)))
		}
		return "", fmt.Errorf("remote install on %s failed: %w", req.Project.ServerName, err)
	}

	logger.Info("Wrapper installed", "path", target, "project", req.Project.Identifier())
	return target, nil
}
