// SPDX-License-Identifier: Apache-2.0

// Package install writes a rendered wrapper script into a project, locally
// or on a remote host over SSH, and marks it executable.
package install

import (
	"errors"
	"fmt"

	"runwrap/internal/discovery"
	"runwrap/internal/ssh"
)

// ErrExists is returned when the wrapper file already exists and Force is
// not set.
var ErrExists = errors.New("wrapper file already exists")

// wrapperMode is the file mode of an installed wrapper (rwxr-xr-x).
const wrapperMode = 0o755

// sshManager provides access to SSH connections for remote installs
var sshManager *ssh.Manager

// InitSSHManager sets the package-level SSH manager instance.
// This must be called before any remote install operations.
func InitSSHManager(manager *ssh.Manager) {
	if sshManager != nil {
		return
	}
	sshManager = manager
}

// Request describes one wrapper installation.
type Request struct {
	Project discovery.Project
	Script  string // rendered wrapper content
	Output  string // wrapper file name, relative to the project directory
	Force   bool   // overwrite an existing wrapper
}

// Install writes the wrapper into the project directory. The returned path
// is the installed location on the project's server.
func Install(req Request) (string, error) {
	if req.Script == "" {
		return "", fmt.Errorf("refusing to install an empty wrapper script")
	}
	if req.Output == "" {
		return "", fmt.Errorf("wrapper output name is empty")
	}

	if req.Project.IsRemote {
		return installRemote(req)
	}
	return installLocal(req)
}
