// SPDX-License-Identifier: Apache-2.0

package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"runwrap/internal/logger"
)

// installLocal writes the wrapper with an atomic rename so a concurrent
// invocation of the old wrapper never sees a half-written file.
func installLocal(req Request) (string, error) {
	target := filepath.Join(req.Project.Path, req.Output)

	if !req.Force {
		if _, err := os.Lstat(target); err == nil {
			return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, target)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to check for existing wrapper %s: %w", target, err)
		}
	}

	if err := renameio.WriteFile(target, []byte(req.Script), wrapperMode); err != nil {
		return "", fmt.Errorf("failed to write wrapper %s: %w", target, err)
	}

	logger.Info("Wrapper installed", "path", target, "project", req.Project.Identifier())
	return target, nil
}
