// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
)

// resolveProject turns a command-line argument into a Project. The argument
// may be empty (current directory), a filesystem path, or a "server:name"
// identifier.
func resolveProject(arg string) (discovery.Project, error) {
	if arg == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return discovery.Project{}, fmt.Errorf("could not determine current directory: %w", err)
		}
		return localProjectAt(cwd)
	}

	if strings.Contains(arg, ":") {
		parts := strings.SplitN(arg, ":", 2)
		cfg, err := config.LoadConfig()
		if err != nil {
			return discovery.Project{}, fmt.Errorf("error loading configuration: %w", err)
		}
		return discovery.FindProject(parts[0], parts[1], cfg)
	}

	// A path argument wins over an identifier when the directory exists.
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		absPath, err := filepath.Abs(arg)
		if err != nil {
			return discovery.Project{}, fmt.Errorf("could not resolve path '%s': %w", arg, err)
		}
		return localProjectAt(absPath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return discovery.Project{}, fmt.Errorf("error loading configuration: %w", err)
	}
	return discovery.FindProject("local", arg, cfg)
}

// localProjectAt wraps an existing local directory as a Project.
func localProjectAt(dir string) (discovery.Project, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return discovery.Project{}, fmt.Errorf("'%s' is not a directory", dir)
	}
	return discovery.Project{
		Name:       filepath.Base(dir),
		Path:       dir,
		ServerName: "local",
		IsRemote:   false,
	}, nil
}
