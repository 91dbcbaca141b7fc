// SPDX-License-Identifier: Apache-2.0

// Package discovery finds Python project directories in both local and
// remote environments. A directory one level below the project root counts
// as a project when it contains a marker file: the configured entry point,
// requirements.txt, pyproject.toml, or setup.py.
package discovery

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"runwrap/internal/config"
	"runwrap/internal/logger"
	"runwrap/internal/ssh"
	"runwrap/internal/util"
)

// maxConcurrentDiscoveries limits the number of concurrent discovery
// operations to avoid overwhelming local or remote systems
const maxConcurrentDiscoveries = 8

// sshManager provides access to SSH connections for remote discovery
var sshManager *ssh.Manager

// InitSSHManager sets the package-level SSH manager instance.
// This must be called before performing any remote discovery operations.
func InitSSHManager(manager *ssh.Manager) {
	if sshManager != nil {
		return
	}
	sshManager = manager
}

// Project represents a discovered Python project, either under the local
// root or under a configured SSH host's remote root.
type Project struct {
	Name               string          // Name of the project (directory name)
	Path               string          // Full local path OR path relative to AbsoluteRemoteRoot
	ServerName         string          // "local" or the Name field from SSHHost config
	IsRemote           bool            // True if the project is on a remote server
	HostConfig         *config.SSHHost // SSH host configuration (nil if local)
	AbsoluteRemoteRoot string          // Root directory on the remote host (empty if local)
}

// Identifier returns the unique string representation (e.g., "local:my-app"
// or "server1:my-app").
func (p Project) Identifier() string {
	if !p.IsRemote {
		return fmt.Sprintf("local:%s", p.Name)
	}
	return fmt.Sprintf("%s:%s", p.ServerName, p.Name)
}

// AbsolutePath returns the project path as usable on its server. Remote
// paths are always POSIX.
func (p Project) AbsolutePath() string {
	if !p.IsRemote {
		return p.Path
	}
	return path.Join(p.AbsoluteRemoteRoot, p.Path)
}

// markerFiles returns the file names whose presence identifies a Python
// project.
func markerFiles(cfg config.Config) []string {
	return []string{
		cfg.EffectiveEntryPoint(),
		cfg.EffectiveRequirementsFile(),
		"pyproject.toml",
		"setup.py",
	}
}

// GetProjectsRootDirectory finds the root directory for local projects,
// checking the config override first, then defaults.
func GetProjectsRootDirectory() (string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("Could not load config to check local_root", "error", err)
	} else if cfg.LocalRoot != "" {
		localRootPath, resolveErr := config.ResolvePath(cfg.LocalRoot)
		if resolveErr != nil {
			logger.Warn("Could not resolve configured local_root path",
				"configured_path", cfg.LocalRoot, "error", resolveErr)
			localRootPath = cfg.LocalRoot // Use original path for the Stat check
		}

		info, statErr := os.Stat(localRootPath)
		if statErr == nil && info.IsDir() {
			logger.Debug("Using configured local root directory", "path", localRootPath)
			return localRootPath, nil
		}

		// An invalid configured path is an error. Do not fall back.
		if statErr != nil {
			return "", fmt.Errorf("configured local_root '%s' is invalid: %w", cfg.LocalRoot, statErr)
		}
		return "", fmt.Errorf("configured local_root '%s' is not a directory", cfg.LocalRoot)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory for default lookup: %w", err)
	}

	possibleDirs := []string{
		filepath.Join(homeDir, "projects"),
		filepath.Join(homeDir, "src"),
	}

	for _, dir := range possibleDirs {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			logger.Debug("Using default local root directory", "path", dir)
			return dir, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Error checking default directory", "directory", dir, "error", err)
		}
	}

	return "", fmt.Errorf("could not find a valid local project root directory (checked config 'local_root' and defaults: ~/projects, ~/src)")
}

// FindProjects streams discovered projects from the local root and every
// enabled SSH host. The done channel closes after both result channels close.
func FindProjects() (<-chan Project, <-chan error, <-chan struct{}) {
	logger.Info("Starting project discovery")

	projectChan := make(chan Project, 10)
	errorChan := make(chan error, 5)
	doneChan := make(chan struct{})
	var wg sync.WaitGroup

	cfg, configErr := config.LoadConfig()
	if configErr != nil {
		logger.Error("Failed to load configuration for project discovery", "error", configErr)
		// errorChan is buffered, so this cannot block, and it must land
		// before the closer goroutine can close the channel.
		errorChan <- fmt.Errorf("config load failed: %w", configErr)
	}

	enabledHosts := cfg.EnabledSSHHosts()

	numGoroutines := 1
	if configErr == nil {
		numGoroutines += len(enabledHosts)
	}
	wg.Add(numGoroutines)

	go func() {
		wg.Wait()
		close(projectChan)
		close(errorChan)
		close(doneChan)
	}()

	go func() {
		defer wg.Done()

		localRootDir, err := GetProjectsRootDirectory()
		if err == nil {
			localProjects, err := FindLocalProjects(localRootDir, cfg)
			if err != nil {
				logger.Error("Local project discovery failed", "root_dir", localRootDir, "error", err)
				errorChan <- fmt.Errorf("local discovery failed: %w", err)
			} else {
				logger.Info("Local project discovery completed",
					"root_dir", localRootDir, "project_count", len(localProjects))
				for _, p := range localProjects {
					projectChan <- p
				}
			}
		} else if !strings.Contains(err.Error(), "could not find") {
			errorChan <- fmt.Errorf("local root check failed: %w", err)
		} else {
			logger.Debug("No local root directory configured or found")
		}
	}()

	if configErr == nil && len(enabledHosts) > 0 {
		sem := semaphore.NewWeighted(maxConcurrentDiscoveries)
		ctx := context.Background()

		for i := range enabledHosts {
			hostConfig := enabledHosts[i] // Copy for the goroutine closure
			go func(hc config.SSHHost) {
				defer wg.Done()

				if err := sem.Acquire(ctx, 1); err != nil {
					errorChan <- fmt.Errorf("failed to acquire semaphore for %s: %w", hc.Name, err)
					return
				}
				defer sem.Release(1)

				remoteProjects, err := FindRemoteProjects(&hc, cfg)
				if err != nil {
					logger.Error("Remote project discovery failed",
						"host_name", hc.Name, "error", err)
					errorChan <- fmt.Errorf("remote discovery failed for %s: %w", hc.Name, err)
				} else {
					logger.Info("Remote project discovery completed",
						"host_name", hc.Name, "project_count", len(remoteProjects))
					for _, p := range remoteProjects {
						projectChan <- p
					}
				}
			}(hostConfig)
		}
	}

	return projectChan, errorChan, doneChan
}

// FindProject resolves one project by server and name. serverName "local"
// resolves against the local root; any other value must match a configured
// SSH host.
func FindProject(serverName, projectName string, cfg config.Config) (Project, error) {
	if projectName == "" {
		return Project{}, fmt.Errorf("project name is empty")
	}

	if serverName == "" || serverName == "local" {
		rootDir, err := GetProjectsRootDirectory()
		if err != nil {
			return Project{}, err
		}
		projectPath := filepath.Join(rootDir, projectName)
		info, err := os.Stat(projectPath)
		if err != nil || !info.IsDir() {
			return Project{}, fmt.Errorf("project '%s' not found under %s", projectName, rootDir)
		}
		return Project{
			Name:       projectName,
			Path:       projectPath,
			ServerName: "local",
			IsRemote:   false,
		}, nil
	}

	var targetHost *config.SSHHost
	for i := range cfg.SSHHosts {
		if cfg.SSHHosts[i].Name == serverName {
			targetHost = &cfg.SSHHosts[i]
			break
		}
	}
	if targetHost == nil {
		return Project{}, fmt.Errorf("host '%s' not found in configuration", serverName)
	}
	if targetHost.Disabled {
		return Project{}, fmt.Errorf("host '%s' is disabled in configuration", serverName)
	}

	remoteProjects, err := FindRemoteProjects(targetHost, cfg)
	if err != nil {
		return Project{}, err
	}
	for _, p := range remoteProjects {
		if p.Name == projectName {
			return p, nil
		}
	}

	return Project{}, fmt.Errorf("project '%s' not found on host '%s'", projectName, serverName)
}

// FindLocalProjects scans the immediate children of rootDir for Python
// projects.
func FindLocalProjects(rootDir string, cfg config.Config) ([]Project, error) {
	var projects []Project

	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read local root directory %s: %w", rootDir, err)
	}

	markers := markerFiles(cfg)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		projectName := entry.Name()
		projectPath := filepath.Join(rootDir, projectName)

		hasMarker := false
		for _, marker := range markers {
			_, err := os.Stat(filepath.Join(projectPath, marker))
			if err == nil {
				hasMarker = true
				break
			} else if !os.IsNotExist(err) {
				logger.Warnf("Could not stat %s in %s: %v", marker, projectPath, err)
			}
		}

		if hasMarker {
			projects = append(projects, Project{
				Name:       projectName,
				Path:       projectPath,
				ServerName: "local",
				IsRemote:   false,
				HostConfig: nil,
			})
		}
	}

	return projects, nil
}

// FindRemoteProjects discovers Python projects under the host's remote root
// via a single find invocation over SSH.
func FindRemoteProjects(hostConfig *config.SSHHost, cfg config.Config) ([]Project, error) {
	var projects []Project

	if sshManager == nil {
		return nil, fmt.Errorf("ssh manager not initialized for discovery on %s", hostConfig.Name)
	}

	absoluteRemoteRoot, err := resolveRemoteRoot(hostConfig)
	if err != nil {
		return nil, err
	}

	// Directories one level below the root that contain any marker file.
	markers := markerFiles(cfg)
	nameClauses := make([]string, 0, len(markers))
	for _, marker := range markers {
		nameClauses = append(nameClauses, fmt.Sprintf("-name %s", util.QuoteArgForShell(marker)))
	}
	remoteFindCmd := fmt.Sprintf(
		`find %s -mindepth 2 -maxdepth 2 \( %s \) -printf '%%h\n' | sort -u`,
		util.QuoteArgForShell(absoluteRemoteRoot),
		strings.Join(nameClauses, " -o "),
	)

	output, err := sshManager.CombinedOutput(*hostConfig, remoteFindCmd)
	if err != nil {
		return nil, fmt.Errorf("remote find command failed for host %s: %w\nOutput: %s", hostConfig.Name, err, string(output))
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fullPath := scanner.Text()
		if fullPath == "" {
			continue
		}

		relativePath, err := filepath.Rel(absoluteRemoteRoot, fullPath)
		if err != nil {
			logger.Warnf("Could not calculate relative path for '%s' from root '%s' on host %s: %v",
				fullPath, absoluteRemoteRoot, hostConfig.Name, err)
			continue
		}
		relativePath = filepath.ToSlash(relativePath)

		projectName := filepath.Base(relativePath)
		if projectName == "." || projectName == "/" {
			continue
		}

		projects = append(projects, Project{
			Name:               projectName,
			Path:               relativePath,
			ServerName:         hostConfig.Name,
			IsRemote:           true,
			HostConfig:         hostConfig,
			AbsoluteRemoteRoot: absoluteRemoteRoot,
		})
	}
	if err := scanner.Err(); err != nil {
		return projects, fmt.Errorf("error reading ssh output for host %s: %w", hostConfig.Name, err)
	}

	return projects, nil
}

// resolveRemoteRoot resolves the configured remote root (or the default
// fallbacks) to an absolute path on the host.
func resolveRemoteRoot(hostConfig *config.SSHHost) (string, error) {
	candidates := []string{hostConfig.RemoteRoot}
	if hostConfig.RemoteRoot == "" {
		candidates = []string{"~/projects", "~/src"}
	}

	for _, candidate := range candidates {
		resolveCmd := fmt.Sprintf("cd %s && pwd", util.QuoteArgForShell(candidate))
		pwdOutput, err := sshManager.CombinedOutput(*hostConfig, resolveCmd)
		if err != nil {
			if hostConfig.RemoteRoot != "" {
				return "", fmt.Errorf("failed to resolve configured remote root '%s' on host %s: %w\nOutput: %s",
					candidate, hostConfig.Name, err, string(pwdOutput))
			}
			continue
		}

		absolute := strings.TrimSpace(string(pwdOutput))
		if absolute == "" {
			return "", fmt.Errorf("resolved remote root is empty for '%s' on host %s", candidate, hostConfig.Name)
		}
		return absolute, nil
	}

	return "", fmt.Errorf("remote_root not configured for host %s, and default fallbacks ('~/projects', '~/src') could not be resolved", hostConfig.Name)
}
