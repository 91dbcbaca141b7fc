// SPDX-License-Identifier: Apache-2.0

// Package status probes discovered projects for a virtual environment and an
// already-installed wrapper. It is shared by the scan command, the HTTP API,
// and the TUI.
package status

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/ssh"
	"runwrap/internal/util"
	"runwrap/internal/venv"
)

// maxConcurrentChecks bounds the per-project probes, which may each cost an
// SSH round trip.
const maxConcurrentChecks = 8

// sshManager provides access to SSH connections for remote probes
var sshManager *ssh.Manager

// InitSSHManager sets the package-level SSH manager instance.
// This must be called before checking remote projects.
func InitSSHManager(manager *ssh.Manager) {
	if sshManager != nil {
		return
	}
	sshManager = manager
}

// ProjectStatus is the probe result for one project.
type ProjectStatus struct {
	Project    discovery.Project
	VenvName   string // empty when no venv was found
	HasWrapper bool
	Err        error
}

// Check probes one project for a venv and an existing wrapper.
func Check(p discovery.Project, cfg config.Config) ProjectStatus {
	st := ProjectStatus{Project: p}
	preferred := cfg.EffectiveVenvDirs()
	wrapperName := cfg.EffectiveWrapperName()

	if p.IsRemote {
		if sshManager == nil {
			st.Err = fmt.Errorf("ssh manager not initialized for status check on %s", p.ServerName)
			return st
		}

		name, err := venv.FindRemote(p.HostConfig, p.AbsolutePath(), preferred)
		if err == nil {
			st.VenvName = name
		} else if !errors.Is(err, venv.ErrNotFound) {
			st.Err = err
			return st
		}

		testCmd := fmt.Sprintf("test -e %s",
			util.QuoteArgForShell(path.Join(p.AbsolutePath(), wrapperName)))
		if _, err := sshManager.CombinedOutput(*p.HostConfig, testCmd); err == nil {
			st.HasWrapper = true
		}
		return st
	}

	name, err := venv.Find(p.Path, preferred)
	if err == nil {
		st.VenvName = name
	} else if !errors.Is(err, venv.ErrNotFound) {
		st.Err = err
		return st
	}

	if _, err := os.Stat(filepath.Join(p.Path, wrapperName)); err == nil {
		st.HasWrapper = true
	}
	return st
}

// CheckAll probes a set of projects concurrently and returns the results in
// completion order.
func CheckAll(projects []discovery.Project, cfg config.Config) []ProjectStatus {
	if len(projects) == 0 {
		return nil
	}

	statusChan := make(chan ProjectStatus, len(projects))
	sem := semaphore.NewWeighted(maxConcurrentChecks)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(len(projects))
	for _, project := range projects {
		go func(p discovery.Project) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				statusChan <- ProjectStatus{Project: p, Err: err}
				return
			}
			defer sem.Release(1)
			statusChan <- Check(p, cfg)
		}(project)
	}

	go func() {
		wg.Wait()
		close(statusChan)
	}()

	var statuses []ProjectStatus
	for st := range statusChan {
		statuses = append(statuses, st)
	}
	return statuses
}
