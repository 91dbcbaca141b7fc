// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
)

// discoverLocalProjectsForCompletion performs local discovery for completion,
// ignoring "not found" errors.
func discoverLocalProjectsForCompletion(cfg config.Config) []discovery.Project {
	localRootDir, err := discovery.GetProjectsRootDirectory()
	if err != nil {
		return nil
	}
	projects, _ := discovery.FindLocalProjects(localRootDir, cfg)
	return projects
}

// discoverRemoteProjectsForCompletion performs discovery on one remote host
// for completion.
func discoverRemoteProjectsForCompletion(cfg config.Config, remoteName string) []discovery.Project {
	var targetHost *config.SSHHost
	for i := range cfg.SSHHosts {
		if cfg.SSHHosts[i].Name == remoteName {
			targetHost = &cfg.SSHHosts[i]
			break
		}
	}
	if targetHost == nil || targetHost.Disabled {
		return nil
	}

	// Discovery errors are ignored for completion purposes
	projects, _ := discovery.FindRemoteProjects(targetHost, cfg)
	return projects
}

// discoverAllRemoteProjectsForCompletion queries every enabled remote host.
func discoverAllRemoteProjectsForCompletion(cfg config.Config) []discovery.Project {
	hosts := cfg.EnabledSSHHosts()
	if len(hosts) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	projectChan := make(chan discovery.Project, len(hosts)*4)
	wg.Add(len(hosts))

	for i := range hosts {
		hostConfig := hosts[i] // Capture loop variable
		go func(hc config.SSHHost) {
			defer wg.Done()
			projects, err := discovery.FindRemoteProjects(&hc, cfg)
			if err != nil {
				return
			}
			for _, p := range projects {
				projectChan <- p
			}
		}(hostConfig)
	}

	go func() {
		wg.Wait()
		close(projectChan)
	}()

	var remoteProjects []discovery.Project
	for p := range projectChan {
		remoteProjects = append(remoteProjects, p)
	}
	return remoteProjects
}

// projectCompletionFunc provides dynamic completion for project identifiers.
func projectCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	suggestionMap := make(map[string]struct{}) // Dedup across name and identifier forms
	var projectsToSearch []discovery.Project

	targetServer := ""
	targetProject := toComplete
	hasColon := strings.Contains(toComplete, ":")

	if hasColon {
		parts := strings.SplitN(toComplete, ":", 2)
		targetServer = parts[0]
		targetProject = parts[1]
	}

	switch {
	case targetServer == "local":
		projectsToSearch = discoverLocalProjectsForCompletion(cfg)
	case targetServer != "":
		projectsToSearch = discoverRemoteProjectsForCompletion(cfg, targetServer)
	default:
		localProjects := discoverLocalProjectsForCompletion(cfg)
		projectsToSearch = localProjects

		localMatchFound := false
		for _, p := range localProjects {
			if strings.HasPrefix(p.Name, targetProject) {
				suggestionMap[p.Name] = struct{}{}
				localMatchFound = true
			}
		}

		// Local matches win; remote discovery costs SSH round trips.
		if localMatchFound {
			return suggestionsFromMap(suggestionMap), cobra.ShellCompDirectiveNoFileComp
		}

		projectsToSearch = append(projectsToSearch, discoverAllRemoteProjectsForCompletion(cfg)...)
	}

	for _, p := range projectsToSearch {
		identifier := p.Identifier()

		if hasColon && strings.HasPrefix(identifier, toComplete) {
			suggestionMap[identifier] = struct{}{}
		}

		if !hasColon {
			if strings.HasPrefix(p.Name, targetProject) {
				suggestionMap[p.Name] = struct{}{}
			}
			if targetServer == "" && strings.HasPrefix(identifier, toComplete) {
				suggestionMap[identifier] = struct{}{}
			}
		}

		// "server1:" should list every project on that host
		if hasColon && targetProject == "" && p.ServerName == targetServer {
			suggestionMap[identifier] = struct{}{}
		}
	}

	return suggestionsFromMap(suggestionMap), cobra.ShellCompDirectiveNoFileComp
}

func suggestionsFromMap(m map[string]struct{}) []string {
	suggestions := make([]string, 0, len(m))
	for suggestion := range m {
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

// hostCompletionFunc provides dynamic completion for configured host names.
func hostCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var suggestions []string

	cfg, err := config.LoadConfig()
	// Config load errors are ignored during completion
	if err == nil {
		for _, host := range cfg.SSHHosts {
			if strings.HasPrefix(host.Name, toComplete) {
				suggestions = append(suggestions, host.Name)
			}
		}
	}

	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
