// SPDX-License-Identifier: Apache-2.0

// Package api implements the HTTP endpoints behind 'rw serve'. It exposes
// discovered projects with their venv/wrapper status, wrapper generation,
// and SSH host configuration management.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/status"
)

// ProjectWithStatus is the JSON shape returned for a discovered project.
type ProjectWithStatus struct {
	Name       string `json:"name"`
	ServerName string `json:"serverName"`
	IsRemote   bool   `json:"isRemote"`
	Path       string `json:"path"`
	Venv       string `json:"venv,omitempty"`
	HasWrapper bool   `json:"hasWrapper"`
	Error      string `json:"error,omitempty"`
}

// RegisterProjectRoutes registers the project listing endpoint.
func RegisterProjectRoutes(router *mux.Router) {
	router.HandleFunc("/api/projects", listProjectsHandler).Methods("GET")
}

// listProjectsHandler discovers all projects and returns them with status.
func listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.LoadConfig()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading config: %v", err), http.StatusInternalServerError)
		return
	}

	projectChan, errorChan, _ := discovery.FindProjects()

	var discoveryErrors []error
	var projects []discovery.Project
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for err := range errorChan {
			discoveryErrors = append(discoveryErrors, err)
		}
	}()

	for p := range projectChan {
		projects = append(projects, p)
	}
	wg.Wait()

	if len(projects) == 0 && len(discoveryErrors) > 0 {
		http.Error(w, fmt.Sprintf("Discovery failed: %v", discoveryErrors[0]), http.StatusInternalServerError)
		return
	}

	statuses := status.CheckAll(projects, cfg)

	result := make([]ProjectWithStatus, 0, len(statuses))
	for _, st := range statuses {
		p := ProjectWithStatus{
			Name:       st.Project.Name,
			ServerName: st.Project.ServerName,
			IsRemote:   st.Project.IsRemote,
			Path:       st.Project.Path,
			Venv:       st.VenvName,
			HasWrapper: st.HasWrapper,
		}
		if st.Err != nil {
			p.Error = st.Err.Error()
		}
		result = append(result, p)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, fmt.Sprintf("Error encoding response: %v", err), http.StatusInternalServerError)
	}
}
