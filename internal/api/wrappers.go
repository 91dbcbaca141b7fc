// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/generate"
	"runwrap/internal/install"
)

// WrapperRequest is the expected JSON body for the wrapper generation
// endpoint.
type WrapperRequest struct {
	Name         string `json:"name"`                   // Project name
	ServerName   string `json:"serverName"`             // "local" or an SSH host name
	EntryPoint   string `json:"entryPoint,omitempty"`   // Override of the configured default
	Venv         string `json:"venv,omitempty"`         // Explicit venv directory name
	Output       string `json:"output,omitempty"`       // Wrapper file name
	InstallDeps  bool   `json:"installDeps"`            // Include the dependency-refresh block
	Requirements string `json:"requirements,omitempty"` // Lockfile name
	Force        bool   `json:"force"`                  // Overwrite an existing wrapper
}

// WrapperResponse describes a completed generation.
type WrapperResponse struct {
	Project string `json:"project"` // Identifier, e.g. "local:my-app"
	Venv    string `json:"venv"`    // Venv directory the wrapper uses
	Path    string `json:"path"`    // Installed wrapper location
	Script  string `json:"script"`  // Rendered script content
}

// RegisterWrapperRoutes registers the wrapper generation endpoint.
func RegisterWrapperRoutes(router *mux.Router) {
	router.HandleFunc("/api/wrappers", generateWrapperHandler).Methods("POST")
}

// generateWrapperHandler generates and installs a wrapper for one project.
func generateWrapperHandler(w http.ResponseWriter, r *http.Request) {
	var req WrapperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Field 'name' is required", http.StatusBadRequest)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading config: %v", err), http.StatusInternalServerError)
		return
	}

	project, err := discovery.FindProject(req.ServerName, req.Name, cfg)
	if err != nil {
		http.Error(w, fmt.Sprintf("Project not found: %v", err), http.StatusNotFound)
		return
	}

	result, err := generate.Run(project, generate.Options{
		EntryPoint:       req.EntryPoint,
		VenvName:         req.Venv,
		Output:           req.Output,
		InstallDeps:      req.InstallDeps,
		RequirementsFile: req.Requirements,
		Force:            req.Force,
	}, cfg)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, install.ErrExists) {
			statusCode = http.StatusConflict
		}
		http.Error(w, fmt.Sprintf("Generation failed: %v", err), statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(WrapperResponse{
		Project: result.Project.Identifier(),
		Venv:    result.VenvName,
		Path:    result.Path,
		Script:  result.Script,
	}); err != nil {
		http.Error(w, fmt.Sprintf("Error encoding response: %v", err), http.StatusInternalServerError)
	}
}
