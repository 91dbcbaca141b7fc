// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"runwrap/internal/config"
)

// RegisterHostRoutes registers the SSH host configuration endpoints.
func RegisterHostRoutes(router *mux.Router) {
	router.HandleFunc("/api/ssh/hosts", listSSHHostsHandler).Methods("GET")
	router.HandleFunc("/api/ssh/hosts", addSSHHostHandler).Methods("POST")
	router.HandleFunc("/api/ssh/hosts/{name}", getSSHHostHandler).Methods("GET")
	router.HandleFunc("/api/ssh/hosts/{name}", deleteSSHHostHandler).Methods("DELETE")
}

// listSSHHostsHandler returns every configured SSH host.
func listSSHHostsHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.LoadConfig()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading config: %v", err), http.StatusInternalServerError)
		return
	}

	hosts := cfg.SSHHosts
	if hosts == nil {
		hosts = []config.SSHHost{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(hosts); err != nil {
		http.Error(w, fmt.Sprintf("Error encoding response: %v", err), http.StatusInternalServerError)
	}
}

// addSSHHostHandler appends a new SSH host to the configuration.
func addSSHHostHandler(w http.ResponseWriter, r *http.Request) {
	var newHost config.SSHHost
	if err := json.NewDecoder(r.Body).Decode(&newHost); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newHost.Name == "" || newHost.Hostname == "" || newHost.User == "" {
		http.Error(w, "Fields 'name', 'hostname', and 'user' are required", http.StatusBadRequest)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading config: %v", err), http.StatusInternalServerError)
		return
	}

	for _, host := range cfg.SSHHosts {
		if host.Name == newHost.Name {
			http.Error(w, fmt.Sprintf("Host '%s' already exists", newHost.Name), http.StatusConflict)
			return
		}
	}

	cfg.SSHHosts = append(cfg.SSHHosts, newHost)
	if err := config.SaveConfig(cfg); err != nil {
		http.Error(w, fmt.Sprintf("Error saving config: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(newHost); err != nil {
		http.Error(w, fmt.Sprintf("Error encoding response: %v", err), http.StatusInternalServerError)
	}
}

// getSSHHostHandler returns one SSH host by name.
func getSSHHostHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	cfg, err := config.LoadConfig()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading config: %v", err), http.StatusInternalServerError)
		return
	}

	for _, host := range cfg.SSHHosts {
		if host.Name == name {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(host); err != nil {
				http.Error(w, fmt.Sprintf("Error encoding response: %v", err), http.StatusInternalServerError)
			}
			return
		}
	}

	http.Error(w, fmt.Sprintf("Host '%s' not found", name), http.StatusNotFound)
}

// deleteSSHHostHandler removes one SSH host by name.
func deleteSSHHostHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	cfg, err := config.LoadConfig()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading config: %v", err), http.StatusInternalServerError)
		return
	}

	found := false
	remaining := cfg.SSHHosts[:0]
	for _, host := range cfg.SSHHosts {
		if host.Name == name {
			found = true
			continue
		}
		remaining = append(remaining, host)
	}
	if !found {
		http.Error(w, fmt.Sprintf("Host '%s' not found", name), http.StatusNotFound)
		return
	}
	cfg.SSHHosts = remaining

	if err := config.SaveConfig(cfg); err != nil {
		http.Error(w, fmt.Sprintf("Error saving config: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
