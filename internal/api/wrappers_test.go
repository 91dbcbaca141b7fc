// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/api"
	"runwrap/internal/config"
)

// wrapperRouter points the local root at a temp directory containing one
// project with a venv.
func wrapperRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()
	projectDir := filepath.Join(root, "demo")
	binDir := filepath.Join(projectDir, ".venv", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python"), []byte("#!/bin/true\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "main.py"), []byte("print()\n"), 0o644))

	require.NoError(t, config.SaveConfig(config.Config{LocalRoot: root}))

	router := mux.NewRouter()
	api.RegisterWrapperRoutes(router)
	return router, projectDir
}

func TestGenerateWrapper(t *testing.T) {
	router, projectDir := wrapperRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/wrappers",
		`{"name":"demo","serverName":"local","installDeps":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp api.WrapperResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "local:demo", resp.Project)
	assert.Equal(t, ".venv", resp.Venv)
	assert.Equal(t, filepath.Join(projectDir, "run.sh"), resp.Path)
	assert.Contains(t, resp.Script, "pip install")

	info, err := os.Stat(resp.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestGenerateWrapper_BadRequest(t *testing.T) {
	router, _ := wrapperRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/wrappers", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/wrappers", `{"serverName":"local"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateWrapper_UnknownProject(t *testing.T) {
	router, _ := wrapperRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/wrappers",
		`{"name":"nosuch","serverName":"local"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateWrapper_Conflict(t *testing.T) {
	router, projectDir := wrapperRouter(t)

	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "run.sh"), []byte("old\n"), 0o755))

	body := `{"name":"demo","serverName":"local"}`
	rec := doJSON(t, router, http.MethodPost, "/api/wrappers", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Force overwrites.
	rec = doJSON(t, router, http.MethodPost, "/api/wrappers",
		`{"name":"demo","serverName":"local","force":true}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
