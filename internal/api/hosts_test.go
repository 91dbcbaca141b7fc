// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runwrap/internal/api"
	"runwrap/internal/config"
)

func hostRouter(t *testing.T) *mux.Router {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	router := mux.NewRouter()
	api.RegisterHostRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHosts_ListEmpty(t *testing.T) {
	router := hostRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/ssh/hosts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHosts_AddListGetDelete(t *testing.T) {
	router := hostRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/ssh/hosts",
		`{"Name":"web1","Hostname":"web1.example.com","User":"deploy","Port":2222}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/ssh/hosts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hosts []config.SSHHost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hosts))
	require.Len(t, hosts, 1)
	assert.Equal(t, "web1", hosts[0].Name)
	assert.Equal(t, 2222, hosts[0].Port)

	rec = doJSON(t, router, http.MethodGet, "/api/ssh/hosts/web1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/ssh/hosts/web1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/ssh/hosts/web1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHosts_AddValidation(t *testing.T) {
	router := hostRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/ssh/hosts", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/ssh/hosts", `{"Name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHosts_AddDuplicate(t *testing.T) {
	router := hostRouter(t)

	body := `{"Name":"web1","Hostname":"a","User":"u"}`
	rec := doJSON(t, router, http.MethodPost, "/api/ssh/hosts", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/ssh/hosts", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHosts_DeleteMissing(t *testing.T) {
	router := hostRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/api/ssh/hosts/nosuch", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
