// SPDX-License-Identifier: Apache-2.0

// Package wrapper renders the run.sh wrapper script for a Python project.
// The script is a fixed bash template: it cds to its own directory, checks
// the venv interpreter, optionally refreshes dependencies when the lockfile
// is newer than the install flag file, and execs the entry point forwarding
// all arguments.
package wrapper

import (
	"fmt"
	"path"
	"strings"
	"text/template"

	"runwrap/internal/util"
	"runwrap/internal/venv"
)

// Data holds the values substituted into the script template. All paths are
// relative to the project directory, the script resolves them after cd-ing
// to its own location.
type Data struct {
	VenvPython       string // venv interpreter, e.g. ".venv/bin/python"
	EntryPoint       string // entry-point script, e.g. "main.py"
	InstallDeps      bool   // include the dependency-refresh block
	RequirementsFile string // lockfile name, e.g. "requirements.txt"
	FlagFile         string // install marker, e.g. ".venv/.deps_installed"
}

// NewData assembles template data from a venv directory name and the
// generator options.
func NewData(venvName, entryPoint, requirementsFile string, installDeps bool) Data {
	return Data{
		VenvPython:       path.Join(venvName, venv.PythonRelPath),
		EntryPoint:       entryPoint,
		InstallDeps:      installDeps,
		RequirementsFile: requirementsFile,
		FlagFile:         path.Join(venvName, venv.DepsFlagFile),
	}
}

const scriptTemplate = `#!/usr/bin/env bash
# Generated by runwrap. Regenerate with 'rw generate' instead of editing.
set -euo pipefail

cd "$(dirname "${BASH_SOURCE[0]}")"

PYTHON={{ shq .VenvPython }}

if [ ! -x "$PYTHON" ]; then
    echo "ERROR: virtual environment python not found at $PYTHON" >&2
    echo "Create one with 'python -m venv .venv' or regenerate this wrapper." >&2
    exit 1
fi
{{- if .InstallDeps }}

REQUIREMENTS={{ shq .RequirementsFile }}
DEPS_FLAG={{ shq .FlagFile }}

if [ ! -e "$DEPS_FLAG" ] || [ "$REQUIREMENTS" -nt "$DEPS_FLAG" ]; then
    echo "Requirements changed, installing dependencies from $REQUIREMENTS..."
    "$PYTHON" -m pip install -r "$REQUIREMENTS"
    touch "$DEPS_FLAG"
fi
{{- end }}

exec "$PYTHON" {{ shq .EntryPoint }} "$@"
`

var tmpl = template.Must(template.New("wrapper").Funcs(template.FuncMap{
	"shq": util.QuoteArgForShell,
}).Parse(scriptTemplate))

// Render produces the wrapper script content for the given data.
func Render(d Data) (string, error) {
	if d.VenvPython == "" || d.EntryPoint == "" {
		return "", fmt.Errorf("wrapper data is missing venv python or entry point")
	}
	if d.InstallDeps && (d.RequirementsFile == "" || d.FlagFile == "") {
		return "", fmt.Errorf("wrapper data is missing requirements file or flag file")
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("failed to render wrapper template: %w", err)
	}
	return sb.String(), nil
}
