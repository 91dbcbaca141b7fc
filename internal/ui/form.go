// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"runwrap/internal/config"
	"runwrap/internal/generate"
	"runwrap/internal/status"
)

const (
	fieldEntryPoint = iota
	fieldOutput
	fieldRequirements
	fieldCount
)

// formModel collects the wrapper options for a single project before
// generation runs.
type formModel struct {
	target      status.ProjectStatus
	inputs      []textinput.Model
	focused     int
	installDeps bool
	force       bool
}

func newFormModel(cfg config.Config, target status.ProjectStatus) formModel {
	inputs := make([]textinput.Model, fieldCount)

	entry := textinput.New()
	entry.Placeholder = cfg.EffectiveEntryPoint()
	entry.CharLimit = 128
	entry.Focus()
	inputs[fieldEntryPoint] = entry

	output := textinput.New()
	output.Placeholder = cfg.EffectiveWrapperName()
	output.CharLimit = 128
	inputs[fieldOutput] = output

	requirements := textinput.New()
	requirements.Placeholder = cfg.EffectiveRequirementsFile()
	requirements.CharLimit = 128
	inputs[fieldRequirements] = requirements

	return formModel{
		target:  target,
		inputs:  inputs,
		focused: fieldEntryPoint,
	}
}

func (f formModel) init() tea.Cmd {
	return textinput.Blink
}

func (f *formModel) focusField(i int) tea.Cmd {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focused = i
	return f.inputs[i].Focus()
}

func (f formModel) options() generate.Options {
	return generate.Options{
		EntryPoint:       strings.TrimSpace(f.inputs[fieldEntryPoint].Value()),
		VenvName:         f.target.VenvName,
		Output:           strings.TrimSpace(f.inputs[fieldOutput].Value()),
		RequirementsFile: strings.TrimSpace(f.inputs[fieldRequirements].Value()),
		InstallDeps:      f.installDeps,
		Force:            f.force,
	}
}

// handleFormKeys handles key presses while the option form is active.
func (m model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.currentState = stateProjectList
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		cmd := m.form.focusField((m.form.focused + 1) % fieldCount)
		return m, cmd

	case tea.KeyShiftTab, tea.KeyUp:
		cmd := m.form.focusField((m.form.focused + fieldCount - 1) % fieldCount)
		return m, cmd

	case tea.KeyCtrlD:
		m.form.installDeps = !m.form.installDeps
		return m, nil

	case tea.KeyCtrlF:
		m.form.force = !m.form.force
		return m, nil

	case tea.KeyEnter:
		m.currentState = stateGenerating
		return m, runGenerateCmd(m.form.target, m.form.options(), m.cfg)
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focused], cmd = m.form.inputs[m.form.focused].Update(msg)
	return m, cmd
}

func (f formModel) view() string {
	s := strings.Builder{}

	s.WriteString(titleStyle.Render("Wrapper options"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Project: %s  %s\n",
		identifierStyle.Render(f.target.Project.Identifier()),
		successStyle.Render("[venv: "+f.target.VenvName+"]"),
	))
	s.WriteString("\n")

	labels := [fieldCount]string{"Entry point ", "Output      ", "Requirements"}
	for i, in := range f.inputs {
		label := labels[i]
		if i == f.focused {
			label = cursorStyle.Render(label)
		}
		s.WriteString(fmt.Sprintf("%s %s\n", label, in.View()))
	}

	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Install deps on change: %s    Overwrite existing: %s\n",
		toggleView(f.installDeps), toggleView(f.force)))
	s.WriteString("\n")
	s.WriteString(footer(
		"tab", "next field",
		"ctrl+d", "toggle deps",
		"ctrl+f", "toggle overwrite",
		"enter", "generate",
		"esc", "back",
	))

	return s.String()
}

func toggleView(on bool) string {
	if on {
		return successStyle.Render("yes")
	}
	return dimStyle.Render("no")
}
