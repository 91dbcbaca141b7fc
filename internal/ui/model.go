// SPDX-License-Identifier: Apache-2.0

// Package ui implements the interactive picker: a project list with venv and
// wrapper status, an option form, and a result view.
package ui

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/generate"
	"runwrap/internal/status"
)

type state int

const (
	stateLoadingProjects state = iota
	stateProjectList
	stateForm
	stateGenerating
	stateResult
	stateError
)

type model struct {
	cfg          config.Config
	statuses     []status.ProjectStatus
	cursor       int
	currentState state
	form         formModel
	result       generate.Result
	err          error
	width        int
	height       int
}

// --- Messages ---

type projectsLoadedMsg struct {
	statuses []status.ProjectStatus
}
type generateFinishedMsg struct {
	result generate.Result
}
type errorMsg struct {
	err error
}

// --- Commands ---

func loadProjectsCmd(cfg config.Config) tea.Cmd {
	return func() tea.Msg {
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

		if len(projects) == 0 {
			if len(discoveryErrors) > 0 {
				return errorMsg{fmt.Errorf("project discovery failed: %v", discoveryErrors[0])}
			}
			return errorMsg{fmt.Errorf("no Python projects found locally or on configured remote hosts")}
		}

		return projectsLoadedMsg{statuses: status.CheckAll(projects, cfg)}
	}
}

func runGenerateCmd(st status.ProjectStatus, opts generate.Options, cfg config.Config) tea.Cmd {
	return func() tea.Msg {
		result, err := generate.Run(st.Project, opts, cfg)
		if err != nil {
			return errorMsg{fmt.Errorf("generation failed for %s: %w", st.Project.Identifier(), err)}
		}
		return generateFinishedMsg{result}
	}
}

// --- Model implementation ---

func InitialModel(cfg config.Config) model {
	return model{
		cfg:          cfg,
		currentState: stateLoadingProjects,
	}
}

func (m model) Init() tea.Cmd {
	return loadProjectsCmd(m.cfg)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch m.currentState {
		case stateProjectList:
			cmd = m.handleProjectListKeys(msg)
			if cmd != nil || m.currentState != stateProjectList {
				return m, cmd
			}
		case stateForm:
			return m.handleFormKeys(msg)
		case stateResult, stateError:
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc || msg.String() == "b" {
				m.currentState = stateProjectList
				m.err = nil
				return m, loadProjectsCmd(m.cfg)
			}
			if msg.String() == "q" || msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
		case stateGenerating:
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
		default: // Loading
			if msg.String() == "q" || msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
		}

	case projectsLoadedMsg:
		m.statuses = msg.statuses
		if m.cursor >= len(m.statuses) {
			m.cursor = 0
		}
		m.currentState = stateProjectList

	case generateFinishedMsg:
		m.result = msg.result
		m.currentState = stateResult

	case errorMsg:
		m.err = msg.err
		m.currentState = stateError
	}

	return m, cmd
}

// handleProjectListKeys handles key presses while the project list is active.
func (m *model) handleProjectListKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.statuses)-1 {
			m.cursor++
		}

	case "r":
		m.currentState = stateLoadingProjects
		return loadProjectsCmd(m.cfg)

	case "enter", "g":
		if len(m.statuses) == 0 {
			return nil
		}
		st := m.statuses[m.cursor]
		if st.VenvName == "" {
			m.err = fmt.Errorf("%s has no virtual environment; create one with 'python -m venv .venv'", st.Project.Identifier())
			m.currentState = stateError
			return nil
		}
		m.form = newFormModel(m.cfg, st)
		m.currentState = stateForm
		return m.form.init()
	}
	return nil
}

func (m model) View() string {
	s := strings.Builder{}

	switch m.currentState {
	case stateLoadingProjects:
		s.WriteString(titleStyle.Render("runwrap"))
		s.WriteString("\n\nDiscovering projects...\n")

	case stateProjectList:
		s.WriteString(titleStyle.Render("Select a Python project:"))
		s.WriteString("\n\n")
		for i, st := range m.statuses {
			cursor := " "
			if m.cursor == i {
				cursor = cursorStyle.Render(">")
			}

			venvInfo := errorStyle.Render("[no venv]")
			if st.VenvName != "" {
				venvInfo = successStyle.Render("[venv: " + st.VenvName + "]")
			}
			wrapperInfo := warnStyle.Render("wrapper missing")
			if st.HasWrapper {
				wrapperInfo = dimStyle.Render("wrapper present")
			}
			if st.Err != nil {
				venvInfo = errorStyle.Render("[check failed]")
				wrapperInfo = ""
			}

			s.WriteString(fmt.Sprintf("%s %s %s %s %s\n",
				cursor,
				identifierStyle.Render(st.Project.Name),
				serverNameStyle.Render("("+st.Project.ServerName+")"),
				venvInfo,
				wrapperInfo,
			))
		}
		s.WriteString("\n")
		s.WriteString(footer("↑/k ↓/j", "navigate", "enter/g", "generate", "r", "reload", "q", "quit"))

	case stateForm:
		s.WriteString(m.form.view())

	case stateGenerating:
		s.WriteString("Generating wrapper...\n")

	case stateResult:
		s.WriteString(successStyle.Render("Wrapper created"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Project: %s\n", identifierStyle.Render(m.result.Project.Identifier())))
		s.WriteString(fmt.Sprintf("Venv:    %s\n", m.result.VenvName))
		s.WriteString(fmt.Sprintf("Path:    %s\n", m.result.Path))
		s.WriteString("\n")
		s.WriteString(footer("enter/esc/b", "back to list", "q", "quit"))

	case stateError:
		s.WriteString(errorStyle.Render("Error"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("%v\n\n", m.err))
		s.WriteString(footer("enter/esc/b", "back to list", "q", "quit"))
	}

	return s.String()
}

// footer renders alternating key/description pairs.
func footer(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, footerKeyStyle.Render("["+pairs[i]+"]")+" "+footerStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, dimStyle.Render(" | ")) + "\n"
}
