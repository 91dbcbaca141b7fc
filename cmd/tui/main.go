// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/generate"
	"runwrap/internal/install"
	"runwrap/internal/ssh"
	"runwrap/internal/status"
	"runwrap/internal/ui"
	"runwrap/internal/venv"
)

// RunTUI initializes and runs the Bubble Tea application.
func RunTUI() {
	if err := config.EnsureConfigDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ensure config directory: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	sshManager := ssh.NewManager()
	defer sshManager.CloseAll()
	discovery.InitSSHManager(sshManager)
	venv.InitSSHManager(sshManager)
	install.InitSSHManager(sshManager)
	generate.InitSSHManager(sshManager)
	status.InitSSHManager(sshManager)

	p := tea.NewProgram(ui.InitialModel(cfg))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
