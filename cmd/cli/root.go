// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/generate"
	"runwrap/internal/install"
	"runwrap/internal/ssh"
	"runwrap/internal/status"
	"runwrap/internal/venv"
)

var (
	sshManager      *ssh.Manager
	statusColor     = color.New(color.FgCyan)
	errorColor      = color.New(color.FgRed)
	stepColor       = color.New(color.FgYellow)
	successColor    = color.New(color.FgGreen)
	identifierColor = color.New(color.FgBlue)
	dimColor        = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "rw",
	Short: "Python run.sh wrapper generator",
	Long: `Generates a smart run.sh wrapper for a Python project.

The wrapper locates the project's virtual environment, optionally reinstalls
dependencies when requirements.txt changes, and execs the entry-point script
forwarding all arguments. Projects are discovered in a local root directory
(~/projects, ~/src) and on remote hosts configured via SSH
(~/.config/runwrap/config.yaml).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to ensure config directory: %w", err)
		}
		sshManager = ssh.NewManager()
		discovery.InitSSHManager(sshManager)
		venv.InitSSHManager(sshManager)
		install.InitSSHManager(sshManager)
		generate.InitSSHManager(sshManager)
		status.InitSSHManager(sshManager)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if sshManager != nil {
			sshManager.CloseAll()
		}
		return nil
	},
}

func RunCLI() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(venvsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}
