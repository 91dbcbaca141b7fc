// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"runwrap/internal/config"
	"runwrap/internal/venv"
)

var venvsCmd = &cobra.Command{
	Use:   "venvs [project]",
	Short: "List virtual environments detected in a project",
	Long: `Lists every virtual environment candidate found in the project directory.
The one 'rw generate' would pick is marked with an asterisk.`,
	Example:           "  rw venvs\n  rw venvs ~/projects/my-app\n  rw venvs server1:my-app",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: projectCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		projectArg := ""
		if len(args) == 1 {
			projectArg = args[0]
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		project, err := resolveProject(projectArg)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var names []string
		if project.IsRemote {
			names, err = venv.ListRemote(project.HostConfig, project.AbsolutePath(), cfg.EffectiveVenvDirs())
		} else {
			names, err = venv.List(project.Path, cfg.EffectiveVenvDirs())
		}
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(names) == 0 {
			fmt.Printf("No virtual environments found in %s.\n", identifierColor.Sprint(project.Identifier()))
			dimColor.Println("Create one with 'python -m venv .venv'.")
			os.Exit(1)
		}

		statusColor.Printf("Virtual environments in %s:\n", identifierColor.Sprint(project.Identifier()))
		for i, name := range names {
			if i == 0 {
				successColor.Printf("* %s\n", name)
			} else {
				fmt.Printf("  %s\n", name)
			}
		}
	},
}
