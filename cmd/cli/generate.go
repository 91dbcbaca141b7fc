// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"runwrap/internal/config"
	"runwrap/internal/generate"
)

var (
	generateEntryPoint   string
	generateVenv         string
	generateOutput       string
	generateInstallDeps  bool
	generateRequirements string
	generateForce        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [project]",
	Short: "Generate a run.sh wrapper for a Python project",
	Long: `Generates an executable wrapper script inside the project directory.

The project may be given as a path, a 'server:name' identifier, or omitted to
use the current directory. The virtual environment is auto-detected unless
--venv names one explicitly.`,
	Example:           "  rw generate\n  rw generate ~/projects/my-app --install-deps\n  rw generate server1:my-app --entry-point app.py -o start.sh",
	Aliases:           []string{"gen"},
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

		statusColor.Printf("Generating wrapper for %s...\n", identifierColor.Sprint(project.Identifier()))

		result, err := generate.Run(project, generate.Options{
			EntryPoint:       generateEntryPoint,
			VenvName:         generateVenv,
			Output:           generateOutput,
			InstallDeps:      generateInstallDeps,
			RequirementsFile: generateRequirements,
			Force:            generateForce,
		}, cfg)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		stepColor.Printf("Using virtual environment: %s\n", result.VenvName)
		successColor.Printf("Wrapper created at %s\n", result.Path)
		if !project.IsRemote {
			fmt.Printf("You can now run the project with: ./%s\n", filepath.Base(result.Path))
		}
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateEntryPoint, "entry-point", "", "main Python script to execute (default from config, else main.py)")
	generateCmd.Flags().StringVar(&generateVenv, "venv", "", "virtual environment directory relative to the project (default: auto-detect)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "name of the generated wrapper file (default from config, else run.sh)")
	generateCmd.Flags().BoolVar(&generateInstallDeps, "install-deps", false, "include logic to install dependencies when the requirements file changes")
	generateCmd.Flags().StringVar(&generateRequirements, "requirements", "", "requirements file checked by --install-deps (default from config, else requirements.txt)")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "overwrite an existing wrapper file")
}
