// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
)

var configSetLocalRootCmd = &cobra.Command{
	Use:   "set-local-root <path>",
	Short: "Set the custom root directory for local projects",
	Long: `Sets the root directory where runwrap will look for local Python projects.
Use an absolute path or a path starting with '~/' (e.g., '~/work/python').
If set, this overrides the default search paths (~/projects, ~/src).
To revert to default behavior, set the path to an empty string: rw config set-local-root ""`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		localRootPath := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		if localRootPath != "" && !strings.HasPrefix(localRootPath, "/") && !strings.HasPrefix(localRootPath, "~/") {
			errorColor.Fprintf(os.Stderr, "Error: Path must be absolute or start with '~/'\n")
			os.Exit(1)
		}

		cfg.LocalRoot = localRootPath

		err = config.SaveConfig(cfg)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
			os.Exit(1)
		}

		if localRootPath == "" {
			successColor.Println("Local project root reset to default search paths (~/projects, ~/src).")
		} else {
			successColor.Printf("Local project root set to: %s\n", localRootPath)
		}
	},
}

var configGetLocalRootCmd = &cobra.Command{
	Use:   "get-local-root",
	Short: "Show the currently configured local project root directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		if cfg.LocalRoot != "" {
			fmt.Printf("Configured local root: %s\n", identifierColor.Sprint(cfg.LocalRoot))
			resolvedPath, resolveErr := config.ResolvePath(cfg.LocalRoot)
			if resolveErr == nil {
				fmt.Printf("Resolved path:         %s\n", resolvedPath)
			} else {
				errorColor.Printf("Warning: Could not resolve configured path: %v\n", resolveErr)
			}
		} else {
			fmt.Println("Local root not explicitly configured.")
			fmt.Printf("Default search paths: %s, %s\n", identifierColor.Sprint("~/projects"), identifierColor.Sprint("~/src"))
		}

		// Report the path discovery will actually use
		activePath, activeErr := discovery.GetProjectsRootDirectory()
		if activeErr == nil {
			resolvedConfigPath, _ := config.ResolvePath(cfg.LocalRoot)
			homeDir, _ := os.UserHomeDir()
			defaultProjects := filepath.Join(homeDir, "projects")
			defaultSrc := filepath.Join(homeDir, "src")

			source := ""
			switch {
			case cfg.LocalRoot != "" && activePath == resolvedConfigPath:
				source = "(from config)"
			case activePath == defaultProjects || activePath == defaultSrc:
				source = "(default)"
			default:
				source = "(unknown source)"
			}
			successColor.Printf("Effective path being used: %s %s\n", activePath, source)

		} else if strings.Contains(activeErr.Error(), "could not find") {
			if cfg.LocalRoot != "" {
				errorColor.Printf("Warning: Configured path '%s' not found, and no default path exists.\n", cfg.LocalRoot)
			} else {
				errorColor.Println("Warning: Neither default path exists.")
			}
		} else {
			errorColor.Printf("Error determining effective path: %v\n", activeErr)
		}
	},
}

func init() {
	configCmd.AddCommand(configSetLocalRootCmd)
	configCmd.AddCommand(configGetLocalRootCmd)
}
