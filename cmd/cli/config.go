// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"runwrap/internal/config"
)

// configCmd is the parent command for all configuration-related subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage runwrap configuration",
	Long: `Provides subcommands to manage different aspects of the runwrap configuration.
This includes generator defaults, the local project root, and SSH host
configurations.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		configPath, _ := config.DefaultConfigPath()
		dimColor.Printf("Configuration file: %s\n\n", configPath)

		fmt.Printf("entry_point:       %s\n", identifierColor.Sprint(cfg.EffectiveEntryPoint()))
		fmt.Printf("wrapper_name:      %s\n", identifierColor.Sprint(cfg.EffectiveWrapperName()))
		fmt.Printf("requirements_file: %s\n", identifierColor.Sprint(cfg.EffectiveRequirementsFile()))
		fmt.Printf("venv_dirs:         %s\n", identifierColor.Sprint(strings.Join(cfg.EffectiveVenvDirs(), ", ")))
		if cfg.LocalRoot != "" {
			fmt.Printf("local_root:        %s\n", identifierColor.Sprint(cfg.LocalRoot))
		} else {
			fmt.Printf("local_root:        %s\n", dimColor.Sprint("(default: ~/projects, ~/src)"))
		}

		if len(cfg.SSHHosts) == 0 {
			fmt.Printf("ssh_hosts:         %s\n", dimColor.Sprint("(none)"))
			return
		}
		fmt.Println("ssh_hosts:")
		for _, host := range cfg.SSHHosts {
			fmt.Printf("  - %s (%s@%s)", identifierColor.Sprint(host.Name), host.User, host.Hostname)
			if host.Disabled {
				dimColor.Print(" (disabled)")
			}
			fmt.Println()
		}
	},
}

// settableDefaults maps 'config set-default' keys to config fields.
var settableDefaults = map[string]func(cfg *config.Config, value string){
	"entry-point":  func(cfg *config.Config, v string) { cfg.EntryPoint = v },
	"wrapper-name": func(cfg *config.Config, v string) { cfg.WrapperName = v },
	"requirements": func(cfg *config.Config, v string) { cfg.RequirementsFile = v },
}

var configSetDefaultCmd = &cobra.Command{
	Use:   "set-default <key> <value>",
	Short: "Set a generator default (entry-point, wrapper-name, requirements)",
	Long: `Sets one of the generator defaults used when the corresponding flag is not
given. Valid keys: entry-point, wrapper-name, requirements.
Set a key to an empty string to revert to the built-in default.`,
	Example: "  rw config set-default entry-point app.py\n  rw config set-default wrapper-name start.sh",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]

		setter, ok := settableDefaults[key]
		if !ok {
			errorColor.Fprintf(os.Stderr, "Error: unknown key '%s' (valid: entry-point, wrapper-name, requirements)\n", key)
			os.Exit(1)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		setter(&cfg, value)

		if err := config.SaveConfig(cfg); err != nil {
			errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
			os.Exit(1)
		}

		if value == "" {
			successColor.Printf("Default for %s reset.\n", key)
		} else {
			successColor.Printf("Default for %s set to: %s\n", key, value)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetDefaultCmd)
}
