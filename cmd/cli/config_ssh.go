// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"runwrap/internal/config"
)

var (
	sshAddHostname   string
	sshAddUser       string
	sshAddPort       int
	sshAddKeyPath    string
	sshAddRemoteRoot string
	sshImportRoot    string
)

// configSSHCmd groups the SSH host management subcommands
var configSSHCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Manage SSH host configurations",
	Long:  `Add, list, remove, and import the SSH hosts on which wrappers can be generated.`,
}

var configSSHAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add an SSH host configuration",
	Example: "  rw config ssh add server1 --hostname host.example.com --user deploy --key ~/.ssh/id_ed25519",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		if sshAddHostname == "" || sshAddUser == "" {
			errorColor.Fprintln(os.Stderr, "Error: --hostname and --user are required.")
			os.Exit(1)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		for _, host := range cfg.SSHHosts {
			if host.Name == name {
				errorColor.Fprintf(os.Stderr, "Error: Host '%s' already exists.\n", name)
				os.Exit(1)
			}
		}

		cfg.SSHHosts = append(cfg.SSHHosts, config.SSHHost{
			Name:       name,
			Hostname:   sshAddHostname,
			User:       sshAddUser,
			Port:       sshAddPort,
			KeyPath:    sshAddKeyPath,
			RemoteRoot: sshAddRemoteRoot,
		})

		if err := config.SaveConfig(cfg); err != nil {
			errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
			os.Exit(1)
		}

		successColor.Printf("Host '%s' added.\n", name)
	},
}

var configSSHListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured SSH hosts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		if len(cfg.SSHHosts) == 0 {
			fmt.Println("No SSH hosts configured.")
			dimColor.Println("Add one with 'rw config ssh add' or import from ~/.ssh/config with 'rw config ssh import'.")
			return
		}

		for _, host := range cfg.SSHHosts {
			port := host.Port
			if port == 0 {
				port = 22
			}
			fmt.Printf("- %s: %s@%s:%d", identifierColor.Sprint(host.Name), host.User, host.Hostname, port)
			if host.RemoteRoot != "" {
				dimColor.Printf(" (root: %s)", host.RemoteRoot)
			}
			if host.Disabled {
				dimColor.Print(" (disabled)")
			}
			fmt.Println()
		}
	},
}

var configSSHRemoveCmd = &cobra.Command{
	Use:               "remove <name>",
	Short:             "Remove an SSH host configuration",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: hostCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		found := false
		remaining := cfg.SSHHosts[:0]
		for _, host := range cfg.SSHHosts {
			if host.Name == name {
				found = true
				continue
			}
			remaining = append(remaining, host)
		}
		if !found {
			errorColor.Fprintf(os.Stderr, "Error: Host '%s' not found in configuration.\n", name)
			os.Exit(1)
		}
		cfg.SSHHosts = remaining

		if err := config.SaveConfig(cfg); err != nil {
			errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
			os.Exit(1)
		}

		successColor.Printf("Host '%s' removed.\n", name)
	},
}

var configSSHImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import hosts from ~/.ssh/config",
	Long: `Imports concrete host entries from ~/.ssh/config (wildcard patterns and
entries without a user are skipped). Hosts whose name already exists in the
runwrap configuration are left untouched.`,
	Example: "  rw config ssh import\n  rw config ssh import --remote-root '~/projects'",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		potentialHosts, err := config.ParseSSHConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error parsing ~/.ssh/config: %v\n", err)
			os.Exit(1)
		}
		if len(potentialHosts) == 0 {
			fmt.Println("No importable hosts found in ~/.ssh/config.")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		existing := make(map[string]bool, len(cfg.SSHHosts))
		for _, host := range cfg.SSHHosts {
			existing[host.Name] = true
		}

		imported := 0
		for _, p := range potentialHosts {
			if existing[p.Alias] {
				dimColor.Printf("Skipping '%s' (already configured).\n", p.Alias)
				continue
			}

			host, err := config.ConvertToSSHHost(p, p.Alias, sshImportRoot)
			if err != nil {
				errorColor.Fprintf(os.Stderr, "Skipping '%s': %v\n", p.Alias, err)
				continue
			}

			cfg.SSHHosts = append(cfg.SSHHosts, host)
			statusColor.Printf("Imported '%s' (%s@%s).\n", p.Alias, p.User, p.Hostname)
			imported++
		}

		if imported == 0 {
			fmt.Println("Nothing to import.")
			return
		}

		if err := config.SaveConfig(cfg); err != nil {
			errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
			os.Exit(1)
		}

		successColor.Printf("Imported %d host(s).\n", imported)
	},
}

func init() {
	configSSHAddCmd.Flags().StringVar(&sshAddHostname, "hostname", "", "server address (IP or domain)")
	configSSHAddCmd.Flags().StringVar(&sshAddUser, "user", "", "SSH username")
	configSSHAddCmd.Flags().IntVar(&sshAddPort, "port", 0, "SSH port (default 22)")
	configSSHAddCmd.Flags().StringVar(&sshAddKeyPath, "key", "", "path to the SSH private key file")
	configSSHAddCmd.Flags().StringVar(&sshAddRemoteRoot, "remote-root", "", "directory to search for projects on the host")
	configSSHImportCmd.Flags().StringVar(&sshImportRoot, "remote-root", "", "remote root assigned to every imported host")

	configSSHCmd.AddCommand(configSSHAddCmd)
	configSSHCmd.AddCommand(configSSHListCmd)
	configSSHCmd.AddCommand(configSSHRemoveCmd)
	configSSHCmd.AddCommand(configSSHImportCmd)
	configCmd.AddCommand(configSSHCmd)
}
