// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"runwrap/internal/config"
	"runwrap/internal/discovery"
	"runwrap/internal/generate"
	"runwrap/internal/logger"
	"runwrap/internal/status"
)

var (
	scanWrite       bool
	scanInstallDeps bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan all projects and report venv and wrapper status",
	Long: `Discovers Python projects in the local root and on all configured SSH
hosts, then reports whether each has a virtual environment and a wrapper.

With --write, a wrapper is generated for every project that has a virtual
environment but no wrapper yet.`,
	Example: "  rw scan\n  rw scan --write\n  rw scan --write --install-deps",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Color("cyan")
		s.Suffix = " Discovering projects..."
		s.Start()

		projectChan, errorChan, _ := discovery.FindProjects()

		var collectedErrors []error
		var projects []discovery.Project
		var wg sync.WaitGroup
		wg.Add(1)

		go func() {
			defer wg.Done()
			for err := range errorChan {
				collectedErrors = append(collectedErrors, err)
			}
		}()

		for p := range projectChan {
			projects = append(projects, p)
		}
		wg.Wait()
		s.Stop()

		if len(collectedErrors) > 0 {
			errorColor.Fprintln(os.Stderr, "Errors during project discovery:")
			for _, err := range collectedErrors {
				errorColor.Fprintf(os.Stderr, "- %v\n", err)
			}
			if len(projects) == 0 {
				os.Exit(1)
			}
			errorColor.Fprintln(os.Stderr, "Continuing with successfully discovered projects...")
		}

		if len(projects) == 0 {
			fmt.Println("\nNo Python projects found locally or on configured remote hosts.")
			os.Exit(1)
		}

		s.Suffix = " Checking project status..."
		s.Start()
		statuses := status.CheckAll(projects, cfg)
		s.Stop()

		fmt.Println("\nDiscovered projects:")
		for _, st := range statuses {
			printProjectStatus(st, cfg)
			if st.Err != nil {
				collectedErrors = append(collectedErrors, st.Err)
			}
		}

		if scanWrite {
			collectedErrors = append(collectedErrors, writeMissingWrappers(statuses, cfg)...)
		}

		if len(collectedErrors) > 0 {
			os.Exit(1)
		}
	},
}

// printProjectStatus renders one scan row.
func printProjectStatus(st status.ProjectStatus, cfg config.Config) {
	fmt.Printf("- %s ", identifierColor.Sprint(st.Project.Identifier()))

	switch {
	case st.Err != nil:
		errorColor.Printf("[check failed: %v]\n", st.Err)
		return
	case st.VenvName == "":
		errorColor.Print("[no venv]")
	default:
		successColor.Printf("[venv: %s]", st.VenvName)
	}

	if st.HasWrapper {
		fmt.Printf(" %s\n", dimColor.Sprintf("%s present", cfg.EffectiveWrapperName()))
	} else {
		stepColor.Printf(" %s missing\n", cfg.EffectiveWrapperName())
	}
}

// writeMissingWrappers generates wrappers for projects that have a venv but
// no wrapper yet. Per-project failures are reported and do not stop the run.
func writeMissingWrappers(statuses []status.ProjectStatus, cfg config.Config) []error {
	var errs []error

	for _, st := range statuses {
		if st.Err != nil || st.VenvName == "" || st.HasWrapper {
			continue
		}

		stepColor.Printf("\nGenerating wrapper for %s...\n", identifierColor.Sprint(st.Project.Identifier()))
		result, err := generate.Run(st.Project, generate.Options{
			VenvName:    st.VenvName,
			InstallDeps: scanInstallDeps,
		}, cfg)
		if err != nil {
			logger.Error("Bulk wrapper generation failed",
				"project", st.Project.Identifier(), "error", err)
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			errs = append(errs, fmt.Errorf("generation failed for %s: %w", st.Project.Identifier(), err))
			continue
		}
		successColor.Printf("Wrapper created at %s\n", result.Path)
	}

	return errs
}

func init() {
	scanCmd.Flags().BoolVar(&scanWrite, "write", false, "generate wrappers for projects that have a venv but no wrapper")
	scanCmd.Flags().BoolVar(&scanInstallDeps, "install-deps", false, "include dependency-refresh logic in wrappers generated by --write")
}
