// Package cli wires the templatectl command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// NewRootCommand builds the base command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "templatectl",
		Short: "Maintenance CLI for the fgrfn Unraid template collection",
		Long: `templatectl maintains a curated collection of Unraid container templates.

It checks tracked upstream projects for configuration drift and appends
newly discovered environment variables to the local templates, lints
templates for required metadata, and renders the GitHub Pages catalog.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set custom version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().String("root", ".", "Repository root containing templates/ and docs/")
	rootCmd.PersistentFlags().String("config", "templates.yaml", "Config file path (relative paths are anchored at --root)")

	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewBrowseCommand())

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// resolveConfigPath anchors a relative config path at the repository root.
func resolveConfigPath(root, configFile string) string {
	if filepath.IsAbs(configFile) {
		return configFile
	}
	return filepath.Join(root, configFile)
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(ctx context.Context) {
	rootCmd := NewRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
