package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fgrfn/unraid-templates/internal/config"
	"github.com/fgrfn/unraid-templates/internal/reconcile"
)

var summaryRule = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	Render(strings.Repeat("=", 60))

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check upstream projects and update templates",
		Long: `Check every tracked upstream project for configuration drift.

For each project the upstream docker-compose.yml is fetched, its
environment variables are compared against the local template, and any
variables missing locally are appended. Projects that cannot be checked
are skipped; the batch always runs to completion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			configFile, _ := cmd.Flags().GetString("config")
			return runUpdate(cmd.Context(), root, configFile, cmd.OutOrStdout())
		},
	}
}

// runUpdate executes the drift check batch and prints the summary.
func runUpdate(ctx context.Context, root, configFile string, out io.Writer) error {
	cfg, err := config.Load(resolveConfigPath(root, configFile))
	if err != nil {
		return err
	}

	runner := reconcile.NewRunner(root, out)
	updated := runner.Run(ctx, cfg.Projects)

	fmt.Fprintln(out)
	fmt.Fprintln(out, summaryRule)
	if len(updated) > 0 {
		fmt.Fprintf(out, "✅ Updated %d template(s):\n", len(updated))
		for _, name := range updated {
			fmt.Fprintf(out, "   - %s\n", name)
		}
		fmt.Fprintln(out, "\n💡 Please review the changes and commit them.")
	} else {
		fmt.Fprintln(out, "✅ All templates are up to date!")
	}
	return nil
}
