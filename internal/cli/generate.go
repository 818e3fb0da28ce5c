package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fgrfn/unraid-templates/internal/catalog"
	"github.com/fgrfn/unraid-templates/internal/config"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Render the GitHub Pages catalog",
		Long: `Scan templates/ and render the static catalog page to docs/index.html.

Each template becomes a card with its icon, WebUI port, image, and
install URLs. Templates that fail to parse are skipped with a note.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			configFile, _ := cmd.Flags().GetString("config")
			return runGenerate(root, configFile, cmd.OutOrStdout())
		},
	}
}

// runGenerate builds the catalog and writes the index page.
func runGenerate(root, configFile string, out io.Writer) error {
	cfg, err := config.Load(resolveConfigPath(root, configFile))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "🔍 Searching for templates...")
	entries, err := catalog.Build(root, cfg.Site, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Found %d template(s)\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(out, "   - %s (%s)\n", e.Name, e.Path)
	}

	fmt.Fprintln(out, "\n🔨 Generating HTML...")

	docsDir := filepath.Join(root, "docs")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", docsDir, err)
	}

	outPath := filepath.Join(docsDir, "index.html")
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := catalog.Render(f, cfg.Site, entries); err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Generated: %s\n", outPath)
	return nil
}
