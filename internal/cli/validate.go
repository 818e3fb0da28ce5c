package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fgrfn/unraid-templates/internal/validate"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Lint all templates for required metadata",
		Long: `Lint every template under templates/ for required metadata.

Checked per template:
- Icon URL is present (and uses HTTPS)
- Name and Repository fields are present
- Environment variable targets are unique`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			return runValidate(root, cmd.OutOrStdout())
		},
	}
}

// runValidate lints the template tree and fails on any error finding.
func runValidate(root string, out io.Writer) error {
	fmt.Fprintln(out, "🔍 Validating Unraid templates...")
	fmt.Fprintln(out)

	results, err := validate.Dir(filepath.Join(root, "templates"))
	if err != nil {
		return err
	}

	hasErrors := false
	for _, res := range results {
		if res.Clean() && len(res.Warnings) == 0 {
			continue
		}

		rel, err := filepath.Rel(root, res.Path)
		if err != nil {
			rel = res.Path
		}
		fmt.Fprintf(out, "📄 %s\n", filepath.ToSlash(rel))

		for _, e := range res.Errors {
			hasErrors = true
			fmt.Fprintf(out, "   ❌ ERROR: %s\n", e)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "   ⚠️  WARNING: %s\n", w)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "✅ Validated %d template(s)\n", len(results))

	if hasErrors {
		fmt.Fprintln(out, "\n❌ Validation failed! Please fix the errors above.")
		return fmt.Errorf("template validation failed")
	}
	fmt.Fprintln(out, "\n✅ All templates are valid!")
	return nil
}
