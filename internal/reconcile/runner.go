package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fgrfn/unraid-templates/internal/compose"
	"github.com/fgrfn/unraid-templates/internal/config"
	"github.com/fgrfn/unraid-templates/internal/template"
)

// Runner checks a configured list of projects for upstream drift and
// updates their templates in place.
type Runner struct {
	fetcher *compose.Fetcher
	root    string
	out     io.Writer
}

// NewRunner returns a Runner that resolves template paths relative to root
// and writes progress to out.
func NewRunner(root string, out io.Writer) *Runner {
	return &Runner{
		fetcher: compose.NewFetcher(),
		root:    root,
		out:     out,
	}
}

// Run processes every project in order and returns the names of projects
// whose templates were modified. Per-project failures are reported and
// skipped; only cancellation of ctx stops the batch early.
func (r *Runner) Run(ctx context.Context, projects []config.Project) []string {
	fmt.Fprintln(r.out, "🔄 Starting template update check...")

	var updated []string
	for _, project := range projects {
		if ctx.Err() != nil {
			break
		}
		changed, err := r.updateProject(ctx, project)
		if err != nil {
			fmt.Fprintf(r.out, "  ❌ Error updating %s: %v\n", project.Name, err)
			continue
		}
		if changed {
			updated = append(updated, project.Name)
		}
	}
	return updated
}

// updateProject reconciles a single project. It returns true when the
// template file was rewritten with new variables.
func (r *Runner) updateProject(ctx context.Context, project config.Project) (bool, error) {
	fmt.Fprintf(r.out, "\n📋 Checking %s...\n", project.Name)

	xmlPath := project.XMLPath
	if !filepath.IsAbs(xmlPath) {
		xmlPath = filepath.Join(r.root, xmlPath)
	}
	if _, err := os.Stat(xmlPath); err != nil {
		fmt.Fprintf(r.out, "  ❌ Template file not found: %s\n", xmlPath)
		return false, nil
	}

	fmt.Fprintln(r.out, "  🔍 Fetching upstream docker-compose.yml...")
	doc, err := r.fetcher.Fetch(ctx, project.ComposeURL)
	if err != nil {
		fmt.Fprintf(r.out, "  ⚠️  Could not fetch docker-compose.yml: %v\n", err)
		fmt.Fprintf(r.out, "  ⚠️  Skipping %s - could not fetch docker-compose.yml\n", project.Name)
		return false, nil
	}

	service, err := doc.PrimaryService()
	if err != nil {
		fmt.Fprintf(r.out, "  ⚠️  Could not extract service configuration: %v\n", err)
		return false, nil
	}
	if n := doc.ServiceCount(); n > 1 {
		fmt.Fprintf(r.out, "  ⚠️  Compose file declares %d services - using %q\n", n, service.Name)
	}
	fmt.Fprintf(r.out, "  ✅ Found %d environment variable(s) in upstream\n", len(service.Settings))

	tpl, err := template.Load(xmlPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(r.out, "  ❌ Template file not found: %s\n", xmlPath)
			return false, nil
		}
		return false, err
	}
	existing := tpl.EnvDefaults()
	fmt.Fprintf(r.out, "  📄 Template has %d environment variable(s)\n", len(existing))

	newVars := Diff(service.Settings, existing)
	if len(newVars) == 0 {
		fmt.Fprintln(r.out, "  ✅ Template is up to date")
		return false, nil
	}

	fmt.Fprintf(r.out, "  🆕 Found %d new variable(s):\n", len(newVars))
	for _, v := range newVars {
		fmt.Fprintf(r.out, "     - %s = %s\n", v.Name, v.Default)
		tpl.AppendEnv(v.Name, v.Default, v.Description, v.Display, v.Required, v.Mask)
	}

	if err := tpl.Save(xmlPath); err != nil {
		return false, err
	}
	fmt.Fprintf(r.out, "  ✅ Updated %s\n", xmlPath)
	return true, nil
}
