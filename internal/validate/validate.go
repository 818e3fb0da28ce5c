// Package validate lints Unraid templates for required metadata and for
// the env-target uniqueness the drift reconciler relies on.
package validate

import (
	"fmt"
	"strings"

	"github.com/fgrfn/unraid-templates/internal/template"
)

// Result holds the findings for one template file. Errors must be fixed;
// warnings are advisory.
type Result struct {
	Path     string
	Errors   []string
	Warnings []string
}

// Clean reports whether the file passed without errors.
func (r Result) Clean() bool {
	return len(r.Errors) == 0
}

// File checks a single template. A file that does not parse yields exactly
// one error and no further checks.
func File(path string) Result {
	res := Result{Path: path}

	tpl, err := template.Load(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("XML parsing error: %v", err))
		return res
	}

	switch {
	case strings.TrimSpace(tpl.Icon) == "":
		res.Errors = append(res.Errors, "Missing or empty Icon URL")
	case !strings.HasPrefix(tpl.Icon, "https://"):
		res.Warnings = append(res.Warnings, fmt.Sprintf("Icon URL should use HTTPS: %s", tpl.Icon))
	}

	if strings.TrimSpace(tpl.Name) == "" {
		res.Errors = append(res.Errors, "Missing or empty Name field")
	}
	if strings.TrimSpace(tpl.Repository) == "" {
		res.Errors = append(res.Errors, "Missing or empty Repository field")
	}

	seen := make(map[string]bool)
	for _, c := range tpl.Configs {
		if c.Mode != template.ModeEnv {
			continue
		}
		if seen[c.Target] {
			res.Errors = append(res.Errors, fmt.Sprintf("Duplicate environment variable target: %s", c.Target))
			continue
		}
		seen[c.Target] = true
	}

	return res
}

// Dir validates every template under dir, skipping the blank starter
// template. Results come back in discovery order.
func Dir(dir string) ([]Result, error) {
	paths, err := template.Discover(dir)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		results = append(results, File(path))
	}
	return results, nil
}
