// Package reconcile detects configuration drift between a project's
// upstream docker-compose file and its local Unraid template, and applies
// additive updates to the template.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/fgrfn/unraid-templates/internal/compose"
	"github.com/fgrfn/unraid-templates/internal/template"
)

// ExcludedVars are environment variables supplied by the host platform
// rather than the service itself. They are never treated as drift even
// when they appear upstream.
var ExcludedVars = []string{"TZ", "PUID", "PGID"}

// MaskKeywords flags variable names that likely carry credentials. A new
// variable whose uppercased name contains any keyword is masked in the UI.
var MaskKeywords = []string{"SECRET", "PASSWORD", "KEY", "TOKEN", "API"}

// NewVar is one upstream setting missing from the local template,
// classified and ready to append.
type NewVar struct {
	Name        string
	Default     string
	Description string
	Display     string
	Required    bool
	Mask        bool
}

// Diff returns the upstream settings not yet declared in the template, in
// upstream declaration order. Existing entries are matched by their env
// target name. Names in ExcludedVars never count as new.
func Diff(upstream []compose.Setting, existing map[string]string) []NewVar {
	var added []NewVar
	for _, s := range upstream {
		if isExcluded(s.Name) {
			continue
		}
		if _, ok := existing[s.Name]; ok {
			continue
		}
		added = append(added, classify(s))
	}
	return added
}

// classify fills in the template-facing attributes for a new variable.
// New entries land in the advanced view so they do not clutter the basic
// form until a maintainer curates them.
func classify(s compose.Setting) NewVar {
	return NewVar{
		Name:        s.Name,
		Default:     s.Default,
		Description: fmt.Sprintf("Environment variable: %s", s.Name),
		Display:     template.DisplayAdvanced,
		Required:    s.Default == "",
		Mask:        shouldMask(s.Name),
	}
}

func isExcluded(name string) bool {
	for _, excluded := range ExcludedVars {
		if name == excluded {
			return true
		}
	}
	return false
}

func shouldMask(name string) bool {
	upper := strings.ToUpper(name)
	for _, keyword := range MaskKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}
