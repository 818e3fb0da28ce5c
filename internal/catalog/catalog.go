// Package catalog builds the template index for the GitHub Pages site and
// for the interactive browser.
package catalog

import (
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fgrfn/unraid-templates/internal/config"
	"github.com/fgrfn/unraid-templates/internal/template"
)

//go:embed index.gohtml
var pageSource string

// logoExtensions are probed, in order, next to a template that declares no
// icon.
var logoExtensions = []string{"png", "svg", "jpg", "jpeg", "webp", "ico"}

// Entry is one template's catalog metadata with its derived display values.
type Entry struct {
	Path        string // repo-relative, forward slashes
	Name        string
	Description string
	Repository  string
	WebUI       string
	Project     string
	Network     string
	Icon        string // empty when neither the XML nor a local logo provides one
	Avatar      string // generated initials avatar, always set
	Port        string
	Image       string
	PagesURL    string
	RawURL      string
	EnvCount    int
}

// page is the data handed to the embedded HTML template.
type page struct {
	Site    config.Site
	Entries []Entry
}

// Build scans templates under root and returns one entry per parseable
// file, in discovery order. Files that fail to parse are noted on out and
// skipped so the page can still render.
func Build(root string, site config.Site, out io.Writer) ([]Entry, error) {
	paths, err := template.Discover(filepath.Join(root, "templates"))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(paths))
	for _, xmlPath := range paths {
		tpl, err := template.Load(xmlPath)
		if err != nil {
			fmt.Fprintf(out, "Error parsing %s: %v\n", xmlPath, err)
			continue
		}

		rel, err := filepath.Rel(root, xmlPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s against %s: %w", xmlPath, root, err)
		}
		relSlash := filepath.ToSlash(rel)

		name := orDefault(tpl.Name, "Unknown")
		entries = append(entries, Entry{
			Path:        relSlash,
			Name:        name,
			Description: orDefault(tpl.Overview, "No description available"),
			Repository:  tpl.Repository,
			WebUI:       tpl.WebUI,
			Project:     tpl.Project,
			Network:     orDefault(tpl.Network, "bridge"),
			Icon:        resolveIcon(root, relSlash, tpl.Icon, site),
			Avatar:      avatarURL(site, name),
			Port:        webUIPort(tpl.WebUI),
			Image:       imageName(tpl.Repository),
			PagesURL:    site.PagesURL + "/" + relSlash,
			RawURL:      site.RawURL + "/" + relSlash,
			EnvCount:    len(tpl.EnvDefaults()),
		})
	}
	return entries, nil
}

// Render writes the complete index page for the given entries.
func Render(w io.Writer, site config.Site, entries []Entry) error {
	tmpl, err := htmltemplate.New("index").Funcs(htmltemplate.FuncMap{
		"truncate": truncate,
	}).Parse(pageSource)
	if err != nil {
		return fmt.Errorf("failed to parse page template: %w", err)
	}
	if err := tmpl.Execute(w, page{Site: site, Entries: entries}); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// resolveIcon prefers the icon declared in the XML, then a logo file next
// to the template (served through the raw URL), then nothing; the page
// falls back to the generated avatar.
func resolveIcon(root, relSlash, declared string, site config.Site) string {
	if declared != "" {
		return declared
	}
	dir := path.Dir(relSlash)
	for _, ext := range logoExtensions {
		logo := filepath.Join(root, filepath.FromSlash(dir), "logo."+ext)
		if _, err := os.Stat(logo); err == nil {
			return fmt.Sprintf("%s/%s/logo.%s", site.RawURL, dir, ext)
		}
	}
	return ""
}

func avatarURL(site config.Site, name string) string {
	return fmt.Sprintf(site.AvatarURL, strings.ReplaceAll(name, " ", "+"))
}

// webUIPort pulls the port out of an Unraid WebUI value such as
// "http://[IP]:[PORT:8080]".
func webUIPort(webui string) string {
	if webui == "" {
		return "N/A (headless)"
	}
	parts := strings.Split(webui, ":")
	return strings.ReplaceAll(parts[len(parts)-1], "]", "")
}

func imageName(repository string) string {
	if repository == "" {
		return "N/A"
	}
	return strings.Split(repository, ":")[0]
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
