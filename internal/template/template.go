package template

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config record tags used by Unraid's dockerMan. Only Mode "env" records
// are runtime settings; port and volume records are never touched by the
// updater.
const (
	ModeEnv         = "env"
	TypeVariable    = "Variable"
	DisplayAlways   = "always"
	DisplayAdvanced = "advanced"
)

// Config is one <Config> record of a container template: a port, a volume
// mount or an environment variable, distinguished by Mode.
type Config struct {
	Name        string `xml:"Name,attr"`
	Target      string `xml:"Target,attr"`
	Default     string `xml:"Default,attr"`
	Mode        string `xml:"Mode,attr"`
	Description string `xml:"Description,attr"`
	Type        string `xml:"Type,attr"`
	Display     string `xml:"Display,attr"`
	Required    string `xml:"Required,attr"`
	Mask        string `xml:"Mask,attr"`
	Value       string `xml:",chardata"`
}

// Template is an Unraid container template document. The element set covers
// the standard dockerMan v2 schema; templates in this repository always
// carry the full set so a load/save round trip is stable.
type Template struct {
	XMLName       xml.Name `xml:"Container"`
	Version       string   `xml:"version,attr"`
	Name          string   `xml:"Name"`
	Repository    string   `xml:"Repository"`
	Registry      string   `xml:"Registry"`
	Network       string   `xml:"Network"`
	Shell         string   `xml:"Shell"`
	Privileged    string   `xml:"Privileged"`
	Support       string   `xml:"Support"`
	Project       string   `xml:"Project"`
	Overview      string   `xml:"Overview"`
	Category      string   `xml:"Category"`
	WebUI         string   `xml:"WebUI"`
	TemplateURL   string   `xml:"TemplateURL"`
	Icon          string   `xml:"Icon"`
	ExtraParams   string   `xml:"ExtraParams"`
	PostArgs      string   `xml:"PostArgs"`
	CPUset        string   `xml:"CPUset"`
	DateInstalled string   `xml:"DateInstalled"`
	DonateText    string   `xml:"DonateText"`
	DonateLink    string   `xml:"DonateLink"`
	Requires      string   `xml:"Requires"`
	Configs       []Config `xml:"Config"`
}

// Load reads and parses the template at path. A missing file is wrapped
// with os.ErrNotExist so callers can report it distinctly from a malformed
// one.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}

	var tpl Template
	if err := xml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return &tpl, nil
}

// Save writes the template back with stable two-space indentation. The
// content goes to a sibling temp file first and is renamed into place so a
// crash cannot leave a truncated template behind.
func (t *Template) Save(path string) error {
	data, err := xml.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	content := make([]byte, 0, len(xml.Header)+len(data)+1)
	content = append(content, xml.Header...)
	content = append(content, data...)
	content = append(content, '\n')

	tmpPath := path + ".new"
	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace template: %w", err)
	}
	return nil
}

// EnvDefaults returns Target -> Default for every runtime-setting record.
// Records with any other Mode are ignored.
func (t *Template) EnvDefaults() map[string]string {
	vars := make(map[string]string)
	for _, c := range t.Configs {
		if c.Mode == ModeEnv {
			vars[c.Target] = c.Default
		}
	}
	return vars
}

// AppendEnv appends one runtime-setting record. Existing records keep their
// order; dockerMan shows Config entries in document order.
func (t *Template) AppendEnv(name, value, description, display string, required, mask bool) {
	if description == "" {
		description = fmt.Sprintf("Environment variable: %s", name)
	}
	if display == "" {
		display = DisplayAdvanced
	}
	t.Configs = append(t.Configs, Config{
		Name:        name,
		Target:      name,
		Default:     value,
		Mode:        ModeEnv,
		Description: description,
		Type:        TypeVariable,
		Display:     display,
		Required:    strconv.FormatBool(required),
		Mask:        strconv.FormatBool(mask),
		Value:       value,
	})
}

// Discover returns every template file under dir in lexical order, skipping
// the blank starter template.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".xml") {
			return nil
		}
		if strings.Contains(d.Name(), "blank-template") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return paths, nil
}
