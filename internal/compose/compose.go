package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrNoService reports a compose document without a usable services section.
// Callers treat it as "skip this project", not as a fatal condition.
var ErrNoService = errors.New("no services defined in compose document")

// Document is a parsed docker-compose file. Mapping order is preserved
// because the first declared service is treated as the project's primary
// one, and settings are diffed in document order.
type Document struct {
	services yaml.MapSlice
}

// Service is the configurable surface one compose service exposes: its
// environment settings with extracted defaults, plus port and volume
// declarations kept verbatim for reporting.
type Service struct {
	Name     string
	Settings []Setting
	Ports    []string
	Volumes  []string
}

// Setting is a single environment entry in document order.
type Setting struct {
	Name    string
	Default string
}

// Parse decodes docker-compose YAML.
func Parse(data []byte) (*Document, error) {
	var doc struct {
		Services yaml.MapSlice `yaml:"services"`
	}
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to parse compose document: %w", err)
	}
	return &Document{services: doc.Services}, nil
}

// ServiceCount reports how many services the document declares.
func (d *Document) ServiceCount() int {
	if d == nil {
		return 0
	}
	return len(d.services)
}

// PrimaryService projects the first service declared in the document.
// Upstream projects tracked here expose a single service; when a document
// declares several, the first one wins.
func (d *Document) PrimaryService() (*Service, error) {
	if d == nil || len(d.services) == 0 {
		return nil, ErrNoService
	}

	entry := d.services[0]
	svc := &Service{Name: stringify(entry.Key)}

	body, ok := entry.Value.(yaml.MapSlice)
	if !ok {
		// Service declared with an empty body still counts as a service,
		// it just has no configurable surface.
		return svc, nil
	}

	for _, field := range body {
		switch stringify(field.Key) {
		case "environment":
			svc.Settings = parseEnvironment(field.Value)
		case "ports":
			svc.Ports = stringifySequence(field.Value)
		case "volumes":
			svc.Volumes = stringifySequence(field.Value)
		}
	}
	return svc, nil
}

// parseEnvironment accepts both compose forms: a mapping of NAME to value
// and a list of NAME=VALUE strings. List entries without '=' carry no value
// and are dropped. A name that repeats keeps its first position but takes
// the last value.
func parseEnvironment(v any) []Setting {
	var settings []Setting
	index := make(map[string]int)

	put := func(name string, value any) {
		def := ExtractDefault(value)
		if i, ok := index[name]; ok {
			settings[i].Default = def
			return
		}
		index[name] = len(settings)
		settings = append(settings, Setting{Name: name, Default: def})
	}

	switch env := v.(type) {
	case yaml.MapSlice:
		for _, item := range env {
			put(stringify(item.Key), item.Value)
		}
	case []any:
		for _, item := range env {
			s, ok := item.(string)
			if !ok {
				continue
			}
			name, value, found := strings.Cut(s, "=")
			if !found {
				continue
			}
			put(name, value)
		}
	}
	return settings
}

func stringifySequence(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	return out
}
