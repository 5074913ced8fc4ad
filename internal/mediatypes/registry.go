package mediatypes

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	models "lmscontent/internal/domain/models/content"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Rule maps content-type markers and file extensions to one media type.
type Rule struct {
	Name         models.MediaType `yaml:"name"`
	ContentTypes []string         `yaml:"content_types"`
	Extensions   []string         `yaml:"extensions"`
}

type ruleFile struct {
	Types []Rule `yaml:"types"`
}

// Registry classifies files into coarse media types.
// It is immutable after Parse and safe for concurrent use.
type Registry struct {
	rules      []Rule
	extensions map[string]models.MediaType
}

// NewRegistry loads the embedded classification rules.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/mediatypes.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read mediatypes.yaml: %w", err)
	}
	return Parse(data)
}

// MustDefault returns the embedded registry and panics if it cannot load.
func MustDefault() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Parse builds a registry from YAML rules.
func Parse(data []byte) (*Registry, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal media type rules: %w", err)
	}

	r := &Registry{extensions: make(map[string]models.MediaType)}
	for _, rule := range file.Types {
		switch rule.Name {
		case models.MediaImage, models.MediaVideo, models.MediaPDF:
		default:
			return nil, fmt.Errorf("unknown media type %q", rule.Name)
		}
		r.rules = append(r.rules, rule)
		for _, ext := range rule.Extensions {
			ext = strings.ToLower(strings.TrimPrefix(ext, "."))
			if _, taken := r.extensions[ext]; !taken {
				r.extensions[ext] = rule.Name
			}
		}
	}
	return r, nil
}

// Classify consults the declared content type first, then the extension of
// each candidate file name in order. Unknown inputs yield MediaOther.
func (r *Registry) Classify(contentType string, names ...string) models.MediaType {
	if ct := strings.ToLower(strings.TrimSpace(contentType)); ct != "" {
		for _, rule := range r.rules {
			for _, marker := range rule.ContentTypes {
				if strings.Contains(ct, marker) {
					return rule.Name
				}
			}
		}
	}

	for _, name := range names {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(stripQuery(name)), "."))
		if ext == "" {
			continue
		}
		if mt, ok := r.extensions[ext]; ok {
			return mt
		}
	}
	return models.MediaOther
}

// stripQuery drops a URL query or fragment so "a.pdf?alt=media" has extension pdf.
func stripQuery(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		return name[:i]
	}
	return name
}
