package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Extension is the YAML form of additional schema data.
//
//	elements:
//	  my_widget: ""
//	attributes:
//	  data_role:
//	    - name: data-role
//	  tone:
//	    - scope: my_widget
//	      name: tone
type Extension struct {
	Elements   map[string]string      `yaml:"elements,omitempty"`
	Attributes map[string][]EntrySpec `yaml:"attributes,omitempty"`
}

// EntrySpec is the YAML form of an Entry.
type EntrySpec struct {
	Scope     string `yaml:"scope,omitempty"`
	Name      string `yaml:"name,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
	Rename    string `yaml:"rename,omitempty"`
}

func (s EntrySpec) entry(key string) Entry {
	name := s.Name
	if name == "" {
		name = key
	}
	return Entry{
		Scope:     ParseScope(s.Scope),
		Name:      name,
		Namespace: s.Namespace,
		RenameTo:  s.Rename,
	}
}

// LoadExtension reads a YAML extension file.
func LoadExtension(path string) (Extension, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extension{}, err
	}
	ext, err := ParseExtension(data)
	if err != nil {
		return Extension{}, fmt.Errorf("%s: %w", path, err)
	}
	return ext, nil
}

// ParseExtension decodes YAML extension data.
func ParseExtension(data []byte) (Extension, error) {
	var ext Extension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return Extension{}, fmt.Errorf("failed to parse schema extension: %w", err)
	}
	for name, specs := range ext.Attributes {
		if name == "" {
			return Extension{}, fmt.Errorf("attribute with empty name")
		}
		if len(specs) == 0 {
			return Extension{}, fmt.Errorf("attribute %q has no entries", name)
		}
	}
	return ext, nil
}

// Dump returns the whole schema in the Extension YAML form.
func (s *Schema) Dump() ([]byte, error) {
	ext := Extension{
		Elements:   make(map[string]string, len(s.elements)),
		Attributes: make(map[string][]EntrySpec, len(s.attributes)),
	}
	for tag, ns := range s.elements {
		ext.Elements[tag] = ns
	}
	for name, entries := range s.attributes {
		specs := make([]EntrySpec, 0, len(entries))
		for _, e := range entries {
			spec := EntrySpec{Name: e.Name, Namespace: e.Namespace, Rename: e.RenameTo}
			if !e.Scope.IsGlobal() {
				spec.Scope = e.Scope.Tag()
			}
			specs = append(specs, spec)
		}
		ext.Attributes[name] = specs
	}
	return yaml.Marshal(ext)
}
