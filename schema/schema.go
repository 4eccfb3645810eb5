// Package schema holds the Element Table and the Attribute Table used to
// validate tags and attribute names while lexing and to resolve attributes
// while rendering.
//
// A Schema is immutable once built. The builtin tables are available through
// Default, which builds them on first use; callers that need different
// vocabularies build their own with New or Extend.
package schema

import (
	"sort"
	"strings"
)

// Scope limits the tags an attribute entry applies to.
type Scope struct {
	tag string
}

// Global returns the scope that applies to every tag.
func Global() Scope { return Scope{} }

// Specific returns the scope that applies only to tag.
func Specific(tag string) Scope { return Scope{tag: tag} }

// ParseScope reads the textual form produced by Scope.String.
// An empty string or "global" yields the global scope.
func ParseScope(s string) Scope {
	s = strings.TrimSpace(s)
	if s == "" || s == "global" {
		return Global()
	}
	return Specific(s)
}

func (s Scope) IsGlobal() bool { return s.tag == "" }
func (s Scope) Tag() string    { return s.tag }

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return s.tag
}

// Matches reports whether the scope applies to tag.
func (s Scope) Matches(tag string) bool {
	return s.IsGlobal() || s.tag == tag
}

// Entry is one resolution target for a template-level attribute name.
type Entry struct {
	Scope     Scope
	Name      string // name written to markup unless RenameTo is set
	Namespace string // optional, "style" groups values into a style attribute
	RenameTo  string // optional output rename
}

// OutputName returns the attribute name written to markup.
func (e Entry) OutputName() string {
	if e.RenameTo != "" {
		return e.RenameTo
	}
	return e.Name
}

// Schema is the pair of Element Table and Attribute Table.
type Schema struct {
	elements   map[string]string
	attributes map[string][]Entry
}

// New builds a Schema from an element map (tag to namespace, empty for none)
// and an attribute map (template name to entries). The maps are copied.
func New(elements map[string]string, attributes map[string][]Entry) *Schema {
	s := &Schema{
		elements:   make(map[string]string, len(elements)),
		attributes: make(map[string][]Entry, len(attributes)),
	}
	for tag, ns := range elements {
		s.elements[tag] = ns
	}
	for name, entries := range attributes {
		s.attributes[name] = append([]Entry(nil), entries...)
	}
	return s
}

// HasElement reports whether tag is in the Element Table.
func (s *Schema) HasElement(tag string) bool {
	_, ok := s.elements[tag]
	return ok
}

// ElementNamespace returns the namespace registered for tag, if any.
func (s *Schema) ElementNamespace(tag string) string {
	return s.elements[tag]
}

// HasAttribute reports whether name has at least one entry, regardless of scope.
func (s *Schema) HasAttribute(name string) bool {
	return len(s.attributes[name]) > 0
}

// Resolve picks the entry for attribute name on tag. An entry scoped to tag
// wins over a global one. ok is false when no entry applies.
func (s *Schema) Resolve(name, tag string) (entry Entry, ok bool) {
	var global *Entry
	for i, e := range s.attributes[name] {
		if e.Scope.IsGlobal() {
			if global == nil {
				global = &s.attributes[name][i]
			}
			continue
		}
		if e.Scope.Tag() == tag {
			return e, true
		}
	}
	if global != nil {
		return *global, true
	}
	return Entry{}, false
}

// Entries returns a copy of the entries registered for name.
func (s *Schema) Entries(name string) []Entry {
	return append([]Entry(nil), s.attributes[name]...)
}

// Elements returns every registered tag in sorted order.
func (s *Schema) Elements() []string {
	return sortedKeys(s.elements)
}

// Attributes returns every registered attribute name in sorted order.
func (s *Schema) Attributes() []string {
	return sortedKeys(s.attributes)
}

// Extend returns a new Schema holding s plus ext. An extension entry replaces
// an existing entry of the same attribute name and scope.
func (s *Schema) Extend(ext Extension) *Schema {
	out := New(s.elements, s.attributes)
	for tag, ns := range ext.Elements {
		out.elements[tag] = ns
	}
	for name, specs := range ext.Attributes {
		for _, spec := range specs {
			out.attributes[name] = upsert(out.attributes[name], spec.entry(name))
		}
	}
	return out
}

func upsert(entries []Entry, e Entry) []Entry {
	for i := range entries {
		if entries[i].Scope == e.Scope {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
