package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MappingTable associates finding attributes with framework control IDs.
type MappingTable struct {
	TypeMappings        map[string][]string `yaml:"type_mappings" json:"type_mappings"`
	TitleMappings       map[string][]string `yaml:"title_mappings" json:"title_mappings"`
	ControlDescriptions map[string]string   `yaml:"control_descriptions" json:"control_descriptions"`
}

// mappingDocument is the on-disk shape. Pointers let the loader tell an
// empty section from a missing one.
type mappingDocument struct {
	TypeMappings        *map[string][]string `yaml:"type_mappings" json:"type_mappings"`
	TitleMappings       *map[string][]string `yaml:"title_mappings" json:"title_mappings"`
	ControlDescriptions *map[string]string   `yaml:"control_descriptions" json:"control_descriptions"`
}

// LoadError reports a mapping source that could not be read or parsed.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load mappings %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load mappings %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EmptyMappingTable returns a table with all three sections present and empty.
func EmptyMappingTable() MappingTable {
	return MappingTable{
		TypeMappings:        map[string][]string{},
		TitleMappings:       map[string][]string{},
		ControlDescriptions: map[string]string{},
	}
}

// LoadMappingTable reads a JSON or YAML mapping document from path.
// All three top-level sections must be present.
func LoadMappingTable(path string) (MappingTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MappingTable{}, &LoadError{Path: path, Reason: "read failed", Err: err}
	}
	return ParseMappingTable(path, data)
}

// ParseMappingTable decodes a mapping document. name is only used in errors.
// Documents starting with '{' or '[' are decoded as JSON, anything else as YAML.
func ParseMappingTable(name string, data []byte) (MappingTable, error) {
	var doc mappingDocument
	if err := decodeMappingDocument(data, &doc); err != nil {
		return MappingTable{}, &LoadError{Path: name, Reason: "malformed document", Err: err}
	}

	missing := ""
	switch {
	case doc.TypeMappings == nil:
		missing = "type_mappings"
	case doc.TitleMappings == nil:
		missing = "title_mappings"
	case doc.ControlDescriptions == nil:
		missing = "control_descriptions"
	}
	if missing != "" {
		return MappingTable{}, &LoadError{Path: name, Reason: "missing field " + missing}
	}

	t := MappingTable{
		TypeMappings:        *doc.TypeMappings,
		TitleMappings:       *doc.TitleMappings,
		ControlDescriptions: *doc.ControlDescriptions,
	}
	// "type_mappings: {}" decodes to a non-nil pointer to a nil map
	if t.TypeMappings == nil {
		t.TypeMappings = map[string][]string{}
	}
	if t.TitleMappings == nil {
		t.TitleMappings = map[string][]string{}
	}
	if t.ControlDescriptions == nil {
		t.ControlDescriptions = map[string]string{}
	}
	return t, nil
}

// yaml.v3 rejects some valid JSON (the \/ escape, duplicate keys), so JSON
// documents go through encoding/json.
func decodeMappingDocument(data []byte, doc *mappingDocument) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.Unmarshal(trimmed, doc)
	}
	return yaml.Unmarshal(data, doc)
}

// Clone returns a deep copy of the table.
func (t MappingTable) Clone() MappingTable {
	out := EmptyMappingTable()
	for k, v := range t.TypeMappings {
		out.TypeMappings[k] = append([]string(nil), v...)
	}
	for k, v := range t.TitleMappings {
		out.TitleMappings[k] = append([]string(nil), v...)
	}
	for k, v := range t.ControlDescriptions {
		out.ControlDescriptions[k] = v
	}
	return out
}

// Controls returns every control ID the table can produce, sorted.
func (t MappingTable) Controls() []string {
	seen := make(map[string]struct{})
	for _, ids := range t.TypeMappings {
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	for _, ids := range t.TitleMappings {
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
