package engine

import (
	"errors"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

type titleRule struct {
	re       *regexp.Regexp
	controls []string
}

// Mapper resolves findings to the controls of one framework. It is
// immutable after NewMapper returns and safe for concurrent use.
type Mapper struct {
	framework Framework
	table     MappingTable
	types     []string
	titles    []titleRule
}

// NewMapper builds a mapper for fw. When mappingsPath is set and loads
// cleanly its table is used as-is; otherwise the framework defaults apply.
// Load failures are logged, never returned.
func NewMapper(fw Framework, mappingsPath string, logger zerolog.Logger) *Mapper {
	table := fw.DefaultMappingTable()

	if mappingsPath == "" {
		logger.Debug().Str("framework", fw.String()).Msg("no mappings file configured, using default mappings")
	} else if loaded, err := LoadMappingTable(mappingsPath); err != nil {
		var lerr *LoadError
		if errors.As(err, &lerr) && errors.Is(lerr.Err, fs.ErrNotExist) {
			logger.Warn().Str("framework", fw.String()).Str("path", mappingsPath).
				Msg("mappings file not found, using default mappings")
		} else {
			logger.Error().Err(err).Str("framework", fw.String()).Str("path", mappingsPath).Msg("error loading mappings, using default mappings")
		}
	} else {
		table = loaded
		logger.Debug().Str("framework", fw.String()).Str("path", mappingsPath).
			Int("type_mappings", len(table.TypeMappings)).
			Int("title_mappings", len(table.TitleMappings)).
			Msg("loaded mappings")
	}

	return newMapper(fw, table)
}

// NewMapperWithTable builds a mapper over an in-memory table.
func NewMapperWithTable(fw Framework, table MappingTable) *Mapper {
	return newMapper(fw, table.Clone())
}

func newMapper(fw Framework, table MappingTable) *Mapper {
	m := &Mapper{framework: fw, table: table}

	for pattern := range table.TypeMappings {
		m.types = append(m.types, pattern)
	}
	sort.Strings(m.types)

	patterns := make([]string, 0, len(table.TitleMappings))
	for pattern := range table.TitleMappings {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	for _, pattern := range patterns {
		m.titles = append(m.titles, titleRule{
			re:       regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(pattern)) + `\b`),
			controls: table.TitleMappings[pattern],
		})
	}
	return m
}

// Framework returns the framework this mapper resolves against.
func (m *Mapper) Framework() Framework {
	return m.framework
}

// Table returns a copy of the mapping table in use.
func (m *Mapper) Table() MappingTable {
	return m.table.Clone()
}

// ControlDescription returns the human readable text for a control, or ""
// when the table has none.
func (m *Mapper) ControlDescription(id string) string {
	return m.table.ControlDescriptions[id]
}

// ResolveControls returns the sorted control IDs matching a finding.
// Type patterns match as substrings, title patterns as whole words.
// description is accepted but not consulted.
func (m *Mapper) ResolveControls(findingType, title, description string) []string {
	matched := make(map[string]struct{})

	for _, pattern := range m.types {
		if strings.Contains(findingType, pattern) {
			for _, id := range m.table.TypeMappings[pattern] {
				matched[id] = struct{}{}
			}
		}
	}

	lowered := strings.ToLower(title)
	for _, rule := range m.titles {
		if rule.re.MatchString(lowered) {
			for _, id := range rule.controls {
				matched[id] = struct{}{}
			}
		}
	}

	if len(matched) == 0 {
		if id, ok := m.framework.DefaultControl(); ok {
			return []string{id}
		}
	}
	return sortedKeys(matched)
}

// MapFinding resolves the controls for f.
func (m *Mapper) MapFinding(f Finding) []string {
	return m.ResolveControls(f.FindingType(), f.Title, f.Description)
}

// ResourceID returns the identifier of the first affected resource.
func (m *Mapper) ResourceID(f Finding) string {
	if len(f.Resources) == 0 || f.Resources[0].ID == "" {
		return UnknownResource
	}
	return f.Resources[0].ID
}
