package domain

import (
	"fmt"
	"sort"
	"strings"
)

// LanguageProfile describes how candidates of one language are selected.
type LanguageProfile struct {
	// Name is the registry key (lower case, e.g. "java").
	Name string

	// TypeMatch is matched as a substring of the object type label
	// when no internal type filters are declared. Defaults to Name.
	TypeMatch string

	// InternalTypes, when non-empty, replaces the type label match with
	// one exact internal type match per entry.
	InternalTypes []string
}

// TypeContains returns the substring used for type label matching.
func (p LanguageProfile) TypeContains() string {
	if p.TypeMatch != "" {
		return p.TypeMatch
	}
	return p.Name
}

// HasInternalTypeFilters reports whether the profile declares internal type filters.
func (p LanguageProfile) HasInternalTypeFilters() bool {
	return len(p.InternalTypes) > 0
}

// Queries expands the profile into the graph queries for an application.
func (p LanguageProfile) Queries(application string) []CandidateQuery {
	if !p.HasInternalTypeFilters() {
		return []CandidateQuery{{Application: application, TypeContains: p.TypeContains()}}
	}
	queries := make([]CandidateQuery, 0, len(p.InternalTypes))
	for _, it := range p.InternalTypes {
		queries = append(queries, CandidateQuery{Application: application, InternalType: it})
	}
	return queries
}

// Supported languages.
const (
	LanguageJava  = "java"
	LanguageCobol = "cobol"
	LanguageNet   = "net"
)

var languageProfiles = map[string]LanguageProfile{
	LanguageJava: {
		Name:      LanguageJava,
		TypeMatch: "Java",
	},
	LanguageCobol: {
		Name: LanguageCobol,
		InternalTypes: []string{
			"CAST_COBOL_SavedProgram",
			"CAST_COBOL_ProgramPrototype",
			"CAST_COBOL_SavedFileDescription",
		},
	},
	LanguageNet: {
		Name: LanguageNet,
		InternalTypes: []string{
			"CAST_DotNet_ClassCSharp",
			"CAST_DotNet_InterfaceCSharp",
			"CAST_DotNet_NamespaceCSharp",
		},
	},
}

// LookupLanguage returns the registered profile for a language name.
func LookupLanguage(name string) (LanguageProfile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	p, ok := languageProfiles[key]
	if !ok {
		return LanguageProfile{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
	return p, nil
}

// SupportedLanguages returns the registered language names, sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languageProfiles))
	for name := range languageProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
