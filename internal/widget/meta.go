package widget

import (
	"strings"
	"unicode"

	"dashgrid/internal/settings"
)

// Defaults reported for fields a module never sets.
const (
	DefaultVersion     = "0.0"
	DefaultDescription = "Base module"
	DefaultAuthor      = "Unknown"
	DefaultLicense     = "Unspecified"
)

// Metadata describes a module for presentation. Fields may be overridden
// by the [Module] section of the module's settings file.
type Metadata struct {
	Name         string
	Version      string
	Description  string
	Author       string
	License      string
	Dependencies []string
}

// DefaultMetadata returns the metadata a module starts with before any
// settings overrides: a prettified form of its id and the documented
// field defaults.
func DefaultMetadata(id string) Metadata {
	return Metadata{
		Name:        DisplayName(id),
		Version:     DefaultVersion,
		Description: DefaultDescription,
		Author:      DefaultAuthor,
		License:     DefaultLicense,
	}
}

// Apply overlays values from a settings [Module] section onto m. Only the
// name, version and description keys participate; absent keys leave the
// current value in place.
func (m *Metadata) Apply(s *settings.Settings) {
	if s == nil {
		return
	}
	if v, ok := s.Get(settings.ModuleSection, settings.NameKey); ok {
		m.Name = v
	}
	if v, ok := s.Get(settings.ModuleSection, settings.VersionKey); ok {
		m.Version = v
	}
	if v, ok := s.Get(settings.ModuleSection, settings.DescriptionKey); ok {
		m.Description = v
	}
}

// DisplayName converts a module identifier into a human-readable title:
// underscores become spaces and each word is capitalized, so
// "cpu_load" renders as "Cpu Load".
func DisplayName(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
