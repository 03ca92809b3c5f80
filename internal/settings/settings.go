// Package settings loads, validates, and persists per-module key-value
// configuration files. The on-disk format is INI: `key=value` lines grouped
// under `[Section]` headers, UTF-8. A module owns its Settings instance once
// loaded; the host only reads metadata from it.
package settings

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Section and key names with host-level meaning. The [Module] section seeds
// metadata overrides; [State] receives snapshot fields on save.
const (
	ModuleSection = "Module"
	StateSection  = "State"

	NameKey        = "name"
	VersionKey     = "version"
	DescriptionKey = "description"
)

// Settings is a module's configuration: section name to key to string value.
// Keys within a section are unique. Section and key order is preserved as
// loaded or inserted.
type Settings struct {
	order    []string
	keyOrder map[string][]string
	values   map[string]map[string]string
}

// New returns empty Settings.
func New() *Settings {
	return &Settings{
		keyOrder: make(map[string][]string),
		values:   make(map[string]map[string]string),
	}
}

// Set stores value under section/key, creating the section as needed.
// Setting an existing key overwrites it in place.
func (s *Settings) Set(section, key, value string) {
	sec, ok := s.values[section]
	if !ok {
		sec = make(map[string]string)
		s.values[section] = sec
		s.order = append(s.order, section)
	}
	if _, exists := sec[key]; !exists {
		s.keyOrder[section] = append(s.keyOrder[section], key)
	}
	sec[key] = value
}

// Get returns the value for section/key and whether it exists.
func (s *Settings) Get(section, key string) (string, bool) {
	sec, ok := s.values[section]
	if !ok {
		return "", false
	}
	v, ok := sec[key]
	return v, ok
}

// GetDefault returns the value for section/key, or fallback when absent.
func (s *Settings) GetDefault(section, key, fallback string) string {
	if v, ok := s.Get(section, key); ok {
		return v
	}
	return fallback
}

// HasSection reports whether the named section exists.
func (s *Settings) HasSection(section string) bool {
	_, ok := s.values[section]
	return ok
}

// Sections returns section names in order.
func (s *Settings) Sections() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Keys returns the key names of a section in order, or nil for an unknown
// section.
func (s *Settings) Keys(section string) []string {
	ks, ok := s.keyOrder[section]
	if !ok {
		return nil
	}
	out := make([]string, len(ks))
	copy(out, ks)
	return out
}

// Section returns a copy of the section's key-value pairs, or nil.
func (s *Settings) Section(section string) map[string]string {
	sec, ok := s.values[section]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(sec))
	for k, v := range sec {
		out[k] = v
	}
	return out
}

// Empty reports whether no sections are present.
func (s *Settings) Empty() bool {
	return len(s.order) == 0
}

// fromFile converts a parsed ini.File, skipping the synthetic empty default
// section ini creates for files with no leading headerless keys.
func fromFile(f *ini.File) *Settings {
	s := New()
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		for _, k := range sec.Keys() {
			s.Set(sec.Name(), k.Name(), k.Value())
		}
	}
	return s
}

// checkWritable rejects section names, keys, and values that the line-based
// format cannot represent. Values containing `=` are fine (the parser splits
// on the first delimiter); embedded newlines and structural characters in
// names are not.
func (s *Settings) checkWritable() error {
	for _, section := range s.order {
		if strings.ContainsAny(section, "]\n") {
			return fmt.Errorf("section name %q cannot be written", section)
		}
		for _, key := range s.keyOrder[section] {
			if strings.ContainsAny(key, "=[\n") {
				return fmt.Errorf("key %q in section %q cannot be written", key, section)
			}
			if strings.Contains(s.values[section][key], "\n") {
				return fmt.Errorf("value of %q in section %q contains a newline", key, section)
			}
		}
	}
	return nil
}
