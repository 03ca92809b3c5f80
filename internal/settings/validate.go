package settings

import (
	"fmt"
	"sort"
)

// MissingSectionError reports a required section absent from the settings.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing section: %s", e.Section)
}

// MissingKeyError reports a required key absent from its section.
type MissingKeyError struct {
	Section string
	Key     string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing key %q in section %q", e.Key, e.Section)
}

// Validate checks that every required section exists and contains every
// listed key. Modules call this from their own init hook when they depend
// on configuration; the store never enforces it on its own. Sections are
// checked in name order so the first reported failure is deterministic.
func (s *Settings) Validate(required map[string][]string) error {
	sections := make([]string, 0, len(required))
	for section := range required {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		if !s.HasSection(section) {
			return &MissingSectionError{Section: section}
		}
		for _, key := range required[section] {
			if _, ok := s.Get(section, key); !ok {
				return &MissingKeyError{Section: section, Key: key}
			}
		}
	}
	return nil
}
