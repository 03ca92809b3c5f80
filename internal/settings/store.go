package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// FileName is the settings file expected inside each module directory.
const FileName = "settings.ini"

// ErrNoFile marks a Load warning for a settings file that does not exist.
var ErrNoFile = errors.New("settings file does not exist")

// loadOptions keeps values verbatim: inline `;`/`#` sequences are part of
// the value, not comments.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment: true,
}

// Store reads and writes module settings files.
//
// Load never fails hard: a module with a missing or unparsable settings file
// still loads with empty settings. Save overwrites the whole file.
type Store struct{}

// NewStore returns a Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the settings file at path. The returned Settings is always
// usable; a non-nil error is a warning explaining why the file's contents
// were not used (missing file wraps ErrNoFile, otherwise a parse failure).
func (st *Store) Load(path string) (*Settings, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), fmt.Errorf("%w: %s", ErrNoFile, path)
		}
		return New(), fmt.Errorf("parse %s: %w", path, err)
	}
	return fromFile(f), nil
}

// Save writes settings to path, replacing any existing file. Sections and
// keys keep their order. Values that cannot round-trip through the line
// format (embedded newlines, structural characters in names) are rejected.
func (st *Store) Save(path string, s *Settings) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	f := ini.Empty()
	for _, section := range s.order {
		sec, err := f.NewSection(section)
		if err != nil {
			return fmt.Errorf("section %q: %w", section, err)
		}
		for _, key := range s.keyOrder[section] {
			if _, err := sec.NewKey(key, s.values[section][key]); err != nil {
				return fmt.Errorf("key %q in section %q: %w", key, section, err)
			}
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
