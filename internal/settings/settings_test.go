package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	s := New()
	s.Set("Module", "name", "Clock")
	s.Set("Module", "version", "1.0")
	s.Set("Clock", "format", "15:04:05")
	s.Set("Clock", "equation", "a=b=c")
	s.Set("Clock", "spaced", "hello world  ")

	st := NewStore()
	require.NoError(t, st.Save(path, s))

	got, warn := st.Load(path)
	require.NoError(t, warn)
	require.Equal(t, []string{"Module", "Clock"}, got.Sections())

	for _, section := range s.Sections() {
		for _, key := range s.Keys(section) {
			want, _ := s.Get(section, key)
			v, ok := got.Get(section, key)
			require.True(t, ok, "missing %s/%s after round trip", section, key)
			require.Equal(t, want, v, "%s/%s", section, key)
		}
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	st := NewStore()
	s, warn := st.Load(filepath.Join(t.TempDir(), FileName))
	require.NotNil(t, s)
	require.True(t, s.Empty())
	require.ErrorIs(t, warn, ErrNoFile)
}

func TestStoreLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("[Module\nname=Broken\n"), 0o644))

	st := NewStore()
	s, warn := st.Load(path)
	require.NotNil(t, s)
	require.True(t, s.Empty(), "malformed file must degrade to empty settings")
	require.Error(t, warn)
	require.False(t, errors.Is(warn, ErrNoFile))
}

func TestStoreLoadPlainKeyValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	raw := "[Module]\nname=Clock\nversion=1.0\n[Clock]\nformat=15:04\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	st := NewStore()
	s, warn := st.Load(path)
	require.NoError(t, warn)
	require.Equal(t, "Clock", s.GetDefault("Module", "name", ""))
	require.Equal(t, "1.0", s.GetDefault("Module", "version", ""))
	require.Equal(t, "15:04", s.GetDefault("Clock", "format", ""))
}

func TestStoreSaveRejectsUnwritable(t *testing.T) {
	dir := t.TempDir()
	st := NewStore()

	s := New()
	s.Set("Notes", "text", "line one\nline two")
	require.Error(t, st.Save(filepath.Join(dir, "a.ini"), s))

	s = New()
	s.Set("Notes", "bad=key", "v")
	require.Error(t, st.Save(filepath.Join(dir, "b.ini"), s))

	s = New()
	s.Set("bad]section", "k", "v")
	require.Error(t, st.Save(filepath.Join(dir, "c.ini"), s))
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	st := NewStore()

	s := New()
	s.Set("A", "k", "1")
	s.Set("B", "k", "2")
	require.NoError(t, st.Save(path, s))

	s2 := New()
	s2.Set("A", "k", "3")
	require.NoError(t, st.Save(path, s2))

	got, warn := st.Load(path)
	require.NoError(t, warn)
	require.Equal(t, []string{"A"}, got.Sections(), "old sections must not survive an overwrite")
	require.Equal(t, "3", got.GetDefault("A", "k", ""))
}

func TestValidate(t *testing.T) {
	s := New()
	s.Set("Command", "cmd", "uptime")
	s.Set("Command", "refresh", "30")

	require.NoError(t, s.Validate(map[string][]string{"Command": {"cmd", "refresh"}}))

	err := s.Validate(map[string][]string{"Display": {"rows"}})
	var ms *MissingSectionError
	require.ErrorAs(t, err, &ms)
	require.Equal(t, "Display", ms.Section)

	err = s.Validate(map[string][]string{"Command": {"cmd", "shell"}})
	var mk *MissingKeyError
	require.ErrorAs(t, err, &mk)
	require.Equal(t, "Command", mk.Section)
	require.Equal(t, "shell", mk.Key)
}

func TestSettingsAccessors(t *testing.T) {
	s := New()
	require.True(t, s.Empty())
	require.Nil(t, s.Keys("nope"))
	require.Nil(t, s.Section("nope"))

	s.Set("Module", "name", "First")
	s.Set("Module", "name", "Second") // overwrite keeps position
	s.Set("Module", "version", "2.1")

	require.False(t, s.Empty())
	require.Equal(t, []string{"name", "version"}, s.Keys("Module"))
	require.Equal(t, "Second", s.GetDefault("Module", "name", ""))
	require.Equal(t, map[string]string{"name": "Second", "version": "2.1"}, s.Section("Module"))
	require.Equal(t, "fallback", s.GetDefault("Module", "author", "fallback"))
}
