package module

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgrid/internal/settings"
	"dashgrid/internal/widget"
)

// fakeWidget is a minimal builtin used across tests.
type fakeWidget struct {
	widget.Base
	initErr error
}

func newFakeWidget(env widget.Env) (widget.Contract, error) {
	return &fakeWidget{Base: widget.NewBase(env)}, nil
}

func (f *fakeWidget) Init(ctx context.Context) error {
	if f.initErr != nil {
		return f.initErr
	}
	return f.Base.Init(ctx)
}

func (f *fakeWidget) Render(s widget.Surface) (string, error) {
	return "fake", nil
}

func scriptDescriptor(t *testing.T, root, id, body string) Descriptor {
	t.Helper()
	dir := writeScript(t, root, id, body)
	return Descriptor{ID: id, Dir: dir, EntryPoint: filepath.Join(dir, id+".lua"), Source: SourceScript}
}

func TestResolveScript(t *testing.T) {
	d := scriptDescriptor(t, t.TempDir(), "hello", minimalScript)
	l := NewLoader(settings.NewStore(), nil, nil)

	m := &Loaded{Descriptor: d}
	require.NoError(t, l.Resolve(context.Background(), m))

	assert.Equal(t, StateLoaded, m.State)
	assert.Equal(t, "Hello", m.Meta.Name, "default name is the prettified id")
	assert.Equal(t, widget.DefaultVersion, m.Meta.Version)
	require.NotNil(t, m.Instance)
}

func TestResolveIdempotentOnLoaded(t *testing.T) {
	d := scriptDescriptor(t, t.TempDir(), "once", minimalScript)
	l := NewLoader(settings.NewStore(), nil, nil)

	m := &Loaded{Descriptor: d}
	require.NoError(t, l.Resolve(context.Background(), m))
	first := m.Instance

	// Second resolve must not re-execute the script.
	require.NoError(t, l.Resolve(context.Background(), m))
	assert.Same(t, first, m.Instance)
	assert.Equal(t, StateLoaded, m.State)
}

func TestResolveDoesNotRetryFailed(t *testing.T) {
	d := scriptDescriptor(t, t.TempDir(), "broken", `error("boom")`)
	l := NewLoader(settings.NewStore(), nil, nil)

	m := &Loaded{Descriptor: d}
	require.Error(t, l.Resolve(context.Background(), m))
	require.Equal(t, StateFailed, m.State)
	firstErr := m.Err

	require.NoError(t, l.Resolve(context.Background(), m))
	assert.Equal(t, StateFailed, m.State)
	assert.Same(t, firstErr.(*ExecutionError), m.Err.(*ExecutionError))
}

func TestResolveScriptSyntaxError(t *testing.T) {
	d := scriptDescriptor(t, t.TempDir(), "bad", `function (((`)
	l := NewLoader(settings.NewStore(), nil, nil)

	m := &Loaded{Descriptor: d}
	err := l.Resolve(context.Background(), m)
	assert.ErrorIs(t, err, ErrNoLoader)
	assert.Equal(t, StateFailed, m.State)
}

func TestResolveScriptNoContract(t *testing.T) {
	cases := map[string]string{
		"returns nothing":   `local x = 1`,
		"returns scalar":    `return 42`,
		"table sans render": `return { name = "nope" }`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			d := scriptDescriptor(t, t.TempDir(), "m", body)
			l := NewLoader(settings.NewStore(), nil, nil)

			m := &Loaded{Descriptor: d}
			err := l.Resolve(context.Background(), m)
			assert.ErrorIs(t, err, ErrNoContract)
			assert.Equal(t, StateFailed, m.State)
		})
	}
}

func TestResolveScriptInitFailure(t *testing.T) {
	d := scriptDescriptor(t, t.TempDir(), "strict", `
local w = {}
function w.init(self)
	error("missing required settings")
end
function w.render(self, width, height)
	return ""
end
return w
`)
	l := NewLoader(settings.NewStore(), nil, nil)

	m := &Loaded{Descriptor: d}
	err := l.Resolve(context.Background(), m)
	require.Error(t, err)
	assert.Equal(t, StateFailed, m.State)
	assert.Contains(t, err.Error(), "init")
}

func TestResolveBuiltin(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "fake")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	ini := "[Module]\nname=Fake Widget\nversion=2.1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, settings.FileName), []byte(ini), 0o644))

	builtins := Factories{}
	builtins.Register("fake", newFakeWidget)
	l := NewLoader(settings.NewStore(), builtins, nil)

	m := &Loaded{Descriptor: Descriptor{ID: "fake", Dir: dir, Source: SourceBuiltin}}
	require.NoError(t, l.Resolve(context.Background(), m))
	assert.Equal(t, "Fake Widget", m.Meta.Name)
	assert.Equal(t, "2.1", m.Meta.Version)
}

func TestResolveBuiltinMissingFactory(t *testing.T) {
	l := NewLoader(settings.NewStore(), nil, nil)
	m := &Loaded{Descriptor: Descriptor{ID: "ghost", Dir: t.TempDir(), Source: SourceBuiltin}}

	err := l.Resolve(context.Background(), m)
	assert.ErrorIs(t, err, ErrNoLoader)
	assert.Equal(t, StateFailed, m.State)
}

func TestFactoriesRegisterDuplicatePanics(t *testing.T) {
	builtins := Factories{}
	builtins.Register("x", newFakeWidget)
	assert.Panics(t, func() {
		builtins.Register("x", newFakeWidget)
	})
}

func TestExecutionErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &ExecutionError{Path: "w.lua", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "w.lua")
}
