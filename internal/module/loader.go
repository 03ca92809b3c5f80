package module

import (
	"context"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"dashgrid/internal/ctxlog"
	"dashgrid/internal/settings"
	"dashgrid/internal/widget"
)

// Factories maps module identifiers to compiled-in widget constructors.
type Factories map[string]widget.Factory

// Register adds a factory under id. Registration happens once at startup
// from a fixed list, so a duplicate identifier is a programming error.
func (f Factories) Register(id string, fn widget.Factory) {
	if _, dup := f[id]; dup {
		panic(fmt.Sprintf("module: factory %q registered twice", id))
	}
	f[id] = fn
}

// Loader resolves a Descriptor to a live widget instance. Every failure is
// scoped to the one module being loaded; Resolve never panics the host.
type Loader struct {
	store    *settings.Store
	builtins Factories
	tracer   oteltrace.Tracer
}

// NewLoader builds a Loader. tracer may be nil.
func NewLoader(store *settings.Store, builtins Factories, tracer oteltrace.Tracer) *Loader {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("dashgrid")
	}
	return &Loader{store: store, builtins: builtins, tracer: tracer}
}

// Resolve loads m's settings, instantiates its widget, merges metadata, and
// runs Init, moving m to StateLoaded or StateFailed.
//
// Resolve is idempotent-guarded: a module already Loaded is a warning
// no-op (re-executing a script would repeat its global side effects), and
// a module already Failed is left failed; only a Registry reload builds
// fresh entries that retry.
func (l *Loader) Resolve(ctx context.Context, m *Loaded) error {
	log := ctxlog.FromContext(ctx).With("module", m.Descriptor.ID)

	switch m.State {
	case StateLoaded:
		log.Warn("module already loaded, skipping resolve")
		return nil
	case StateFailed:
		log.Debug("module previously failed, not retrying")
		return nil
	}

	ctx, span := l.tracer.Start(ctx, "module.load",
		oteltrace.WithAttributes(
			attribute.String("dashgrid.module.id", m.Descriptor.ID),
			attribute.String("dashgrid.module.source", m.Descriptor.Source.String()),
		))
	defer span.End()

	fail := func(err error) error {
		m.State = StateFailed
		m.Err = err
		span.SetAttributes(attribute.String("dashgrid.outcome", "failed"))
		span.RecordError(err)
		return err
	}

	s, warn := l.store.Load(filepath.Join(m.Descriptor.Dir, settings.FileName))
	if warn != nil {
		log.Warn("settings not loaded", "reason", warn)
	}

	env := widget.Env{
		ID:       m.Descriptor.ID,
		Dir:      m.Descriptor.Dir,
		Settings: s,
		Logger:   ctxlog.FromContext(ctx),
	}

	var inst widget.Contract
	var err error
	switch m.Descriptor.Source {
	case SourceScript:
		inst, err = loadScript(env, m.Descriptor.EntryPoint)
	case SourceBuiltin:
		factory, ok := l.builtins[m.Descriptor.ID]
		if !ok {
			err = fmt.Errorf("%w: no builtin factory %q", ErrNoLoader, m.Descriptor.ID)
			break
		}
		inst, err = factory(env)
	default:
		err = fmt.Errorf("%w: unknown source %d", ErrNoLoader, m.Descriptor.Source)
	}
	if err != nil {
		return fail(err)
	}

	if err := inst.Init(ctx); err != nil {
		return fail(fmt.Errorf("init %s: %w", m.Descriptor.ID, err))
	}

	m.Instance = inst
	m.Settings = s
	m.Meta = inst.Meta()
	m.State = StateLoaded
	m.Err = nil
	span.SetAttributes(attribute.String("dashgrid.outcome", "loaded"))
	log.Info("module loaded", "name", m.Meta.Name, "version", m.Meta.Version, "source", m.Descriptor.Source.String())
	return nil
}
