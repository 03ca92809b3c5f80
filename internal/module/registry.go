package module

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"dashgrid/internal/ctxlog"
	"dashgrid/internal/settings"
	"dashgrid/internal/widget"
)

// Registry owns the ordered collection of modules found under the modules
// root. It is the only mutator of Loaded entries; callers read them through
// Modules. All methods run on the host's single logical thread.
type Registry struct {
	store    *settings.Store
	loader   *Loader
	builtins Factories
	tracer   oteltrace.Tracer

	root    string
	modules []*Loaded
	index   map[string]int
}

// NewRegistry builds a Registry resolving builtins through the given
// factories. tracer may be nil.
func NewRegistry(store *settings.Store, builtins Factories, tracer oteltrace.Tracer) *Registry {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("dashgrid")
	}
	return &Registry{
		store:    store,
		loader:   NewLoader(store, builtins, tracer),
		builtins: builtins,
		tracer:   tracer,
		index:    make(map[string]int),
	}
}

// Discover scans the immediate subdirectories of root and records a
// descriptor for each that has an entry point: a <name>.lua script, or a
// registered builtin factory matching the directory name. Directories with
// neither are skipped silently. os.ReadDir sorts entries, so enumeration
// order is lexicographic by identifier.
//
// A script always wins over a builtin of the same name: a file the user
// placed on disk must not be silently dead.
func (r *Registry) Discover(ctx context.Context, root string) error {
	log := ctxlog.FromContext(ctx)
	_, span := r.tracer.Start(ctx, "module.discover",
		oteltrace.WithAttributes(attribute.String("dashgrid.modules.root", root)))
	defer span.End()

	r.root = root
	entries, err := os.ReadDir(root)
	if err != nil {
		span.RecordError(err)
		return &DiscoveryError{Root: root, Err: err}
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id := e.Name()
		dir := filepath.Join(root, id)
		entry := filepath.Join(dir, id+".lua")

		d := Descriptor{ID: id, Dir: dir}
		if _, statErr := os.Stat(entry); statErr == nil {
			d.Source = SourceScript
			d.EntryPoint = entry
			if _, shadowed := r.builtins[id]; shadowed {
				log.Info("script overrides builtin widget", "module", id, "script", entry)
			}
		} else if _, ok := r.builtins[id]; ok {
			d.Source = SourceBuiltin
		} else {
			log.Debug("skipping directory without entry point", "dir", dir)
			continue
		}

		if _, dup := r.index[id]; dup {
			log.Warn("duplicate module identifier, skipping", "module", id)
			continue
		}
		r.index[id] = len(r.modules)
		r.modules = append(r.modules, &Loaded{Descriptor: d, State: StateUnloaded})
	}

	span.SetAttributes(attribute.Int("dashgrid.modules.discovered", len(r.modules)))
	log.Info("module discovery complete", "root", root, "discovered", len(r.modules))
	return nil
}

// LoadAll resolves every discovered module. Per-module failures are
// isolated: they are logged, the module stays Failed, and the batch
// continues. Modules that already failed are not retried.
func (r *Registry) LoadAll(ctx context.Context) (loaded, failed int) {
	log := ctxlog.FromContext(ctx)
	for _, m := range r.modules {
		if err := r.loader.Resolve(ctx, m); err != nil {
			log.Error("module load failed", "module", m.Descriptor.ID, "error", err)
		}
		switch m.State {
		case StateLoaded:
			loaded++
		case StateFailed:
			failed++
		}
	}
	return loaded, failed
}

// Modules returns the ordered module entries. Callers must not mutate.
func (r *Registry) Modules() []*Loaded {
	return r.modules
}

// LoadedModules returns only the successfully loaded entries, in registry
// order. This is the sequence the layout engine assigns cells to.
func (r *Registry) LoadedModules() []*Loaded {
	out := make([]*Loaded, 0, len(r.modules))
	for _, m := range r.modules {
		if m.State == StateLoaded {
			out = append(out, m)
		}
	}
	return out
}

// Run renders one module into its surface. The status is 0 on success and
// -1 when the module was never successfully loaded. A module with no data
// this pass, or a render error, yields placeholder content and status 0:
// both are recoverable per-module conditions.
func (r *Registry) Run(ctx context.Context, m *Loaded, s widget.Surface) (string, int) {
	if m.State != StateLoaded || m.Instance == nil {
		return "", -1
	}
	log := ctxlog.FromContext(ctx)
	content, err := m.Instance.Render(s)
	if err != nil {
		if errors.Is(err, widget.ErrNoData) {
			log.Debug("module has no data this pass", "module", m.Descriptor.ID)
			return "waiting for data", 0
		}
		log.Error("module render failed", "module", m.Descriptor.ID, "error", err)
		return "render error: " + err.Error(), 0
	}
	return content, 0
}

// Reload tears everything down and rediscovers from the original root.
// This is the only path that retries Failed modules; the fresh entries
// start Unloaded.
func (r *Registry) Reload(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "module.reload")
	defer span.End()

	r.CleanupAll(ctx)
	r.modules = nil
	r.index = make(map[string]int)
	if err := r.Discover(ctx, r.root); err != nil {
		return err
	}
	loaded, failed := r.LoadAll(ctx)
	span.SetAttributes(
		attribute.Int("dashgrid.modules.loaded", loaded),
		attribute.Int("dashgrid.modules.failed", failed),
	)
	return nil
}

// SaveAll persists every loaded module's settings, merging its snapshot
// (when it provides one) into the [State] section first. Modules with
// neither settings nor snapshot are skipped so empty files are not
// littered into module directories. Errors are logged, never fatal.
func (r *Registry) SaveAll(ctx context.Context) {
	log := ctxlog.FromContext(ctx)
	for _, m := range r.modules {
		if m.State != StateLoaded {
			continue
		}
		snap := snapshotOf(m.Instance)
		if m.Settings.Empty() && len(snap) == 0 {
			continue
		}
		for _, key := range sortedKeys(snap) {
			m.Settings.Set(settings.StateSection, key, snap[key])
		}
		path := filepath.Join(m.Descriptor.Dir, settings.FileName)
		if err := r.store.Save(path, m.Settings); err != nil {
			log.Error("saving module settings failed", "module", m.Descriptor.ID, "error", err)
			continue
		}
		log.Debug("module settings saved", "module", m.Descriptor.ID, "path", path)
	}
}

// CleanupAll runs every loaded module's cleanup hook. Best-effort; hook
// errors are logged and swallowed.
func (r *Registry) CleanupAll(ctx context.Context) {
	log := ctxlog.FromContext(ctx)
	for _, m := range r.modules {
		if m.State != StateLoaded || m.Instance == nil {
			continue
		}
		if err := m.Instance.Cleanup(ctx); err != nil {
			log.Warn("module cleanup failed", "module", m.Descriptor.ID, "error", err)
		}
	}
}

func snapshotOf(c widget.Contract) map[string]string {
	if s, ok := c.(widget.Snapshotter); ok {
		return s.Snapshot()
	}
	return nil
}

// sortedKeys keeps [State] key order stable across saves.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
