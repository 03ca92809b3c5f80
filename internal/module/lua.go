package module

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Shopify/go-lua"

	"dashgrid/internal/widget"
)

// widgetRegistryKey is where the script's returned widget table is parked
// in the Lua registry. One state per script, so a fixed key suffices.
const widgetRegistryKey = "dashgrid.widget"

// identityFields never appear in a snapshot; they describe the module's
// on-disk identity, not its state.
var identityFields = map[string]bool{
	"name":          true,
	"path":          true,
	"settings_path": true,
}

// scriptWidget adapts a Lua widget table to widget.Contract. The script
// must return a table with a render function; init and cleanup functions
// are optional. Each script owns an isolated lua.State; all calls happen
// on the host's single logical thread.
type scriptWidget struct {
	env        widget.Env
	state      *lua.State
	meta       widget.Metadata
	hasInit    bool
	hasCleanup bool
}

var _ widget.Contract = (*scriptWidget)(nil)
var _ widget.Snapshotter = (*scriptWidget)(nil)

// loadScript executes the entry point in a fresh Lua state and wraps the
// returned widget table. The script sees three globals: module_id,
// module_dir, and settings (section → key → value tables, a copy).
func loadScript(env widget.Env, entryPoint string) (widget.Contract, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	state.PushString(env.ID)
	state.SetGlobal("module_id")
	state.PushString(env.Dir)
	state.SetGlobal("module_dir")
	pushSettingsTable(state, env)
	state.SetGlobal("settings")

	if err := lua.LoadFile(state, entryPoint, ""); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoLoader, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, &ExecutionError{Path: entryPoint, Cause: err}
	}

	if state.TypeOf(-1) != lua.TypeTable {
		state.Pop(1)
		return nil, fmt.Errorf("%w: script must return a widget table", ErrNoContract)
	}
	state.Field(-1, "render")
	isFunc := state.TypeOf(-1) == lua.TypeFunction
	state.Pop(1)
	if !isFunc {
		state.Pop(1)
		return nil, fmt.Errorf("%w: widget table has no render function", ErrNoContract)
	}

	// Park the table in the registry; the stack stays clean between calls.
	state.SetField(lua.RegistryIndex, widgetRegistryKey)

	w := &scriptWidget{env: env, state: state}
	w.hasInit = w.hasFunction("init")
	w.hasCleanup = w.hasFunction("cleanup")
	w.meta = w.readMetadata()
	return w, nil
}

func (w *scriptWidget) Meta() widget.Metadata { return w.meta }

func (w *scriptWidget) Init(ctx context.Context) error {
	if !w.hasInit {
		return nil
	}
	if err := w.callHook("init"); err != nil {
		return fmt.Errorf("lua init: %w", err)
	}
	return nil
}

// Render calls the script's render(self, width, height). A nil return
// means the module has no data this pass; anything else must be a string.
func (w *scriptWidget) Render(s widget.Surface) (string, error) {
	defer w.state.SetTop(w.state.Top())
	w.pushWidget()
	w.state.Field(-1, "render")
	w.state.PushValue(-2) // self
	w.state.PushInteger(s.Width)
	w.state.PushInteger(s.Height)
	if err := w.state.ProtectedCall(3, 1, 0); err != nil {
		return "", fmt.Errorf("lua render: %w", err)
	}

	switch w.state.TypeOf(-1) {
	case lua.TypeNil:
		return "", widget.ErrNoData
	case lua.TypeString, lua.TypeNumber:
		out, _ := w.state.ToString(-1)
		return out, nil
	default:
		return "", fmt.Errorf("render must return a string or nil")
	}
}

func (w *scriptWidget) Cleanup(ctx context.Context) error {
	if !w.hasCleanup {
		return nil
	}
	if err := w.callHook("cleanup"); err != nil {
		return fmt.Errorf("lua cleanup: %w", err)
	}
	return nil
}

// Snapshot returns the widget table's scalar fields, minus identity
// fields. Tables and functions are state the script rebuilds itself.
func (w *scriptWidget) Snapshot() map[string]string {
	defer w.state.SetTop(w.state.Top())
	out := make(map[string]string)
	w.pushWidget()
	tbl := w.state.AbsIndex(-1)
	w.state.PushNil()
	for w.state.Next(tbl) {
		if w.state.TypeOf(-2) == lua.TypeString {
			key, _ := w.state.ToString(-2)
			if !identityFields[key] {
				if v, ok := scalarToString(w.state, -1); ok {
					out[key] = v
				}
			}
		}
		w.state.Pop(1)
	}
	return out
}

// pushWidget pushes the widget table onto the stack.
func (w *scriptWidget) pushWidget() {
	w.state.Field(lua.RegistryIndex, widgetRegistryKey)
}

func (w *scriptWidget) hasFunction(name string) bool {
	defer w.state.SetTop(w.state.Top())
	w.pushWidget()
	w.state.Field(-1, name)
	return w.state.TypeOf(-1) == lua.TypeFunction
}

// callHook invokes a no-argument-besides-self lifecycle function.
func (w *scriptWidget) callHook(name string) error {
	defer w.state.SetTop(w.state.Top())
	w.pushWidget()
	w.state.Field(-1, name)
	w.state.PushValue(-2)
	return w.state.ProtectedCall(1, 0, 0)
}

// readMetadata builds the widget's metadata: identifier defaults, then the
// table's own string fields, then [Module] settings overrides.
func (w *scriptWidget) readMetadata() widget.Metadata {
	meta := widget.DefaultMetadata(w.env.ID)
	if v, ok := w.stringField("name"); ok {
		meta.Name = v
	}
	if v, ok := w.stringField("version"); ok {
		meta.Version = v
	}
	if v, ok := w.stringField("description"); ok {
		meta.Description = v
	}
	if v, ok := w.stringField("author"); ok {
		meta.Author = v
	}
	if v, ok := w.stringField("license"); ok {
		meta.License = v
	}
	meta.Dependencies = w.stringListField("dependencies")
	meta.Apply(w.env.Settings)
	return meta
}

func (w *scriptWidget) stringField(name string) (string, bool) {
	defer w.state.SetTop(w.state.Top())
	w.pushWidget()
	w.state.Field(-1, name)
	if w.state.TypeOf(-1) != lua.TypeString {
		return "", false
	}
	return w.state.ToString(-1)
}

func (w *scriptWidget) stringListField(name string) []string {
	defer w.state.SetTop(w.state.Top())
	w.pushWidget()
	w.state.Field(-1, name)
	if w.state.TypeOf(-1) != lua.TypeTable {
		return nil
	}
	var out []string
	for i := 1; ; i++ {
		w.state.RawGetInt(-1, i)
		if w.state.TypeOf(-1) != lua.TypeString {
			w.state.Pop(1)
			break
		}
		v, _ := w.state.ToString(-1)
		out = append(out, v)
		w.state.Pop(1)
	}
	return out
}

func pushSettingsTable(state *lua.State, env widget.Env) {
	state.NewTable()
	if env.Settings == nil {
		return
	}
	for _, section := range env.Settings.Sections() {
		state.NewTable()
		for _, key := range env.Settings.Keys(section) {
			v, _ := env.Settings.Get(section, key)
			state.PushString(v)
			state.SetField(-2, key)
		}
		state.SetField(-2, section)
	}
}

func scalarToString(state *lua.State, index int) (string, bool) {
	switch state.TypeOf(index) {
	case lua.TypeString:
		return state.ToString(index)
	case lua.TypeNumber:
		n, _ := state.ToNumber(index)
		return strconv.FormatFloat(n, 'g', -1, 64), true
	case lua.TypeBoolean:
		return strconv.FormatBool(state.ToBoolean(index)), true
	default:
		return "", false
	}
}
