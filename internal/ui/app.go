// Package ui is the dashboard controller: a Bubble Tea model owning the
// module registry, the layout grid, and the render loop. All module and
// layout state is mutated inside Update only; loading runs in commands
// whose results come back as messages. While a load command is in flight
// the command goroutine has the registry to itself: reload requests are
// dropped, overlay requests are dropped, and quit is deferred until the
// load's completion message arrives.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dashgrid/internal/ctxlog"
	"dashgrid/internal/layout"
	"dashgrid/internal/module"
	"dashgrid/internal/widget"
)

const (
	statusBarHeight = 1

	// startupRelayoutDelay defers the first real layout until the host
	// window has reached its final size.
	startupRelayoutDelay = 10 * time.Millisecond

	emptyStateMessage = "No modules loaded. Please check your modules directory."
)

// Messages produced by commands and keybindings.
type (
	loadDoneMsg struct {
		loaded int
		failed int
		err    error
	}
	startupRelayoutMsg  struct{}
	refreshMsg          time.Time
	reloadRequestMsg    struct{}
	themeToggleMsg      struct{}
	fullscreenToggleMsg struct{}
	overlayToggleMsg    struct{}
	quitRequestMsg      struct{}
)

// App is the top-level controller model.
type App struct {
	registry *module.Registry
	root     string
	refresh  time.Duration
	log      *slog.Logger

	state       State
	quitPending bool
	theme       widget.Theme
	width       int
	height      int
	fullscreen  bool
	grid        layout.Grid
	surfaces    []widget.Surface
	loaded      int
	failed      int
	discoverErr error

	overlay *moduleOverlay
	spinner spinner.Model
	help    help.Model
	keys    *KeybindRegistry
}

var _ tea.Model = (*App)(nil)

// NewApp builds the controller for a registry rooted at root. refresh is
// the interval between render passes.
func NewApp(registry *module.Registry, root string, refresh time.Duration, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if refresh <= 0 {
		refresh = time.Second
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	a := &App{
		registry:   registry,
		root:       root,
		refresh:    refresh,
		log:        logger,
		state:      StateInitializing,
		theme:      widget.DarkTheme(),
		fullscreen: true,
		spinner:    s,
		help:       help.New(),
		keys:       NewKeybindRegistry(),
	}
	a.bindKeys()
	return a
}

func (a *App) bindKeys() {
	a.keys.Bind("r", "reload", emit(reloadRequestMsg{}))
	a.keys.Bind("ctrl+d", "theme", emit(themeToggleMsg{}))
	a.keys.Bind("ctrl+f", "fullscreen", emit(fullscreenToggleMsg{}))
	a.keys.Bind("m", "modules", emit(overlayToggleMsg{}))
	a.keys.Bind("q", "quit", emit(quitRequestMsg{}))
	a.keys.Bind("esc", "", emit(quitRequestMsg{}))
	a.keys.Bind("ctrl+c", "", emit(quitRequestMsg{}))
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// State reports the controller's current lifecycle phase.
func (a *App) State() State { return a.state }

// loading reports whether a load command owns the registry right now.
// Update must not touch registry state while this holds.
func (a *App) loading() bool {
	return a.state == StateInitializing || a.state == StateReloading
}

// ctx returns the context handed to registry operations, carrying the
// app logger.
func (a *App) ctx() context.Context {
	return ctxlog.WithLogger(context.Background(), a.log)
}

// Init implements tea.Model: kick off discovery and the first load, the
// delayed startup relayout, the refresh tick, and the spinner.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.loadCmd(),
		tea.Tick(startupRelayoutDelay, func(time.Time) tea.Msg { return startupRelayoutMsg{} }),
		a.refreshTick(),
	)
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := a.ctx()
		if err := a.registry.Discover(ctx, a.root); err != nil {
			return loadDoneMsg{err: err}
		}
		loaded, failed := a.registry.LoadAll(ctx)
		return loadDoneMsg{loaded: loaded, failed: failed}
	}
}

func (a *App) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.registry.Reload(a.ctx()); err != nil {
			return loadDoneMsg{err: err}
		}
		var loaded, failed int
		for _, m := range a.registry.Modules() {
			switch m.State {
			case module.StateLoaded:
				loaded++
			case module.StateFailed:
				failed++
			}
		}
		return loadDoneMsg{loaded: loaded, failed: failed}
	}
}

func (a *App) refreshTick() tea.Cmd {
	return tea.Tick(a.refresh, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.overlay != nil {
			a.overlay.SetSize(a.width, a.height)
		}
		a.relayout()
		return a, nil

	case startupRelayoutMsg:
		a.relayout()
		return a, nil

	case loadDoneMsg:
		a.loaded, a.failed = msg.loaded, msg.failed
		a.discoverErr = msg.err
		a.state = StateReady
		if a.quitPending {
			return a.quit()
		}
		a.relayout()
		return a, nil

	case reloadRequestMsg:
		if a.state != StateReady {
			a.log.Warn("reload request dropped", "state", a.state.String())
			return a, nil
		}
		a.state = StateReloading
		a.surfaces = nil
		return a, tea.Batch(a.spinner.Tick, a.reloadCmd())

	case themeToggleMsg:
		a.theme = a.theme.Toggle()
		a.relayout()
		return a, nil

	case fullscreenToggleMsg:
		a.fullscreen = !a.fullscreen
		a.relayout()
		if a.fullscreen {
			return a, tea.EnterAltScreen
		}
		return a, tea.ExitAltScreen

	case overlayToggleMsg:
		if a.loading() {
			a.log.Debug("overlay request dropped while loading")
			return a, nil
		}
		if a.overlay != nil {
			a.overlay = nil
		} else {
			a.overlay = newModuleOverlay(a.registry.Modules(), a.theme, a.width, a.height)
		}
		return a, nil

	case quitRequestMsg:
		if a.loading() {
			a.log.Debug("quit deferred until the in-flight load completes")
			a.quitPending = true
			return a, nil
		}
		return a.quit()

	case refreshMsg:
		// Bubble Tea re-renders after every Update; the tick alone drives
		// the next pass.
		return a, a.refreshTick()

	case spinner.TickMsg:
		if a.state == StateInitializing || a.state == StateReloading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}
	return a, nil
}

// quit saves every module's settings, runs cleanups, and exits.
func (a *App) quit() (tea.Model, tea.Cmd) {
	a.state = StateExiting
	ctx := a.ctx()
	a.registry.SaveAll(ctx)
	a.registry.CleanupAll(ctx)
	return a, tea.Quit
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chord := msg.String()
	if a.overlay != nil {
		switch chord {
		case "esc", "m", "q":
			a.overlay = nil
			return a, nil
		case "ctrl+c":
			return a, emit(quitRequestMsg{})
		}
		return a, a.overlay.Update(msg)
	}
	if cmd := a.keys.Lookup(chord); cmd != nil {
		return a, cmd
	}
	return a, nil
}

// relayout recomputes the grid and rebuilds every surface wholesale. It is
// a no-op while a load is in flight; the load's completion relayouts.
func (a *App) relayout() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	if a.loading() {
		return
	}
	count := len(a.registry.LoadedModules())
	a.grid = layout.Compute(count, a.width, a.height-statusBarHeight)
	a.surfaces = make([]widget.Surface, len(a.grid.Cells))
	for i, c := range a.grid.Cells {
		w, h := c.Width-2, c.Height-2 // room for the cell border
		if w < 0 {
			w = 0
		}
		if h < 0 {
			h = 0
		}
		a.surfaces[i] = widget.Surface{Width: w, Height: h, Theme: a.theme}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.overlay != nil {
		return a.overlay.View()
	}
	if a.width <= 0 || a.height <= 0 {
		return ""
	}

	var body string
	switch a.state {
	case StateInitializing, StateReloading:
		body = lipgloss.Place(a.width, a.height-statusBarHeight,
			lipgloss.Center, lipgloss.Center,
			fmt.Sprintf("%s loading modules…", a.spinner.View()))
	case StateExiting:
		return ""
	default:
		body = a.renderGrid()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar())
}
