package ui

// State is the controller's lifecycle phase.
type State int

const (
	// StateInitializing covers startup until discovery and the first load
	// complete.
	StateInitializing State = iota
	// StateReady is the steady render loop.
	StateReady
	// StateReloading is a full teardown-and-rediscover pass in flight.
	// Reload requests arriving in this state are dropped.
	StateReloading
	// StateExiting runs settings saves and cleanups before quit.
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateReloading:
		return "reloading"
	case StateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}
