package ecs

import "github.com/rotisserie/eris"

// System is a function that contains game logic. Systems run once per tick and receive the
// world state they operate on. A system returning an error fails the whole tick.
type System func(ws *WorldState) error

// SystemHook defines when a system should be executed in the update cycle.
type SystemHook uint8

const (
	// PreUpdate runs before the main update.
	PreUpdate SystemHook = 0
	// Update runs during the main update phase.
	Update SystemHook = 1
	// PostUpdate runs after the main update.
	PostUpdate SystemHook = 2
	// Init runs once, at the start of the first tick.
	Init SystemHook = 3
)

// numScheduledHooks is the number of hooks that run on every tick (Init excluded).
const numScheduledHooks = 3

// systemEntry pairs a registered system with its name for logging and error reporting.
type systemEntry struct {
	name string
	fn   System
}

// RegisterSystem registers a system under the given hook. Systems within a hook run
// sequentially in registration order, which keeps test output deterministic.
func RegisterSystem(w *World, name string, hook SystemHook, fn System) error {
	if name == "" {
		return eris.New("system name cannot be empty")
	}
	if fn == nil {
		return eris.New("system function cannot be nil")
	}

	entry := systemEntry{name: name, fn: fn}
	if hook == Init {
		w.initSystems = append(w.initSystems, entry)
		return nil
	}
	if int(hook) >= numScheduledHooks {
		return eris.Errorf("invalid system hook %d", hook)
	}
	w.schedule[hook] = append(w.schedule[hook], entry)
	return nil
}
