package ecs

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World represents the root ECS state. A World owns the component registry, the registered
// systems, and the entity storage. Worlds are not safe for concurrent use; they are meant to
// live inside a single test function invocation.
type World struct {
	state      *WorldState
	components componentManager

	initDone    bool                            // Tracks if init systems have been executed
	initSystems []systemEntry                   // Systems run once at the start of the first tick
	schedule    [numScheduledHooks][]systemEntry // Systems per hook (PreUpdate, Update, PostUpdate)

	tick   uint64
	logger zerolog.Logger
}

// WorldOption configures a World during construction.
type WorldOption func(*World)

// WithLogger sets the world's logger. By default the world logs nothing.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates a new World instance.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		components:  newComponentManager(),
		initDone:    false,
		initSystems: make([]systemEntry, 0),
		tick:        0,
		logger:      zerolog.Nop(),
	}
	w.state = newWorldState(w)

	for i := range w.schedule {
		w.schedule[i] = make([]systemEntry, 0)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the world's state for direct read/write access.
func (w *World) State() *WorldState {
	return w.state
}

// CurrentTick returns the number of ticks completed successfully.
func (w *World) CurrentTick() uint64 {
	return w.tick
}

// Logger returns the world's logger.
func (w *World) Logger() zerolog.Logger {
	return w.logger
}

// Tick executes the registered systems in order. Init systems run once at the start of the
// first tick before the scheduled hooks. If any system returns an error, the tick is considered
// failed, the tick counter is not advanced, and the error is returned.
func (w *World) Tick() error {
	if !w.initDone {
		for _, system := range w.initSystems {
			w.logger.Debug().Str("system", system.name).Msg("running init system")
			if err := system.fn(w.state); err != nil {
				return eris.Wrapf(err, "init system %s failed", system.name)
			}
		}
		w.initDone = true
	}

	for hook := range w.schedule {
		for _, system := range w.schedule[hook] {
			w.logger.Debug().Str("system", system.name).Msg("running system")
			if err := system.fn(w.state); err != nil {
				w.logger.Error().Err(err).Str("system", system.name).Msg("system failed")
				return eris.Wrapf(err, "system %s failed", system.name)
			}
		}
	}

	w.tick++
	w.logger.Debug().Uint64("tick", w.tick).Msg("tick completed")
	return nil
}
