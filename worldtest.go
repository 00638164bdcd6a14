// Package worldtest provides conveniences for writing unit tests against an ECS world: a test
// app that can spawn entities and advance the world one tick at a time, and a fluent checker
// for asserting on query results.
package worldtest

import (
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecsforge/worldtest/ecs"
)

// App is a helper that manages an ecs.World instance scoped to a single test. All operations
// that can fail do so through the test's testing.TB, so test code can stay free of error
// handling.
type App struct {
	testing.TB

	world     *ecs.World
	worldOpts []ecs.WorldOption
}

// Option configures an App during construction.
type Option func(*App)

// WithWorldOptions forwards options to the underlying world. Forwarded options are applied
// after the app's own, so e.g. a forwarded logger replaces the default one.
func WithWorldOptions(opts ...ecs.WorldOption) Option {
	return func(a *App) {
		a.worldOpts = append(a.worldOpts, opts...)
	}
}

// NewApp creates a test app backed by a fresh world. The global log level is taken from the
// environment (see Config); it defaults to error so that passing tests stay quiet.
func NewApp(t testing.TB, opts ...Option) *App {
	t.Helper()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unable to load test config: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		t.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(level)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.LogPretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	app := &App{
		TB:        t,
		worldOpts: []ecs.WorldOption{ecs.WithLogger(logger)},
	}
	for _, opt := range opts {
		opt(app)
	}
	app.world = ecs.NewWorld(app.worldOpts...)
	return app
}

// Plugin is a unit of behavior that can be registered with an App. Plugins typically register
// the components and systems of the code under test.
type Plugin interface {
	Build(app *App) error
}

// AddPlugins builds each plugin against the app. A plugin returning an error fails the test.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	a.Helper()
	for _, p := range plugins {
		if err := p.Build(a); err != nil {
			a.Fatalf("failed to build plugin: %v", err)
		}
	}
	return a
}

// AddSystem registers a system under the given hook.
func (a *App) AddSystem(name string, hook ecs.SystemHook, fn ecs.System) *App {
	a.Helper()
	if err := ecs.RegisterSystem(a.world, name, hook, fn); err != nil {
		a.Fatalf("failed to register system %q: %v", name, err)
	}
	return a
}

// RegisterComponent registers the component type T with the app's world.
func RegisterComponent[T ecs.Component](a *App) {
	a.Helper()
	if err := ecs.RegisterComponent[T](a.world); err != nil {
		a.Fatalf("failed to register component: %v", err)
	}
}

// Spawn creates a new entity with the given component bundle and returns its ID.
func (a *App) Spawn(comps ...ecs.Component) ecs.EntityID {
	a.Helper()
	eid, err := ecs.Create(a.world.State(), comps...)
	if err != nil {
		a.Fatalf("failed to spawn entity: %v", err)
	}
	return eid
}

// SpawnEmpty creates a new entity without any components. Components can be added later with
// SetComponent.
func (a *App) SpawnEmpty() ecs.EntityID {
	a.Helper()
	return a.Spawn()
}

// SpawnBatch creates one entity per bundle and returns their IDs in order.
func (a *App) SpawnBatch(bundles ...[]ecs.Component) []ecs.EntityID {
	a.Helper()
	ids := make([]ecs.EntityID, 0, len(bundles))
	for _, bundle := range bundles {
		ids = append(ids, a.Spawn(bundle...))
	}
	return ids
}

// Despawn removes an entity and all its components from the world. Despawning a non-existent
// entity fails the test.
func (a *App) Despawn(eid ecs.EntityID) {
	a.Helper()
	if !ecs.Destroy(a.world.State(), eid) {
		a.Fatalf("cannot despawn entity %d: it does not exist", eid)
	}
}

// Alive reports whether the entity exists in the world.
func (a *App) Alive(eid ecs.EntityID) bool {
	return ecs.Alive(a.world.State(), eid)
}

// Component returns the component of type T attached to the entity. The test fails if the
// entity doesn't exist or doesn't have the component. Use GetComponent to check for presence
// instead of failing.
func Component[T ecs.Component](a *App, eid ecs.EntityID) T {
	a.Helper()
	comp, err := ecs.Get[T](a.world.State(), eid)
	if err != nil {
		a.Fatalf("component %q is not part of entity %d: %v", comp.Name(), eid, err)
	}
	return comp
}

// GetComponent returns the component of type T attached to the entity and whether it was
// present.
func GetComponent[T ecs.Component](a *App, eid ecs.EntityID) (T, bool) {
	comp, err := ecs.Get[T](a.world.State(), eid)
	return comp, err == nil
}

// SetComponent sets a component on an entity, adding it if the entity doesn't have the type
// yet.
func SetComponent[T ecs.Component](a *App, eid ecs.EntityID, comp T) {
	a.Helper()
	if err := ecs.Set(a.world.State(), eid, comp); err != nil {
		a.Fatalf("failed to set component %q on entity %d: %v", comp.Name(), eid, err)
	}
}

// RemoveComponent removes the component of type T from an entity.
func RemoveComponent[T ecs.Component](a *App, eid ecs.EntityID) {
	a.Helper()
	if err := ecs.Remove[T](a.world.State(), eid); err != nil {
		a.Fatalf("failed to remove component from entity %d: %v", eid, err)
	}
}

// Update advances the world by exactly one tick. Init systems run at the start of the first
// update. A failed tick fails the test.
func (a *App) Update() {
	a.Helper()
	if err := a.world.Tick(); err != nil {
		a.Fatalf("tick %d failed: %v", a.world.CurrentTick(), err)
	}
}

// UpdateN advances the world by n ticks.
func (a *App) UpdateN(n int) {
	a.Helper()
	for i := 0; i < n; i++ {
		a.Update()
	}
}

// World returns the underlying world for advanced use.
func (a *App) World() *ecs.World {
	return a.world
}

// Search runs a raw search against the world. Most tests should prefer the typed Query
// helpers.
func (a *App) Search(params ecs.SearchParam) []map[string]any {
	a.Helper()
	results, err := a.world.Search(params)
	if err != nil {
		a.Fatalf("search failed: %v", err)
	}
	return results
}
