package worldtest_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ecsforge/worldtest"
	"github.com/ecsforge/worldtest/assert"
	"github.com/ecsforge/worldtest/ecs"
)

type Countdown struct{ Value int }

func (Countdown) Name() string { return "Countdown" }

type Position struct{ X, Y float64 }

func (Position) Name() string { return "Position" }

type Label struct{ Text string }

func (Label) Name() string { return "Label" }

type Num struct{ Value int }

func (Num) Name() string { return "Num" }

// CountdownPlugin registers a Countdown component and a system that decrements every countdown
// by one each tick.
type CountdownPlugin struct{}

func (CountdownPlugin) Build(app *worldtest.App) error {
	worldtest.RegisterComponent[Countdown](app)
	app.AddSystem("countdown", ecs.Update, func(ws *ecs.WorldState) error {
		results, err := ws.Search(ecs.SearchParam{
			Find:  []string{"Countdown"},
			Match: ecs.MatchContains,
		})
		if err != nil {
			return err
		}
		for _, result := range results {
			eid := ecs.EntityID(result["_id"].(uint32))
			c, err := ecs.Get[Countdown](ws, eid)
			if err != nil {
				return err
			}
			if err := ecs.Set(ws, eid, Countdown{Value: c.Value - 1}); err != nil {
				return err
			}
		}
		return nil
	})
	return nil
}

func TestCountdownPlugin(t *testing.T) {
	app := worldtest.NewApp(t)
	app.AddPlugins(CountdownPlugin{})

	app.Spawn(Countdown{Value: 10})
	app.Update()

	worldtest.Query[Countdown](app).
		Matches(Countdown{Value: 9}).
		Not().Matches(Countdown{Value: 10})
}

func TestUpdateN(t *testing.T) {
	app := worldtest.NewApp(t)
	app.AddPlugins(CountdownPlugin{})

	eid := app.Spawn(Countdown{Value: 10})
	app.UpdateN(3)

	assert.Equal(t, 7, worldtest.Component[Countdown](app, eid).Value)
	assert.Equal(t, uint64(3), app.World().CurrentTick())
}

func TestSpawnAndAccessors(t *testing.T) {
	app := worldtest.NewApp(t)
	worldtest.RegisterComponent[Position](app)
	worldtest.RegisterComponent[Label](app)

	eid := app.Spawn(Position{X: 1, Y: 2}, Label{Text: "hello"})
	assert.True(t, app.Alive(eid))
	assert.Equal(t, Position{X: 1, Y: 2}, worldtest.Component[Position](app, eid))

	label, ok := worldtest.GetComponent[Label](app, eid)
	assert.True(t, ok)
	assert.Equal(t, "hello", label.Text)

	worldtest.SetComponent(app, eid, Position{X: 4, Y: 5})
	assert.Equal(t, Position{X: 4, Y: 5}, worldtest.Component[Position](app, eid))

	worldtest.RemoveComponent[Label](app, eid)
	_, ok = worldtest.GetComponent[Label](app, eid)
	assert.False(t, ok)

	app.Despawn(eid)
	assert.False(t, app.Alive(eid))
}

func TestSpawnEmpty(t *testing.T) {
	app := worldtest.NewApp(t)
	worldtest.RegisterComponent[Num](app)

	eid := app.SpawnEmpty()
	assert.True(t, app.Alive(eid))

	_, ok := worldtest.GetComponent[Num](app, eid)
	assert.False(t, ok)

	worldtest.SetComponent(app, eid, Num{Value: 3})
	assert.Equal(t, 3, worldtest.Component[Num](app, eid).Value)
}

func TestSpawnBatch(t *testing.T) {
	app := worldtest.NewApp(t)
	worldtest.RegisterComponent[Num](app)

	ids := app.SpawnBatch(
		[]ecs.Component{Num{Value: 1}},
		[]ecs.Component{Num{Value: 2}},
		[]ecs.Component{Num{Value: 3}},
	)
	assert.Len(t, ids, 3)

	worldtest.Query[Num](app).
		Matches(Num{Value: 1}, Num{Value: 2}, Num{Value: 3}).
		Length(3)
}

func TestRawSearch(t *testing.T) {
	app := worldtest.NewApp(t)
	worldtest.RegisterComponent[Num](app)
	worldtest.RegisterComponent[Label](app)

	app.Spawn(Num{Value: 1})
	app.Spawn(Num{Value: 2}, Label{Text: "tagged"})

	exact := app.Search(ecs.SearchParam{Find: []string{"Num"}, Match: ecs.MatchExact})
	assert.Len(t, exact, 1)

	contains := app.Search(ecs.SearchParam{Find: []string{"Num"}, Match: ecs.MatchContains})
	assert.Len(t, contains, 2)
}

func TestWithWorldOptions(t *testing.T) {
	t.Setenv("WORLDTEST_LOG_LEVEL", "debug")

	// A forwarded logger replaces the default stderr one.
	var buf bytes.Buffer
	app := worldtest.NewApp(t, worldtest.WithWorldOptions(ecs.WithLogger(zerolog.New(&buf))))
	worldtest.RegisterComponent[Num](app)

	app.Spawn(Num{Value: 1})
	app.Update()

	assert.Contains(t, buf.String(), "tick completed")
}

func TestWorldAccess(t *testing.T) {
	app := worldtest.NewApp(t)
	worldtest.RegisterComponent[Num](app)

	eid := app.Spawn(Num{Value: 41})

	// Direct state access for advanced use.
	ws := app.World().State()
	assert.NilError(t, ecs.Set(ws, eid, Num{Value: 42}))
	assert.Equal(t, 42, worldtest.Component[Num](app, eid).Value)
}

func TestSnapshotThroughApp(t *testing.T) {
	app := worldtest.NewApp(t)
	app.AddPlugins(CountdownPlugin{})
	app.Spawn(Countdown{Value: 5})
	app.Update()

	data, err := app.World().Snapshot()
	assert.NilError(t, err)

	restored := worldtest.NewApp(t)
	restored.AddPlugins(CountdownPlugin{})
	assert.NilError(t, restored.World().Restore(data))

	worldtest.Query[Countdown](restored).Matches(Countdown{Value: 4})
}
