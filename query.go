package worldtest

import (
	"github.com/ecsforge/worldtest/ecs"
)

// componentName returns the registered name of the component type T.
func componentName[T ecs.Component]() string {
	var zero T
	return zero.Name()
}

// collect gathers the entity IDs matching the given component names, in search order.
func (a *App) collect(where string, names ...string) []ecs.EntityID {
	a.Helper()
	results := a.Search(ecs.SearchParam{
		Find:  names,
		Match: ecs.MatchContains,
		Where: where,
	})

	ids := make([]ecs.EntityID, 0, len(results))
	for _, result := range results {
		id, ok := result["_id"].(uint32)
		if !ok {
			a.Fatalf("search result is missing its entity id")
		}
		ids = append(ids, ecs.EntityID(id))
	}
	return ids
}

// Query collects every A component currently in the world and returns a checker over the
// result set.
func Query[A ecs.Component](a *App) *QueryCheck[A] {
	a.Helper()
	return QueryWhere[A](a, "")
}

// QueryWhere is like Query but filters the result set with an expr-lang where clause before
// collection, e.g. QueryWhere[Position](app, "Position.X > 0").
func QueryWhere[A ecs.Component](a *App, where string) *QueryCheck[A] {
	a.Helper()

	rows := make([]A, 0)
	for _, eid := range a.collect(where, componentName[A]()) {
		rows = append(rows, Component[A](a, eid))
	}
	return newQueryCheck(a.TB, rows)
}

// Row2 is a result row of a two-component query.
type Row2[A, B ecs.Component] struct {
	A A
	B B
}

// Query2 collects the (A, B) component pairs of every entity that has both components.
func Query2[A, B ecs.Component](a *App) *QueryCheck[Row2[A, B]] {
	a.Helper()

	rows := make([]Row2[A, B], 0)
	for _, eid := range a.collect("", componentName[A](), componentName[B]()) {
		rows = append(rows, Row2[A, B]{
			A: Component[A](a, eid),
			B: Component[B](a, eid),
		})
	}
	return newQueryCheck(a.TB, rows)
}

// Row3 is a result row of a three-component query.
type Row3[A, B, C ecs.Component] struct {
	A A
	B B
	C C
}

// Query3 collects the (A, B, C) component triples of every entity that has all three
// components.
func Query3[A, B, C ecs.Component](a *App) *QueryCheck[Row3[A, B, C]] {
	a.Helper()

	rows := make([]Row3[A, B, C], 0)
	for _, eid := range a.collect("", componentName[A](), componentName[B](), componentName[C]()) {
		rows = append(rows, Row3[A, B, C]{
			A: Component[A](a, eid),
			B: Component[B](a, eid),
			C: Component[C](a, eid),
		})
	}
	return newQueryCheck(a.TB, rows)
}
