package ecs

import (
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// archetypeID is the unique identifier for an archetype.
type archetypeID = int

// archetype represents a collection of entities with the same set of component types. The
// signature bitmap has one bit set per component ID. Component data is stored in per-component
// columns that run parallel to the entities slice, and removal swaps the last row into the hole
// so the columns stay dense.
type archetype struct {
	id        archetypeID
	signature bitmap.Bitmap            // Bitmap of components contained in this archetype
	entities  []EntityID               // List of entities of this archetype
	rows      map[EntityID]int         // Entity ID -> row index in entities and columns
	columns   map[componentID][]Component
	compCount int
}

// newArchetype creates an empty archetype for the given component signature.
func newArchetype(aid archetypeID, signature bitmap.Bitmap) *archetype {
	columns := make(map[componentID][]Component, signature.Count())
	signature.Range(func(cid uint32) {
		columns[cid] = make([]Component, 0)
	})
	return &archetype{
		id:        aid,
		signature: signature.Clone(nil),
		entities:  make([]EntityID, 0),
		rows:      make(map[EntityID]int),
		columns:   columns,
		compCount: signature.Count(),
	}
}

// matches returns true if the given signature matches the archetype's exactly.
func (a *archetype) matches(signature bitmap.Bitmap) bool {
	if a.compCount != signature.Count() {
		return false
	}
	return a.containsAll(signature)
}

// containsAll returns true if the archetype contains every component in the given signature.
func (a *archetype) containsAll(signature bitmap.Bitmap) bool {
	intersect := signature.Clone(nil)
	intersect.And(a.signature)
	return intersect.Count() == signature.Count()
}

// newEntity adds an entity and its component values to the archetype. The keys of comps must
// match the archetype's signature exactly.
func (a *archetype) newEntity(eid EntityID, comps map[componentID]Component) error {
	if len(comps) != a.compCount {
		return eris.Errorf("expected %d components, got %d", a.compCount, len(comps))
	}
	for cid, comp := range comps {
		col, ok := a.columns[cid]
		if !ok {
			return eris.Errorf("component %s does not belong to this archetype", comp.Name())
		}
		a.columns[cid] = append(col, comp)
	}

	a.entities = append(a.entities, eid)
	a.rows[eid] = len(a.entities) - 1
	return nil
}

// removeEntity removes an entity from the archetype by swapping the last row into its place.
// Expects the caller to check that the entity belongs to this archetype.
func (a *archetype) removeEntity(eid EntityID) {
	row, exists := a.rows[eid]
	if !exists {
		return
	}

	lastIndex := len(a.entities) - 1
	a.entities[row] = a.entities[lastIndex]
	a.entities = a.entities[:lastIndex]

	for cid, col := range a.columns {
		col[row] = col[lastIndex]
		a.columns[cid] = col[:lastIndex]
	}

	delete(a.rows, eid)

	// If the removed entity was the last row, nothing was swapped.
	if row == lastIndex {
		return
	}

	// Update the swapped entity's row index.
	a.rows[a.entities[row]] = row
}

// get returns the component value with the given ID for an entity.
func (a *archetype) get(eid EntityID, cid componentID) (Component, bool) {
	row, exists := a.rows[eid]
	if !exists {
		return nil, false
	}
	col, ok := a.columns[cid]
	if !ok {
		return nil, false
	}
	return col[row], true
}

// set overwrites the component value with the given ID for an entity.
func (a *archetype) set(eid EntityID, cid componentID, comp Component) bool {
	row, exists := a.rows[eid]
	if !exists {
		return false
	}
	col, ok := a.columns[cid]
	if !ok {
		return false
	}
	col[row] = comp
	return true
}

// componentsOf returns all component values attached to an entity, keyed by component ID.
func (a *archetype) componentsOf(eid EntityID) (map[componentID]Component, bool) {
	row, exists := a.rows[eid]
	if !exists {
		return nil, false
	}
	comps := make(map[componentID]Component, a.compCount)
	for cid, col := range a.columns {
		comps[cid] = col[row]
	}
	return comps, true
}
