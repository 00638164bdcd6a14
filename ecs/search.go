package ecs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// SearchParam contains parameters for a search query.
// The where clause uses expr-lang to filter entities; see https://expr-lang.org/docs for the
// expression syntax. Component values are exposed to the expression under their names, so
// `Position.X > 0` filters on the X field of the Position component.
type SearchParam struct {
	Find  []string    // List of component names to search for
	Match SearchMatch // A match type to use for the search
	Where string      // Optional expr language string to filter the results
}

// SearchMatch is the type of match to use for a search.
type SearchMatch string

const (
	// MatchExact matches entities that have exactly the specified components.
	MatchExact SearchMatch = "exact"
	// MatchContains matches entities that contain the specified components, but may have other
	// components as well.
	MatchContains SearchMatch = "contains"
)

// validateAndGetFilter validates the search parameters and returns an expr VM program compiled
// from the where clause, or nil if no where clause was given.
func (s *SearchParam) validateAndGetFilter() (*vm.Program, error) {
	if len(s.Find) == 0 {
		return nil, eris.New("component list cannot be empty")
	}

	if s.Match != MatchExact && s.Match != MatchContains {
		return nil, eris.Errorf("invalid `match` value: must be either '%s' or '%s'", MatchExact, MatchContains)
	}

	if len(s.Where) == 0 {
		return nil, nil
	}

	filter, err := expr.Compile(s.Where, expr.AsBool())
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse where clause")
	}
	return filter, nil
}

// Search returns the entities that match the given search parameters. Each result is a map of
// component name to component value, with the entity ID stored under the "_id" key.
func (w *World) Search(params SearchParam) ([]map[string]any, error) {
	return w.state.Search(params)
}

// Search runs a search against the world state. Systems can use this to iterate the entities
// they operate on.
func (ws *WorldState) Search(params SearchParam) ([]map[string]any, error) {
	filter, err := params.validateAndGetFilter()
	if err != nil {
		return nil, eris.Wrap(err, "invalid search params")
	}

	archs, err := ws.getArchetypes(params.Find, params.Match)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for _, arch := range archs {
		for _, eid := range arch.entities {
			entityMap := ws.entityToMap(eid, arch)

			if filter == nil {
				results = append(results, entityMap)
				continue
			}

			// The entity map doubles as the expression environment so the where clause can
			// reference component fields.
			output, err := expr.Run(filter, entityMap)
			if err != nil {
				return nil, eris.Wrap(err, "failed to run filter expression")
			}

			// expr.AsBool can't always verify the return type at compile time (e.g. when the
			// expression dereferences a component field), so check it here.
			isMatch, ok := output.(bool)
			if !ok {
				return nil, eris.New("where clause must evaluate to a boolean")
			}

			if isMatch {
				results = append(results, entityMap)
			}
		}
	}

	return results, nil
}

// getArchetypes returns the archetypes that match the given component names and match type.
func (ws *WorldState) getArchetypes(compNames []string, match SearchMatch) ([]*archetype, error) {
	signature := bitmap.Bitmap{}
	for _, name := range compNames {
		cid, err := ws.world.components.getID(name)
		if err != nil {
			return nil, err
		}
		signature.Set(cid)
	}

	var archs []*archetype
	switch match {
	case MatchExact:
		if arch := ws.archExact(signature); arch != nil {
			archs = []*archetype{arch}
		}
	case MatchContains:
		archs = ws.archContains(signature)
	}
	return archs, nil
}

// entityToMap converts an entity to a map of its components. A "_id" key is added to the map
// holding the entity ID as a uint32, since expr compares plain integers more readily than
// named types.
func (ws *WorldState) entityToMap(eid EntityID, arch *archetype) map[string]any {
	data := make(map[string]any, arch.compCount+1)
	data["_id"] = uint32(eid)

	comps, ok := arch.componentsOf(eid)
	if !ok {
		return data
	}
	for cid, comp := range comps {
		data[ws.world.components.names[cid]] = comp
	}
	return data
}
