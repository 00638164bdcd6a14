package ecs

import (
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// WorldState holds the entities, archetypes, and component data of a world. Systems receive a
// *WorldState, and tests can reach it directly through World.State for advanced use.
type WorldState struct {
	world      *World
	entities   entityManager
	archetypes []*archetype
}

func newWorldState(world *World) *WorldState {
	return &WorldState{
		world:      world,
		entities:   newEntityManager(),
		archetypes: make([]*archetype, 0),
	}
}

// findOrCreateArchetype finds an existing archetype that matches the component signature or
// creates a new one if none match.
func (ws *WorldState) findOrCreateArchetype(signature bitmap.Bitmap) *archetype {
	if arch := ws.archExact(signature); arch != nil {
		return arch
	}

	arch := newArchetype(len(ws.archetypes), signature)
	ws.archetypes = append(ws.archetypes, arch)
	return arch
}

// archExact returns the archetype that exactly matches the given component signature.
func (ws *WorldState) archExact(signature bitmap.Bitmap) *archetype {
	for _, arch := range ws.archetypes {
		if arch.matches(signature) {
			return arch
		}
	}
	return nil
}

// archContains returns all archetypes that contain the given component signature.
func (ws *WorldState) archContains(signature bitmap.Bitmap) []*archetype {
	var archs []*archetype
	for _, arch := range ws.archetypes {
		if arch.containsAll(signature) {
			archs = append(archs, arch)
		}
	}
	return archs
}

// toComponentMap resolves a component list into a map keyed by registered component IDs.
// Returns an error on nil components, unregistered types, and duplicate types.
func (ws *WorldState) toComponentMap(comps []Component) (map[componentID]Component, error) {
	m := make(map[componentID]Component, len(comps))
	for _, comp := range comps {
		if comp == nil {
			return nil, eris.New("component cannot be nil")
		}
		cid, err := ws.world.components.getID(comp.Name())
		if err != nil {
			return nil, err
		}
		if _, exists := m[cid]; exists {
			return nil, eris.Errorf("duplicate component %s", comp.Name())
		}
		m[cid] = comp
	}
	return m, nil
}

// signatureOf builds the component signature bitmap for a component map.
func signatureOf(comps map[componentID]Component) bitmap.Bitmap {
	signature := bitmap.Bitmap{}
	for cid := range comps {
		signature.Set(cid)
	}
	return signature
}

// opCreate creates a new entity with the given components. An entity may be created without any
// components; it lives in the empty archetype until components are added.
func (ws *WorldState) opCreate(comps []Component) (EntityID, error) {
	compMap, err := ws.toComponentMap(comps)
	if err != nil {
		return 0, eris.Wrap(err, "failed to create entity")
	}

	arch := ws.findOrCreateArchetype(signatureOf(compMap))
	return ws.entities.new(arch, compMap)
}

// opDestroy removes an entity and all its components from the world.
func (ws *WorldState) opDestroy(eid EntityID) error {
	return ws.entities.remove(eid)
}

// opMove moves an entity to the archetype matching the given component map.
func (ws *WorldState) opMove(eid EntityID, comps map[componentID]Component) error {
	arch := ws.findOrCreateArchetype(signatureOf(comps))
	return ws.entities.move(eid, arch, comps)
}
