package ecs

import (
	"math"

	"github.com/rotisserie/eris"
)

// EntityID is a unique identifier for an entity.
type EntityID uint32

// MaxEntityID is the maximum entity ID that can be created.
const MaxEntityID = math.MaxUint32 - 1

// entityManager manages entity IDs and references to their associated archetypes. This struct
// acts as an index from entity ID to its archetype so component lookups don't have to scan every
// archetype. A world is confined to a single test goroutine, so no locking is needed here.
type entityManager struct {
	nextID     EntityID                // The next ID to allocate if no free IDs are available
	free       []EntityID              // A FIFO queue of IDs freed by destroyed entities
	entityArch map[EntityID]*archetype // Maps entity IDs to archetypes
}

func newEntityManager() entityManager {
	return entityManager{
		nextID:     0,
		free:       make([]EntityID, 0),
		entityArch: make(map[EntityID]*archetype),
	}
}

// new allocates an entity ID, adds the entity to the given archetype, and indexes it.
func (em *entityManager) new(arch *archetype, comps map[componentID]Component) (EntityID, error) {
	var id EntityID
	if len(em.free) > 0 {
		id = em.free[0]
		em.free = em.free[1:]
	} else {
		id = em.nextID
		if id > MaxEntityID {
			return 0, eris.New("max number of entities exceeded")
		}
		em.nextID++
	}

	if err := arch.newEntity(id, comps); err != nil {
		return 0, eris.Wrap(err, "failed to create entity")
	}
	em.entityArch[id] = arch

	return id, nil
}

// restore adds an entity with a fixed ID, used when rebuilding a world from a snapshot.
func (em *entityManager) restore(id EntityID, arch *archetype, comps map[componentID]Component) error {
	if _, exists := em.entityArch[id]; exists {
		return eris.Errorf("entity %d already exists", id)
	}

	if err := arch.newEntity(id, comps); err != nil {
		return eris.Wrap(err, "failed to restore entity")
	}
	em.entityArch[id] = arch

	if id >= em.nextID {
		em.nextID = id + 1
	}
	return nil
}

// remove marks an entity ID as available for reuse and drops it from its archetype.
func (em *entityManager) remove(id EntityID) error {
	arch, exists := em.entityArch[id]
	if !exists {
		return ErrEntityNotFound
	}

	arch.removeEntity(id)
	em.free = append(em.free, id)
	delete(em.entityArch, id)

	return nil
}

// move moves an entity from its current archetype to a new one.
func (em *entityManager) move(id EntityID, newArch *archetype, newComps map[componentID]Component) error {
	currentArch, exists := em.entityArch[id]
	if !exists {
		return ErrEntityNotFound
	}

	if err := newArch.newEntity(id, newComps); err != nil {
		return eris.Wrap(err, "failed to set entity in new archetype")
	}
	currentArch.removeEntity(id)
	em.entityArch[id] = newArch

	return nil
}

// isAlive checks if an entity ID is currently active.
func (em *entityManager) isAlive(id EntityID) bool {
	_, exists := em.entityArch[id]
	return exists
}

// getArchetype returns the archetype associated with the given entity.
func (em *entityManager) getArchetype(id EntityID) (*archetype, error) {
	arch, exists := em.entityArch[id]
	if !exists {
		return nil, ErrEntityNotFound
	}
	return arch, nil
}
