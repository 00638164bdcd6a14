package ecs

import "github.com/rotisserie/eris"

// Create creates an entity with the given components. Creating an entity without any components
// is allowed.
func Create(ws *WorldState, comps ...Component) (EntityID, error) {
	return ws.opCreate(comps)
}

// Destroy deletes an entity and all its components from the world. Returns true if the entity
// was deleted, false if it did not exist.
func Destroy(ws *WorldState, eid EntityID) bool {
	return ws.opDestroy(eid) == nil
}

// Alive checks if an entity exists in the world.
func Alive(ws *WorldState, eid EntityID) bool {
	return ws.entities.isAlive(eid)
}

// Get gets a component from an entity.
// Returns an error if the entity doesn't exist or doesn't contain the component type.
func Get[T Component](ws *WorldState, eid EntityID) (T, error) {
	var zero T

	cid, err := ws.world.components.getID(zero.Name())
	if err != nil {
		return zero, err
	}
	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return zero, err
	}

	comp, ok := arch.get(eid, cid)
	if !ok {
		return zero, eris.Wrapf(ErrComponentNotFound, "component %s on entity %d", zero.Name(), eid)
	}

	typed, ok := comp.(T)
	if !ok {
		return zero, eris.Errorf("component %s has unexpected type %T", zero.Name(), comp)
	}
	return typed, nil
}

// Set sets a component on an entity. If the entity already contains the component type, its
// value is updated in place. If it doesn't, the component is added and the entity migrates to
// the matching archetype.
func Set[T Component](ws *WorldState, eid EntityID, comp T) error {
	cid, err := ws.world.components.getID(comp.Name())
	if err != nil {
		return err
	}
	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return err
	}

	// Update in place when the type is already attached.
	if arch.set(eid, cid, comp) {
		return nil
	}

	comps, ok := arch.componentsOf(eid)
	if !ok {
		return ErrEntityNotFound
	}
	comps[cid] = comp
	return ws.opMove(eid, comps)
}

// Remove removes a component from an entity, migrating it to the matching archetype.
// Returns an error if the entity doesn't exist or doesn't have the component.
func Remove[T Component](ws *WorldState, eid EntityID) error {
	var zero T

	cid, err := ws.world.components.getID(zero.Name())
	if err != nil {
		return err
	}
	arch, err := ws.entities.getArchetype(eid)
	if err != nil {
		return err
	}

	comps, ok := arch.componentsOf(eid)
	if !ok {
		return ErrEntityNotFound
	}
	if _, exists := comps[cid]; !exists {
		return eris.Wrapf(ErrComponentNotFound, "component %s on entity %d", zero.Name(), eid)
	}
	delete(comps, cid)

	return ws.opMove(eid, comps)
}

// Has checks if an entity has a specific component type.
// Returns false if either the entity doesn't exist or doesn't have the component.
func Has[T Component](ws *WorldState, eid EntityID) bool {
	_, err := Get[T](ws, eid)
	return err == nil
}
