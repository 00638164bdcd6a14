package ecs

import (
	"github.com/rotisserie/eris"
)

// Component is the interface that all components must implement.
// Components are pure data containers that can be attached to entities.
// The struct fields of a component should be exported so they can be
// serialized and inspected by searches.
type Component interface {
	// Name returns a unique string identifier for the component type.
	// This should be consistent across program executions.
	Name() string
}

// componentID is a unique identifier for a component type.
// It is used internally to track and manage component types efficiently.
type componentID = uint32

// decodeFn decodes a serialized component back into its concrete type.
type decodeFn func([]byte) (Component, error)

// componentManager manages component type registration and lookup.
type componentManager struct {
	nextID   componentID            // The next available component ID
	catalog  map[string]componentID // Component name -> component ID
	names    []string               // Component ID -> component name
	decoders []decodeFn             // Component ID -> decoder used by Restore
}

func newComponentManager() componentManager {
	return componentManager{
		nextID:   0,
		catalog:  make(map[string]componentID),
		names:    make([]string, 0),
		decoders: make([]decodeFn, 0),
	}
}

// register registers a new component type and returns its ID.
// Registering the same name twice is a no-op.
func (cm *componentManager) register(name string, decoder decodeFn) (componentID, error) {
	if name == "" {
		return 0, eris.New("component name cannot be empty")
	}

	if cid, exists := cm.catalog[name]; exists {
		return cid, nil
	}

	cm.catalog[name] = cm.nextID
	cm.names = append(cm.names, name)
	cm.decoders = append(cm.decoders, decoder)
	cm.nextID++

	return cm.nextID - 1, nil
}

// getID returns a component's ID given a name.
func (cm *componentManager) getID(name string) (componentID, error) {
	id, exists := cm.catalog[name]
	if !exists {
		return 0, eris.Wrapf(ErrComponentNotRegistered, "component %s", name)
	}
	return id, nil
}

// RegisterComponent registers the component type T with the world.
// Components must be registered before they can be attached to entities
// or searched for. Registering the same component type twice is a no-op.
func RegisterComponent[T Component](w *World) error {
	var zero T
	_, err := w.components.register(zero.Name(), func(bz []byte) (Component, error) {
		return decode[T](bz)
	})
	if err != nil {
		return eris.Wrap(err, "failed to register component")
	}
	return nil
}

// MustRegisterComponent is like RegisterComponent but panics on error.
func MustRegisterComponent[T Component](w *World) {
	if err := RegisterComponent[T](w); err != nil {
		panic(err)
	}
}
