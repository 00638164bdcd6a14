package ecs

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// encode serializes a component value to JSON.
func encode(comp any) ([]byte, error) {
	bz, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode component")
	}
	return bz, nil
}

// decode deserializes a component value from JSON.
func decode[T any](bz []byte) (T, error) {
	comp := new(T)
	if err := json.Unmarshal(bz, comp); err != nil {
		return *comp, eris.Wrap(err, "failed to decode component")
	}
	return *comp, nil
}
