package ecs

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// worldSnapshot is the serialized form of a world's state. Only entity and component data is
// captured; components and systems are re-registered by the code that restores the snapshot.
type worldSnapshot struct {
	Tick     uint64           `json:"tick"`
	Entities []entitySnapshot `json:"entities"`
}

type entitySnapshot struct {
	ID         EntityID                   `json:"id"`
	Components map[string]json.RawMessage `json:"components"`
}

// Snapshot serializes the world's state to JSON. Entities are emitted in ascending ID order so
// the output is deterministic.
func (w *World) Snapshot() ([]byte, error) {
	snapshot := worldSnapshot{
		Tick:     w.tick,
		Entities: make([]entitySnapshot, 0),
	}

	for _, arch := range w.state.archetypes {
		for _, eid := range arch.entities {
			comps, ok := arch.componentsOf(eid)
			if !ok {
				continue
			}

			encoded := make(map[string]json.RawMessage, len(comps))
			for cid, comp := range comps {
				bz, err := encode(comp)
				if err != nil {
					return nil, eris.Wrapf(err, "failed to encode component %s of entity %d", comp.Name(), eid)
				}
				encoded[w.components.names[cid]] = bz
			}
			snapshot.Entities = append(snapshot.Entities, entitySnapshot{ID: eid, Components: encoded})
		}
	}

	sort.Slice(snapshot.Entities, func(i, j int) bool {
		return snapshot.Entities[i].ID < snapshot.Entities[j].ID
	})

	return json.Marshal(snapshot)
}

// Restore populates the world's state from a snapshot produced by Snapshot. The same component
// types must be registered before calling Restore. Any existing entities are discarded, and
// init systems will not run again on the next tick. The snapshot is decoded into a scratch
// state first, so a failed Restore leaves the world untouched.
func (w *World) Restore(data []byte) error {
	var snapshot worldSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return eris.Wrap(err, "failed to unmarshal snapshot")
	}

	state := newWorldState(w)

	for _, entity := range snapshot.Entities {
		comps := make(map[componentID]Component, len(entity.Components))
		for name, raw := range entity.Components {
			cid, err := w.components.getID(name)
			if err != nil {
				return eris.Wrapf(err, "snapshot contains unregistered component %s", name)
			}
			comp, err := w.components.decoders[cid](raw)
			if err != nil {
				return eris.Wrapf(err, "failed to decode component %s of entity %d", name, entity.ID)
			}
			comps[cid] = comp
		}

		arch := state.findOrCreateArchetype(signatureOf(comps))
		if err := state.entities.restore(entity.ID, arch, comps); err != nil {
			return err
		}
	}

	w.state = state
	w.tick = snapshot.Tick
	w.initDone = true
	return nil
}
