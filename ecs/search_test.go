package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecsforge/worldtest/ecs"
	. "github.com/ecsforge/worldtest/ecs/internal/testutils"
)

func TestSearchValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  ecs.SearchParam
		wantErr bool
	}{
		{
			name: "empty component list",
			params: ecs.SearchParam{
				Find:  []string{},
				Match: ecs.MatchExact,
			},
			wantErr: true,
		},
		{
			name: "invalid match type",
			params: ecs.SearchParam{
				Find:  []string{"Position"},
				Match: "invalid",
			},
			wantErr: true,
		},
		{
			name: "unregistered component",
			params: ecs.SearchParam{
				Find:  []string{"UnregisteredComponent"},
				Match: ecs.MatchExact,
			},
			wantErr: true,
		},
		{
			name: "invalid where clause syntax",
			params: ecs.SearchParam{
				Find:  []string{"Health"},
				Match: ecs.MatchExact,
				Where: "Health.Value >",
			},
			wantErr: true,
		},
		{
			name: "valid params",
			params: ecs.SearchParam{
				Find:  []string{"Position"},
				Match: ecs.MatchExact,
				Where: "Position.X > 0",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := newTestWorld(t)
			_, err := w.Search(tt.params)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSearchMatchModes(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	ws := w.State()

	_, err := ecs.Create(ws, Position{X: 1, Y: 1})
	require.NoError(t, err)
	_, err = ecs.Create(ws, Position{X: 2, Y: 2}, Velocity{X: 1, Y: 0})
	require.NoError(t, err)
	_, err = ecs.Create(ws, Health{Value: 50})
	require.NoError(t, err)

	exact, err := w.Search(ecs.SearchParam{Find: []string{"Position"}, Match: ecs.MatchExact})
	require.NoError(t, err)
	assert.Len(t, exact, 1, "exact match only returns entities with precisely the searched signature")

	contains, err := w.Search(ecs.SearchParam{Find: []string{"Position"}, Match: ecs.MatchContains})
	require.NoError(t, err)
	assert.Len(t, contains, 2)

	for _, result := range contains {
		_, hasID := result["_id"].(uint32)
		assert.True(t, hasID, "every result carries its entity id")
		assert.IsType(t, Position{}, result["Position"])
	}
}

func TestSearchWhere(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	ws := w.State()

	_, err := ecs.Create(ws, Position{X: -1, Y: 0})
	require.NoError(t, err)
	_, err = ecs.Create(ws, Position{X: 3, Y: 0})
	require.NoError(t, err)
	_, err = ecs.Create(ws, Position{X: 7, Y: 0})
	require.NoError(t, err)

	results, err := w.Search(ecs.SearchParam{
		Find:  []string{"Position"},
		Match: ecs.MatchContains,
		Where: "Position.X > 0",
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = w.Search(ecs.SearchParam{
		Find:  []string{"Position"},
		Match: ecs.MatchContains,
		Where: "Position.X",
	})
	require.ErrorContains(t, err, "boolean")
}

func TestSearchFromSystem(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)

	_, err := ecs.Create(w.State(), Health{Value: 10})
	require.NoError(t, err)

	var seen int
	err = ecs.RegisterSystem(w, "count-health", ecs.Update, func(ws *ecs.WorldState) error {
		results, err := ws.Search(ecs.SearchParam{Find: []string{"Health"}, Match: ecs.MatchContains})
		if err != nil {
			return err
		}
		seen = len(results)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, w.Tick())
	assert.Equal(t, 1, seen)
}
