package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateText(t *testing.T) {
	for _, state := range []State{Unauthenticated, Loading, Ready, Mutating, Error} {
		t.Run(state.String(), func(t *testing.T) {
			text, err := state.MarshalText()
			require.NoError(t, err)

			var decoded State
			require.NoError(t, decoded.UnmarshalText(text))
			assert.Equal(t, state, decoded)
		})
	}

	var s State
	assert.Error(t, s.UnmarshalText([]byte("sleeping")))
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{State: Ready, Rooms: rooms}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"ready"`)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Ready, decoded.State)
	assert.Len(t, decoded.Rooms, 2)
}
