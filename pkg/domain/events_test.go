package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_TaskIndexZeroSerialized(t *testing.T) {
	// The first queue slot has index 0; consumers must be able to tell it
	// apart from a missing field.
	ev := Event{
		Type:      EventTaskStarted,
		SessionID: "s1",
		RoutineID: "r1",
		TaskID:    "t1",
		TaskIndex: 0,
	}

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	idx, ok := decoded["task_index"]
	require.True(t, ok, "task_index missing from payload")
	assert.Equal(t, float64(0), idx)
}
