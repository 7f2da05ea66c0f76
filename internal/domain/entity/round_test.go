package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundEventKind_JSON(t *testing.T) {
	data, err := json.Marshal(RoundEvent{Kind: RoundEnd, Tick: 300})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"round_end","tick":300}`, string(data))

	var ev RoundEvent
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"round_start","tick":5}`), &ev))
	assert.Equal(t, RoundStart, ev.Kind)
	assert.Equal(t, Tick(5), ev.Tick)

	err = json.Unmarshal([]byte(`{"kind":"bomb_planted","tick":5}`), &ev)
	assert.Error(t, err)
}

func TestRoundInterval_Contains(t *testing.T) {
	r := RoundInterval{Number: 1, StartTick: 5, EndTick: 100}
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(100))
	assert.False(t, r.Contains(4))
	assert.False(t, r.Contains(101))
}
