package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_String(t *testing.T) {
	assert.Equal(t, "W", KeyW.String())
	assert.Equal(t, "SHIFT", KeyShift.String())
	assert.Equal(t, "RMB", KeyRMB.String())
	assert.Equal(t, "Unknown", Key(99).String())
}

func TestParseKey(t *testing.T) {
	for _, k := range AllKeys {
		parsed, ok := ParseKey(k.String())
		require.True(t, ok, "key %s", k)
		assert.Equal(t, k, parsed)
	}

	_, ok := ParseKey("TAB")
	assert.False(t, ok)
}

func TestAllKeys_CoversEveryControl(t *testing.T) {
	seen := map[Key]bool{}
	for _, k := range AllKeys {
		seen[k] = true
	}
	assert.Len(t, seen, 10)
}

func TestDeriveKeyState_PassThrough(t *testing.T) {
	row := TickRow{
		Forward:       true,
		Right:         true,
		Use:           true,
		Fire:          true,
		SecondaryFire: true,
		Walking:       true,
	}

	s := DeriveKeyState(row)

	assert.True(t, s.Pressed(KeyW))
	assert.False(t, s.Pressed(KeyA))
	assert.False(t, s.Pressed(KeyS))
	assert.True(t, s.Pressed(KeyD))
	assert.True(t, s.Pressed(KeyE))
	assert.True(t, s.Pressed(KeyShift))
	assert.False(t, s.Pressed(KeyCtrl))
	assert.False(t, s.Pressed(KeySpace))
	assert.True(t, s.Pressed(KeyLMB))
	assert.True(t, s.Pressed(KeyRMB))
}

func TestDeriveKeyState_ZeroRowIsAllReleased(t *testing.T) {
	s := DeriveKeyState(TickRow{Tick: 42})
	assert.False(t, s.Any())
}

func TestDeriveKeyState_Crouch(t *testing.T) {
	assert.False(t, DeriveKeyState(TickRow{DuckAmount: 0.95}).Pressed(KeyCtrl))
	assert.True(t, DeriveKeyState(TickRow{DuckAmount: 0.9501}).Pressed(KeyCtrl))
}

func TestDeriveKeyState_Jump(t *testing.T) {
	takeoff := TickRow{Airborne: true, WasAirborne: false, VelocityZ: 290}
	assert.True(t, DeriveKeyState(takeoff).Pressed(KeySpace))

	inAir := TickRow{Airborne: true, WasAirborne: true, VelocityZ: 200}
	assert.False(t, DeriveKeyState(inAir).Pressed(KeySpace))
}

func TestKeyState_SetOutOfRangeIgnored(t *testing.T) {
	var s KeyState
	s.Set(Key(-1), true)
	s.Set(Key(42), true)
	assert.False(t, s.Any())
	assert.False(t, s.Pressed(Key(42)))
}
