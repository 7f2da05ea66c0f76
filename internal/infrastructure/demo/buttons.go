package demo

import (
	"github.com/golang/geo/r3"
	"github.com/younwookim/keyviz/internal/domain/entity"
)

// Button bits of the CS2 pawn button mask (InputBitMask_t)
const (
	ButtonAttack    uint64 = 1 << 0
	ButtonJump      uint64 = 1 << 1
	ButtonDuck      uint64 = 1 << 2
	ButtonForward   uint64 = 1 << 3
	ButtonBack      uint64 = 1 << 4
	ButtonUse       uint64 = 1 << 5
	ButtonMoveLeft  uint64 = 1 << 9
	ButtonMoveRight uint64 = 1 << 10
	ButtonAttack2   uint64 = 1 << 11
	ButtonReload    uint64 = 1 << 13
	ButtonSpeed     uint64 = 1 << 16
)

// applyButtons sets the movement and action flags held in mask
func applyButtons(row *entity.TickRow, mask uint64) {
	row.Forward = mask&ButtonForward != 0
	row.Back = mask&ButtonBack != 0
	row.Left = mask&ButtonMoveLeft != 0
	row.Right = mask&ButtonMoveRight != 0
	row.Fire = mask&ButtonAttack != 0
	row.SecondaryFire = mask&ButtonAttack2 != 0
	row.Use = mask&ButtonUse != 0
}

// maskOf converts a decoded property value to a button mask
func maskOf(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case uint32:
		return uint64(x), true
	case int64:
		return uint64(x), true
	case int:
		return uint64(x), true
	default:
		return 0, false
	}
}

// floatOf converts a decoded property value to float64
func floatOf(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// vectorZ returns the Z component of a decoded vector property value
func vectorZ(v any) (float64, bool) {
	switch x := v.(type) {
	case r3.Vector:
		return x.Z, true
	case *r3.Vector:
		if x == nil {
			return 0, false
		}
		return x.Z, true
	default:
		return 0, false
	}
}
