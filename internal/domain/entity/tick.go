package entity

// Tick is one discrete simulation step of a recorded match
type Tick int

// TickRow is the state of one player at one observed server tick.
// Fields that the demo does not carry are left at their zero value.
type TickRow struct {
	Tick          Tick    `json:"tick"`
	Forward       bool    `json:"forward,omitempty"`
	Back          bool    `json:"back,omitempty"`
	Left          bool    `json:"left,omitempty"`
	Right         bool    `json:"right,omitempty"`
	Fire          bool    `json:"fire,omitempty"`
	SecondaryFire bool    `json:"secondaryFire,omitempty"`
	Use           bool    `json:"use,omitempty"`
	Walking       bool    `json:"walking,omitempty"`
	DuckAmount    float64 `json:"duckAmount,omitempty"` // 0 standing, 1 fully crouched
	Airborne      bool    `json:"airborne,omitempty"`
	VelocityZ     float64 `json:"velocityZ,omitempty"`

	// WasAirborne is the Airborne flag of the previous row in the
	// unsampled player sequence. Filled by replay.MarkTakeoffs.
	WasAirborne bool `json:"wasAirborne,omitempty"`
}

const (
	// CrouchThreshold is the duck amount above which CTRL is shown
	CrouchThreshold = 0.95
	// JumpVelocityThreshold is the upward speed a takeoff must exceed to count as a jump
	JumpVelocityThreshold = 1.0
)

// IsTakeoff reports whether the row is the first airborne row after a
// grounded one with upward velocity, i.e. a jump.
func (r TickRow) IsTakeoff() bool {
	return r.Airborne && !r.WasAirborne && r.VelocityZ > JumpVelocityThreshold
}

// IsCrouched reports whether the player is (nearly) fully crouched
func (r TickRow) IsCrouched() bool {
	return r.DuckAmount > CrouchThreshold
}
