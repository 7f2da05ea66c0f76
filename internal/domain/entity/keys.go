package entity

// Key identifies one control drawn on the overlay
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyE
	KeyShift
	KeyCtrl
	KeySpace
	KeyLMB
	KeyRMB
	keyCount
)

// AllKeys lists every overlay control in drawing order
var AllKeys = [keyCount]Key{KeyW, KeyE, KeyA, KeyS, KeyD, KeyShift, KeyCtrl, KeySpace, KeyLMB, KeyRMB}

var keyNames = [keyCount]string{
	KeyW:     "W",
	KeyA:     "A",
	KeyS:     "S",
	KeyD:     "D",
	KeyE:     "E",
	KeyShift: "SHIFT",
	KeyCtrl:  "CTRL",
	KeySpace: "SPACE",
	KeyLMB:   "LMB",
	KeyRMB:   "RMB",
}

// String returns the label drawn for the key
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// ParseKey maps an overlay label back to its key
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

// KeyState holds the pressed flag of every overlay control for one frame
type KeyState [keyCount]bool

// Pressed reports whether k is down
func (s KeyState) Pressed(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	return s[k]
}

// Set marks k as pressed or released
func (s *KeyState) Set(k Key, pressed bool) {
	if k < 0 || k >= keyCount {
		return
	}
	s[k] = pressed
}

// Any reports whether at least one control is pressed
func (s KeyState) Any() bool {
	for _, p := range s {
		if p {
			return true
		}
	}
	return false
}

// DeriveKeyState maps a tick row to overlay controls.
// SPACE follows the row's takeoff edge; the sampler decides on which
// frame that edge is shown.
func DeriveKeyState(row TickRow) KeyState {
	var s KeyState
	s[KeyW] = row.Forward
	s[KeyA] = row.Left
	s[KeyS] = row.Back
	s[KeyD] = row.Right
	s[KeyE] = row.Use
	s[KeyShift] = row.Walking
	s[KeyCtrl] = row.IsCrouched()
	s[KeySpace] = row.IsTakeoff()
	s[KeyLMB] = row.Fire
	s[KeyRMB] = row.SecondaryFire
	return s
}
