package state

// PlaybackState is the state of an overlay preview
type PlaybackState int

const (
	StatePlaying PlaybackState = iota
	StatePaused
	StateFinished
)

// String returns the string representation of the playback state
func (s PlaybackState) String() string {
	switch s {
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Toggle switches between playing and paused. A finished preview stays finished.
func (s PlaybackState) Toggle() PlaybackState {
	switch s {
	case StatePlaying:
		return StatePaused
	case StatePaused:
		return StatePlaying
	default:
		return s
	}
}
