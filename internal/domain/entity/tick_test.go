package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickRow_IsCrouched_StrictThreshold(t *testing.T) {
	tests := []struct {
		name     string
		duck     float64
		expected bool
	}{
		{"standing", 0, false},
		{"half", 0.5, false},
		{"at threshold", 0.95, false},
		{"just above", 0.9501, true},
		{"full", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := TickRow{DuckAmount: tt.duck}
			assert.Equal(t, tt.expected, row.IsCrouched())
		})
	}
}

func TestTickRow_IsTakeoff(t *testing.T) {
	tests := []struct {
		name     string
		row      TickRow
		expected bool
	}{
		{"grounded", TickRow{VelocityZ: 200}, false},
		{"takeoff", TickRow{Airborne: true, VelocityZ: 250}, true},
		{"still airborne", TickRow{Airborne: true, WasAirborne: true, VelocityZ: 150}, false},
		{"falling off ledge", TickRow{Airborne: true, VelocityZ: -3}, false},
		{"velocity exactly one", TickRow{Airborne: true, VelocityZ: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.row.IsTakeoff())
		})
	}
}
