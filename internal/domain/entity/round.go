package entity

import "fmt"

// RoundEventKind distinguishes round boundary markers
type RoundEventKind int

const (
	RoundStart RoundEventKind = iota
	RoundEnd
)

// String returns the game event name of the marker
func (k RoundEventKind) String() string {
	switch k {
	case RoundStart:
		return "round_start"
	case RoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k RoundEventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *RoundEventKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "round_start":
		*k = RoundStart
	case "round_end":
		*k = RoundEnd
	default:
		return fmt.Errorf("unknown round event %q", text)
	}
	return nil
}

// RoundEvent is a round boundary marker at a tick
type RoundEvent struct {
	Kind RoundEventKind `json:"kind"`
	Tick Tick           `json:"tick"`
}

// RoundInterval is a closed tick range [StartTick, EndTick] of one round
type RoundInterval struct {
	Number    int // 1-based, in emission order
	StartTick Tick
	EndTick   Tick
}

// Contains reports whether t lies inside the interval
func (r RoundInterval) Contains(t Tick) bool {
	return t >= r.StartTick && t <= r.EndTick
}
