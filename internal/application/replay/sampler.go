package replay

import (
	"fmt"

	"github.com/younwookim/keyviz/internal/domain/entity"
)

const (
	// DefaultTickRate is the CS2 server tick rate
	DefaultTickRate = 64
	// FrameRate is the fixed output frame rate of overlay videos
	FrameRate = 60
)

// SampledFrame is the key state of one output frame
type SampledFrame struct {
	Index      int         // output frame number
	TargetTick entity.Tick // tick the frame time maps to
	RowTick    entity.Tick // tick of the row actually used
	Keys       entity.KeyState
}

// Sampler resamples a track to a fixed frame rate using as-of lookup:
// each frame shows the last row at or before its target tick.
type Sampler struct {
	track     *Track
	tickRate  int64
	frameRate int64
	first     entity.Tick
	total     int

	frame   int
	lastRow int
	skipped int
}

// NewSampler creates a sampler over track. An empty track yields zero frames.
func NewSampler(track *Track, tickRate, frameRate int) (*Sampler, error) {
	if tickRate <= 0 {
		return nil, fmt.Errorf("tickrate %d: %w", tickRate, entity.ErrInvalidInput)
	}
	if frameRate <= 0 {
		return nil, fmt.Errorf("frame rate %d: %w", frameRate, entity.ErrInvalidInput)
	}

	s := &Sampler{
		track:     track,
		tickRate:  int64(tickRate),
		frameRate: int64(frameRate),
		lastRow:   -1,
	}

	if first, last, ok := track.Bounds(); ok {
		s.first = first
		// floor((last-first)/tickRate * frameRate)
		s.total = int(int64(last-first) * s.frameRate / s.tickRate)
	}

	return s, nil
}

// TargetTick returns the tick output frame f maps to
func (s *Sampler) TargetTick(f int) entity.Tick {
	return s.first + entity.Tick(int64(f)*s.tickRate/s.frameRate)
}

// Next returns the next resolvable frame and advances.
// Frames without a row at or before their target tick are skipped.
// SPACE is shown only on the first frame using a takeoff row.
func (s *Sampler) Next() (SampledFrame, bool) {
	for s.frame < s.total {
		f := s.frame
		s.frame++

		target := s.TargetTick(f)
		idx := s.track.AsOf(target)
		if idx < 0 {
			s.skipped++
			continue
		}

		row := s.track.Row(idx)
		keys := entity.DeriveKeyState(row)
		keys.Set(entity.KeySpace, row.IsTakeoff() && idx != s.lastRow)
		s.lastRow = idx

		return SampledFrame{
			Index:      f,
			TargetTick: target,
			RowTick:    row.Tick,
			Keys:       keys,
		}, true
	}

	return SampledFrame{}, false
}

// CurrentFrame returns the index of the next frame to sample
func (s *Sampler) CurrentFrame() int {
	return s.frame
}

// TotalFrames returns the number of output frames covering the track
func (s *Sampler) TotalFrames() int {
	return s.total
}

// Skipped returns how many frames had no row to show so far
func (s *Sampler) Skipped() int {
	return s.skipped
}

// Reset rewinds the sampler to the first frame
func (s *Sampler) Reset() {
	s.frame = 0
	s.lastRow = -1
	s.skipped = 0
}
