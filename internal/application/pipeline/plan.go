package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/younwookim/keyviz/internal/application/replay"
	"github.com/younwookim/keyviz/internal/application/round"
	"github.com/younwookim/keyviz/internal/domain/entity"
)

// Segment is one output video: a closed tick range and its output base path
type Segment struct {
	Name   string // human readable, for logs
	Output string // output path without extension
	Start  entity.Tick
	End    entity.Tick
}

// RoundSegment names a round's video <base>_round_NN
func RoundSegment(base string, r entity.RoundInterval) Segment {
	return Segment{
		Name:   fmt.Sprintf("round %d", r.Number),
		Output: fmt.Sprintf("%s_round_%02d", base, r.Number),
		Start:  r.StartTick,
		End:    r.EndTick,
	}
}

// TickSegment names a tick range video <base>_ticks_START_to_END
func TickSegment(base string, start, end entity.Tick) Segment {
	return Segment{
		Name:   fmt.Sprintf("ticks %d-%d", start, end),
		Output: fmt.Sprintf("%s_ticks_%d_to_%d", base, start, end),
		Start:  start,
		End:    end,
	}
}

// TickRange is a START,END argument. An empty END means the player's last tick.
type TickRange struct {
	Start   entity.Tick
	End     entity.Tick
	OpenEnd bool
}

// ParseTickRange parses "START,END" or "START,". A closed range must have START < END.
func ParseTickRange(s string) (TickRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return TickRange{}, fmt.Errorf("tick range %q must be START,END: %w", s, entity.ErrInvalidInput)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TickRange{}, fmt.Errorf("tick range start %q is not a number: %w", parts[0], entity.ErrInvalidInput)
	}
	if start < 0 {
		return TickRange{}, fmt.Errorf("tick range start %d is negative: %w", start, entity.ErrInvalidInput)
	}

	r := TickRange{Start: entity.Tick(start)}

	endStr := strings.TrimSpace(parts[1])
	if endStr == "" {
		r.OpenEnd = true
		return r, nil
	}

	end, err := strconv.Atoi(endStr)
	if err != nil {
		return TickRange{}, fmt.Errorf("tick range end %q is not a number: %w", parts[1], entity.ErrInvalidInput)
	}
	r.End = entity.Tick(end)

	if r.Start >= r.End {
		return TickRange{}, fmt.Errorf("start tick %d must be less than end tick %d: %w", r.Start, r.End, entity.ErrInvalidInput)
	}
	return r, nil
}

// Resolve closes an open range at the last tick of data
func (r TickRange) Resolve(data *replay.ReplayData) (TickRange, error) {
	if !r.OpenEnd {
		return r, nil
	}
	last, ok := data.LastTick()
	if !ok {
		return TickRange{}, fmt.Errorf("no ticks for %q: %w", data.Player, entity.ErrPlayerNotFound)
	}
	if r.Start >= last {
		return TickRange{}, fmt.Errorf("start tick %d must be less than the last tick %d: %w", r.Start, last, entity.ErrInvalidInput)
	}
	return TickRange{Start: r.Start, End: last}, nil
}

// PlanTicks returns the single segment of a tick range
func PlanTicks(data *replay.ReplayData, base string, r TickRange) ([]Segment, error) {
	resolved, err := r.Resolve(data)
	if err != nil {
		return nil, err
	}
	return []Segment{TickSegment(base, resolved.Start, resolved.End)}, nil
}

// PlanRounds returns one segment per selected round
func PlanRounds(data *replay.ReplayData, base string, sel round.Selector) ([]Segment, error) {
	intervals := round.Segment(data.RoundMarks)
	if len(intervals) == 0 {
		return nil, fmt.Errorf("%s: %w", data.Source, entity.ErrNoRounds)
	}

	selected := round.Select(intervals, sel)
	if len(selected) == 0 {
		return nil, fmt.Errorf("rounds %s of %d: %w", sel, len(intervals), entity.ErrNoMatchingRounds)
	}

	segments := make([]Segment, len(selected))
	for i, r := range selected {
		segments[i] = RoundSegment(base, r)
	}
	return segments, nil
}
