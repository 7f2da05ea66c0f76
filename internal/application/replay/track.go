package replay

import (
	"sort"

	"github.com/younwookim/keyviz/internal/domain/entity"
)

// MarkTakeoffs fills WasAirborne from the previous row.
// It must run on the whole player sequence before any slicing so that a
// takeoff on the first tick of a segment still sees the tick before it.
func MarkTakeoffs(rows []entity.TickRow) {
	prev := false
	for i := range rows {
		rows[i].WasAirborne = prev
		prev = rows[i].Airborne
	}
}

// Track is a tick-ordered, read-only view over player rows with
// predecessor lookup.
type Track struct {
	rows  []entity.TickRow
	ticks []entity.Tick
}

// NewTrack builds a track from rows. Rows are copied and stably sorted by tick.
func NewTrack(rows []entity.TickRow) *Track {
	sorted := make([]entity.TickRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })
	return newSortedTrack(sorted)
}

func newSortedTrack(rows []entity.TickRow) *Track {
	ticks := make([]entity.Tick, len(rows))
	for i, r := range rows {
		ticks[i] = r.Tick
	}
	return &Track{rows: rows, ticks: ticks}
}

// Len returns the number of rows
func (t *Track) Len() int {
	return len(t.rows)
}

// Empty reports whether the track has no rows
func (t *Track) Empty() bool {
	return len(t.rows) == 0
}

// Row returns the row at index i
func (t *Track) Row(i int) entity.TickRow {
	return t.rows[i]
}

// Bounds returns the first and last tick
func (t *Track) Bounds() (first, last entity.Tick, ok bool) {
	if len(t.ticks) == 0 {
		return 0, 0, false
	}
	return t.ticks[0], t.ticks[len(t.ticks)-1], true
}

// AsOf returns the index of the most recent row with Tick <= tick, or -1.
// With duplicate ticks the last of them wins.
func (t *Track) AsOf(tick entity.Tick) int {
	// first index with Tick > tick
	i := sort.Search(len(t.ticks), func(i int) bool { return t.ticks[i] > tick })
	return i - 1
}

// Slice returns the rows with start <= Tick <= end as a new track.
// Derived columns computed on the parent are kept.
func (t *Track) Slice(start, end entity.Tick) *Track {
	lo := sort.Search(len(t.ticks), func(i int) bool { return t.ticks[i] >= start })
	hi := sort.Search(len(t.ticks), func(i int) bool { return t.ticks[i] > end })
	if hi < lo {
		hi = lo
	}
	return &Track{rows: t.rows[lo:hi:hi], ticks: t.ticks[lo:hi:hi]}
}

// Rows returns a copy of the rows
func (t *Track) Rows() []entity.TickRow {
	out := make([]entity.TickRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// NewPlayerTrack builds a track over the full row sequence of one player
// and derives the takeoff lookback on it.
func NewPlayerTrack(rows []entity.TickRow) *Track {
	t := NewTrack(rows)
	MarkTakeoffs(t.rows)
	return t
}
