package demo

import (
	"sort"
	"strings"

	"github.com/younwookim/keyviz/internal/domain/entity"
)

// collector accumulates round markers and one player's rows during a parse
type collector struct {
	player string

	tickRate float64

	marks  []entity.RoundEvent
	rows   []entity.TickRow
	seen   map[string]bool
	frames int

	// position of the last kept row
	lastZ   float64
	hasLast bool
}

func newCollector(player string, tickRate int) *collector {
	return &collector{
		player:   player,
		tickRate: float64(tickRate),
		seen:     make(map[string]bool),
	}
}

func (c *collector) mark(kind entity.RoundEventKind, tick int) {
	c.marks = append(c.marks, entity.RoundEvent{Kind: kind, Tick: entity.Tick(tick)})
}

// wants reports whether name is the tracked player and remembers it otherwise
func (c *collector) wants(name string) bool {
	if name == c.player {
		return true
	}
	if name != "" {
		c.seen[name] = true
	}
	return false
}

// observe keeps the first row of every new tick along with the pawn height z.
// Ticks never go backwards; frames repeating a tick are ignored.
func (c *collector) observe(row entity.TickRow, z float64) {
	if n := len(c.rows); n > 0 && row.Tick <= c.rows[n-1].Tick {
		return
	}
	c.rows = append(c.rows, row)
	c.lastZ = z
	c.hasLast = true
}

// verticalSpeed estimates units per second along Z from the height change
// since the last kept row. The first row, or a tick not after it, gives 0.
func (c *collector) verticalSpeed(tick entity.Tick, z float64) float64 {
	if !c.hasLast || c.tickRate <= 0 {
		return 0
	}
	dt := float64(tick-c.rows[len(c.rows)-1].Tick) / c.tickRate
	if dt <= 0 {
		return 0
	}
	return (z - c.lastZ) / dt
}

// others lists the other player names seen, sorted
func (c *collector) others() string {
	names := make([]string, 0, len(c.seen))
	for n := range c.seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
