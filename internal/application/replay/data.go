package replay

import "github.com/younwookim/keyviz/internal/domain/entity"

// DataVersion is written into every tick dump
const DataVersion = "1.0"

// ReplayData is everything read from one replay for one player
type ReplayData struct {
	Version    string              `json:"version"`
	Source     string              `json:"source"`     // replay file the data came from
	Player     string              `json:"player"`     // exact in-game name
	ParsedAt   string              `json:"parsedAt"`   // RFC3339
	Truncated  bool                `json:"truncated"`  // demo ended unexpectedly, rows are partial
	RoundMarks []entity.RoundEvent `json:"roundMarks"` // round_start/round_end in tick order
	Rows       []entity.TickRow    `json:"rows"`       // player state, tick order
}

// LastTick returns the highest tick of the player rows
func (d *ReplayData) LastTick() (entity.Tick, bool) {
	if len(d.Rows) == 0 {
		return 0, false
	}
	last := d.Rows[0].Tick
	for _, r := range d.Rows[1:] {
		if r.Tick > last {
			last = r.Tick
		}
	}
	return last, true
}
