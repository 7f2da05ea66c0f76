// Package demo reads CS2 demo files with demoinfocs-golang.
package demo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	demoinfocs "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs"
	"github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"
	"github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/events"
	st "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/sendtables"
	"github.com/younwookim/keyviz/internal/application/replay"
	"github.com/younwookim/keyviz/internal/domain/entity"
	"go.uber.org/zap"
)

// Pawn properties not exposed by common.Player
const (
	propButtons    = "m_pMovementServices.m_nButtonDownMaskPrev"
	propDuckAmount = "m_pMovementServices.m_flDuckAmount"
	propVelocity   = "m_vecVelocity"
)

// Reader parses .dem files
type Reader struct {
	Logger *zap.Logger
	// TickRate converts height changes to vertical speed when the pawn
	// does not network its velocity
	TickRate int
}

// NewReader creates a demo reader
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{Logger: logger, TickRate: replay.DefaultTickRate}
}

// Read parses the demo at path once, collecting round markers and the
// per-tick state of player (exact, case-sensitive name).
func (r *Reader) Read(ctx context.Context, path, player string) (*replay.ReplayData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open demo: %v: %w", err, entity.ErrInvalidInput)
	}
	defer func() { _ = f.Close() }()

	started := time.Now()
	c := newCollector(player, r.TickRate)

	p := demoinfocs.NewParser(f)
	defer func() { _ = p.Close() }()

	p.RegisterEventHandler(func(events.RoundStart) {
		c.mark(entity.RoundStart, p.GameState().IngameTick())
	})
	p.RegisterEventHandler(func(events.RoundEnd) {
		c.mark(entity.RoundEnd, p.GameState().IngameTick())
	})
	p.RegisterEventHandler(func(events.FrameDone) {
		if ctx.Err() != nil {
			p.Cancel()
			return
		}
		c.frames++

		gs := p.GameState()
		for _, pl := range gs.Participants().All() {
			if pl == nil || !c.wants(pl.Name) {
				continue
			}
			pawn := pl.PlayerPawnEntity()
			if pawn == nil {
				break
			}
			row := rowOf(gs.IngameTick(), pl)
			z := pl.Position().Z
			if !readPawn(&row, pawn) {
				row.VelocityZ = c.verticalSpeed(row.Tick, z)
			}
			c.observe(row, z)
			break
		}
	})

	truncated := false
	err = p.ParseToEnd()
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, demoinfocs.ErrUnexpectedEndOfDemo) && c.frames > 0:
		r.Logger.Warn("demo ended unexpectedly, using the ticks read so far",
			zap.String("demo", path), zap.Int("rows", len(c.rows)))
		truncated = true
	case err != nil:
		return nil, fmt.Errorf("failed to parse %s: %v: %w", path, err, entity.ErrReplayParse)
	}

	r.Logger.Debug("demo parsed",
		zap.String("demo", path),
		zap.Int("frames", c.frames),
		zap.Int("rows", len(c.rows)),
		zap.Int("roundMarks", len(c.marks)),
		zap.Duration("elapsed", time.Since(started)))

	if len(c.rows) == 0 {
		return nil, fmt.Errorf("no data for %q (players in demo: %s): %w", player, c.others(), entity.ErrPlayerNotFound)
	}

	return &replay.ReplayData{
		Version:    replay.DataVersion,
		Source:     path,
		Player:     player,
		ParsedAt:   time.Now().Format(time.RFC3339),
		Truncated:  truncated,
		RoundMarks: c.marks,
		Rows:       c.rows,
	}, nil
}

// rowOf reads the player state that common.Player exposes directly
func rowOf(tick int, pl *common.Player) entity.TickRow {
	return entity.TickRow{
		Tick:     entity.Tick(tick),
		Walking:  pl.IsWalking(),
		Airborne: pl.IsAirborne(),
	}
}

// pawnProps is the part of st.Entity the pawn fields are read from
type pawnProps interface {
	PropertyValue(name string) (st.PropertyValue, bool)
}

// readPawn fills buttons, duck amount and vertical velocity from pawn
// properties. Absent properties leave zero values. It reports whether the
// velocity was networked.
func readPawn(row *entity.TickRow, pawn pawnProps) bool {
	if v, ok := pawn.PropertyValue(propButtons); ok {
		if mask, ok := maskOf(v.Any); ok {
			applyButtons(row, mask)
		}
	}
	if v, ok := pawn.PropertyValue(propDuckAmount); ok {
		if duck, ok := floatOf(v.Any); ok {
			row.DuckAmount = duck
		}
	}

	v, ok := pawn.PropertyValue(propVelocity)
	if !ok {
		return false
	}
	z, ok := vectorZ(v.Any)
	if !ok {
		return false
	}
	row.VelocityZ = z
	return true
}
