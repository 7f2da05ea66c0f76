// Package game runs the preview window and handles Scene transitions.
package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/keyviz/internal/application/scene"
)

// Game implements ebiten.Game and manages Scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	tps     int
	dt      float64
}

// New creates a Game ticking tps times per second with the given initial scene.
// The initial scene's OnEnter is called immediately.
func New(initialScene scene.Scene, screenW, screenH, tps int) *Game {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	g := &Game{
		current: initialScene,
		screenW: screenW,
		screenH: screenH,
		tps:     tps,
		dt:      1.0 / float64(tps),
	}
	g.current.OnEnter()
	return g
}

// Update updates the current scene and handles scene transitions.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	next, err := g.current.Update(g.dt)
	if err != nil {
		return err
	}

	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}

	return nil
}

// Draw renders the current scene.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout returns the logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// Current returns the scene being updated
func (g *Game) Current() scene.Scene {
	return g.current
}

// TPS returns the ticks per second the game was created with
func (g *Game) TPS() int {
	return g.tps
}

// Run opens a window and blocks until the current scene terminates.
// ebiten.Termination is not reported as an error.
func Run(g *Game, title string) error {
	ebiten.SetWindowSize(g.screenW, g.screenH)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(g.tps)

	err := ebiten.RunGame(g)
	g.current.OnExit()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
