// Package preview plays a segment's overlay in a window instead of encoding it.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/keyviz/internal/application/render"
	"github.com/younwookim/keyviz/internal/application/replay"
	"github.com/younwookim/keyviz/internal/application/scene"
	"github.com/younwookim/keyviz/internal/application/state"
	"github.com/younwookim/keyviz/internal/domain/entity"
)

// Controls
const (
	KeyPause   = ebiten.KeySpace
	KeyRestart = ebiten.KeyR
	KeyQuit    = ebiten.KeyEscape
)

// KeyFunc reports whether a key was pressed this tick
type KeyFunc func(ebiten.Key) bool

// Preview advances one sampled frame per tick
type Preview struct {
	title    string
	sampler  *replay.Sampler
	renderer *render.Renderer
	state    state.PlaybackState
	pressed  KeyFunc

	frame   *image.RGBA
	current replay.SampledFrame
	shown   int
	dirty   bool
	img     *ebiten.Image
}

// New creates a preview of sampler rendered by renderer
func New(title string, sampler *replay.Sampler, renderer *render.Renderer) *Preview {
	return &Preview{
		title:    title,
		sampler:  sampler,
		renderer: renderer,
		state:    state.StatePlaying,
		pressed:  inpututil.IsKeyJustPressed,
		frame:    renderer.Render(entity.KeyState{}),
		dirty:    true,
	}
}

// SetKeyFunc replaces the keyboard source
func (p *Preview) SetKeyFunc(f KeyFunc) {
	p.pressed = f
}

// State returns the playback state
func (p *Preview) State() state.PlaybackState {
	return p.state
}

// Current returns the frame on screen and whether one was shown yet
func (p *Preview) Current() (replay.SampledFrame, bool) {
	return p.current, p.shown > 0
}

// Frame returns the rendered overlay on screen
func (p *Preview) Frame() *image.RGBA {
	return p.frame
}

// OnEnter implements scene.Scene
func (p *Preview) OnEnter() {}

// OnExit implements scene.Scene
func (p *Preview) OnExit() {
	if p.img != nil {
		p.img.Deallocate()
		p.img = nil
	}
}

// Update implements scene.Scene
func (p *Preview) Update(_ float64) (scene.Scene, error) {
	if p.pressed(KeyQuit) {
		return nil, ebiten.Termination
	}
	if p.pressed(KeyRestart) {
		return p.restarted(), nil
	}
	if p.pressed(KeyPause) {
		p.state = p.state.Toggle()
	}

	if p.state == state.StatePlaying {
		p.advance()
	}
	return nil, nil
}

// restarted rewinds the sampler into a fresh scene
func (p *Preview) restarted() *Preview {
	p.sampler.Reset()
	next := New(p.title, p.sampler, p.renderer)
	next.pressed = p.pressed
	return next
}

func (p *Preview) advance() {
	f, ok := p.sampler.Next()
	if !ok {
		p.state = state.StateFinished
		return
	}
	p.current = f
	p.shown++
	p.renderer.RenderInto(p.frame, f.Keys)
	p.dirty = true
}

// Status is the line printed over the overlay
func (p *Preview) Status() string {
	if p.shown == 0 {
		return fmt.Sprintf("%s  [%s]", p.title, p.state)
	}
	return fmt.Sprintf("%s  frame %d/%d  tick %d  [%s]",
		p.title, p.current.Index+1, p.sampler.TotalFrames(), p.current.TargetTick, p.state)
}

// Draw implements scene.Scene
func (p *Preview) Draw(screen *ebiten.Image) {
	if p.img == nil {
		b := p.frame.Bounds()
		p.img = ebiten.NewImage(b.Dx(), b.Dy())
		p.dirty = true
	}
	if p.dirty {
		p.img.WritePixels(p.frame.Pix)
		p.dirty = false
	}
	screen.DrawImage(p.img, nil)

	b := p.frame.Bounds()
	ebitenutil.DrawRect(screen, 0, float64(b.Dy()-18), float64(b.Dx()), 18, color.RGBA{0, 0, 0, 160})
	ebitenutil.DebugPrintAt(screen, p.Status(), 4, b.Dy()-16)

	if p.state != state.StatePlaying {
		text := "SPACE: resume | R: restart | ESC: quit"
		if p.state == state.StateFinished {
			text = "R: restart | ESC: quit"
		}
		ebitenutil.DebugPrintAt(screen, text, 4, 4)
	}
}
