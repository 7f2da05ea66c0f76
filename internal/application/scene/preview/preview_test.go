package preview

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/keyviz/internal/application/game"
	"github.com/younwookim/keyviz/internal/application/render"
	"github.com/younwookim/keyviz/internal/application/replay"
	"github.com/younwookim/keyviz/internal/application/state"
	"github.com/younwookim/keyviz/internal/domain/entity"
	"github.com/younwookim/keyviz/internal/infrastructure/config"
)

// keys presses the queued keys on the next Update
type keys struct {
	next map[ebiten.Key]bool
}

func (k *keys) press(key ebiten.Key) {
	if k.next == nil {
		k.next = map[ebiten.Key]bool{}
	}
	k.next[key] = true
}

func (k *keys) pressed(key ebiten.Key) bool {
	return k.next[key]
}

func (k *keys) clear() {
	k.next = nil
}

// 4 frames at 1 fps over ticks 0..4 with tickrate 1
func newTestPreview(t *testing.T) (*Preview, *keys, *render.Renderer) {
	t.Helper()
	rows := []entity.TickRow{
		{Tick: 0, Forward: true},
		{Tick: 1, Left: true},
		{Tick: 2, Back: true},
		{Tick: 3, Right: true},
		{Tick: 4},
	}
	s, err := replay.NewSampler(replay.NewPlayerTrack(rows), 1, 1)
	require.NoError(t, err)

	r, err := render.New(config.DefaultOverlay())
	require.NoError(t, err)

	k := &keys{}
	p := New("round 1", s, r)
	p.SetKeyFunc(k.pressed)
	return p, k, r
}

func step(t *testing.T, p *Preview, k *keys) {
	t.Helper()
	next, err := p.Update(1.0 / 60.0)
	require.NoError(t, err)
	assert.Nil(t, next)
	k.clear()
}

func TestPreview_PlaysFrames(t *testing.T) {
	p, k, r := newTestPreview(t)

	_, shown := p.Current()
	assert.False(t, shown)
	assert.Equal(t, state.StatePlaying, p.State())

	step(t, p, k)
	f, shown := p.Current()
	require.True(t, shown)
	assert.Equal(t, 0, f.Index)
	assert.True(t, f.Keys.Pressed(entity.KeyW))

	cfg := config.DefaultOverlay()
	rect, ok := r.KeyRect(entity.KeyW)
	require.True(t, ok)
	assert.Equal(t, cfg.Colors.KeyOn.RGBA(), p.Frame().RGBAAt(rect.Min.X+3, rect.Min.Y+3))

	step(t, p, k)
	f, _ = p.Current()
	assert.True(t, f.Keys.Pressed(entity.KeyA))
	assert.Equal(t, cfg.Colors.KeyOff.RGBA(), p.Frame().RGBAAt(rect.Min.X+3, rect.Min.Y+3))
}

func TestPreview_Finishes(t *testing.T) {
	p, k, _ := newTestPreview(t)

	for i := 0; i < 4; i++ {
		step(t, p, k)
	}
	assert.Equal(t, state.StatePlaying, p.State())
	f, _ := p.Current()
	assert.Equal(t, 3, f.Index)

	step(t, p, k)
	assert.Equal(t, state.StateFinished, p.State())

	f, _ = p.Current()
	assert.Equal(t, 3, f.Index, "last frame stays on screen")
}

func TestPreview_Pause(t *testing.T) {
	p, k, _ := newTestPreview(t)
	step(t, p, k)

	k.press(KeyPause)
	step(t, p, k)
	assert.Equal(t, state.StatePaused, p.State())
	f, _ := p.Current()
	assert.Equal(t, 0, f.Index)

	step(t, p, k)
	f, _ = p.Current()
	assert.Equal(t, 0, f.Index, "paused preview does not advance")

	k.press(KeyPause)
	step(t, p, k)
	assert.Equal(t, state.StatePlaying, p.State())
	f, _ = p.Current()
	assert.Equal(t, 1, f.Index)
}

func TestPreview_Restart(t *testing.T) {
	p, k, _ := newTestPreview(t)
	for i := 0; i < 6; i++ {
		step(t, p, k)
	}
	require.Equal(t, state.StateFinished, p.State())

	k.press(KeyRestart)
	next, err := p.Update(1.0 / 60.0)
	require.NoError(t, err)
	k.clear()

	restarted, ok := next.(*Preview)
	require.True(t, ok, "restart switches to a fresh preview scene")
	assert.NotSame(t, p, restarted)
	assert.Equal(t, state.StatePlaying, restarted.State())
	_, shown := restarted.Current()
	assert.False(t, shown)

	step(t, restarted, k)
	f, shown := restarted.Current()
	require.True(t, shown)
	assert.Equal(t, 0, f.Index)
}

func TestPreview_RestartThroughGame(t *testing.T) {
	p, k, r := newTestPreview(t)
	b := r.Bounds()
	g := game.New(p, b.Dx(), b.Dy(), 60)

	require.NoError(t, g.Update())
	require.NoError(t, g.Update())
	f, _ := p.Current()
	require.Equal(t, 1, f.Index)

	k.press(KeyRestart)
	require.NoError(t, g.Update())
	k.clear()

	current, ok := g.Current().(*Preview)
	require.True(t, ok)
	require.NotSame(t, p, current)

	require.NoError(t, g.Update())
	f, shown := current.Current()
	require.True(t, shown)
	assert.Equal(t, 0, f.Index)
	assert.True(t, f.Keys.Pressed(entity.KeyW))
}

func TestPreview_Quit(t *testing.T) {
	p, k, _ := newTestPreview(t)

	k.press(KeyQuit)
	_, err := p.Update(1.0 / 60.0)
	assert.ErrorIs(t, err, ebiten.Termination)
}

func TestPreview_Status(t *testing.T) {
	p, k, _ := newTestPreview(t)
	assert.Equal(t, "round 1  [Playing]", p.Status())

	step(t, p, k)
	step(t, p, k)
	assert.Equal(t, "round 1  frame 2/4  tick 1  [Playing]", p.Status())
}
