package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/keyviz/internal/domain/entity"
	"github.com/younwookim/keyviz/internal/infrastructure/config"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(config.DefaultOverlay())
	require.NoError(t, err)
	return r
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestRenderer_FrameSize(t *testing.T) {
	r := newTestRenderer(t)
	img := r.Render(entity.KeyState{})

	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 410, img.Bounds().Dy())
}

func TestRenderer_Background(t *testing.T) {
	r := newTestRenderer(t)
	img := r.Render(entity.KeyState{})

	green := color.RGBA{0, 255, 0, 255}
	assert.Equal(t, green, rgbaAt(img, 5, 5))
	assert.Equal(t, green, rgbaAt(img, 399, 409))
}

func TestRenderer_PressedAndReleasedFill(t *testing.T) {
	r := newTestRenderer(t)

	var keys entity.KeyState
	keys.Set(entity.KeyW, true)
	img := r.Render(keys)

	w, ok := r.KeyRect(entity.KeyW)
	require.True(t, ok)
	a, ok := r.KeyRect(entity.KeyA)
	require.True(t, ok)

	// just inside the 2px border
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(img, w.Min.X+3, w.Min.Y+3))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, rgbaAt(img, a.Min.X+3, a.Min.Y+3))
}

func TestRenderer_BorderAlwaysDrawn(t *testing.T) {
	r := newTestRenderer(t)
	gray := color.RGBA{100, 100, 100, 255}

	var all entity.KeyState
	for _, k := range entity.AllKeys {
		all.Set(k, true)
	}

	for _, keys := range []entity.KeyState{{}, all} {
		img := r.Render(keys)
		for _, k := range entity.AllKeys {
			rect, ok := r.KeyRect(k)
			require.True(t, ok)
			assert.Equal(t, gray, rgbaAt(img, rect.Min.X, rect.Min.Y), "key %s", k)
			assert.Equal(t, gray, rgbaAt(img, rect.Max.X-1, rect.Max.Y-1), "key %s", k)
		}
	}
}

func TestRenderer_LabelDrawn(t *testing.T) {
	r := newTestRenderer(t)

	var keys entity.KeyState
	keys.Set(entity.KeySpace, true)
	img := r.Render(keys)

	for _, k := range []entity.Key{entity.KeySpace, entity.KeyCtrl} {
		rect, _ := r.KeyRect(k)
		inner := rect.Inset(2)
		fill := rgbaAt(img, inner.Min.X+1, inner.Min.Y+1)

		differs := 0
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			for x := inner.Min.X; x < inner.Max.X; x++ {
				if rgbaAt(img, x, y) != fill {
					differs++
				}
			}
		}
		assert.Greater(t, differs, 0, "label of %s not drawn", k)
	}
}

func TestRenderer_RenderIntoOverwrites(t *testing.T) {
	r := newTestRenderer(t)

	var pressed entity.KeyState
	pressed.Set(entity.KeyD, true)

	img := r.Render(pressed)
	r.RenderInto(img, entity.KeyState{})

	assert.Equal(t, r.Render(entity.KeyState{}).Pix, img.Pix)
}

func TestRenderer_InvalidConfig(t *testing.T) {
	cfg := config.DefaultOverlay()
	cfg.Keys = nil

	_, err := New(cfg)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
