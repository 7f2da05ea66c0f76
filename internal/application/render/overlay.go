// Package render draws the keyboard and mouse overlay for one key state.
package render

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/younwookim/keyviz/internal/domain/entity"
	"github.com/younwookim/keyviz/internal/infrastructure/config"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type keyBox struct {
	key   entity.Key
	label string
	rect  image.Rectangle
}

// Renderer draws overlay frames. It is not safe for concurrent use: the
// font face keeps glyph buffers, so every worker owns its own Renderer.
type Renderer struct {
	width  int
	height int
	border int

	background *image.Uniform
	keyOn      *image.Uniform
	keyOff     *image.Uniform
	textOn     *image.Uniform
	textOff    *image.Uniform
	borderCol  *image.Uniform

	boxes []keyBox
	face  font.Face
}

// New creates a renderer for the given overlay configuration
func New(cfg *config.OverlayConfig) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ttf, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	face, err := opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    cfg.Label.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label face: %w", err)
	}

	r := &Renderer{
		width:      cfg.Video.Width,
		height:     cfg.Video.Height,
		border:     cfg.Colors.BorderWidth,
		background: image.NewUniform(cfg.Colors.Background.RGBA()),
		keyOn:      image.NewUniform(cfg.Colors.KeyOn.RGBA()),
		keyOff:     image.NewUniform(cfg.Colors.KeyOff.RGBA()),
		textOn:     image.NewUniform(cfg.Colors.TextOn.RGBA()),
		textOff:    image.NewUniform(cfg.Colors.TextOff.RGBA()),
		borderCol:  image.NewUniform(cfg.Colors.Border.RGBA()),
		face:       face,
	}

	for _, k := range cfg.Keys {
		key, _ := entity.ParseKey(k.Key) // checked by Validate
		r.boxes = append(r.boxes, keyBox{
			key:   key,
			label: k.Key,
			rect:  image.Rect(k.X, k.Y, k.X+k.Width, k.Y+k.Height),
		})
	}

	return r, nil
}

// Bounds returns the frame rectangle
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// KeyRect returns where key is drawn
func (r *Renderer) KeyRect(key entity.Key) (image.Rectangle, bool) {
	for _, b := range r.boxes {
		if b.key == key {
			return b.rect, true
		}
	}
	return image.Rectangle{}, false
}

// Render draws keys onto a new frame
func (r *Renderer) Render(keys entity.KeyState) *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	r.RenderInto(img, keys)
	return img
}

// RenderInto redraws dst completely for keys
func (r *Renderer) RenderInto(dst *image.RGBA, keys entity.KeyState) {
	draw.Draw(dst, dst.Bounds(), r.background, image.Point{}, draw.Src)

	for _, b := range r.boxes {
		fill, text := r.keyOff, r.textOff
		if keys.Pressed(b.key) {
			fill, text = r.keyOn, r.textOn
		}

		draw.Draw(dst, b.rect, fill, image.Point{}, draw.Src)
		r.strokeRect(dst, b.rect)
		r.drawLabel(dst, b, text)
	}
}

// strokeRect draws the border inside rect
func (r *Renderer) strokeRect(dst draw.Image, rect image.Rectangle) {
	w := r.border
	if w <= 0 {
		return
	}
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+w),
		image.Rect(rect.Min.X, rect.Max.Y-w, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+w, rect.Max.Y),
		image.Rect(rect.Max.X-w, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(rect), r.borderCol, image.Point{}, draw.Src)
	}
}

// drawLabel centres the caption on its box
func (r *Renderer) drawLabel(dst draw.Image, b keyBox, src image.Image) {
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: r.face,
	}
	width := d.MeasureString(b.label).Ceil()
	capHeight := r.face.Metrics().CapHeight.Ceil()

	x := b.rect.Min.X + (b.rect.Dx()-width)/2
	y := b.rect.Min.Y + (b.rect.Dy()+capHeight)/2
	d.Dot = fixed.P(x, y)
	d.DrawString(b.label)
}
