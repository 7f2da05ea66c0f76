package config

import (
	"encoding/json"
	"fmt"
	"image/color"
)

// OverlayConfig is the root config for overlay.json
type OverlayConfig struct {
	Video  VideoConfig `json:"video"`
	Colors ColorConfig `json:"colors"`
	Label  LabelConfig `json:"label"`
	Keys   []KeyLayout `json:"keys"`
}

// VideoConfig describes the rendered frames and the intermediate stream
type VideoConfig struct {
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	FrameRate         int    `json:"frameRate"`
	IntermediateCodec string `json:"intermediateCodec"` // lossless codec of the temporary .avi
}

// ColorConfig holds overlay colours
type ColorConfig struct {
	Background  RGB `json:"background"`
	KeyOn       RGB `json:"keyOn"`
	KeyOff      RGB `json:"keyOff"`
	TextOn      RGB `json:"textOn"`
	TextOff     RGB `json:"textOff"`
	Border      RGB `json:"border"`
	BorderWidth int `json:"borderWidth"`
}

// LabelConfig configures key captions
type LabelConfig struct {
	FontSize float64 `json:"fontSize"` // points at 72 DPI
}

// KeyLayout places one control on the overlay
type KeyLayout struct {
	Key    string `json:"key"` // label, e.g. "SHIFT"
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

// RGB is an opaque colour stored as [r, g, b]
type RGB struct {
	R, G, B uint8
}

// RGBA converts to image/color
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// MarshalJSON writes the colour as a 3 element array
func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

// UnmarshalJSON reads a 3 element array
func (c *RGB) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 3 {
		return fmt.Errorf("colour needs 3 components, got %d", len(v))
	}
	for _, x := range v {
		if x < 0 || x > 255 {
			return fmt.Errorf("colour component %d out of range", x)
		}
	}
	c.R, c.G, c.B = uint8(v[0]), uint8(v[1]), uint8(v[2])
	return nil
}
