package config

// DefaultOverlay returns the built-in keyboard and mouse layout.
// cmd/keyviz/configs/overlay.json carries the same values.
func DefaultOverlay() *OverlayConfig {
	return &OverlayConfig{
		Video: VideoConfig{
			Width:             400,
			Height:            410,
			FrameRate:         60,
			IntermediateCodec: "ffv1",
		},
		Colors: ColorConfig{
			Background:  RGB{0, 255, 0},
			KeyOn:       RGB{255, 255, 255},
			KeyOff:      RGB{0, 0, 0},
			TextOn:      RGB{0, 0, 0},
			TextOff:     RGB{200, 200, 200},
			Border:      RGB{100, 100, 100},
			BorderWidth: 2,
		},
		Label: LabelConfig{FontSize: 20},
		Keys: []KeyLayout{
			{Key: "W", X: 110, Y: 30, Width: 60, Height: 60},
			{Key: "E", X: 180, Y: 30, Width: 60, Height: 60},
			{Key: "A", X: 40, Y: 100, Width: 60, Height: 60},
			{Key: "S", X: 110, Y: 100, Width: 60, Height: 60},
			{Key: "D", X: 180, Y: 100, Width: 60, Height: 60},
			{Key: "SHIFT", X: 20, Y: 170, Width: 150, Height: 60},
			{Key: "CTRL", X: 20, Y: 240, Width: 70, Height: 60},
			{Key: "SPACE", X: 100, Y: 240, Width: 140, Height: 60},
			{Key: "LMB", X: 20, Y: 310, Width: 100, Height: 60},
			{Key: "RMB", X: 130, Y: 310, Width: 110, Height: 60},
		},
	}
}
