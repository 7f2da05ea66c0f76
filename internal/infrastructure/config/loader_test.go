package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/keyviz/internal/domain/entity"
)

func TestLoader_LoadOverlay(t *testing.T) {
	loader := NewLoader("../../../cmd/keyviz/configs")

	cfg, err := loader.LoadOverlay()
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Video.Width)
	assert.Equal(t, 410, cfg.Video.Height)
	assert.Equal(t, 60, cfg.Video.FrameRate)
	assert.Equal(t, RGB{0, 255, 0}, cfg.Colors.Background)
	assert.Len(t, cfg.Keys, 10)
}

func TestLoader_EmbeddedMatchesDefault(t *testing.T) {
	loader := NewLoader("../../../cmd/keyviz/configs")

	cfg, err := loader.LoadOverlay()
	require.NoError(t, err)

	assert.Equal(t, DefaultOverlay(), cfg)
}

func TestDefaultOverlay_Valid(t *testing.T) {
	assert.NoError(t, DefaultOverlay().Validate())
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewFSLoader(fstest.MapFS{}, "empty")

	_, err := loader.LoadOverlay()
	assert.Error(t, err)
}

func TestLoader_BadColour(t *testing.T) {
	fsys := fstest.MapFS{
		"overlay.json": {Data: []byte(`{"colors": {"background": [0, 300, 0]}}`)},
	}

	_, err := NewFSLoader(fsys, "mem").LoadOverlay()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *OverlayConfig)
	}{
		{"zero size", func(c *OverlayConfig) { c.Video.Width = 0 }},
		{"zero frame rate", func(c *OverlayConfig) { c.Video.FrameRate = 0 }},
		{"no font size", func(c *OverlayConfig) { c.Label.FontSize = 0 }},
		{"no codec", func(c *OverlayConfig) { c.Video.IntermediateCodec = "" }},
		{"unknown key", func(c *OverlayConfig) { c.Keys[0].Key = "TAB" }},
		{"duplicate key", func(c *OverlayConfig) { c.Keys[1].Key = "W" }},
		{"missing key", func(c *OverlayConfig) { c.Keys = c.Keys[:9] }},
		{"outside frame", func(c *OverlayConfig) { c.Keys[0].X = 380 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultOverlay()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), entity.ErrInvalidInput)
		})
	}
}

func TestRGB_JSON(t *testing.T) {
	data, err := RGB{1, 2, 3}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", string(data))

	var c RGB
	require.NoError(t, c.UnmarshalJSON([]byte("[10,20,30]")))
	assert.Equal(t, RGB{10, 20, 30}, c)
	assert.Error(t, c.UnmarshalJSON([]byte("[10,20]")))
}
