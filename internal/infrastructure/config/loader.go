package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/younwookim/keyviz/internal/domain/entity"
)

// Loader loads overlay configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// LoadOverlay loads and validates overlay.json
func (l *Loader) LoadOverlay() (*OverlayConfig, error) {
	data, err := fs.ReadFile(l.fsys, "overlay.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/overlay.json: %w", l.basePath, err)
	}

	var cfg OverlayConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse overlay.json: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks frame geometry and that every control is placed once inside the frame
func (c *OverlayConfig) Validate() error {
	v := c.Video
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("overlay size %dx%d: %w", v.Width, v.Height, entity.ErrInvalidInput)
	}
	if v.FrameRate <= 0 {
		return fmt.Errorf("overlay frame rate %d: %w", v.FrameRate, entity.ErrInvalidInput)
	}
	if c.Label.FontSize <= 0 {
		return fmt.Errorf("overlay font size %v: %w", c.Label.FontSize, entity.ErrInvalidInput)
	}
	if v.IntermediateCodec == "" {
		return fmt.Errorf("overlay intermediate codec is empty: %w", entity.ErrInvalidInput)
	}

	seen := make(map[entity.Key]bool, len(entity.AllKeys))
	for _, k := range c.Keys {
		key, ok := entity.ParseKey(k.Key)
		if !ok {
			return fmt.Errorf("overlay key %q is unknown: %w", k.Key, entity.ErrInvalidInput)
		}
		if seen[key] {
			return fmt.Errorf("overlay key %q placed twice: %w", k.Key, entity.ErrInvalidInput)
		}
		seen[key] = true

		if k.Width <= 0 || k.Height <= 0 || k.X < 0 || k.Y < 0 || k.X+k.Width > v.Width || k.Y+k.Height > v.Height {
			return fmt.Errorf("overlay key %q at (%d,%d %dx%d) is outside the frame: %w",
				k.Key, k.X, k.Y, k.Width, k.Height, entity.ErrInvalidInput)
		}
	}

	for _, key := range entity.AllKeys {
		if !seen[key] {
			return fmt.Errorf("overlay key %q has no position: %w", key, entity.ErrInvalidInput)
		}
	}

	return nil
}
