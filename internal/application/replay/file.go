package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/younwookim/keyviz/internal/domain/entity"
)

// LoadReplay loads a tick dump written by SaveReplay
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode tick dump %s: %v: %w", filename, err, entity.ErrReplayParse)
	}

	return &data, nil
}

// SaveReplay writes the replay data to a file as indented JSON
func SaveReplay(filename string, data *ReplayData) error {
	if len(data.Rows) == 0 {
		return fmt.Errorf("no rows to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return writeReplay(file, data)
}

// writeReplay encodes data into w and closes it. A close failure is reported.
func writeReplay(w io.WriteCloser, data *ReplayData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return errors.Join(fmt.Errorf("failed to encode tick dump: %w", err), w.Close())
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close tick dump: %w", err)
	}
	return nil
}

// FileReader reads tick dumps in place of demo files
type FileReader struct{}

// Read loads the dump at path and checks it belongs to player
func (FileReader) Read(_ context.Context, path, player string) (*ReplayData, error) {
	data, err := LoadReplay(path)
	if err != nil {
		return nil, err
	}
	if data.Player != player || len(data.Rows) == 0 {
		return nil, fmt.Errorf("%q in %s: %w", player, path, entity.ErrPlayerNotFound)
	}
	return data, nil
}
