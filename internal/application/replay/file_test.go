package replay

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/keyviz/internal/domain/entity"
)

func testData() *ReplayData {
	return &ReplayData{
		Version: DataVersion,
		Source:  "match.dem",
		Player:  "s1mple",
		RoundMarks: []entity.RoundEvent{
			{Kind: entity.RoundStart, Tick: 5},
			{Kind: entity.RoundEnd, Tick: 100},
		},
		Rows: []entity.TickRow{
			{Tick: 5, Forward: true},
			{Tick: 6, Forward: true, DuckAmount: 0.97},
			{Tick: 8, Airborne: true, VelocityZ: 250},
		},
	}
}

func TestSaveAndLoadReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, SaveReplay(path, testData()))

	loaded, err := LoadReplay(path)
	require.NoError(t, err)

	assert.Equal(t, "s1mple", loaded.Player)
	assert.Equal(t, testData().RoundMarks, loaded.RoundMarks)
	assert.Equal(t, testData().Rows, loaded.Rows)
}

func TestSaveReplay_NoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	err := SaveReplay(path, &ReplayData{Player: "x"})
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

// closeFailer buffers writes and fails on Close like a file whose flush failed
type closeFailer struct {
	bytes.Buffer
	err error
}

func (c *closeFailer) Close() error { return c.err }

func TestWriteReplay_ReportsCloseError(t *testing.T) {
	w := &closeFailer{err: errors.New("disk full")}

	err := writeReplay(w, testData())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotZero(t, w.Len(), "data was encoded before close")
}

func TestWriteReplay_Closes(t *testing.T) {
	w := &closeFailer{}
	require.NoError(t, writeReplay(w, testData()))
	assert.Contains(t, w.String(), `"player": "s1mple"`)
}

func TestLoadReplay_MissingFieldsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"player":"p","rows":[{"tick":3},{"tick":4,"forward":true}]}`), 0o644))

	loaded, err := LoadReplay(path)
	require.NoError(t, err)
	require.Len(t, loaded.Rows, 2)
	assert.Equal(t, entity.TickRow{Tick: 3}, loaded.Rows[0])
	assert.Equal(t, 0.0, loaded.Rows[1].DuckAmount)
}

func TestLoadReplay_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rows": [`), 0o644))

	_, err := LoadReplay(path)
	assert.ErrorIs(t, err, entity.ErrReplayParse)
}

func TestFileReader_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, SaveReplay(path, testData()))

	data, err := FileReader{}.Read(context.Background(), path, "s1mple")
	require.NoError(t, err)
	assert.Len(t, data.Rows, 3)

	_, err = FileReader{}.Read(context.Background(), path, "S1MPLE")
	assert.ErrorIs(t, err, entity.ErrPlayerNotFound)
}
