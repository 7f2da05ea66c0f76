package cache

import (
	"context"

	"github.com/younwookim/keyviz/internal/application/replay"
	"go.uber.org/zap"
)

// Source reads replay data on a cache miss
type Source interface {
	Read(ctx context.Context, path, player string) (*replay.ReplayData, error)
}

// Reader serves replay data from the store and falls back to Source.
// Cache failures are logged and never fail a read.
type Reader struct {
	store  *Store
	source Source
	logger *zap.Logger
}

// NewReader wraps source with store
func NewReader(store *Store, source Source, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{store: store, source: source, logger: logger}
}

// Read implements the pipeline replay reader
func (r *Reader) Read(ctx context.Context, path, player string) (*replay.ReplayData, error) {
	key, err := Key(path, player)
	if err != nil {
		// let the source report the missing file in its own terms
		return r.source.Read(ctx, path, player)
	}

	data, ok, err := r.store.Get(ctx, key)
	switch {
	case err != nil:
		r.logger.Warn("cache lookup failed", zap.String("demo", path), zap.Error(err))
	case ok:
		r.logger.Info("using cached ticks", zap.String("demo", path), zap.Int("rows", len(data.Rows)))
		return data, nil
	}

	data, err = r.source.Read(ctx, path, player)
	if err != nil {
		return nil, err
	}

	if err := r.store.Put(ctx, key, data); err != nil {
		r.logger.Warn("cache store failed", zap.String("demo", path), zap.Error(err))
	}
	return data, nil
}
