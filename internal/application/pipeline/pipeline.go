// Package pipeline turns selected tick ranges into overlay videos:
// sample, render, write the intermediate, encode, clean up.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/younwookim/keyviz/internal/application/render"
	"github.com/younwookim/keyviz/internal/application/replay"
	"github.com/younwookim/keyviz/internal/infrastructure/config"
	"github.com/younwookim/keyviz/internal/infrastructure/video"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TempPrefix starts the name of every intermediate file
const TempPrefix = "temp_keyviz_"

// ReplayReader produces the tick data of one player
type ReplayReader interface {
	Read(ctx context.Context, path, player string) (*replay.ReplayData, error)
}

// FrameWriter receives rendered frames of one intermediate file
type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// Intermediate opens lossless intermediate files
type Intermediate interface {
	Create(ctx context.Context, path string, spec video.Spec) (FrameWriter, error)
}

// IntermediateFunc adapts a function to Intermediate
type IntermediateFunc func(ctx context.Context, path string, spec video.Spec) (FrameWriter, error)

// Create calls f
func (f IntermediateFunc) Create(ctx context.Context, path string, spec video.Spec) (FrameWriter, error) {
	return f(ctx, path, spec)
}

// VideoEncoder transcodes a finished intermediate into the delivery file
type VideoEncoder interface {
	Encode(ctx context.Context, src, dst string) error
}

// Result is the outcome of one segment
type Result struct {
	Segment Segment
	Output  string // final video path, empty unless written
	Frames  int
	Skipped int  // frames without a row at or before their tick
	Empty   bool // no player rows in range, nothing written
	Err     error
	Elapsed time.Duration
}

// Processor renders segments into videos
type Processor struct {
	Overlay      *config.OverlayConfig
	TickRate     int
	Workers      int
	WorkDir      string
	Extension    string
	Intermediate Intermediate
	Encoder      VideoEncoder
	Logger       *zap.Logger

	newID func() string
}

// NewProcessor creates a processor with the default extension and one worker
func NewProcessor(overlay *config.OverlayConfig, inter Intermediate, enc VideoEncoder, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		Overlay:      overlay,
		TickRate:     replay.DefaultTickRate,
		Workers:      1,
		WorkDir:      ".",
		Extension:    ".mp4",
		Intermediate: inter,
		Encoder:      enc,
		Logger:       logger,
		newID:        uuid.NewString,
	}
}

func (p *Processor) spec() video.Spec {
	v := p.Overlay.Video
	return video.Spec{Width: v.Width, Height: v.Height, FrameRate: v.FrameRate, Codec: v.IntermediateCodec}
}

// Run processes segments over track with at most Workers at a time.
// A failing segment does not stop the others; every failure is returned
// joined, and results are in segment order.
func (p *Processor) Run(ctx context.Context, track *replay.Track, segments []Segment) ([]Result, error) {
	results := make([]Result, len(segments))

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, seg := range segments {
		g.Go(func() error {
			p.Logger.Info("processing segment",
				zap.String("segment", seg.Name),
				zap.Int("index", i+1),
				zap.Int("total", len(segments)))

			results[i] = p.Process(ctx, track.Slice(seg.Start, seg.End), seg)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Segment.Name, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

// Process renders and encodes one segment. track must already be limited
// to the segment's ticks.
func (p *Processor) Process(ctx context.Context, track *replay.Track, seg Segment) Result {
	started := time.Now()
	res := Result{Segment: seg}
	log := p.Logger.With(zap.String("segment", seg.Name))

	finish := func() Result {
		res.Elapsed = time.Since(started)
		return res
	}

	sampler, err := replay.NewSampler(track, p.TickRate, p.Overlay.Video.FrameRate)
	if err != nil {
		res.Err = err
		return finish()
	}
	if sampler.TotalFrames() == 0 {
		log.Info("no player actions in this timeframe, skipping")
		res.Empty = true
		return finish()
	}

	renderer, err := render.New(p.Overlay)
	if err != nil {
		res.Err = err
		return finish()
	}

	tmp := filepath.Join(p.WorkDir, TempPrefix+p.newID()+".avi")
	final := seg.Output + p.Extension

	frames, skipped, err := p.writeIntermediate(ctx, tmp, sampler, renderer)
	res.Skipped = skipped
	if err != nil {
		p.remove(log, tmp)
		res.Err = err
		return finish()
	}
	if frames == 0 {
		log.Info("no frame could be resolved, skipping")
		res.Empty = true
		return finish()
	}
	res.Frames = frames

	log.Info("encoding final video", zap.String("output", filepath.Base(final)), zap.Int("frames", frames))
	if err := p.Encoder.Encode(ctx, tmp, final); err != nil {
		p.remove(log, tmp)
		p.remove(log, final)
		res.Err = err
		return finish()
	}

	p.remove(log, tmp)
	res.Output = final
	res = finish()
	log.Info("segment done", zap.String("output", final), zap.Duration("elapsed", res.Elapsed))
	return res
}

// writeIntermediate renders every sampled frame into tmp. The file is only
// created once the first frame resolves.
func (p *Processor) writeIntermediate(ctx context.Context, tmp string, sampler *replay.Sampler, renderer *render.Renderer) (int, int, error) {
	var (
		w      FrameWriter
		frames int
		img    = image.NewRGBA(renderer.Bounds())
	)

	for {
		if err := ctx.Err(); err != nil {
			if w != nil {
				_ = w.Close()
			}
			return frames, sampler.Skipped(), err
		}

		f, ok := sampler.Next()
		if !ok {
			break
		}

		if w == nil {
			var err error
			if w, err = p.Intermediate.Create(ctx, tmp, p.spec()); err != nil {
				return 0, sampler.Skipped(), err
			}
		}

		renderer.RenderInto(img, f.Keys)
		if err := w.WriteFrame(img); err != nil {
			closeErr := w.Close()
			return frames, sampler.Skipped(), errors.Join(err, closeErr)
		}
		frames++
	}

	if w == nil {
		return 0, sampler.Skipped(), nil
	}
	if err := w.Close(); err != nil {
		return frames, sampler.Skipped(), err
	}
	return frames, sampler.Skipped(), nil
}

func (p *Processor) remove(log *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to remove file", zap.String("path", path), zap.Error(err))
	}
}

// Sweep removes intermediates left in the work dir by aborted runs
func (p *Processor) Sweep() int {
	matches, err := filepath.Glob(filepath.Join(p.WorkDir, TempPrefix+"*.avi"))
	if err != nil {
		return 0
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			removed++
		} else {
			p.Logger.Warn("failed to remove temporary file", zap.String("path", m), zap.Error(err))
		}
	}
	return removed
}
