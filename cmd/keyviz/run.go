package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/younwookim/keyviz/internal/application/game"
	"github.com/younwookim/keyviz/internal/application/pipeline"
	"github.com/younwookim/keyviz/internal/application/render"
	"github.com/younwookim/keyviz/internal/application/replay"
	"github.com/younwookim/keyviz/internal/application/scene/preview"
	"github.com/younwookim/keyviz/internal/domain/entity"
	"github.com/younwookim/keyviz/internal/infrastructure/cache"
	"github.com/younwookim/keyviz/internal/infrastructure/config"
	"github.com/younwookim/keyviz/internal/infrastructure/demo"
	"github.com/younwookim/keyviz/internal/infrastructure/video"
	"go.uber.org/zap"
)

// Exit codes
const (
	exitOK     = 0
	exitInput  = 1
	exitParse  = 2
	exitEncode = 3
)

const windowTitle = "keyviz"

// exitCode maps an error to the process exit code
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, errHelp):
		return exitOK
	case errors.Is(err, entity.ErrEncode):
		return exitEncode
	case errors.Is(err, entity.ErrReplayParse):
		return exitParse
	default:
		return exitInput
	}
}

// PreviewFunc plays a sampled segment
type PreviewFunc func(title string, sampler *replay.Sampler, renderer *render.Renderer, fps int) error

// app holds the collaborators of one run
type app struct {
	logger       *zap.Logger
	configs      fs.FS
	intermediate pipeline.Intermediate
	encoder      pipeline.VideoEncoder
	preview      PreviewFunc
}

func newApp(job *Job, logger *zap.Logger, configs fs.FS) *app {
	inter := video.NewIntermediate(job.FFmpeg, logger)
	return &app{
		logger:  logger,
		configs: configs,
		intermediate: pipeline.IntermediateFunc(func(ctx context.Context, path string, spec video.Spec) (pipeline.FrameWriter, error) {
			w, err := inter.Create(ctx, path, spec)
			if err != nil {
				return nil, err
			}
			return w, nil
		}),
		encoder: video.NewEncoder(job.FFmpeg, job.Codec, logger),
		preview: runPreview,
	}
}

func (a *app) loadOverlay(job *Job) (*config.OverlayConfig, error) {
	loader := config.NewFSLoader(a.configs, "configs")
	if job.ConfigDir != "" {
		loader = config.NewLoader(job.ConfigDir)
	}
	cfg, err := loader.LoadOverlay()
	if err != nil && !errors.Is(err, entity.ErrInvalidInput) {
		err = fmt.Errorf("%w: %w", err, entity.ErrInvalidInput)
	}
	return cfg, err
}

// openReader picks the demo or dump reader and wraps it with the cache.
// The returned func releases the cache.
func (a *app) openReader(job *Job) (pipeline.ReplayReader, func()) {
	var src pipeline.ReplayReader
	if job.isDump() {
		src = replay.FileReader{}
	} else {
		dr := demo.NewReader(a.logger)
		dr.TickRate = job.TickRate
		src = dr
	}

	if job.Cache == "" {
		return src, func() {}
	}

	store, err := cache.Open(job.Cache)
	if err != nil {
		a.logger.Warn("tick cache unavailable, reading without it", zap.String("cache", job.Cache), zap.Error(err))
		return src, func() {}
	}
	return cache.NewReader(store, src, a.logger), func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("failed to close tick cache", zap.Error(err))
		}
	}
}

func plan(job *Job, data *replay.ReplayData) ([]pipeline.Segment, error) {
	if job.Range != nil {
		return pipeline.PlanTicks(data, job.Args.Output, *job.Range)
	}
	return pipeline.PlanRounds(data, job.Args.Output, job.Selector)
}

// run reads the replay and renders every selected segment
func (a *app) run(ctx context.Context, job *Job) error {
	overlay, err := a.loadOverlay(job)
	if err != nil {
		return err
	}

	reader, release := a.openReader(job)
	defer release()

	a.logger.Info("reading replay", zap.String("path", job.Args.Demo), zap.String("player", job.Args.Player))
	data, err := reader.Read(ctx, job.Args.Demo, job.Args.Player)
	if err != nil {
		return err
	}
	if data.Truncated {
		a.logger.Warn("replay ended unexpectedly, using the ticks read so far")
	}
	a.logger.Info("replay read",
		zap.Int("rows", len(data.Rows)),
		zap.Int("roundMarks", len(data.RoundMarks)))

	if job.Dump != "" {
		if err := replay.SaveReplay(job.Dump, data); err != nil {
			return err
		}
		a.logger.Info("tick data written", zap.String("path", job.Dump))
	}

	segments, err := plan(job, data)
	if err != nil {
		return err
	}
	track := replay.NewPlayerTrack(data.Rows)

	if job.Preview {
		return a.runPreview(job, overlay, track, segments[0])
	}

	if err := os.MkdirAll(filepath.Dir(job.Args.Output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.MkdirAll(job.WorkDir, 0o755); err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	proc := pipeline.NewProcessor(overlay, a.intermediate, a.encoder, a.logger)
	proc.TickRate = job.TickRate
	proc.Workers = job.Processes
	proc.WorkDir = job.WorkDir
	defer func() {
		if n := proc.Sweep(); n > 0 {
			a.logger.Debug("removed leftover intermediates", zap.Int("count", n))
		}
	}()

	a.logger.Info("rendering segments", zap.Int("segments", len(segments)), zap.Int("workers", proc.Workers))
	results, err := proc.Run(ctx, track, segments)

	var written, empty, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			a.logger.Error("segment failed", zap.String("segment", r.Segment.Name), zap.Error(r.Err))
		case r.Empty:
			empty++
		default:
			written++
			if r.Skipped > 0 {
				a.logger.Debug("frames without data", zap.String("segment", r.Segment.Name), zap.Int("skipped", r.Skipped))
			}
		}
	}
	a.logger.Info("done", zap.Int("written", written), zap.Int("empty", empty), zap.Int("failed", failed))

	return err
}

func (a *app) runPreview(job *Job, overlay *config.OverlayConfig, track *replay.Track, seg pipeline.Segment) error {
	sampler, err := replay.NewSampler(track.Slice(seg.Start, seg.End), job.TickRate, overlay.Video.FrameRate)
	if err != nil {
		return err
	}
	if sampler.TotalFrames() == 0 {
		a.logger.Info("no player actions in this timeframe, nothing to preview", zap.String("segment", seg.Name))
		return nil
	}

	renderer, err := render.New(overlay)
	if err != nil {
		return err
	}

	a.logger.Info("previewing", zap.String("segment", seg.Name), zap.Int("frames", sampler.TotalFrames()))
	return a.preview(seg.Name, sampler, renderer, overlay.Video.FrameRate)
}

func runPreview(title string, sampler *replay.Sampler, renderer *render.Renderer, fps int) error {
	p := preview.New(title, sampler, renderer)
	b := renderer.Bounds()
	g := game.New(p, b.Dx(), b.Dy(), fps)
	return game.Run(g, windowTitle+" - "+title)
}
