package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"github.com/younwookim/keyviz/internal/domain/entity"
	"go.uber.org/zap"
)

// Intermediate writes rendered frames to a lossless file through an ffmpeg pipe
type Intermediate struct {
	Binary string
	Logger *zap.Logger
}

// NewIntermediate creates an intermediate writer factory
func NewIntermediate(binary string, logger *zap.Logger) *Intermediate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Intermediate{Binary: binary, Logger: logger}
}

// Stream builds the ffmpeg invocation reading raw RGBA frames from stdin
func (i *Intermediate) Stream(path string, spec Spec) *ffmpeg.Stream {
	return ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"loglevel": "error",
		"format":   "rawvideo",
		"pix_fmt":  "rgba",
		"s":        spec.Size(),
		"r":        spec.FrameRate,
	}).
		Output(path, ffmpeg.KwArgs{"c:v": spec.Codec}).
		OverWriteOutput()
}

// Create starts ffmpeg writing to path. Frames are streamed with WriteFrame;
// Close flushes and waits for ffmpeg.
func (i *Intermediate) Create(ctx context.Context, path string, spec Spec) (*FrameWriter, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.FrameRate <= 0 {
		return nil, fmt.Errorf("intermediate %s: bad stream %s@%d: %w", path, spec.Size(), spec.FrameRate, entity.ErrInvalidInput)
	}

	pr, pw := io.Pipe()
	w := &FrameWriter{
		spec: spec,
		pw:   pw,
		done: make(chan error, 1),
	}

	cmd, err := command(i.Stream(path, spec).WithInput(pr).WithErrorOutput(&w.stderr), i.Binary)
	if err != nil {
		return nil, err
	}

	i.Logger.Debug("starting intermediate", zap.String("path", path), zap.Strings("args", cmd.Args))

	go func() {
		err := run(ctx, cmd, &w.stderr)
		// unblock WriteFrame if ffmpeg went away early
		if err != nil {
			_ = pr.CloseWithError(err)
		} else {
			_ = pr.CloseWithError(io.ErrClosedPipe)
		}
		w.done <- err
	}()

	return w, nil
}

// FrameWriter streams frames into a running ffmpeg process
type FrameWriter struct {
	spec   Spec
	pw     *io.PipeWriter
	done   chan error
	stderr bytes.Buffer
	frames int
	closed bool
	err    error
}

// WriteFrame writes one frame. The frame must match the stream size.
func (w *FrameWriter) WriteFrame(img *image.RGBA) error {
	if w.closed {
		return fmt.Errorf("write to closed intermediate")
	}
	b := img.Bounds()
	if b.Dx() != w.spec.Width || b.Dy() != w.spec.Height {
		return fmt.Errorf("frame %dx%d does not match stream %s: %w", b.Dx(), b.Dy(), w.spec.Size(), entity.ErrInvalidInput)
	}

	rowBytes := w.spec.Width * 4
	if img.Stride == rowBytes && b.Min == (image.Point{}) {
		if _, err := w.pw.Write(img.Pix[:w.spec.FrameBytes()]); err != nil {
			return fmt.Errorf("write frame %d: %w", w.frames, err)
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := img.PixOffset(b.Min.X, y)
			if _, err := w.pw.Write(img.Pix[off : off+rowBytes]); err != nil {
				return fmt.Errorf("write frame %d: %w", w.frames, err)
			}
		}
	}

	w.frames++
	return nil
}

// Frames returns the number of frames written
func (w *FrameWriter) Frames() int {
	return w.frames
}

// Close ends the stream and waits for ffmpeg to finish the file
func (w *FrameWriter) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	_ = w.pw.Close()
	w.err = <-w.done
	return w.err
}
