// Package video drives the external ffmpeg process: it writes the lossless
// intermediate stream from rendered frames and transcodes it into the
// delivery format.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"github.com/younwookim/keyviz/internal/domain/entity"
	"go.uber.org/zap"
)

// DefaultBinary is looked up in PATH when no ffmpeg path is configured
const DefaultBinary = "ffmpeg"

// waitDelay bounds how long Wait keeps reading ffmpeg's stderr after it exits
const waitDelay = 2 * time.Second

// Spec describes a raw frame stream
type Spec struct {
	Width     int
	Height    int
	FrameRate int
	Codec     string // output codec of the intermediate file, e.g. "ffv1"
}

// Size returns the ffmpeg -s value
func (s Spec) Size() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// FrameBytes returns the size of one RGBA frame
func (s Spec) FrameBytes() int {
	return s.Width * s.Height * 4
}

// command turns a compiled stream into a runnable command for binary
func command(stream *ffmpeg.Stream, binary string) (*exec.Cmd, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found (%s): %v: %w", binary, err, entity.ErrEncode)
	}

	cmd := stream.Compile()
	cmd.Path = path
	cmd.Args[0] = binary
	cmd.Err = nil
	cmd.WaitDelay = waitDelay
	return cmd, nil
}

// run starts cmd and waits for it, killing the process when ctx ends
func run(ctx context.Context, cmd *exec.Cmd, stderr *bytes.Buffer) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %v: %w", err, entity.ErrEncode)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return fmt.Errorf("ffmpeg interrupted: %w", errors.Join(ctx.Err(), entity.ErrEncode))
	}

	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("ffmpeg: %v: %w", err, entity.ErrEncode)
		}
		return fmt.Errorf("ffmpeg: %v: %s: %w", err, msg, entity.ErrEncode)
	}
	return nil
}

// Encoder transcodes finished intermediates into the delivery codec
type Encoder struct {
	Binary string
	Codec  string
	Logger *zap.Logger
}

// NewEncoder creates an encoder for codec (e.g. "libx264")
func NewEncoder(binary, codec string, logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{Binary: binary, Codec: codec, Logger: logger}
}

// Stream builds the ffmpeg invocation for src -> dst
func (e *Encoder) Stream(src, dst string) *ffmpeg.Stream {
	return ffmpeg.Input(src, ffmpeg.KwArgs{"loglevel": "error"}).
		Output(dst, ffmpeg.KwArgs{"c:v": e.Codec, "pix_fmt": "yuv420p"}).
		OverWriteOutput()
}

// Encode runs ffmpeg and waits for it. A non-zero exit is reported as entity.ErrEncode.
func (e *Encoder) Encode(ctx context.Context, src, dst string) error {
	var stderr bytes.Buffer
	cmd, err := command(e.Stream(src, dst).WithErrorOutput(&stderr), e.Binary)
	if err != nil {
		return err
	}

	e.Logger.Debug("encoding", zap.String("src", src), zap.String("dst", dst), zap.Strings("args", cmd.Args))
	if err := run(ctx, cmd, &stderr); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return nil
}
