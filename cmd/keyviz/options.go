package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/younwookim/keyviz/internal/application/pipeline"
	"github.com/younwookim/keyviz/internal/application/round"
	"github.com/younwookim/keyviz/internal/domain/entity"
	"github.com/younwookim/keyviz/internal/infrastructure/video"
)

// Options are the command line flags and arguments
type Options struct {
	Rounds    string `short:"r" long:"rounds" description:"Rounds to render: comma separated numbers or 'all'" value-name:"LIST"`
	Ticks     string `long:"ticks" description:"Render one tick range START,END (END may be empty for the last tick)" value-name:"START,END"`
	TickRate  int    `long:"tickrate" description:"Server tick rate of the demo" default:"64"`
	Codec     string `long:"ffmpeg-codec" description:"Codec of the final videos" default:"libx264"`
	FFmpeg    string `long:"ffmpeg" description:"ffmpeg binary" default:"ffmpeg"`
	Processes int    `short:"p" long:"processes" description:"Segments rendered in parallel (default: number of CPUs)"`
	ConfigDir string `long:"config" description:"Directory with overlay.json (default: built in)" value-name:"DIR"`
	WorkDir   string `long:"work-dir" description:"Directory for intermediate files" default:"." value-name:"DIR"`
	Cache     string `long:"cache" description:"SQLite file caching parsed demos" value-name:"FILE"`
	Dump      string `long:"dump" description:"Write the parsed tick data as JSON" value-name:"FILE"`
	Preview   bool   `long:"preview" description:"Play the first segment in a window instead of writing videos"`
	Verbose   bool   `short:"v" long:"verbose" description:"Debug logging"`

	Args struct {
		Demo   string `positional-arg-name:"DEMO" description:"CS2 .dem file, or a .json tick dump"`
		Player string `positional-arg-name:"PLAYER" description:"Exact in-game player name"`
		Output string `positional-arg-name:"OUTPUT_BASE" description:"Output path without extension"`
	} `positional-args:"yes" required:"yes"`
}

// Job is a validated invocation
type Job struct {
	Options
	Selector round.Selector
	Range    *pipeline.TickRange // nil in round mode
}

// errHelp is returned when usage was printed
var errHelp = errors.New("help requested")

// parseArgs parses and validates args. Nothing is read from disk.
func parseArgs(args []string, stdout io.Writer) (*Job, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = "[OPTIONS] DEMO PLAYER OUTPUT_BASE"

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			parser.WriteHelp(stdout)
			return nil, errHelp
		}
		return nil, fmt.Errorf("%s: %w", err.Error(), entity.ErrInvalidInput)
	}

	return validate(opts)
}

func validate(opts Options) (*Job, error) {
	job := &Job{Options: opts}

	if strings.TrimSpace(opts.Args.Player) == "" {
		return nil, fmt.Errorf("player name is empty: %w", entity.ErrInvalidInput)
	}
	if opts.TickRate <= 0 {
		return nil, fmt.Errorf("tickrate %d must be positive: %w", opts.TickRate, entity.ErrInvalidInput)
	}
	if opts.Processes < 0 {
		return nil, fmt.Errorf("processes %d must not be negative: %w", opts.Processes, entity.ErrInvalidInput)
	}
	if job.Processes == 0 {
		job.Processes = runtime.NumCPU()
	}
	if strings.TrimSpace(opts.Codec) == "" {
		return nil, fmt.Errorf("ffmpeg codec is empty: %w", entity.ErrInvalidInput)
	}
	if job.FFmpeg == "" {
		job.FFmpeg = video.DefaultBinary
	}

	if opts.Ticks != "" {
		if opts.Rounds != "" {
			return nil, fmt.Errorf("--ticks and --rounds cannot be used together: %w", entity.ErrInvalidInput)
		}
		r, err := pipeline.ParseTickRange(opts.Ticks)
		if err != nil {
			return nil, err
		}
		job.Range = &r
		return job, nil
	}

	sel, err := round.ParseSelector(opts.Rounds)
	if err != nil {
		return nil, err
	}
	job.Selector = sel
	return job, nil
}

// isDump reports whether the input is a tick dump rather than a demo
func (j *Job) isDump() bool {
	return strings.EqualFold(filepath.Ext(j.Args.Demo), ".json")
}
