// Command keyviz renders a player's keyboard and mouse inputs from a CS2
// demo into overlay videos, one per round or tick range.
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//go:embed configs
var configFS embed.FS

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// execute runs keyviz with args and returns the exit code
func execute(args []string, stdout, stderr io.Writer) int {
	job, err := parseArgs(args, stdout)
	if errors.Is(err, errHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	logger := newLogger(job.Verbose, stderr)
	defer func() { _ = logger.Sync() }()

	configs, err := fs.Sub(configFS, "configs")
	if err != nil {
		logger.Error("failed to open built in configs", zap.Error(err))
		return exitInput
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(job, logger, configs).run(ctx, job); err != nil {
		logger.Error("keyviz failed", zap.Error(err))
		return exitCode(err)
	}
	return exitOK
}
