// Command glpipe runs a transform feedback capture job and prints the
// captured varyings.
//
// Usage:
//
//	glpipe -manifest job.toml [-watch] [-frames n] [-device name] [-v]
//
// The job is described by a TOML manifest (see internal/manifest). With
// -watch the stage files are watched and every change reloads the stage
// and runs the capture again.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend"
	"github.com/gogpu/glpipe/device"
	_ "github.com/gogpu/glpipe/device/gldevice"
	"github.com/gogpu/glpipe/internal/manifest"
)

func init() {
	// The GL context is bound to the thread that created it.
	runtime.LockOSThread()
}

type config struct {
	manifest string
	device   string
	watch    bool
	frames   int
	verbose  bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.manifest, "manifest", "glpipe.toml", "job manifest")
	flag.StringVar(&cfg.device, "device", "", "device backend (default: best available)")
	flag.BoolVar(&cfg.watch, "watch", false, "rerun when stage files change")
	flag.IntVar(&cfg.frames, "frames", 1, "capture passes to run; 0 runs until interrupted with -watch")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("glpipe: %v", err)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openDevice(name string) (device.Device, error) {
	if name == "" {
		return backend.Default()
	}
	return backend.Open(name)
}

func run(cfg config) error {
	logger := newLogger(os.Stderr, cfg.verbose)
	glpipe.SetLogger(logger)

	m, err := manifest.Load(cfg.manifest)
	if err != nil {
		return err
	}

	win, err := openContext()
	if err != nil {
		return err
	}
	defer closeContext(win)

	dev, err := openDevice(cfg.device)
	if err != nil {
		return err
	}
	j, err := newJob(glpipe.NewContext(dev), m)
	if err != nil {
		return err
	}
	defer j.close()

	if !cfg.watch {
		for range max(cfg.frames, 1) {
			if err := pass(j, os.Stdout); err != nil {
				return err
			}
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	changed, err := watchStages(ctx, j.paths(), logger)
	if err != nil {
		return err
	}
	return watchLoop(ctx, j, changed, cfg.frames, os.Stdout, logger)
}

// watchLoop runs a pass, then one more per reloaded stage until ctx is
// done, changed closes or frames passes ran.
func watchLoop(ctx context.Context, j *job, changed <-chan string, frames int, w io.Writer, logger *slog.Logger) error {
	passes := 0
	report := func() {
		if err := pass(j, w); err != nil {
			logger.Error("capture pass failed", "err", err)
		}
		passes++
	}
	report()
	for frames <= 0 || passes < frames {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-changed:
			if !ok {
				return nil
			}
			mine, err := j.reload(path)
			if !mine {
				continue
			}
			if err != nil {
				logger.Error("reload failed", "path", path, "err", err)
				continue
			}
			logger.Info("stage reloaded", "path", path)
			report()
		}
	}
	return nil
}

// pass runs one capture and prints its result, or the driver logs when
// the program could not be built.
func pass(j *job, w io.Writer) error {
	if err := j.run(); err != nil {
		printLogs(w, j)
		return err
	}
	if len(j.m.Varyings) == 0 {
		return nil
	}
	return printCapture(w, j.prog.Output())
}

func printLogs(w io.Writer, j *job) {
	for i, s := range j.stages {
		if s.Status() == glpipe.CompileFailed {
			fmt.Fprintf(w, "stage %s:\n%s\n", j.m.Stages[i].Path, s.InfoLog())
		}
	}
	if j.prog.Status() == glpipe.LinkFailed {
		fmt.Fprintf(w, "link:\n%s\n", j.prog.InfoLog())
	}
}
