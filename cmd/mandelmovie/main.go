// Command mandelmovie renders a zoom into the Mandelbrot set as a numbered
// image sequence, ready to be assembled into a movie by ffmpeg.
//
//	mandelmovie -x -0.743643 -y 0.131825 -s 4 -W 3840 -H 2160 -m 1000 -n 300 -p 8 -t 4
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/config"
	"github.com/marben/mandelzoom/internal/output"
	"github.com/marben/mandelzoom/internal/progress"
)

// thumbnailsPerSecond caps the thumbnails streamed to the dashboard.
const thumbnailsPerSecond = 4

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(1)
		}
		log.Fatalf("mandelmovie: %v", err)
	}
}

type options struct {
	workerRange string
	verbose     bool
}

func run(args []string) error {
	var opts options
	cfg, err := config.Parse("mandelmovie", args, runtime.NumCPU(), func(fs *flag.FlagSet) {
		fs.StringVar(&opts.workerRange, "worker-range", "", "internal: render frames start:end as a child process")
		fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	})
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	mandel.SetLogger(logger)

	if err := cfg.Validate(); err != nil {
		return err
	}

	palette, err := mandel.ParsePalette(cfg.Palette)
	if err != nil {
		return err
	}
	store, err := output.NewFileStore(cfg.Dir, cfg.Output, cfg.Format, cfg.Preview)
	if err != nil {
		return err
	}
	worker := &mandel.FrameWorker{
		Schedule:      cfg.Schedule(),
		MaxIterations: cfg.MaxIterations,
		RowWorkers:    cfg.RowWorkers,
		Renderer:      mandel.NewRenderer(palette),
		Store:         store,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.workerRange != "" {
		return runChild(ctx, worker, opts.workerRange)
	}
	if cfg.Preview {
		return runPreview(worker, store)
	}
	return runBatch(ctx, cfg, worker, store, args)
}

// runChild is the body of a worker process started by the process launcher.
// Stdin and stdout carry the report connection to the parent only.
func runChild(ctx context.Context, worker *mandel.FrameWorker, arg string) error {
	r, err := mandel.ParseFrameRange(arg)
	if err != nil {
		return err
	}
	if r.End > worker.Schedule.Frames {
		return fmt.Errorf("frame range %s exceeds %d frames", r, worker.Schedule.Frames)
	}
	rc, err := mandel.NewReportClient(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("connect to parent: %w", err)
	}
	defer rc.Close()

	// Stop rendering once nobody is listening for the frames.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(rc.Context(), cancel)
	defer stop()

	return worker.Launch(ctx, r, rc.Done)
}

func runPreview(worker *mandel.FrameWorker, store *output.FileStore) error {
	i, err := worker.Preview()
	if err != nil {
		return err
	}
	name, _ := store.Name(i)
	fmt.Printf("Generated final preview image: %s\n", name)
	return nil
}

func runBatch(ctx context.Context, cfg config.Config, worker *mandel.FrameWorker, store *output.FileStore, args []string) error {
	center := cfg.Center()
	slog.Info("mandelmovie",
		"x", center.X,
		"y", center.Y,
		"xscale", cfg.StartScale,
		"yscale", cfg.StartScale*float64(cfg.Height)/float64(cfg.Width),
		"end_scale", cfg.EndScale,
		"max", cfg.MaxIterations,
		"images", cfg.Frames,
		"workers", cfg.FrameWorkers,
		"threads", cfg.RowWorkers,
		"isolation", cfg.Isolation,
		"palette", cfg.Palette)

	var pub progress.Publisher
	if cfg.Listen != "" {
		hub := progress.NewHub()
		srv := progress.NewServer(cfg.Listen, cfg.StaticDir, hub)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("progress server", "err", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		slog.Info("progress feed listening", "addr", cfg.Listen)
		pub = hub
	}
	tracker := progress.NewTracker(cfg.Frames, pub)

	var launcher mandel.Launcher
	switch cfg.Isolation {
	case config.IsolationProcess:
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		launcher = &mandel.ProcessLauncher{
			Path: exe,
			Args: func(r mandel.FrameRange) []string {
				// Later flags win: the child inherits the batch flags but
				// serves no feed and renders only its range.
				return append(append([]string(nil), args...), "-listen=", "-P=false", "-worker-range="+r.Flag())
			},
			Stderr: os.Stderr,
		}
	default:
		if pub != nil {
			w := *worker
			w.Store = progress.NewThumbnailStore(store, tracker, thumbnailsPerSecond)
			worker = &w
		}
		launcher = worker
	}

	d := &mandel.Dispatcher{Launcher: launcher, Workers: cfg.FrameWorkers, Observer: tracker}
	rep, err := d.Dispatch(ctx, cfg.Frames)
	tracker.Done()
	if err != nil {
		var inc *mandel.IncompleteError
		if errors.As(err, &inc) {
			for _, f := range inc.Failures {
				slog.Error("frames missing", "range", f.Range.String(), "frames", f.Missing(), "err", f.Err)
			}
		}
		return err
	}

	slog.Info(progress.Summary(rep, cfg.Width, cfg.Height))
	fmt.Println("All images generated.")
	if cmd, ok := output.FFmpegCommand(store, cfg.FPS); ok {
		fmt.Println("Use ffmpeg to create the movie:")
		fmt.Println(cmd)
	}
	return nil
}
