package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ligustah/goesdl/internal/config"
	"github.com/ligustah/goesdl/internal/downloader"
	"github.com/ligustah/goesdl/internal/metrics"
	"github.com/ligustah/goesdl/internal/timerange"
	"github.com/ligustah/goesdl/pkg/goes"
)

// commonFlags are shared by every command.
type commonFlags struct {
	configPath  string
	bucketURL   string
	satellite   string
	product     string
	timezone    string
	baseDir     string
	metricsFile string
	verbose     bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	f := &commonFlags{}
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.bucketURL, "bucket-url", "", "Bucket URL template, {satellite} is replaced (default "+goes.DefaultBucketURL+")")
	fs.StringVar(&f.satellite, "satellite", "", "Satellite: 16, 17 or 18 (default 16)")
	fs.StringVar(&f.product, "product", "", "Product id (default "+goes.DefaultProduct+")")
	fs.StringVar(&f.timezone, "tz", "", "Timezone for output file names (default "+goes.DefaultTimezone+")")
	fs.StringVar(&f.baseDir, "dir", "", "Base output directory (default .)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics here")
	fs.BoolVar(&f.verbose, "verbose", false, "Log every file")
	return f
}

// load builds the configuration: defaults, then file, then environment,
// then flags.
func (f *commonFlags) load() (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	override := config.Config{
		BucketURL:   f.bucketURL,
		Product:     f.product,
		Timezone:    f.timezone,
		BaseDir:     f.baseDir,
		MetricsFile: f.metricsFile,
		Verbose:     f.verbose,
	}
	if f.satellite != "" {
		sat, err := goes.ParseSatellite(f.satellite)
		if err != nil {
			return config.Config{}, err
		}
		override.Satellite = int(sat)
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// windowFlags select the time range to list.
type windowFlags struct {
	center string
	start  string
	end    string
	buffer string
	before string
	after  string
}

func addWindowFlags(fs *flag.FlagSet) *windowFlags {
	w := &windowFlags{}
	fs.StringVar(&w.center, "time", "", "Center of the window (RFC 3339, UTC if no zone)")
	fs.StringVar(&w.buffer, "buffer", "", "Buffer on both sides of -time, e.g. 60 (minutes) or 1h")
	fs.StringVar(&w.before, "before", "", "Buffer before -time (overrides -buffer)")
	fs.StringVar(&w.after, "after", "", "Buffer after -time (overrides -buffer)")
	fs.StringVar(&w.start, "start", "", "Window start, instead of -time")
	fs.StringVar(&w.end, "end", "", "Window end, instead of -time")
	return w
}

func (w *windowFlags) resolve(cfg config.Config) (timerange.Range, error) {
	if w.start != "" || w.end != "" {
		if w.start == "" || w.end == "" {
			return timerange.Range{}, fmt.Errorf("%w: -start and -end must be given together", goes.ErrInvalidArgument)
		}
		start, err := parseTime(w.start)
		if err != nil {
			return timerange.Range{}, err
		}
		end, err := parseTime(w.end)
		if err != nil {
			return timerange.Range{}, err
		}
		return timerange.Range{Start: start, End: end}, nil
	}

	if w.center == "" {
		return timerange.Range{}, fmt.Errorf("%w: -time or -start/-end is required", goes.ErrInvalidArgument)
	}
	center, err := parseTime(w.center)
	if err != nil {
		return timerange.Range{}, err
	}

	before, after := cfg.Before, cfg.After
	if w.buffer != "" {
		d, err := parseBuffer(w.buffer)
		if err != nil {
			return timerange.Range{}, err
		}
		if w.before == "" && w.after == "" {
			return timerange.Symmetric(center, d), nil
		}
		before, after = d, d
	}
	if w.before != "" {
		if before, err = parseBuffer(w.before); err != nil {
			return timerange.Range{}, err
		}
	}
	if w.after != "" {
		if after, err = parseBuffer(w.after); err != nil {
			return timerange.Range{}, err
		}
	}
	return timerange.Around(center, before, after), nil
}

func parseBuffer(s string) (time.Duration, error) {
	d, err := timerange.ParseBuffer(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", goes.ErrInvalidArgument, err)
	}
	return d, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseTime parses an instant; values without a zone are UTC.
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse time %q", goes.ErrInvalidArgument, s)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newMetrics(cfg config.Config) *metrics.Recorder {
	if cfg.MetricsFile == "" {
		return nil
	}
	return metrics.New()
}

func writeMetrics(logger *slog.Logger, cfg config.Config, rec *metrics.Recorder) {
	if err := rec.WriteFile(cfg.MetricsFile); err != nil {
		logger.Error("write metrics", "path", cfg.MetricsFile, "error", err)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\n[goesdl] Received interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// exitCode maps an error to a process exit code. fallback is used for
// errors outside the known categories.
func exitCode(err error, fallback int) int {
	var convErr *downloader.ConversionError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, goes.ErrInvalidArgument):
		return ExitInvalidArgs
	case errors.Is(err, goes.ErrMalformedKey):
		return ExitStorageError
	case errors.Is(err, downloader.ErrPrecondition):
		return ExitPrecondition
	case errors.As(err, &convErr):
		return ExitConversionError
	case errors.Is(err, context.Canceled):
		return ExitGeneralError
	default:
		return fallback
	}
}

// fail prints err and returns its exit code.
func fail(err error, fallback int) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitCode(err, fallback)
}
