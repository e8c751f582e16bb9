package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ligustah/goesdl/internal/downloader"
	"github.com/ligustah/goesdl/internal/progress"
	"github.com/ligustah/goesdl/internal/raster/gdalraster"
	"github.com/ligustah/goesdl/pkg/goes"
)

func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	common := addCommonFlags(fs)
	window := addWindowFlags(fs)

	var (
		exact    string
		geotiff  bool
		progress bool
	)
	fs.StringVar(&exact, "exact", "", "Only download files whose scan starts exactly at this instant")
	fs.BoolVar(&geotiff, "geotiff", false, "Convert each downloaded file to GeoTIFF")
	fs.BoolVar(&progress, "progress", false, "Print per-file progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goesdl download [options]

Download the product files within the time window to DIR/NetCDF/<product>/,
optionally converting them to DIR/GTif/<product>/.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # All CONUS radiance files one hour either side of 20:00 UTC
  goesdl download -time 2021-12-31T20:00:00Z -dir ./data

  # Only the scan that started at 20:00, converted to GeoTIFF
  goesdl download -time 2021-12-31T20:00:00Z -buffer 10m -exact 2021-12-31T20:00:00Z -geotiff
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := common.load()
	if err != nil {
		return fail(err, ExitInvalidArgs)
	}
	if geotiff {
		cfg.GeoTIFF = true
	}
	rng, err := window.resolve(cfg)
	if err != nil {
		return fail(err, ExitInvalidArgs)
	}
	var start time.Time
	if exact != "" {
		if start, err = parseTime(exact); err != nil {
			return fail(err, ExitInvalidArgs)
		}
		if !rng.Contains(start) {
			return fail(fmt.Errorf("%w: -exact %s is outside the window %s", goes.ErrInvalidArgument, exact, rng), ExitInvalidArgs)
		}
	}
	loc, err := cfg.Location()
	if err != nil {
		return fail(err, ExitInvalidArgs)
	}

	logger := newLogger(cfg.Verbose)
	rec := newMetrics(cfg)
	if rec != nil {
		defer writeMetrics(logger, cfg, rec)
	}

	ctx, cancel := signalContext()
	defer cancel()

	sat := goes.Satellite(cfg.Satellite)
	bucket, err := goes.URLOpener(cfg.BucketURL)(ctx, sat)
	if err != nil {
		return fail(err, ExitStorageError)
	}
	defer bucket.Close()

	cat, err := goes.ListBucket(ctx, bucket, goes.Query{
		Start:     rng.Start,
		End:       rng.End,
		Product:   cfg.Product,
		Satellite: sat,
	}, goes.WithLogger(logger), goes.WithObserver(rec))
	if err != nil {
		return fail(err, ExitStorageError)
	}

	opts := downloader.Options{
		BaseDir:  cfg.BaseDir,
		Start:    start,
		GeoTIFF:  cfg.GeoTIFF,
		Location: loc,
		Logger:   logger,
		Metrics:  rec,
	}
	if cfg.GeoTIFF {
		conv := gdalraster.New(cfg.CreationOptions...)
		conv.Logger = logger
		opts.Converter = conv
	}
	if progress {
		opts.Progress = os.Stderr
	}

	res, err := downloader.Download(ctx, bucket, cat, opts)
	if err != nil {
		return fail(err, ExitStorageError)
	}

	fmt.Fprintf(os.Stderr, "[goesdl] Downloaded %d files (%s) to %s\n",
		len(res.Files), progress.FormatBytes(res.Bytes), downloader.NetCDFPath(cfg.BaseDir, res.Product))
	for _, f := range res.Files {
		fmt.Fprintln(stdout, f.Path)
		for _, r := range f.Rasters {
			fmt.Fprintln(stdout, r)
		}
	}
	return ExitSuccess
}
