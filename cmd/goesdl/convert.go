package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ligustah/goesdl/internal/downloader"
	"github.com/ligustah/goesdl/internal/raster"
	"github.com/ligustah/goesdl/internal/raster/gdalraster"
	"github.com/ligustah/goesdl/pkg/goes"
)

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	common := addCommonFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goesdl convert [options]

Convert files previously downloaded to DIR/NetCDF/<product>/ into
GeoTIFF rasters under DIR/GTif/<product>/. The bucket is not contacted.

Converted variables: %s

Options:
`, strings.Join(raster.Variables(), ", "))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := common.load()
	if err != nil {
		return fail(err, ExitInvalidArgs)
	}
	loc, err := cfg.Location()
	if err != nil {
		return fail(err, ExitInvalidArgs)
	}
	product, err := goes.ShortName(cfg.Product)
	if err != nil {
		return fail(fmt.Errorf("%w: -product: %w", goes.ErrInvalidArgument, err), ExitInvalidArgs)
	}

	logger := newLogger(cfg.Verbose)
	rec := newMetrics(cfg)
	if rec != nil {
		defer writeMetrics(logger, cfg, rec)
	}

	ctx, cancel := signalContext()
	defer cancel()

	conv := gdalraster.New(cfg.CreationOptions...)
	conv.Logger = logger

	res, err := downloader.ConvertLocal(ctx, product, downloader.Options{
		BaseDir:   cfg.BaseDir,
		Converter: conv,
		Location:  loc,
		Logger:    logger,
		Metrics:   rec,
	})
	if err != nil {
		return fail(err, ExitGeneralError)
	}

	n := 0
	for _, f := range res.Files {
		for _, r := range f.Rasters {
			fmt.Fprintln(stdout, r)
			n++
		}
	}
	fmt.Fprintf(os.Stderr, "[goesdl] Wrote %d rasters from %d files to %s\n",
		n, len(res.Files), downloader.GeoTIFFPath(cfg.BaseDir, product))
	return ExitSuccess
}
