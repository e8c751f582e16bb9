package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ligustah/goesdl/pkg/goes"
)

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	common := addCommonFlags(fs)
	window := addWindowFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: goesdl list [options]

Print the product files whose scan lies within the time window.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  goesdl list -time 2021-12-31T20:00:00Z -buffer 60
  goesdl list -satellite 18 -product ABI-L2-CMIPF -start 2023-06-01T00:00Z -end 2023-06-01T03:00Z
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := common.load()
	if err != nil {
		return fail(err, ExitInvalidArgs)
	}
	rng, err := window.resolve(cfg)
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

	logger.Debug("listing", "satellite", cfg.Satellite, "product", cfg.Product, "window", rng.String())

	cat, err := goes.List(ctx, goes.URLOpener(cfg.BucketURL), goes.Query{
		Start:     rng.Start,
		End:       rng.End,
		Product:   cfg.Product,
		Satellite: goes.Satellite(cfg.Satellite),
	}, goes.WithLogger(logger), goes.WithObserver(rec))
	if err != nil {
		return fail(err, ExitStorageError)
	}

	printCatalog(cat)
	fmt.Fprintf(os.Stderr, "[goesdl] %d files in %s\n", len(cat), rng)
	return ExitSuccess
}

func printCatalog(cat goes.Catalog) {
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tCREATED\tLATENCY\tBAND\tKEY")
	for _, e := range cat {
		band := "-"
		if e.Band > 0 {
			band = fmt.Sprintf("%02d", e.Band)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Start.Format(time.RFC3339Nano),
			e.End.Format(time.RFC3339Nano),
			e.Created.Format(time.RFC3339Nano),
			e.Latency,
			band,
			e.Key,
		)
	}
	tw.Flush()
}
