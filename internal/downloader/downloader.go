package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/ligustah/goesdl/internal/metrics"
	"github.com/ligustah/goesdl/internal/progress"
	"github.com/ligustah/goesdl/internal/raster"
	"github.com/ligustah/goesdl/pkg/goes"
)

// ErrPrecondition is wrapped by every error raised before any file is fetched
// because the input cannot be downloaded as requested.
var ErrPrecondition = errors.New("downloader: precondition failed")

var (
	// ErrStartNotFound is returned when the start filter matches no entry.
	ErrStartNotFound = fmt.Errorf("%w: start time not in catalog", ErrPrecondition)

	// ErrEmptyCatalog is returned when there is nothing to download.
	ErrEmptyCatalog = fmt.Errorf("%w: empty catalog", ErrPrecondition)

	// ErrNoLocalFiles is returned by ConvertLocal when nothing was downloaded.
	ErrNoLocalFiles = fmt.Errorf("%w: no downloaded files", ErrPrecondition)

	// ErrNoConverter is returned when GeoTIFF output is requested without a converter.
	ErrNoConverter = fmt.Errorf("%w: geotiff requested without a converter", ErrPrecondition)
)

// ErrObjectNotFound is returned when a catalog entry no longer exists in the bucket.
var ErrObjectNotFound = errors.New("downloader: object not found")

// ConversionError wraps a failure of the raster converter.
type ConversionError struct {
	Source string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Source, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Directory names under the base directory.
const (
	NetCDFDir  = "NetCDF"
	GeoTIFFDir = "GTif"
)

// Options configures the downloader.
type Options struct {
	// BaseDir is the root of the local directory tree.
	BaseDir string

	// Start, when non-zero, restricts the download to entries starting
	// exactly at this instant.
	Start time.Time

	// GeoTIFF additionally converts every downloaded file.
	GeoTIFF bool

	// Converter writes the GeoTIFF rasters. Required when GeoTIFF is set.
	Converter raster.Converter

	// Location is the zone used for derived file names.
	// Default: goes.DefaultTimezone
	Location *time.Location

	// Logger receives per-file debug messages. Nil discards.
	Logger *slog.Logger

	// Progress, when set, receives human-readable per-file progress.
	Progress io.Writer

	// Metrics is an optional counter recorder.
	Metrics *metrics.Recorder
}

// File describes one downloaded entry.
type File struct {
	Entry   goes.Entry
	Path    string   // local container path
	Name    string   // derived raster file name
	Size    int64    // bytes downloaded
	Rasters []string // rasters written, if converted
}

// Result summarizes a download run.
type Result struct {
	Product string
	Files   []File
	Bytes   int64
}

// NetCDFPath returns the directory holding a product's downloaded files.
func NetCDFPath(baseDir, product string) string {
	return filepath.Join(baseDir, NetCDFDir, product)
}

// GeoTIFFPath returns the directory holding a product's converted rasters.
func GeoTIFFPath(baseDir, product string) string {
	return filepath.Join(baseDir, GeoTIFFDir, product)
}

// Download fetches every entry of cat from bucket into
// {BaseDir}/NetCDF/{product}/, converting each to GeoTIFF when requested.
//
// Returns an error if:
//   - opts.Start is set and matches no entry (wraps ErrStartNotFound)
//   - There is nothing to download (wraps ErrEmptyCatalog)
//   - An object is missing from the bucket (wraps ErrObjectNotFound)
//   - A local file or directory cannot be written
//   - Conversion fails (*ConversionError)
//
// The precondition errors are returned before any remote call. On any other
// error the files fetched so far are returned in the partial Result.
func Download(ctx context.Context, bucket *blob.Bucket, cat goes.Catalog, opts Options) (*Result, error) {
	if !opts.Start.IsZero() {
		if !cat.HasStart(opts.Start) {
			return nil, fmt.Errorf("%w: %s", ErrStartNotFound, opts.Start.UTC().Format(time.RFC3339Nano))
		}
		cat = cat.FilterByStart(opts.Start)
	}
	if len(cat) == 0 {
		return nil, ErrEmptyCatalog
	}
	if opts.GeoTIFF && opts.Converter == nil {
		return nil, ErrNoConverter
	}

	product, err := cat[0].ShortName()
	if err != nil {
		return nil, err
	}
	if err := applyDefaults(&opts); err != nil {
		return nil, err
	}

	ncDir := NetCDFPath(opts.BaseDir, product)
	if err := os.MkdirAll(ncDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", ncDir, err)
	}
	tifDir := GeoTIFFPath(opts.BaseDir, product)
	if opts.GeoTIFF {
		if err := os.MkdirAll(tifDir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", tifDir, err)
		}
	}

	var reporter *progress.Reporter
	if opts.Progress != nil {
		reporter = progress.NewReporter(progress.Options{
			TotalFiles: len(cat),
			Product:    product,
			Output:     opts.Progress,
		})
		reporter.Start()
	}

	res := &Result{Product: product}
	for _, e := range cat {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		basename := e.Basename()
		dest := filepath.Join(ncDir, basename)

		opts.Logger.Debug("downloading", "key", e.Key, "path", dest)
		if reporter != nil {
			reporter.FileStarted(basename)
		}
		n, err := fetch(ctx, bucket, e.Key, dest)
		if err != nil {
			return res, err
		}
		if reporter != nil {
			reporter.FileCompleted(n)
		}
		opts.Metrics.Downloaded(product, n)

		name, err := goes.FileName(basename, product, opts.Location)
		if err != nil {
			return res, err
		}

		f := File{Entry: e, Path: dest, Name: name, Size: n}
		res.Bytes += n

		if opts.GeoTIFF {
			rasters, err := convert(opts, dest, filepath.Join(tifDir, name), product)
			f.Rasters = rasters
			if err != nil {
				res.Files = append(res.Files, f)
				return res, err
			}
		}
		res.Files = append(res.Files, f)
	}

	if reporter != nil {
		reporter.Finish()
	}
	return res, nil
}

// ConvertLocal converts the files already present in
// {BaseDir}/NetCDF/{product}/ without contacting the bucket. opts.Start and
// opts.GeoTIFF are ignored.
func ConvertLocal(ctx context.Context, product string, opts Options) (*Result, error) {
	if opts.Converter == nil {
		return nil, ErrNoConverter
	}
	if err := applyDefaults(&opts); err != nil {
		return nil, err
	}

	ncDir := NetCDFPath(opts.BaseDir, product)
	names, err := localFiles(ncDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLocalFiles, ncDir)
	}

	tifDir := GeoTIFFPath(opts.BaseDir, product)
	if err := os.MkdirAll(tifDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", tifDir, err)
	}

	res := &Result{Product: product}
	for _, basename := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		name, err := goes.FileName(basename, product, opts.Location)
		if err != nil {
			return res, err
		}
		src := filepath.Join(ncDir, basename)
		f := File{Path: src, Name: name}

		rasters, err := convert(opts, src, filepath.Join(tifDir, name), product)
		f.Rasters = rasters
		res.Files = append(res.Files, f)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func applyDefaults(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Location == nil {
		loc, err := time.LoadLocation(goes.DefaultTimezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}
		opts.Location = loc
	}
	return nil
}

func convert(opts Options, src, dst, product string) ([]string, error) {
	opts.Logger.Debug("generating geotiff", "source", src, "path", dst)
	rasters, err := opts.Converter.Convert(src, dst)
	opts.Metrics.Converted(product, len(rasters))
	if err != nil {
		return rasters, &ConversionError{Source: src, Err: err}
	}
	return rasters, nil
}

// fetch copies one object to dest and returns the number of bytes written.
func fetch(ctx context.Context, bucket *blob.Bucket, key, dest string) (int64, error) {
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return 0, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return 0, fmt.Errorf("open %s: %w", key, err)
	}
	defer r.Close()

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("download %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", dest, err)
	}
	return n, nil
}

// localFiles lists the container files of a directory in name order.
func localFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".nc") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
