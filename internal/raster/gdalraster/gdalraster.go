// Package gdalraster converts netCDF containers to GeoTIFF with GDAL.
package gdalraster

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/ligustah/goesdl/internal/raster"
)

var registerOnce sync.Once

// Converter implements raster.Converter on top of godal.
type Converter struct {
	// CreationOptions are passed to the GTiff driver, e.g. "COMPRESS=DEFLATE".
	CreationOptions []string

	// Logger receives one debug line per written raster. Nil discards.
	Logger *slog.Logger
}

var _ raster.Converter = (*Converter)(nil)

// New returns a Converter, registering the GDAL drivers on first use.
func New(creationOptions ...string) *Converter {
	registerOnce.Do(godal.RegisterAll)
	return &Converter{CreationOptions: creationOptions}
}

// Convert writes every allow-listed variable of src as a single-band GeoTIFF
// next to dst (see raster.OutputPath). Variables outside the allow-list are
// skipped. A listed variable that cannot be opened or written aborts the
// conversion; rasters already written are returned alongside the error.
func (c *Converter) Convert(src, dst string) ([]string, error) {
	registerOnce.Do(godal.RegisterAll)
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ds, err := godal.Open(src, godal.RasterOnly())
	if err != nil {
		return nil, fmt.Errorf("gdalraster: open %s: %w", src, err)
	}
	defer ds.Close()

	// TODO: write units and long_name of each variable to a sidecar file so
	// the GeoTIFF output keeps the container's variable metadata.
	subs := raster.SubdatasetNames(ds.Metadatas(godal.Domain("SUBDATASETS")))
	if len(subs) == 0 {
		// Containers with a single raster variable expose it directly.
		bands := ds.Bands()
		if len(bands) == 0 {
			return nil, nil
		}
		variable := bands[0].Metadata("NETCDF_VARNAME")
		if !raster.Allowed(variable) {
			return nil, nil
		}
		out := raster.OutputPath(dst, variable)
		if err := c.translate(ds, out); err != nil {
			return nil, err
		}
		logger.Debug("wrote raster", "variable", variable, "path", out)
		return []string{out}, nil
	}

	var written []string
	for _, sub := range subs {
		variable := raster.SubdatasetVariable(sub)
		if !raster.Allowed(variable) {
			continue
		}

		out := raster.OutputPath(dst, variable)
		if err := c.convertSubdataset(sub, out); err != nil {
			return written, err
		}
		logger.Debug("wrote raster", "variable", variable, "path", out)
		written = append(written, out)
	}
	return written, nil
}

func (c *Converter) convertSubdataset(name, out string) error {
	ds, err := godal.Open(name, godal.RasterOnly())
	if err != nil {
		return fmt.Errorf("gdalraster: open %s: %w", name, err)
	}
	defer ds.Close()
	return c.translate(ds, out)
}

func (c *Converter) translate(ds *godal.Dataset, out string) error {
	switches := []string{"-of", "GTiff", "-b", "1"}
	for _, co := range c.CreationOptions {
		switches = append(switches, "-co", co)
	}

	tif, err := ds.Translate(out, switches)
	if err != nil {
		return fmt.Errorf("gdalraster: write %s: %w", out, err)
	}
	if err := tif.Close(); err != nil {
		return fmt.Errorf("gdalraster: close %s: %w", out, err)
	}
	return nil
}
