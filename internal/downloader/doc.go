// Package downloader fetches catalog entries to a local directory tree and
// optionally converts them to GeoTIFF.
//
// # Usage
//
//	res, err := downloader.Download(ctx, bucket, catalog, downloader.Options{
//	    BaseDir:   "/data/goes",
//	    GeoTIFF:   true,
//	    Converter: gdalraster.New(),
//	})
//
// # Layout
//
//	{base}/NetCDF/{product}/{object basename}       downloaded containers
//	{base}/GTif/{product}/{variable}_{name}         converted rasters
//
// where {product} is the short product name (RadC, CMIPF, ...) and {name}
// is derived with goes.FileName.
//
// # Failure
//
// Files are fetched one at a time in catalog order. The first failed
// download or conversion aborts the run; files already written are left in
// place.
package downloader
