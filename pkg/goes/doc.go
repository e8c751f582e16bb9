// Package goes lists and names GOES ABI product files held in the public
// NOAA object store buckets.
//
// Each satellite has its own bucket (noaa-goes16, noaa-goes17, noaa-goes18),
// laid out by product and scan hour:
//
//	{bucket}/{product}/{YYYY}/{DDD}/{HH}/OR_{mode}_{sat}_s{start}_e{end}_c{created}.nc
//
// Timestamps embedded in object names have the form YYYYDDDHHMMSS followed
// by a fractional second, prefixed with s, e or c and always in UTC.
//
// # Listing
//
// Use [List] to enumerate the objects of a product between two instants. One
// listing call is made per scan hour; keys are parsed into [Entry] values and
// returned as a [Catalog] holding only the files whose scan lies entirely
// within the requested range.
//
//	cat, err := goes.List(ctx, goes.URLOpener(goes.DefaultBucketURL), goes.Query{
//	    Start:     start,
//	    End:       end,
//	    Product:   "ABI-L1b-RadC",
//	    Satellite: goes.GOES16,
//	})
//
// # Naming
//
// [FileName] maps an object basename to the local raster name used for
// converted output, e.g. 20211231-1200_B02.tif.
package goes
