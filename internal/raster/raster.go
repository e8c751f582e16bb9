// Package raster names and selects the netCDF variables that are converted
// to single-band GeoTIFF files.
package raster

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// allowList holds the variables written out as GeoTIFF.
var allowList = [...]string{
	"Rad",
	"BCM",
	"Area",
	"CMI_C02",
	"CMI_C07",
	"CMI_C13",
	"CMI_C14",
	"CMI_C15",
}

// Variables returns a copy of the convertible variable names.
func Variables() []string {
	out := make([]string, len(allowList))
	copy(out, allowList[:])
	return out
}

// Allowed reports whether a container variable is converted.
func Allowed(variable string) bool {
	for _, v := range allowList {
		if v == variable {
			return true
		}
	}
	return false
}

// OutputPath returns the raster path for one variable: the variable name is
// prefixed onto the base name of out, in the directory of out.
//
//	OutputPath("/data/GTif/RadC/20211231-1200_B02.tif", "Rad")
//	// "/data/GTif/RadC/Rad_20211231-1200_B02.tif"
func OutputPath(out, variable string) string {
	return filepath.Join(filepath.Dir(out), variable+"_"+filepath.Base(out))
}

// Converter writes the allow-listed variables of a container file as
// single-band rasters derived from dst (see OutputPath). It returns the paths
// written, in container order.
type Converter interface {
	Convert(src, dst string) ([]string, error)
}

// SubdatasetVariable returns the variable of a GDAL subdataset name such as
// NETCDF:"/data/file.nc":Rad.
func SubdatasetVariable(name string) string {
	idx := strings.LastIndex(name, ":")
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// SubdatasetNames extracts the SUBDATASET_n_NAME values from GDAL's
// SUBDATASETS metadata domain, ordered by n.
func SubdatasetNames(md map[string]string) []string {
	type indexed struct {
		n    int
		name string
	}
	var subs []indexed
	for k, v := range md {
		var n int
		var rest string
		if _, err := fmt.Sscanf(k, "SUBDATASET_%d_%s", &n, &rest); err != nil || rest != "NAME" {
			continue
		}
		subs = append(subs, indexed{n: n, name: v})
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].n < subs[j].n })

	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.name
	}
	return names
}
