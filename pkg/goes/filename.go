package goes

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the zone local file names are expressed in.
const DefaultTimezone = "US/Pacific"

// RasterExt is appended to every derived file name.
const RasterExt = ".tif"

// FileName derives the local raster file name for an object basename.
// The scan start is converted from UTC to loc (DefaultTimezone when nil) and
// formatted as YYYYMMDD-HHMM. RadianceMosaic files get a _Bnn band suffix;
// other products, including the full disk and mesoscale radiances, do not.
//
//	FileName("OR_ABI-L1b-RadC-M6C02_G16_s20213652000000_e..._c....nc", "RadC", pacific)
//	// "20211231-1200_B02.tif"
func FileName(basename, product string, loc *time.Location) (string, error) {
	if loc == nil {
		var err error
		loc, err = time.LoadLocation(DefaultTimezone)
		if err != nil {
			return "", fmt.Errorf("goes: load timezone: %w", err)
		}
	}

	fields := strings.Split(basename, "_")
	if len(fields) < 4 {
		return "", fmt.Errorf("%w: %q", ErrMalformedKey, basename)
	}
	start, err := ParseTimestamp(fields[3], startPrefix, "")
	if err != nil {
		return "", err
	}

	band := ""
	if product == RadianceMosaic {
		mode := fields[1]
		if len(mode) < 2 {
			return "", fmt.Errorf("%w: no band in %q", ErrMalformedKey, basename)
		}
		band = "_B" + mode[len(mode)-2:]
	}

	return start.In(loc).Format("20060102-1504") + band + RasterExt, nil
}
