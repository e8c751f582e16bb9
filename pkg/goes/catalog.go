package goes

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedKey is returned when an object name does not follow the
// product naming layout. Names come from the bucket, so it is not an
// ErrInvalidArgument.
var ErrMalformedKey = errors.New("goes: malformed object key")

// DefaultProduct is the CONUS L1b radiance product.
const DefaultProduct = "ABI-L1b-RadC"

// RadianceFamily is the product family whose files each hold a single band.
const RadianceFamily = "ABI-L1b-Rad"

// RadianceMosaic is the short name of the CONUS radiance product, the only
// one whose derived file names carry a band suffix.
const RadianceMosaic = "RadC"

// Entry describes a single product file in the bucket.
type Entry struct {
	Key         string        // object key relative to the bucket
	ProductMode string        // e.g. ABI-L1b-RadC-M6C02
	Satellite   string        // e.g. G16
	Start       time.Time     // scan start (UTC)
	End         time.Time     // scan end (UTC)
	Created     time.Time     // file creation (UTC)
	Latency     time.Duration // Created - End
	Band        int           // 1-16 for radiance products, 0 otherwise
}

// Basename returns the last path element of the object key.
func (e Entry) Basename() string {
	return path.Base(e.Key)
}

// ShortName returns the product short name from the mode field,
// e.g. "RadC" for ABI-L1b-RadC-M6C02.
func (e Entry) ShortName() (string, error) {
	return ShortName(e.ProductMode)
}

// Catalog is an ordered list of product files.
type Catalog []Entry

// FilterByStart returns the entries whose Start equals t exactly.
// The result is empty, never nil, when nothing matches.
func (c Catalog) FilterByStart(t time.Time) Catalog {
	out := Catalog{}
	for _, e := range c {
		if e.Start.Equal(t) {
			out = append(out, e)
		}
	}
	return out
}

// HasStart reports whether any entry starts exactly at t.
func (c Catalog) HasStart(t time.Time) bool {
	for _, e := range c {
		if e.Start.Equal(t) {
			return true
		}
	}
	return false
}

// Within returns the entries with Start >= start and End <= end.
func (c Catalog) Within(start, end time.Time) Catalog {
	out := Catalog{}
	for _, e := range c {
		if !e.Start.Before(start) && !e.End.After(end) {
			out = append(out, e)
		}
	}
	return out
}

// Family returns the product id without its scan sector letter,
// e.g. ABI-L1b-Rad for ABI-L1b-RadC.
func Family(product string) string {
	if product == "" {
		return ""
	}
	return product[:len(product)-1]
}

// ShortName returns the third dash-separated field of a product mode.
func ShortName(productMode string) (string, error) {
	parts := strings.Split(productMode, "-")
	if len(parts) < 3 || parts[2] == "" {
		return "", fmt.Errorf("%w: product mode %q", ErrMalformedKey, productMode)
	}
	return parts[2], nil
}

// ParseKey parses an object key of the given product into an Entry.
func ParseKey(key, product string) (Entry, error) {
	fields, err := rsplit(path.Base(key), "_", 5)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q", err, key)
	}
	e := Entry{
		Key:         key,
		ProductMode: fields[1],
		Satellite:   fields[2],
	}

	if e.Start, err = ParseTimestamp(fields[3], startPrefix, ""); err != nil {
		return Entry{}, err
	}
	if e.End, err = ParseTimestamp(fields[4], endPrefix, ""); err != nil {
		return Entry{}, err
	}
	if e.Created, err = ParseTimestamp(fields[5], createdPrefix, ".nc"); err != nil {
		return Entry{}, err
	}
	e.Latency = e.Created.Sub(e.End)

	if Family(product) == RadianceFamily {
		band, err := bandOf(e.ProductMode)
		if err != nil {
			return Entry{}, err
		}
		e.Band = band
	}
	return e, nil
}

func bandOf(productMode string) (int, error) {
	if len(productMode) < 2 {
		return 0, fmt.Errorf("%w: no band in %q", ErrMalformedKey, productMode)
	}
	band, err := strconv.Atoi(productMode[len(productMode)-2:])
	if err != nil {
		return 0, fmt.Errorf("%w: no band in %q", ErrMalformedKey, productMode)
	}
	return band, nil
}

var errTooFewFields = errors.New("too few fields")

// rsplit splits s around the last n occurrences of sep, returning exactly
// n+1 fields. The first field keeps any earlier separators.
func rsplit(s, sep string, n int) ([]string, error) {
	fields := make([]string, n+1)
	for i := n; i > 0; i-- {
		idx := strings.LastIndex(s, sep)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformedKey, errTooFewFields)
		}
		fields[i] = s[idx+len(sep):]
		s = s[:idx]
	}
	fields[0] = s
	return fields, nil
}
