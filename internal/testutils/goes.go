// Package testutils provides shared test infrastructure: synthetic GOES
// object keys, bucket seeding and, behind the integration build tag, a
// MinIO container.
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
)

// Object is a synthetic product file.
type Object struct {
	Key  string
	Data []byte
}

// Stamp formats t as a key timestamp field, e.g. s20213652001170.
func Stamp(prefix byte, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%c%04d%03d%02d%02d%02d%d",
		prefix, t.Year(), t.YearDay(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e8)
}

// Key builds the object key of a product file scanned from start for scan,
// created latency after the scan ended. mode is the suffix appended to the
// product id, e.g. M6C02.
func Key(product, mode string, satellite int, start time.Time, scan, latency time.Duration) string {
	start = start.UTC()
	end := start.Add(scan)
	return fmt.Sprintf("%s/%04d/%03d/%02d/OR_%s-%s_G%d_%s_%s_%s.nc",
		product, start.Year(), start.YearDay(), start.Hour(),
		product, mode, satellite,
		Stamp('s', start), Stamp('e', end), Stamp('c', end.Add(latency)),
	)
}

// Seed writes objs into bucket.
func Seed(t *testing.T, ctx context.Context, bucket *blob.Bucket, objs ...Object) {
	t.Helper()
	for _, o := range objs {
		require.NoError(t, bucket.WriteAll(ctx, o.Key, o.Data, nil), "seed %s", o.Key)
	}
}
