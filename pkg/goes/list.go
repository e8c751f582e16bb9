package goes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gocloud.dev/blob"
)

// DefaultBucketURL opens the NOAA buckets on AWS with anonymous credentials.
// {satellite} is replaced by the satellite number.
const DefaultBucketURL = "s3://noaa-goes{satellite}?region=us-east-1&anonymous=true"

// BucketOpener opens the bucket that holds a satellite's products.
type BucketOpener func(ctx context.Context, sat Satellite) (*blob.Bucket, error)

// URLOpener returns a BucketOpener that fills {satellite} in a gocloud
// bucket URL template. The blob driver for the URL scheme must be
// registered by the caller.
func URLOpener(template string) BucketOpener {
	return func(ctx context.Context, sat Satellite) (*blob.Bucket, error) {
		return blob.OpenBucket(ctx, BucketURL(template, sat))
	}
}

// BucketURL fills {satellite} in a bucket URL template.
func BucketURL(template string, sat Satellite) string {
	return strings.ReplaceAll(template, "{satellite}", sat.String())
}

// Query selects the product files to list.
type Query struct {
	Start     time.Time
	End       time.Time
	Product   string // default DefaultProduct
	Satellite Satellite
}

// Observer is notified after every hourly listing call.
type Observer interface {
	Listed(prefix string, objects int)
}

// Options configures List.
type Options struct {
	Logger   *slog.Logger
	Observer Observer
}

// Option is a functional option for List.
type Option func(*Options)

// WithLogger sets the logger used for per-hour listing messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithObserver sets an observer for listing calls.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

// List enumerates the product files of q.Satellite whose scan lies within
// [q.Start, q.End]. The satellite is validated before the bucket is opened.
//
// Returns an error if:
//   - The satellite is not 16, 17 or 18 (wraps ErrInvalidSatellite)
//   - The bucket cannot be opened or listed
//   - An object name does not follow the product layout (wraps ErrMalformedKey)
func List(ctx context.Context, open BucketOpener, q Query, opts ...Option) (Catalog, error) {
	if err := q.Satellite.Validate(); err != nil {
		return nil, err
	}
	if q.Product == "" {
		q.Product = DefaultProduct
	}

	bucket, err := open(ctx, q.Satellite)
	if err != nil {
		return nil, fmt.Errorf("goes: open bucket %s: %w", q.Satellite.Bucket(), err)
	}
	defer bucket.Close()

	return ListBucket(ctx, bucket, q, opts...)
}

// ListBucket is like List but reads from an already open bucket.
func ListBucket(ctx context.Context, bucket *blob.Bucket, q Query, opts ...Option) (Catalog, error) {
	if err := q.Satellite.Validate(); err != nil {
		return nil, err
	}
	if q.Product == "" {
		q.Product = DefaultProduct
	}
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	all := Catalog{}
	for _, hour := range Hours(q.Start, q.End) {
		prefix := HourPrefix(q.Product, hour)
		keys, err := listKeys(ctx, bucket, prefix)
		if err != nil {
			return nil, fmt.Errorf("goes: list %s: %w", prefix, err)
		}
		o.Logger.Debug("listed hour", "prefix", prefix, "objects", len(keys))
		if o.Observer != nil {
			o.Observer.Listed(prefix, len(keys))
		}

		for _, key := range keys {
			e, err := ParseKey(key, q.Product)
			if err != nil {
				return nil, err
			}
			all = append(all, e)
		}
	}

	return all.Within(q.Start, q.End), nil
}

// Hours returns every hour from start to end, both truncated to the hour, in UTC.
func Hours(start, end time.Time) []time.Time {
	var hours []time.Time
	last := end.UTC().Truncate(time.Hour)
	for h := start.UTC().Truncate(time.Hour); !h.After(last); h = h.Add(time.Hour) {
		hours = append(hours, h)
	}
	return hours
}

// HourPrefix returns the key prefix holding a product's files for one hour,
// e.g. ABI-L1b-RadC/2021/365/20/.
func HourPrefix(product string, hour time.Time) string {
	hour = hour.UTC()
	return fmt.Sprintf("%s/%04d/%03d/%02d/", product, hour.Year(), hour.YearDay(), hour.Hour())
}

func listKeys(ctx context.Context, bucket *blob.Bucket, prefix string) ([]string, error) {
	var keys []string
	iter := bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if obj.IsDir {
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
