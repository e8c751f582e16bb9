// Package metrics records per-run counters for node_exporter's textfile
// collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the counters of a single run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	listingCalls    prometheus.Counter
	objectsListed   prometheus.Counter
	filesDownloaded *prometheus.CounterVec
	bytesDownloaded *prometheus.CounterVec
	rastersWritten  *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		listingCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goesdl_listing_calls_total",
			Help: "Total number of hourly bucket listings.",
		}),
		objectsListed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goesdl_objects_listed_total",
			Help: "Total number of objects returned by bucket listings.",
		}),
		filesDownloaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goesdl_files_downloaded_total",
			Help: "Total number of product files downloaded.",
		}, []string{"product"}),
		bytesDownloaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goesdl_bytes_downloaded_total",
			Help: "Total number of bytes downloaded.",
		}, []string{"product"}),
		rastersWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goesdl_rasters_written_total",
			Help: "Total number of GeoTIFF rasters written.",
		}, []string{"product"}),
	}
	r.registry.MustRegister(
		r.listingCalls,
		r.objectsListed,
		r.filesDownloaded,
		r.bytesDownloaded,
		r.rastersWritten,
	)
	return r
}

// Listed implements goes.Observer.
func (r *Recorder) Listed(prefix string, objects int) {
	if r == nil {
		return
	}
	r.listingCalls.Inc()
	r.objectsListed.Add(float64(objects))
}

// Downloaded records one downloaded file of size bytes.
func (r *Recorder) Downloaded(product string, bytes int64) {
	if r == nil {
		return
	}
	r.filesDownloaded.WithLabelValues(product).Inc()
	r.bytesDownloaded.WithLabelValues(product).Add(float64(bytes))
}

// Converted records n rasters written for product.
func (r *Recorder) Converted(product string, n int) {
	if r == nil {
		return
	}
	r.rastersWritten.WithLabelValues(product).Add(float64(n))
}

// WriteFile writes the counters in text exposition format to path.
func (r *Recorder) WriteFile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
