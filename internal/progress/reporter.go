package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalFiles is the number of files to download.
	TotalFiles int

	// Product is the product short name (for display).
	Product string

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer
}

// Reporter outputs per-file progress. Downloads are sequential, so the
// reporter is not safe for concurrent use.
type Reporter struct {
	opts Options

	startTime      time.Time
	fileStart      time.Time
	completedFiles int
	completedBytes int64
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Reporter{opts: opts}
}

// Start prints the header.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	fmt.Fprintf(r.opts.Output, "[goesdl] Downloading %d files of %s\n", r.opts.TotalFiles, r.opts.Product)
}

// FileStarted marks the next file as in progress.
func (r *Reporter) FileStarted(name string) {
	r.fileStart = time.Now()
	fmt.Fprintf(r.opts.Output, "[goesdl] (%d/%d) %s\n", r.completedFiles+1, r.opts.TotalFiles, name)
}

// FileCompleted marks the current file as done.
func (r *Reporter) FileCompleted(size int64) {
	r.completedFiles++
	r.completedBytes += size
	fmt.Fprintf(r.opts.Output, "[goesdl] (%d/%d) %s in %s\n",
		r.completedFiles,
		r.opts.TotalFiles,
		FormatBytes(size),
		formatDuration(time.Since(r.fileStart)),
	)
}

// Finish prints the summary line.
func (r *Reporter) Finish() {
	duration := time.Since(r.startTime)
	secs := duration.Seconds()
	if secs < 0.001 {
		secs = 0.001
	}
	avgSpeed := float64(r.completedBytes) / secs

	fmt.Fprintf(r.opts.Output, "[goesdl] Done: %d files | %s | %s | %s/s\n",
		r.completedFiles,
		FormatBytes(r.completedBytes),
		formatDuration(duration),
		FormatBytes(int64(avgSpeed)),
	)
}

// FormatBytes formats bytes as a human-readable string.
func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
