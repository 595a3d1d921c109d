package conversion

import "context"

// Job is a single ffmpeg invocation derived from a Request and one WorkItem
type Job struct {
	Source      string
	Destination string
	Format      FormatID
	Quality     int
	Overwrite   bool
}

// AudioConverter defines the interface for converting one video into audio
// This is a port that can be implemented by different infrastructure adapters
type AudioConverter interface {
	// Convert runs the conversion synchronously. A non-nil error is a failed item,
	// usually a *ToolError carrying the tool's standard error.
	Convert(ctx context.Context, job Job) error
}

// ToolProbe checks that the external media tool can be launched
type ToolProbe interface {
	IsToolAvailable(ctx context.Context) bool
}

// FileSystem defines the file operations the engine needs
type FileSystem interface {
	// Exists returns true if the file exists
	Exists(path string) bool
	// EnsureDir creates dir and its parents; existing directories are not an error
	EnsureDir(dir string) error
}

// Discoverer produces the ordered worklist for a request
type Discoverer interface {
	Discover(ctx context.Context, req *Request) ([]WorkItem, error)
}

// Sink receives progress, log and completion events from a run
type Sink interface {
	OnProgress(current, total int)
	OnLog(line string)
	OnFinished(summary Summary)
}
