// Package reporter provides progress reporting interfaces and
// implementations for the render pipeline.
package reporter

import "time"

// HardwareSummary contains hardware information for the worker pool host.
type HardwareSummary struct {
	Hostname string
}

// JobSummary describes a render job before work starts.
type JobSummary struct {
	JobID      string
	SourceURI  string
	SourceKind string
	Container  string
	Duration   string
	Resolution string
}

// DecimationSummary reports the outcome of the decimation stage.
type DecimationSummary struct {
	FramesIn  int
	FramesOut int
	Disabled  bool
}

// RenderConfigSummary contains the resolved render configuration.
type RenderConfigSummary struct {
	Pipeline    string
	Container   string
	Codec       string
	PixelFormat string
	Width       int
	Height      int
	FrameRate   float64
	BitrateKbps int
	Alpha       bool
}

// ProgressSnapshot contains frame-processing progress information.
type ProgressSnapshot struct {
	CurrentFrame uint64
	TotalFrames  uint64
	Percent      float32
	FPS          float32
	ETA          time.Duration
}

// JobOutcome contains final per-job render results.
type JobOutcome struct {
	JobID                    string
	Container                string
	InputSizeBytes           uint64
	OutputSizeBytes          uint64
	TotalTime                time.Duration
	AverageFrameProcessingMs float64
	FromCache                bool
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata for a run of render jobs.
type BatchStartInfo struct {
	TotalJobs int
	JobIDs    []string
}

// JobProgressContext contains the current job index within a batch.
type JobProgressContext struct {
	CurrentJob int
	TotalJobs  int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount  int
	TotalJobs        int
	TotalInputBytes  uint64
	TotalOutputBytes uint64
	TotalDuration    time.Duration
	JobResults       []JobResult
	FromCacheCount   int
}

// JobResult contains per-job render result for a batch summary.
type JobResult struct {
	JobID     string
	Reduction float64
}

// StageProgress represents a generic pipeline-stage update (decode,
// decimate, process, encode, cache).
type StageProgress struct {
	Stage   string
	Percent float32
	Message string
	ETA     *time.Duration
}
