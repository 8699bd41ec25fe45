package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs newline-delimited JSON events suitable for piping
// into an orchestrating process.
type JSONReporter struct {
	writer             io.Writer
	mu                 sync.Mutex
	lastProgressBucket int
	lastProgressTime   time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{
		writer:             os.Stdout,
		lastProgressBucket: -1,
	}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:             w,
		lastProgressBucket: -1,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) Hardware(summary HardwareSummary) {
	r.write(map[string]interface{}{
		"type":      "hardware",
		"hostname":  summary.Hostname,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) JobStarted(summary JobSummary) {
	r.write(map[string]interface{}{
		"type":        "job_started",
		"job_id":      summary.JobID,
		"source_uri":  summary.SourceURI,
		"source_kind": summary.SourceKind,
		"container":   summary.Container,
		"duration":    summary.Duration,
		"resolution":  summary.Resolution,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) StageProgress(update StageProgress) {
	event := map[string]interface{}{
		"type":      "stage_progress",
		"stage":     update.Stage,
		"percent":   update.Percent,
		"message":   update.Message,
		"timestamp": r.timestamp(),
	}
	if update.ETA != nil {
		event["eta_seconds"] = int64(update.ETA.Seconds())
	}
	r.write(event)
}

func (r *JSONReporter) DecimationResult(summary DecimationSummary) {
	r.write(map[string]interface{}{
		"type":       "decimation_result",
		"frames_in":  summary.FramesIn,
		"frames_out": summary.FramesOut,
		"disabled":   summary.Disabled,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) RenderConfig(summary RenderConfigSummary) {
	r.write(map[string]interface{}{
		"type":         "render_config",
		"pipeline":     summary.Pipeline,
		"container":    summary.Container,
		"codec":        summary.Codec,
		"pixel_format": summary.PixelFormat,
		"width":        summary.Width,
		"height":       summary.Height,
		"frame_rate":   summary.FrameRate,
		"bitrate_kbps": summary.BitrateKbps,
		"alpha":        summary.Alpha,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) ProcessingStarted(totalFrames uint64) {
	r.mu.Lock()
	r.lastProgressBucket = -1
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":         "processing_started",
		"total_frames": totalFrames,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) ProcessingProgress(progress ProgressSnapshot) {
	const progressBucketSize = 1
	const minInterval = 5 * time.Second

	bucket := int(progress.Percent) / progressBucketSize
	now := time.Now()

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	shouldEmit := bucket > r.lastProgressBucket || intervalElapsed || progress.Percent >= 99.0

	if !shouldEmit {
		r.mu.Unlock()
		return
	}

	if bucket > r.lastProgressBucket {
		r.lastProgressBucket = bucket
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":          "processing_progress",
		"current_frame": progress.CurrentFrame,
		"total_frames":  progress.TotalFrames,
		"percent":       progress.Percent,
		"fps":           progress.FPS,
		"eta_seconds":   int64(progress.ETA.Seconds()),
		"timestamp":     r.timestamp(),
	})
}

func (r *JSONReporter) JobComplete(summary JobOutcome) {
	reduction := sizeReductionPercent(summary.InputSizeBytes, summary.OutputSizeBytes)

	r.write(map[string]interface{}{
		"type":                   "job_complete",
		"job_id":                 summary.JobID,
		"container":              summary.Container,
		"input_size":             summary.InputSizeBytes,
		"output_size":            summary.OutputSizeBytes,
		"from_cache":             summary.FromCache,
		"avg_frame_ms":           summary.AverageFrameProcessingMs,
		"duration_seconds":       int64(summary.TotalTime.Seconds()),
		"size_reduction_percent": reduction,
		"timestamp":              r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write(map[string]interface{}{
		"type":      "operation_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":       "batch_started",
		"total_jobs": info.TotalJobs,
		"job_ids":    info.JobIDs,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) JobProgress(context JobProgressContext) {
	r.write(map[string]interface{}{
		"type":        "job_progress",
		"current_job": context.CurrentJob,
		"total_jobs":  context.TotalJobs,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	reduction := sizeReductionPercent(summary.TotalInputBytes, summary.TotalOutputBytes)

	r.write(map[string]interface{}{
		"type":                         "batch_complete",
		"successful_count":             summary.SuccessfulCount,
		"total_jobs":                   summary.TotalJobs,
		"from_cache_count":             summary.FromCacheCount,
		"total_input_size":             summary.TotalInputBytes,
		"total_output_size":            summary.TotalOutputBytes,
		"total_duration_seconds":       int64(summary.TotalDuration.Seconds()),
		"total_size_reduction_percent": reduction,
		"timestamp":                    r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]interface{}{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
