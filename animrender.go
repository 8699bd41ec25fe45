// Package animrender renders animated sources (GIF, APNG, short video,
// raw frame sequences) into a compact video container, with an optional
// per-frame raster pipeline and a bounded render cache.
//
// Basic usage:
//
//	renderer, err := animrender.New(
//	    logging.New(logging.DefaultConfig()),
//	    animrender.WithWorkers(4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	job, err := model.NewRenderJob("job1", source, metadata, options, time.Now())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	outcome, err := renderer.Render(ctx, job)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Rendered %d bytes, from cache: %v\n", len(outcome.Result.Video), outcome.FromCache)
package animrender

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/animrender/internal/buildconfig"
	"github.com/five82/animrender/internal/logging"
	"github.com/five82/animrender/internal/model"
	"github.com/five82/animrender/internal/render"
	"github.com/five82/animrender/internal/reporter"
	"github.com/five82/animrender/internal/util"
)

// Option configures a Renderer's instance-level settings.
type Option func(*buildconfig.Config)

// WithWorkers sets the per-frame worker pool size. Zero means
// buildconfig.DefaultWorkers().
func WithWorkers(n int) Option {
	return func(c *buildconfig.Config) {
		if n == 0 {
			c.Workers = buildconfig.DefaultWorkers()
			return
		}
		c.Workers = n
	}
}

// WithCacheCapacity sets the maximum number of cached outcomes. Zero
// means no limit on the number of entries.
func WithCacheCapacity(n int) Option {
	return func(c *buildconfig.Config) { c.CacheCapacity = n }
}

// WithCacheTTL sets the per-entry cache time-to-live.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *buildconfig.Config) { c.CacheTTL = ttl }
}

// WithCodecBinaryPath overrides the codec binary resolved against PATH.
func WithCodecBinaryPath(path string) Option {
	return func(c *buildconfig.Config) { c.CodecBinaryPath = path }
}

// WithTempDirRoot sets the parent directory under which the Renderer's
// codec temp directory is created; files in it are named per job. Empty
// means os.TempDir().
func WithTempDirRoot(dir string) Option {
	return func(c *buildconfig.Config) { c.TempDirRoot = dir }
}

// Renderer is the main entry point for rendering animation sources.
type Renderer struct {
	orchestrator *render.Orchestrator
}

// New constructs a Renderer from the given options.
func New(logger *logging.Logger, opts ...Option) (*Renderer, error) {
	cfg := buildconfig.NewConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	orchestrator, err := render.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Renderer{orchestrator: orchestrator}, nil
}

// Close shuts down the worker pool and codec VFS. The Renderer is
// unusable after Close.
func (r *Renderer) Close() error {
	return r.orchestrator.Close()
}

// Render renders a single job.
func (r *Renderer) Render(ctx context.Context, job model.RenderJob) (model.RenderOutcome, error) {
	return r.orchestrator.Render(ctx, job)
}

// RenderWithReporter renders a single job, driving JobStarted/JobComplete/
// Error reporter events around the call. A nil rep is treated as
// reporter.NullReporter{}.
func (r *Renderer) RenderWithReporter(ctx context.Context, job model.RenderJob, rep reporter.Reporter) (model.RenderOutcome, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	rep.JobStarted(reporter.JobSummary{
		JobID:      job.ID,
		SourceURI:  job.Source.URI,
		SourceKind: job.Source.Kind.String(),
		Container:  string(job.Options.Configuration.Container),
		Duration:   util.FormatMillis(job.Metadata.DurationMs),
		Resolution: fmt.Sprintf("%dx%d", job.Metadata.Width, job.Metadata.Height),
	})

	outcome, err := r.orchestrator.Render(ctx, job)
	if err != nil {
		rep.Error(reporter.ReporterError{
			Title:   "render failed",
			Message: err.Error(),
			Context: fmt.Sprintf("job: %s", job.ID),
		})
		return model.RenderOutcome{}, err
	}

	rep.JobComplete(reporter.JobOutcome{
		JobID:                    job.ID,
		Container:                string(outcome.Result.Container),
		OutputSizeBytes:          uint64(outcome.Metrics.OutputSizeBytes),
		TotalTime:                time.Duration(outcome.Metrics.TotalTimeMs) * time.Millisecond,
		AverageFrameProcessingMs: outcome.Metrics.AverageFrameProcessingMs,
		FromCache:                outcome.FromCache,
	})
	return outcome, nil
}

// RenderBatch renders each job in turn, continuing past a failed job
// rather than aborting the run, and reports BatchStarted/JobProgress/
// BatchComplete around the sequence. The returned slice holds only the
// outcomes of jobs that rendered successfully.
func (r *Renderer) RenderBatch(ctx context.Context, jobs []model.RenderJob, rep reporter.Reporter) ([]model.RenderOutcome, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	ids := make([]string, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
	}
	rep.BatchStarted(reporter.BatchStartInfo{TotalJobs: len(jobs), JobIDs: ids})

	var outcomes []model.RenderOutcome
	var successful, fromCache int
	var totalIn, totalOut uint64
	var results []reporter.JobResult

	for i, job := range jobs {
		if ctx.Err() != nil {
			rep.Warning(fmt.Sprintf("render batch cancelled: %v", ctx.Err()))
			break
		}

		rep.JobProgress(reporter.JobProgressContext{CurrentJob: i + 1, TotalJobs: len(jobs)})

		outcome, err := r.RenderWithReporter(ctx, job, rep)
		if err != nil {
			continue
		}

		outcomes = append(outcomes, outcome)
		successful++
		if outcome.FromCache {
			fromCache++
		}
		totalOut += uint64(outcome.Metrics.OutputSizeBytes)
		results = append(results, reporter.JobResult{JobID: job.ID})
	}

	rep.BatchComplete(reporter.BatchSummary{
		SuccessfulCount:  successful,
		TotalJobs:        len(jobs),
		TotalInputBytes:  totalIn,
		TotalOutputBytes: totalOut,
		JobResults:       results,
		FromCacheCount:   fromCache,
	})

	return outcomes, nil
}
