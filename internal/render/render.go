// Package render implements the public render entrypoint: cache check,
// codec init, fast-path decision, and either a single fast transcode or
// the full decode/decimate/process/encode pipeline. Grounded on the
// reporter-driven multi-stage shape of the batch video encoder this
// module replaces, narrowed to a single job per call.
package render

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/animrender/internal/buildconfig"
	"github.com/five82/animrender/internal/cache"
	"github.com/five82/animrender/internal/codec"
	"github.com/five82/animrender/internal/decimate"
	"github.com/five82/animrender/internal/decode"
	rendererrors "github.com/five82/animrender/internal/errors"
	"github.com/five82/animrender/internal/logging"
	"github.com/five82/animrender/internal/model"
	"github.com/five82/animrender/internal/pool"
)

// Orchestrator owns the long-lived, process-wide pieces of the render
// pipeline: the codec driver (a single VFS), the worker pool, and the
// render cache. A render call mutates only these; decoded/processed
// frames belong exclusively to the call that produced them.
type Orchestrator struct {
	cache   *cache.Cache
	pool    *pool.Pool
	driver  *codec.Driver
	fetcher decode.Fetcher
	logger  *logging.Logger
}

// New constructs an Orchestrator from validated configuration.
func New(cfg *buildconfig.Config, logger *logging.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		cache:   cache.New(cfg.CacheCapacity, cfg.CacheTTL),
		pool:    pool.New(cfg.Workers),
		driver:  codec.New(cfg.CodecBinaryPath, cfg.TempDirRoot, logger),
		fetcher: decode.NewHTTPFetcher(),
		logger:  logger,
	}, nil
}

// Close shuts down the worker pool and tears down the codec VFS. The
// Orchestrator is unusable after Close.
func (o *Orchestrator) Close() error {
	o.pool.Shutdown()
	return o.driver.Close()
}

// Render executes the full render(job) -> outcome contract.
func (o *Orchestrator) Render(ctx context.Context, job model.RenderJob) (model.RenderOutcome, error) {
	start := time.Now()

	if job.Options.CacheKey != "" {
		if outcome, ok := o.cache.Get(job.Options.CacheKey); ok {
			outcome.FromCache = true
			return outcome, nil
		}
	}

	cfg := job.Options.Configuration
	fastPath := job.Options.Pipeline == model.PipelineFast &&
		job.Source.Kind != model.SourceFrameSequence &&
		cfg.Container == model.ContainerMP4 &&
		cfg.Codec == model.CodecH264 &&
		!cfg.EnableAlpha

	var outcome model.RenderOutcome
	var err error
	if fastPath {
		outcome, err = o.renderFastPath(ctx, job)
	} else {
		outcome, err = o.renderQualityPath(ctx, job)
	}
	if err != nil {
		return model.RenderOutcome{}, err
	}

	outcome.Metrics.TotalTimeMs = time.Since(start).Milliseconds()

	if job.Options.CacheKey != "" {
		o.cache.Set(job.Options.CacheKey, outcome)
	}
	return outcome, nil
}

func (o *Orchestrator) renderFastPath(ctx context.Context, job model.RenderJob) (model.RenderOutcome, error) {
	cfg := job.Options.Configuration

	downloadStart := time.Now()
	data, err := o.fetcher.Fetch(ctx, job.Source.URI)
	if err != nil {
		return model.RenderOutcome{}, err
	}
	downloadMs := time.Since(downloadStart).Milliseconds()

	inputName := fmt.Sprintf("input-%s", job.ID)
	outputName := fmt.Sprintf("output-%s.%s", job.ID, cfg.Container)

	if err := o.driver.Write(inputName, data); err != nil {
		return model.RenderOutcome{}, err
	}
	defer o.bestEffortUnlink(inputName)

	frameRate := min(cfg.FrameRate, 30)
	fastCfg := cfg
	fastCfg.FrameRate = frameRate

	encodeStart := time.Now()
	if err := o.driver.Run(ctx, codec.FastPathArgs(fastCfg, inputName, outputName)); err != nil {
		return model.RenderOutcome{}, err
	}
	encodeMs := time.Since(encodeStart).Milliseconds()
	defer o.bestEffortUnlink(outputName)

	video, err := o.driver.Read(outputName)
	if err != nil {
		return model.RenderOutcome{}, rendererrors.NewCodecRunFailedError("failed to read fast-path output", err)
	}

	var poster []byte
	if job.Options.Fallback.ProducePosterFrame {
		poster = o.extractPoster(ctx, job, outputName)
	}

	return model.RenderOutcome{
		Metrics: model.Metrics{
			DecodeTimeMs:             downloadMs,
			RenderTimeMs:             0,
			EncodeTimeMs:             encodeMs,
			OutputSizeBytes:          int64(len(video)),
			AverageFrameProcessingMs: 0,
		},
		Result: model.Result{
			Video:       video,
			Container:   cfg.Container,
			MimeType:    model.MimeType(cfg.Container),
			DurationMs:  job.Metadata.DurationMs,
			FrameRate:   frameRate,
			PosterFrame: poster,
		},
	}, nil
}

func (o *Orchestrator) renderQualityPath(ctx context.Context, job model.RenderJob) (model.RenderOutcome, error) {
	cfg := job.Options.Configuration

	decodeStart := time.Now()
	frames, err := decode.Decode(ctx, job.Source, job.Metadata, job.Metadata.Width, job.Metadata.Height, o.fetcher, o.driver, codec.DecodeVideoArgs, job.ID)
	if err != nil {
		return model.RenderOutcome{}, err
	}
	decodeMs := time.Since(decodeStart).Milliseconds()

	selected := decimate.Apply(frames, decimate.Policy{
		Enabled:             cfg.Decimation.Enabled,
		MinIntervalMs:       cfg.Decimation.MinIntervalMs,
		SimilarityThreshold: cfg.Decimation.SimilarityThreshold,
	})

	renderStart := time.Now()
	processed, err := o.processFrames(ctx, selected, job.Options.Operations, job.Metadata.Width, job.Metadata.Height)
	if err != nil {
		return model.RenderOutcome{}, err
	}
	renderMs := time.Since(renderStart).Milliseconds()

	outputName := fmt.Sprintf("output-%s.%s", job.ID, cfg.Container)
	for i, f := range processed {
		name := fmt.Sprintf("frame-%05d.png", i)
		if err := o.driver.Write(name, f.PNG); err != nil {
			return model.RenderOutcome{}, err
		}
		defer o.bestEffortUnlink(name)
	}

	encodeStart := time.Now()
	if err := o.driver.Run(ctx, codec.QualityPathArgs(cfg, outputName)); err != nil {
		return model.RenderOutcome{}, err
	}
	encodeMs := time.Since(encodeStart).Milliseconds()
	defer o.bestEffortUnlink(outputName)

	video, err := o.driver.Read(outputName)
	if err != nil {
		return model.RenderOutcome{}, rendererrors.NewCodecRunFailedError("failed to read quality-path output", err)
	}

	var poster []byte
	if job.Options.Fallback.ProducePosterFrame && len(processed) > 0 {
		poster = processed[0].PNG
	}

	var avgFrameMs float64
	if len(processed) > 0 {
		avgFrameMs = float64(renderMs) / float64(len(processed))
	}

	return model.RenderOutcome{
		Metrics: model.Metrics{
			DecodeTimeMs:             decodeMs,
			RenderTimeMs:             renderMs,
			EncodeTimeMs:             encodeMs,
			OutputSizeBytes:          int64(len(video)),
			AverageFrameProcessingMs: avgFrameMs,
		},
		Result: model.Result{
			Video:       video,
			Container:   cfg.Container,
			MimeType:    model.MimeType(cfg.Container),
			DurationMs:  job.Metadata.DurationMs,
			FrameRate:   cfg.FrameRate,
			PosterFrame: poster,
		},
	}, nil
}

// processFrames fans each selected frame out to the worker pool and
// awaits every reply concurrently, returning the first worker error
// encountered (if any).
func (o *Orchestrator) processFrames(ctx context.Context, frames []model.DecodedFrame, operations []model.Operation, width, height int) ([]model.ProcessedFrame, error) {
	replies := make([]<-chan pool.Result, len(frames))
	for i, f := range frames {
		reply, err := o.pool.Submit(pool.Task{
			FrameIndex: f.Index,
			Width:      width,
			Height:     height,
			Bitmap:     f.Bitmap,
			Operations: operations,
		})
		if err != nil {
			return nil, err
		}
		replies[i] = reply
	}

	processed := make([]model.ProcessedFrame, len(frames))
	g, _ := errgroup.WithContext(ctx)
	for i := range frames {
		i := i
		g.Go(func() error {
			res := <-replies[i]
			if res.Err != nil {
				return res.Err
			}
			processed[i] = model.ProcessedFrame{Index: res.FrameIndex, PNG: res.PNG, DelayMs: frames[i].DelayMs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return processed, nil
}

func (o *Orchestrator) extractPoster(ctx context.Context, job model.RenderJob, outputName string) []byte {
	isWebP := job.Options.Fallback.PosterFormat == model.PosterWebP
	ext := "png"
	if isWebP {
		ext = "webp"
	}
	posterName := fmt.Sprintf("poster-%s.%s", job.ID, ext)
	defer o.bestEffortUnlink(posterName)

	if err := o.driver.Run(ctx, codec.PosterArgs(outputName, posterName)); err != nil {
		o.debugf("poster extraction failed for job %s: %v", job.ID, err)
		return nil
	}
	data, err := o.driver.Read(posterName)
	if err != nil {
		o.debugf("poster read failed for job %s: %v", job.ID, err)
		return nil
	}

	if isWebP {
		features, err := codec.ValidateWebPPoster(data)
		if err != nil {
			o.debugf("discarding poster for job %s: %v", job.ID, err)
			return nil
		}
		o.debugf("poster for job %s: %dx%d alpha=%v", job.ID, features.Width, features.Height, features.HasAlpha)
	}

	return data
}

func (o *Orchestrator) bestEffortUnlink(name string) {
	if err := o.driver.Unlink(name); err != nil {
		o.debugf("VFS unlink of %s failed: %v", name, err)
	}
}

func (o *Orchestrator) debugf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(fmt.Sprintf(format, args...))
	}
}
