// Package model defines the value types that flow through the render
// pipeline: sources, jobs, decoded/processed frames, and outcomes.
package model

import (
	"time"

	rendererrors "github.com/five82/animrender/internal/errors"
)

// SourceKind tags the variant held by an AnimationSource.
type SourceKind int

const (
	SourceGIF SourceKind = iota
	SourceAPNG
	SourceVideo
	SourceWebP
	SourceFrameSequence
)

func (k SourceKind) String() string {
	switch k {
	case SourceGIF:
		return "gif"
	case SourceAPNG:
		return "apng"
	case SourceVideo:
		return "video"
	case SourceWebP:
		return "webp"
	case SourceFrameSequence:
		return "frameSequence"
	default:
		return "unknown"
	}
}

// AnimationSource is the immutable input to a render job. It is a sealed
// tagged variant: Kind determines which of the remaining fields are
// meaningful (uri for gif/apng/video/webp, frames/delayMs for a frame
// sequence) without resorting to inheritance.
type AnimationSource struct {
	Kind SourceKind

	// URI is set for SourceGIF, SourceAPNG, SourceVideo, SourceWebP.
	URI string

	// Frames and FrameDelayMs are set for SourceFrameSequence: each
	// entry in Frames is a raw RGBA byte sequence (4*w*h bytes).
	Frames       [][]byte
	FrameDelayMs int
}

// Validate checks the structural invariants an AnimationSource must satisfy.
func (s AnimationSource) Validate() error {
	switch s.Kind {
	case SourceGIF, SourceAPNG, SourceVideo, SourceWebP:
		if s.URI == "" {
			return rendererrors.NewInvalidJobError("uri must be non-empty for " + s.Kind.String() + " sources")
		}
	case SourceFrameSequence:
		if len(s.Frames) == 0 {
			return rendererrors.NewInvalidJobError("frameSequence must have at least one frame")
		}
		if s.FrameDelayMs <= 0 {
			return rendererrors.NewInvalidJobError("frameSequence delayMs must be positive")
		}
	default:
		return rendererrors.NewUnsupportedSourceError("unknown source kind " + s.Kind.String())
	}
	return nil
}

// SourceMetadata describes the decoded properties of a source, supplied
// by the caller (the upper layer that validated and probed the input).
type SourceMetadata struct {
	Width       int
	Height      int
	FrameCount  int
	FrameRate   float64
	DurationMs  int64
	HasAlpha    bool
}

// Validate checks the SourceMetadata invariants that can be checked
// without the decoded bitmaps.
func (m SourceMetadata) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return rendererrors.NewInvalidJobError("metadata dimensions must be positive")
	}
	if m.FrameCount <= 0 {
		return rendererrors.NewInvalidJobError("metadata frame count must be positive")
	}
	if m.FrameRate < 1 || m.FrameRate > 60 {
		return rendererrors.NewInvalidJobError("metadata frame rate must be within [1,60]")
	}
	if m.DurationMs <= 0 {
		return rendererrors.NewInvalidJobError("metadata duration must be positive")
	}
	return nil
}

// Container is the output container format.
type Container string

const (
	ContainerMP4  Container = "mp4"
	ContainerWebM Container = "webm"
)

// VideoCodec is the output video codec.
type VideoCodec string

const (
	CodecH264 VideoCodec = "h264"
	CodecH265 VideoCodec = "h265"
	CodecVP9  VideoCodec = "vp9"
)

// Bitrate bounds the target and maximum encode bitrate in kbps.
type Bitrate struct {
	TargetKbps int
	MaxKbps    int
}

// DecimationPolicy controls the temporal decimator.
type DecimationPolicy struct {
	Enabled             bool
	MinIntervalMs       int
	SimilarityThreshold float64
}

// RenderConfiguration is the immutable per-job encode configuration.
type RenderConfiguration struct {
	Width, Height int
	Container     Container
	Codec         VideoCodec
	FrameRate     float64
	Bitrate       Bitrate
	EnableAlpha   bool
	Loop          bool
	Decimation    DecimationPolicy
}

// Validate checks the RenderConfiguration invariants.
func (c RenderConfiguration) Validate() error {
	if c.Width <= 0 || c.Width > 1280 || c.Height <= 0 || c.Height > 720 {
		return rendererrors.NewInvalidJobError("configuration dimensions must be within 1x1..1280x720")
	}
	if c.Container != ContainerMP4 && c.Container != ContainerWebM {
		return rendererrors.NewUnsupportedSourceError("unsupported container " + string(c.Container))
	}
	if c.Codec != CodecH264 && c.Codec != CodecH265 && c.Codec != CodecVP9 {
		return rendererrors.NewUnsupportedSourceError("unsupported codec " + string(c.Codec))
	}
	if c.FrameRate < 1 || c.FrameRate > 60 {
		return rendererrors.NewInvalidJobError("frame rate must be within [1,60]")
	}
	if c.Bitrate.TargetKbps > c.Bitrate.MaxKbps {
		return rendererrors.NewInvalidJobError("target bitrate must not exceed max bitrate")
	}
	if c.EnableAlpha && c.Container != ContainerWebM {
		return rendererrors.NewInvalidJobError("enableAlpha requires webm container")
	}
	if c.Decimation.Enabled {
		if c.Decimation.MinIntervalMs < 8 || c.Decimation.MinIntervalMs > 200 {
			return rendererrors.NewInvalidJobError("decimation minIntervalMs must be within [8,200]")
		}
		if c.Decimation.SimilarityThreshold < 0 || c.Decimation.SimilarityThreshold > 1 {
			return rendererrors.NewInvalidJobError("decimation similarityThreshold must be within [0,1]")
		}
	}
	return nil
}

// Pipeline selects between the fast transcode path and the full decode/process/encode path.
type Pipeline string

const (
	PipelineFast    Pipeline = "fast"
	PipelineQuality Pipeline = "quality"
)

// PosterFormat is the still-image format used for the optional poster frame.
type PosterFormat string

const (
	PosterPNG  PosterFormat = "png"
	PosterWebP PosterFormat = "webp"
)

// FallbackOptions controls optional poster-frame extraction.
type FallbackOptions struct {
	ProducePosterFrame bool
	PosterFormat       PosterFormat
}

// PerformanceBudget is advisory: recorded alongside metrics for caller policy.
type PerformanceBudget struct {
	MaxRenderMs int64
}

// Operation is a single per-frame raster step sent to a worker. Kind
// selects which of the remaining fields apply (Radius for "blur",
// Factor for "saturate", Color for "overlay").
type Operation struct {
	Kind   string
	Radius int
	Factor float64
	Color  [4]uint8 // r,g,b,a
}

const (
	OpBlur     = "blur"
	OpSaturate = "saturate"
	OpOverlay  = "overlay"
)

// RenderOptions is the immutable per-job set of knobs beyond the codec configuration.
type RenderOptions struct {
	Configuration     RenderConfiguration
	Pipeline          Pipeline
	Fallback          FallbackOptions
	PerformanceBudget PerformanceBudget
	CacheKey          string // empty means "no caching for this job"

	// Operations is forwarded to every worker task on the quality path.
	// Empty by default, meaning decode/decimate/encode with no per-frame
	// raster processing.
	Operations []Operation
}

// RenderJob is a single render request, consumed once.
type RenderJob struct {
	ID        string
	Source    AnimationSource
	Metadata  SourceMetadata
	Options   RenderOptions
	CreatedAt time.Time
}

// NewRenderJob validates and constructs a RenderJob, raising InvalidJob-class
// errors at construction time rather than deferring validation to render.
func NewRenderJob(id string, source AnimationSource, metadata SourceMetadata, options RenderOptions, createdAt time.Time) (RenderJob, error) {
	if err := source.Validate(); err != nil {
		return RenderJob{}, err
	}
	if err := metadata.Validate(); err != nil {
		return RenderJob{}, err
	}
	if err := options.Configuration.Validate(); err != nil {
		return RenderJob{}, err
	}
	return RenderJob{
		ID:        id,
		Source:    source,
		Metadata:  metadata,
		Options:   options,
		CreatedAt: createdAt,
	}, nil
}

// DecodedFrame is a single decoded RGBA frame awaiting decimation/processing.
type DecodedFrame struct {
	Index      int
	DelayMs    int
	IsKeyFrame bool
	Bitmap     []byte // RGBA, len == 4*w*h
}

// ProcessedFrame is a worker's PNG-encoded output for one decoded frame.
type ProcessedFrame struct {
	Index   int
	PNG     []byte
	DelayMs int
}

// Metrics records the timing and size figures produced by a render.
type Metrics struct {
	DecodeTimeMs            int64
	RenderTimeMs            int64
	EncodeTimeMs            int64
	TotalTimeMs             int64
	OutputSizeBytes         int64
	AverageFrameProcessingMs float64
}

// Result is the encoded artifact and its descriptive metadata.
type Result struct {
	Video       []byte
	Container   Container
	MimeType    string
	DurationMs  int64
	FrameRate   float64
	PosterFrame []byte // nil when absent
}

// RenderOutcome is the value returned by a render call, and the value cached.
type RenderOutcome struct {
	FromCache bool
	Metrics   Metrics
	Result    Result
}

// MimeType maps a container to its MIME type.
func MimeType(c Container) string {
	switch c {
	case ContainerMP4:
		return "video/mp4"
	case ContainerWebM:
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
