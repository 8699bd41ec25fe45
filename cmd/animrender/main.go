// Package main provides the CLI entry point for animrender.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/five82/animrender"
	"github.com/five82/animrender/internal/buildconfig"
	rendererrors "github.com/five82/animrender/internal/errors"
	"github.com/five82/animrender/internal/logging"
	"github.com/five82/animrender/internal/model"
	"github.com/five82/animrender/internal/reporter"
	"github.com/five82/animrender/internal/util"
)

const (
	appName    = "animrender"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "render":
		if err := runRender(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, appVersion)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Animated source render tool

Usage:
  %s <command> [options]

Commands:
  render    Render an animated source into a video container
  version   Print version information
  help      Show this help message

Run '%s render --help' for render command options.
`, appName, appName, appName)
}

// renderArgs holds the parsed arguments for the render command.
type renderArgs struct {
	input      string
	kind       string
	output     string
	logDir     string
	verbose    bool
	noLog      bool

	width, height int
	container     string
	codec         string
	frameRate     float64
	targetKbps    int
	maxKbps       int
	pipeline      string
	enableAlpha   bool
	loop          bool
	cacheKey      string
	poster        bool
	posterFormat  string

	frameCount int
	durationMs int64

	workers         int
	cacheCapacity   int
	cacheTTL        time.Duration
	codecBinaryPath string
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var ra renderArgs
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Render an animated source into a video container.

Usage:
  %s render [options]

Required:
  -i, --input <URI>      Source file path or URI
  -o, --output <PATH>    Output video file path

Source Options:
  --kind <KIND>          Source kind: gif, apng, video, webp (sniffed from
                         the input extension when omitted)
  --frames <N>           Source frame count (default: 1)
  --duration-ms <N>      Source duration in milliseconds (default: 1000)

Render Configuration:
  --width <N>            Output width (default: 640)
  --height <N>           Output height (default: 480)
  --container <mp4|webm> Output container (default: mp4)
  --codec <h264|h265|vp9> Output codec (default: h264)
  --frame-rate <N>       Output frame rate (default: 30)
  --target-kbps <N>      Target bitrate in kbps (default: 2000)
  --max-kbps <N>         Max bitrate in kbps (default: 4000)
  --pipeline <fast|quality> Render pipeline (default: fast)
  --enable-alpha         Preserve alpha (requires --container webm)
  --loop                 Loop the rendered output
  --cache-key <KEY>      Cache key; empty disables caching for this job

Poster Options:
  --poster               Produce a poster frame alongside the video
  --poster-format <png|webp> Poster format (default: png)

Renderer Options:
  --workers <N>          Worker pool size (default: half of CPUs, min 2)
  --cache-capacity <N>   Max cached outcomes (default: %d)
  --cache-ttl <DUR>      Cache entry time-to-live (default: %s)
  --codec-binary <PATH>  Codec binary path or PATH-resolved name (default: %s)

Output Options:
  -l, --log-dir <PATH>   Log directory (defaults to ~/.local/state/animrender/logs)
  -v, --verbose          Enable verbose output for troubleshooting
  --no-log               Disable log file creation
`, appName, buildconfig.DefaultCacheCapacity, buildconfig.DefaultCacheTTL, buildconfig.DefaultCodecBinary)
	}

	fs.StringVar(&ra.input, "i", "", "Source file path or URI")
	fs.StringVar(&ra.input, "input", "", "Source file path or URI")
	fs.StringVar(&ra.output, "o", "", "Output video file path")
	fs.StringVar(&ra.output, "output", "", "Output video file path")

	fs.StringVar(&ra.kind, "kind", "", "Source kind: gif, apng, video, webp")
	fs.IntVar(&ra.frameCount, "frames", 1, "Source frame count")
	fs.Int64Var(&ra.durationMs, "duration-ms", 1000, "Source duration in milliseconds")

	fs.IntVar(&ra.width, "width", 640, "Output width")
	fs.IntVar(&ra.height, "height", 480, "Output height")
	fs.StringVar(&ra.container, "container", "mp4", "Output container")
	fs.StringVar(&ra.codec, "codec", "h264", "Output codec")
	fs.Float64Var(&ra.frameRate, "frame-rate", 30, "Output frame rate")
	fs.IntVar(&ra.targetKbps, "target-kbps", 2000, "Target bitrate in kbps")
	fs.IntVar(&ra.maxKbps, "max-kbps", 4000, "Max bitrate in kbps")
	fs.StringVar(&ra.pipeline, "pipeline", "fast", "Render pipeline")
	fs.BoolVar(&ra.enableAlpha, "enable-alpha", false, "Preserve alpha")
	fs.BoolVar(&ra.loop, "loop", false, "Loop the rendered output")
	fs.StringVar(&ra.cacheKey, "cache-key", "", "Cache key")

	fs.BoolVar(&ra.poster, "poster", false, "Produce a poster frame")
	fs.StringVar(&ra.posterFormat, "poster-format", "png", "Poster format")

	fs.IntVar(&ra.workers, "workers", 0, "Worker pool size")
	fs.IntVar(&ra.cacheCapacity, "cache-capacity", buildconfig.DefaultCacheCapacity, "Max cached outcomes")
	fs.DurationVar(&ra.cacheTTL, "cache-ttl", buildconfig.DefaultCacheTTL, "Cache entry time-to-live")
	fs.StringVar(&ra.codecBinaryPath, "codec-binary", buildconfig.DefaultCodecBinary, "Codec binary path")

	fs.StringVar(&ra.logDir, "l", "", "Log directory")
	fs.StringVar(&ra.logDir, "log-dir", "", "Log directory")
	fs.BoolVar(&ra.verbose, "v", false, "Enable verbose output")
	fs.BoolVar(&ra.verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&ra.noLog, "no-log", false, "Disable log file creation")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if ra.input == "" {
		return fmt.Errorf("source is required (-i/--input)")
	}
	if ra.output == "" {
		return fmt.Errorf("output path is required (-o/--output)")
	}

	return executeRender(ra)
}

func executeRender(ra renderArgs) error {
	kind, err := resolveSourceKind(ra.kind, ra.input)
	if err != nil {
		return err
	}

	outputPath, err := filepath.Abs(ra.output)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := util.EnsureDirectory(filepath.Dir(outputPath)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logDir := ra.logDir
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		logDir = filepath.Join(homeDir, ".local", "state", "animrender", "logs")
	}

	logger, err := logging.SetupFile(logDir, ra.verbose, ra.noLog)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
	}

	job, err := buildJob(kind, ra)
	if err != nil {
		return err
	}

	if logger != nil {
		logger.Info("render job built", "id", job.ID, "kind", kind.String(), "container", string(job.Options.Configuration.Container))
	}

	renderer, err := animrender.New(logger,
		animrender.WithWorkers(ra.workers),
		animrender.WithCacheCapacity(ra.cacheCapacity),
		animrender.WithCacheTTL(ra.cacheTTL),
		animrender.WithCodecBinaryPath(ra.codecBinaryPath),
	)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}
	defer func() { _ = renderer.Close() }()

	rep := reporter.NewTerminalReporter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	outcome, err := renderer.RenderWithReporter(ctx, job, rep)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, outcome.Result.Video, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if ra.poster && outcome.Result.PosterFrame != nil {
		posterPath := util.ResolveOutputPath(outputPath, filepath.Dir(outputPath), ra.posterFormat)
		if err := os.WriteFile(posterPath, outcome.Result.PosterFrame, 0644); err != nil {
			return fmt.Errorf("failed to write poster: %w", err)
		}
	}

	return nil
}

// resolveSourceKind returns the explicit kind override, or sniffs one from
// the input's extension using util.SourceExtensions.
func resolveSourceKind(explicit, input string) (model.SourceKind, error) {
	switch explicit {
	case "gif":
		return model.SourceGIF, nil
	case "apng":
		return model.SourceAPNG, nil
	case "video":
		return model.SourceVideo, nil
	case "webp":
		return model.SourceWebP, nil
	case "":
		// fall through to extension sniffing
	default:
		return 0, fmt.Errorf("unrecognized --kind %q", explicit)
	}

	if !util.HasRecognizedExtension(input) {
		return 0, fmt.Errorf("cannot sniff source kind from %q; pass --kind explicitly", input)
	}
	switch filepath.Ext(input) {
	case ".gif":
		return model.SourceGIF, nil
	case ".apng":
		return model.SourceAPNG, nil
	case ".png":
		return model.SourceAPNG, nil
	case ".webp":
		return model.SourceWebP, nil
	default:
		return model.SourceVideo, nil
	}
}

func buildJob(kind model.SourceKind, ra renderArgs) (model.RenderJob, error) {
	source := model.AnimationSource{Kind: kind, URI: ra.input}

	metadata := model.SourceMetadata{
		Width:      ra.width,
		Height:     ra.height,
		FrameCount: ra.frameCount,
		FrameRate:  ra.frameRate,
		DurationMs: ra.durationMs,
		HasAlpha:   ra.enableAlpha,
	}

	container, err := parseContainer(ra.container)
	if err != nil {
		return model.RenderJob{}, err
	}
	codec, err := parseCodec(ra.codec)
	if err != nil {
		return model.RenderJob{}, err
	}
	pipeline, err := parsePipeline(ra.pipeline)
	if err != nil {
		return model.RenderJob{}, err
	}
	posterFormat, err := parsePosterFormat(ra.posterFormat)
	if err != nil {
		return model.RenderJob{}, err
	}

	options := model.RenderOptions{
		Configuration: model.RenderConfiguration{
			Width:       ra.width,
			Height:      ra.height,
			Container:   container,
			Codec:       codec,
			FrameRate:   ra.frameRate,
			Bitrate:     model.Bitrate{TargetKbps: ra.targetKbps, MaxKbps: ra.maxKbps},
			EnableAlpha: ra.enableAlpha,
			Loop:        ra.loop,
		},
		Pipeline: pipeline,
		Fallback: model.FallbackOptions{
			ProducePosterFrame: ra.poster,
			PosterFormat:       posterFormat,
		},
		CacheKey: ra.cacheKey,
	}

	jobID := util.GetFileStem(ra.input)
	return model.NewRenderJob(jobID, source, metadata, options, time.Now())
}

func parseContainer(s string) (model.Container, error) {
	switch s {
	case "mp4":
		return model.ContainerMP4, nil
	case "webm":
		return model.ContainerWebM, nil
	default:
		return "", rendererrors.NewUnsupportedSourceError("unrecognized --container " + s)
	}
}

func parseCodec(s string) (model.VideoCodec, error) {
	switch s {
	case "h264":
		return model.CodecH264, nil
	case "h265":
		return model.CodecH265, nil
	case "vp9":
		return model.CodecVP9, nil
	default:
		return "", rendererrors.NewUnsupportedSourceError("unrecognized --codec " + s)
	}
}

func parsePipeline(s string) (model.Pipeline, error) {
	switch s {
	case "fast":
		return model.PipelineFast, nil
	case "quality":
		return model.PipelineQuality, nil
	default:
		return "", fmt.Errorf("unrecognized --pipeline %q", s)
	}
}

func parsePosterFormat(s string) (model.PosterFormat, error) {
	switch s {
	case "png":
		return model.PosterPNG, nil
	case "webp":
		return model.PosterWebP, nil
	default:
		return "", fmt.Errorf("unrecognized --poster-format %q", s)
	}
}
