package codec

import (
	"fmt"

	"github.com/five82/animrender/internal/model"
)

// FastPathArgs builds the argument vector for a single-pass transcode that
// bypasses per-frame decode entirely.
func FastPathArgs(cfg model.RenderConfiguration, inputName, outputName string) []string {
	w, h := DeriveDimensions(cfg.Width, cfg.Height, 1)

	videoCodec := "libx264"
	if cfg.Codec == model.CodecH265 {
		videoCodec = "libx265"
	}

	vf := newFilterChain().
		add(fmt.Sprintf("fps=%s", formatRate(cfg.FrameRate))).
		add(fmt.Sprintf("scale=%d:%d:flags=lanczos", w, h)).
		build()

	return []string{
		"-i", inputName,
		"-an", "-sn",
		"-vf", vf,
		"-c:v", videoCodec,
		"-preset", "veryfast", "-tune", "zerolatency", "-profile:v", "high",
		"-pix_fmt", "yuv420p",
		"-b:v", fmt.Sprintf("%dk", cfg.Bitrate.TargetKbps),
		"-maxrate", fmt.Sprintf("%dk", cfg.Bitrate.MaxKbps),
		"-bufsize", fmt.Sprintf("%dk", 2*cfg.Bitrate.MaxKbps),
		"-movflags", "faststart",
		outputName,
	}
}

// QualityPathArgs builds the argument vector that assembles a sequence of
// worker-produced PNG frames into the configured container.
func QualityPathArgs(cfg model.RenderConfiguration, outputName string) []string {
	w, h := DeriveDimensions(cfg.Width, cfg.Height, 1)

	var videoCodec string
	var speed []string
	pixFmt := "yuv420p"

	switch cfg.Container {
	case model.ContainerWebM:
		videoCodec = "libvpx"
		if cfg.Codec == model.CodecVP9 {
			videoCodec = "libvpx-vp9"
		}
		speed = []string{"-deadline", "realtime", "-cpu-used", "5"}
		if cfg.EnableAlpha {
			pixFmt = "yuva420p"
		}
	default: // ContainerMP4
		videoCodec = "libx264"
		if cfg.Codec == model.CodecH265 {
			videoCodec = "libx265"
		}
		speed = []string{"-preset", "veryfast", "-tune", "zerolatency"}
	}

	args := []string{
		"-framerate", formatRate(cfg.FrameRate),
		"-i", "frame-%05d.png",
		"-c:v", videoCodec,
	}
	args = append(args, speed...)
	args = append(args,
		"-pix_fmt", pixFmt,
		"-b:v", fmt.Sprintf("%dk", cfg.Bitrate.TargetKbps),
		"-maxrate", fmt.Sprintf("%dk", cfg.Bitrate.MaxKbps),
		"-vf", newFilterChain().add(fmt.Sprintf("scale=%d:%d:flags=lanczos", w, h)).build(),
		"-movflags", "faststart",
	)
	if cfg.Loop {
		args = append(args, "-loop", "0")
	}
	args = append(args, outputName)
	return args
}

// PosterArgs builds the argument vector that extracts the first frame of
// an already-written output as a still image.
func PosterArgs(inputName, posterName string) []string {
	return []string{"-i", inputName, "-frames:v", "1", posterName}
}

// DecodeVideoArgs builds the argument vector that explodes a source video
// into numbered PNG frames at the configured decode size.
func DecodeVideoArgs(inputName string, width, height int, framePattern string) []string {
	vf := newFilterChain().
		add(fmt.Sprintf("scale=%d:%d:flags=lanczos", width, height)).
		build()
	return []string{"-i", inputName, "-vf", vf, "-vsync", "0", framePattern}
}

func formatRate(fr float64) string {
	return fmt.Sprintf("%g", fr)
}
