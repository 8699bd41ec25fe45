package codec

import (
	"strings"
	"testing"

	"github.com/five82/animrender/internal/model"
)

func containsSeq(args []string, seq ...string) bool {
	for i := 0; i+len(seq) <= len(args); i++ {
		match := true
		for j, s := range seq {
			if args[i+j] != s {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func baseConfig() model.RenderConfiguration {
	return model.RenderConfiguration{
		Width: 320, Height: 240,
		Container: model.ContainerMP4,
		Codec:     model.CodecH264,
		FrameRate: 30,
		Bitrate:   model.Bitrate{TargetKbps: 1000, MaxKbps: 2000},
	}
}

func TestFastPathArgsUsesH264ByDefault(t *testing.T) {
	args := FastPathArgs(baseConfig(), "input-x", "output-x.mp4")
	if !containsSeq(args, "-c:v", "libx264") {
		t.Errorf("expected libx264 in %v", args)
	}
	if args[len(args)-1] != "output-x.mp4" {
		t.Errorf("expected output name last, got %v", args)
	}
	if !containsSeq(args, "-i", "input-x") {
		t.Errorf("expected -i input-x, got %v", args)
	}
	if !containsSeq(args, "-b:v", "1000k") || !containsSeq(args, "-maxrate", "2000k") || !containsSeq(args, "-bufsize", "4000k") {
		t.Errorf("unexpected bitrate args: %v", args)
	}
}

func TestFastPathArgsUsesH265WhenConfigured(t *testing.T) {
	cfg := baseConfig()
	cfg.Codec = model.CodecH265
	args := FastPathArgs(cfg, "input-x", "output-x.mp4")
	if !containsSeq(args, "-c:v", "libx265") {
		t.Errorf("expected libx265 in %v", args)
	}
}

func TestQualityPathArgsMP4(t *testing.T) {
	args := QualityPathArgs(baseConfig(), "output-x.mp4")
	if !containsSeq(args, "-i", "frame-%05d.png") {
		t.Errorf("expected frame glob input, got %v", args)
	}
	if !containsSeq(args, "-c:v", "libx264") {
		t.Errorf("expected libx264, got %v", args)
	}
	if !containsSeq(args, "-pix_fmt", "yuv420p") {
		t.Errorf("expected yuv420p, got %v", args)
	}
}

func TestQualityPathArgsWebMDefaultsToVP8(t *testing.T) {
	cfg := baseConfig()
	cfg.Container = model.ContainerWebM
	cfg.Codec = model.CodecH264 // non-vp9 request on webm still gets libvpx
	args := QualityPathArgs(cfg, "output-x.webm")
	if !containsSeq(args, "-c:v", "libvpx") {
		t.Errorf("expected libvpx, got %v", args)
	}
	if containsSeq(args, "-c:v", "libvpx-vp9") {
		t.Errorf("did not expect libvpx-vp9, got %v", args)
	}
}

func TestQualityPathArgsWebMVP9(t *testing.T) {
	cfg := baseConfig()
	cfg.Container = model.ContainerWebM
	cfg.Codec = model.CodecVP9
	args := QualityPathArgs(cfg, "output-x.webm")
	if !containsSeq(args, "-c:v", "libvpx-vp9") {
		t.Errorf("expected libvpx-vp9, got %v", args)
	}
}

func TestQualityPathArgsWebMAlphaUsesYUVA(t *testing.T) {
	cfg := baseConfig()
	cfg.Container = model.ContainerWebM
	cfg.Codec = model.CodecVP9
	cfg.EnableAlpha = true
	args := QualityPathArgs(cfg, "output-x.webm")
	if !containsSeq(args, "-pix_fmt", "yuva420p") {
		t.Errorf("expected yuva420p for alpha webm, got %v", args)
	}
}

func TestQualityPathArgsLoop(t *testing.T) {
	cfg := baseConfig()
	cfg.Loop = true
	args := QualityPathArgs(cfg, "output-x.mp4")
	if !containsSeq(args, "-loop", "0") {
		t.Errorf("expected -loop 0 when Loop set, got %v", args)
	}
}

func TestPosterArgs(t *testing.T) {
	args := PosterArgs("output-x.mp4", "poster-x.png")
	want := []string{"-i", "output-x.mp4", "-frames:v", "1", "poster-x.png"}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Errorf("PosterArgs = %v, want %v", args, want)
	}
}
