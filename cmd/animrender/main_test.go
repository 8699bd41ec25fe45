package main

import (
	"testing"

	"github.com/five82/animrender/internal/model"
)

func TestResolveSourceKindExplicit(t *testing.T) {
	tests := []struct {
		explicit string
		want     model.SourceKind
	}{
		{"gif", model.SourceGIF},
		{"apng", model.SourceAPNG},
		{"video", model.SourceVideo},
		{"webp", model.SourceWebP},
	}

	for _, tt := range tests {
		t.Run(tt.explicit, func(t *testing.T) {
			got, err := resolveSourceKind(tt.explicit, "ignored")
			if err != nil {
				t.Fatalf("resolveSourceKind(%q, ...) error: %v", tt.explicit, err)
			}
			if got != tt.want {
				t.Errorf("resolveSourceKind(%q, ...) = %v, want %v", tt.explicit, got, tt.want)
			}
		})
	}
}

func TestResolveSourceKindExplicitUnrecognized(t *testing.T) {
	if _, err := resolveSourceKind("bogus", "input.gif"); err == nil {
		t.Fatal("expected error for unrecognized --kind")
	}
}

func TestResolveSourceKindSniffsFromExtension(t *testing.T) {
	tests := []struct {
		input string
		want  model.SourceKind
	}{
		{"/tmp/clip.gif", model.SourceGIF},
		{"/tmp/clip.apng", model.SourceAPNG},
		{"/tmp/clip.png", model.SourceAPNG},
		{"/tmp/clip.webp", model.SourceWebP},
		{"/tmp/clip.mp4", model.SourceVideo},
		{"/tmp/clip.webm", model.SourceVideo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := resolveSourceKind("", tt.input)
			if err != nil {
				t.Fatalf("resolveSourceKind(\"\", %q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("resolveSourceKind(\"\", %q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveSourceKindRejectsUnrecognizedExtension(t *testing.T) {
	if _, err := resolveSourceKind("", "/tmp/clip.xyz"); err == nil {
		t.Fatal("expected error for unrecognized extension")
	}
}

func TestParseContainer(t *testing.T) {
	if got, err := parseContainer("mp4"); err != nil || got != model.ContainerMP4 {
		t.Errorf("parseContainer(mp4) = %v, %v", got, err)
	}
	if got, err := parseContainer("webm"); err != nil || got != model.ContainerWebM {
		t.Errorf("parseContainer(webm) = %v, %v", got, err)
	}
	if _, err := parseContainer("avi"); err == nil {
		t.Error("expected error for unrecognized container")
	}
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		in   string
		want model.VideoCodec
	}{
		{"h264", model.CodecH264},
		{"h265", model.CodecH265},
		{"vp9", model.CodecVP9},
	}
	for _, tt := range tests {
		if got, err := parseCodec(tt.in); err != nil || got != tt.want {
			t.Errorf("parseCodec(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := parseCodec("av1"); err == nil {
		t.Error("expected error for unrecognized codec")
	}
}

func TestParsePipeline(t *testing.T) {
	if got, err := parsePipeline("fast"); err != nil || got != model.PipelineFast {
		t.Errorf("parsePipeline(fast) = %v, %v", got, err)
	}
	if got, err := parsePipeline("quality"); err != nil || got != model.PipelineQuality {
		t.Errorf("parsePipeline(quality) = %v, %v", got, err)
	}
	if _, err := parsePipeline("turbo"); err == nil {
		t.Error("expected error for unrecognized pipeline")
	}
}

func TestParsePosterFormat(t *testing.T) {
	if got, err := parsePosterFormat("png"); err != nil || got != model.PosterPNG {
		t.Errorf("parsePosterFormat(png) = %v, %v", got, err)
	}
	if got, err := parsePosterFormat("webp"); err != nil || got != model.PosterWebP {
		t.Errorf("parsePosterFormat(webp) = %v, %v", got, err)
	}
	if _, err := parsePosterFormat("jpeg"); err == nil {
		t.Error("expected error for unrecognized poster format")
	}
}

func TestBuildJobProducesValidatedJob(t *testing.T) {
	ra := renderArgs{
		input:        "clip.gif",
		width:        640,
		height:       480,
		container:    "mp4",
		codec:        "h264",
		frameRate:    30,
		targetKbps:   1000,
		maxKbps:      2000,
		pipeline:     "fast",
		posterFormat: "png",
		frameCount:   10,
		durationMs:   1000,
	}

	job, err := buildJob(model.SourceGIF, ra)
	if err != nil {
		t.Fatalf("buildJob: %v", err)
	}
	if job.ID != "clip" {
		t.Errorf("job.ID = %q, want clip", job.ID)
	}
	if job.Source.Kind != model.SourceGIF || job.Source.URI != "clip.gif" {
		t.Errorf("job.Source = %+v", job.Source)
	}
	if job.Options.Configuration.Container != model.ContainerMP4 {
		t.Errorf("job.Options.Configuration.Container = %v", job.Options.Configuration.Container)
	}
}

func TestBuildJobRejectsInvalidConfiguration(t *testing.T) {
	ra := renderArgs{
		input:        "clip.gif",
		width:        640,
		height:       480,
		container:    "mp4",
		codec:        "h264",
		frameRate:    30,
		targetKbps:   3000,
		maxKbps:      2000, // target exceeds max: invalid
		pipeline:     "fast",
		posterFormat: "png",
		frameCount:   10,
		durationMs:   1000,
	}

	if _, err := buildJob(model.SourceGIF, ra); err == nil {
		t.Fatal("expected validation error for target bitrate exceeding max")
	}
}
