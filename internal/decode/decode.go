// Package decode dispatches on an animation source's kind to produce an
// ordered sequence of decoded RGBA frames. gif and apng sources are
// decomposed in-process with the standard library's image decoders (and
// github.com/kettek/apng for the apng container); webp sources are
// probed in-process with github.com/deepteams/webp/mux's container
// parser and then rasterized by the embedded codec runtime, since the
// pack carries no standalone VP8/VP8L pixel decoder; video sources are
// exploded into frames by the embedded codec runtime directly; frame
// sequences are mapped through unchanged.
package decode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"net/http"

	"github.com/deepteams/webp/mux"
	"github.com/kettek/apng"

	rendererrors "github.com/five82/animrender/internal/errors"
	"github.com/five82/animrender/internal/model"
)

// Fetcher retrieves the raw bytes a source URI points to.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// HTTPFetcher is the default Fetcher, backed by net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher using http.DefaultClient.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: http.DefaultClient}
}

// Fetch issues a GET against uri and returns its body, mapping transport
// failures and non-2xx responses to DownloadFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, rendererrors.NewDownloadFailedError("invalid request for "+uri, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, rendererrors.NewDownloadFailedError("fetch failed for "+uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, rendererrors.NewDownloadFailedError(fmt.Sprintf("non-2xx response %d for %s", resp.StatusCode, uri), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, rendererrors.NewDownloadFailedError("failed to read response body for "+uri, err)
	}
	return body, nil
}

// VFS is the subset of the codec driver's operations a video decode needs.
// Decode accepts this interface rather than a concrete driver so it can be
// exercised without a real codec binary.
type VFS interface {
	Write(name string, data []byte) error
	Read(name string) ([]byte, error)
	Unlink(name string) error
	Run(ctx context.Context, args []string) error
}

// VideoArgsBuilder constructs the argument vector a video decode passes to
// the VFS's Run, kept as an injectable seam so decode has no import-time
// dependency on the codec package's argument construction.
type VideoArgsBuilder func(inputName string, width, height int, framePattern string) []string

// Decode dispatches on source.Kind and produces the decoded frame
// sequence. width/height and vfs/jobID/argsBuilder are only consulted for
// video and webp sources.
func Decode(ctx context.Context, source model.AnimationSource, metadata model.SourceMetadata, width, height int, fetcher Fetcher, vfs VFS, argsBuilder VideoArgsBuilder, jobID string) ([]model.DecodedFrame, error) {
	switch source.Kind {
	case model.SourceGIF:
		data, err := fetcher.Fetch(ctx, source.URI)
		if err != nil {
			return nil, err
		}
		return decodeGIF(data)
	case model.SourceAPNG:
		data, err := fetcher.Fetch(ctx, source.URI)
		if err != nil {
			return nil, err
		}
		return decodeAPNG(data)
	case model.SourceVideo:
		return decodeVideo(ctx, fetcher, vfs, argsBuilder, jobID, source.URI, width, height, metadata.FrameCount, metadata.FrameRate)
	case model.SourceWebP:
		return decodeWebP(ctx, fetcher, vfs, argsBuilder, jobID, source.URI, width, height, metadata.FrameCount, metadata.FrameRate)
	case model.SourceFrameSequence:
		return decodeFrameSequence(source.Frames, source.FrameDelayMs), nil
	default:
		return nil, rendererrors.NewUnsupportedSourceError("unknown source kind " + source.Kind.String())
	}
}

func decodeGIF(data []byte) ([]model.DecodedFrame, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, rendererrors.NewDecodeFailedError("gif decode failed", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	frames := make([]model.DecodedFrame, 0, len(g.Image))

	for i, srcImg := range g.Image {
		draw.Draw(canvas, srcImg.Bounds(), srcImg, srcImg.Bounds().Min, draw.Over)

		frameCopy := image.NewRGBA(canvas.Bounds())
		draw.Draw(frameCopy, frameCopy.Bounds(), canvas, image.Point{}, draw.Src)

		delayMs := g.Delay[i] * 10
		if delayMs < 10 {
			delayMs = 10
		}

		frames = append(frames, model.DecodedFrame{
			Index:      i,
			DelayMs:    delayMs,
			IsKeyFrame: g.Disposal[i] == gif.DisposalBackground || i == 0,
			Bitmap:     append([]byte(nil), frameCopy.Pix...),
		})

		if g.Disposal[i] == gif.DisposalBackground {
			draw.Draw(canvas, srcImg.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	}

	return frames, nil
}

func decodeAPNG(data []byte) ([]model.DecodedFrame, error) {
	a, err := apng.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, rendererrors.NewDecodeFailedError("apng decode failed", err)
	}
	return compositeAPNG(a), nil
}

// compositeAPNG replays an APNG's frames onto a persistent canvas,
// honoring blend and dispose ops, adapted from the canvas-composition loop
// used to pre-render APNG reaction images onto ebiten textures.
func compositeAPNG(a *apng.APNG) []model.DecodedFrame {
	var canvasW, canvasH int
	for _, f := range a.Frames {
		if f.IsDefault {
			continue
		}
		if w := f.XOffset + f.Image.Bounds().Dx(); w > canvasW {
			canvasW = w
		}
		if h := f.YOffset + f.Image.Bounds().Dy(); h > canvasH {
			canvasH = h
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	prevCanvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))

	var frames []model.DecodedFrame
	index := 0
	for _, f := range a.Frames {
		if f.IsDefault {
			continue
		}

		draw.Draw(prevCanvas, prevCanvas.Bounds(), canvas, image.Point{}, draw.Src)

		op := draw.Over
		if f.BlendOp == apng.BLEND_OP_SOURCE {
			op = draw.Src
		}

		fw, fh := f.Image.Bounds().Dx(), f.Image.Bounds().Dy()
		dst := image.Rect(f.XOffset, f.YOffset, f.XOffset+fw, f.YOffset+fh)
		draw.Draw(canvas, dst, f.Image, f.Image.Bounds().Min, op)

		frameCopy := image.NewRGBA(canvas.Bounds())
		draw.Draw(frameCopy, frameCopy.Bounds(), canvas, image.Point{}, draw.Src)

		delayMs := int(f.GetDelay()*1000 + 0.5)
		if delayMs < 10 {
			delayMs = 10
		}

		frames = append(frames, model.DecodedFrame{
			Index:      index,
			DelayMs:    delayMs,
			IsKeyFrame: f.DisposeOp == apng.DISPOSE_OP_BACKGROUND || index == 0,
			Bitmap:     append([]byte(nil), frameCopy.Pix...),
		})
		index++

		switch f.DisposeOp {
		case apng.DISPOSE_OP_BACKGROUND:
			draw.Draw(canvas, dst, image.Transparent, image.Point{}, draw.Src)
		case apng.DISPOSE_OP_PREVIOUS:
			draw.Draw(canvas, canvas.Bounds(), prevCanvas, image.Point{}, draw.Src)
		}
	}

	return frames
}

func decodeFrameSequence(frames [][]byte, delayMs int) []model.DecodedFrame {
	out := make([]model.DecodedFrame, len(frames))
	for i, b := range frames {
		out[i] = model.DecodedFrame{Index: i, DelayMs: delayMs, IsKeyFrame: i == 0, Bitmap: b}
	}
	return out
}

func decodeVideo(ctx context.Context, fetcher Fetcher, vfs VFS, argsBuilder VideoArgsBuilder, jobID, uri string, width, height, frameCount int, frameRate float64) ([]model.DecodedFrame, error) {
	data, err := fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	return rasterizeViaCodec(ctx, vfs, argsBuilder, jobID, data, width, height, frameCount, frameRate)
}

// decodeWebP probes a fetched webp source's container structure with
// mux.NewDemuxer before handing the raw bytes to the same codec-binary
// rasterization decodeVideo uses. The probe surfaces a clear decode
// error for a malformed container up front, rather than letting the
// codec binary fail deep inside its own diagnostics; it does not by
// itself produce pixels, since decoding a VP8/VP8L bitstream needs a
// codec this package otherwise has no access to.
func decodeWebP(ctx context.Context, fetcher Fetcher, vfs VFS, argsBuilder VideoArgsBuilder, jobID, uri string, width, height, frameCount int, frameRate float64) ([]model.DecodedFrame, error) {
	data, err := fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	if _, err := mux.NewDemuxer(data); err != nil {
		return nil, rendererrors.NewDecodeFailedError("webp source failed container probe", err)
	}
	return rasterizeViaCodec(ctx, vfs, argsBuilder, jobID, data, width, height, frameCount, frameRate)
}

// rasterizeViaCodec writes data into the codec VFS and explodes it into
// numbered PNG frames via argsBuilder, decoding each back to RGBA.
func rasterizeViaCodec(ctx context.Context, vfs VFS, argsBuilder VideoArgsBuilder, jobID string, data []byte, width, height, frameCount int, frameRate float64) ([]model.DecodedFrame, error) {
	inputName := fmt.Sprintf("input-%s", jobID)
	if err := vfs.Write(inputName, data); err != nil {
		return nil, rendererrors.NewDecodeFailedError("failed to write source into codec VFS", err)
	}
	defer vfs.Unlink(inputName)

	framePattern := fmt.Sprintf("frame-%s-%%05d.png", jobID)
	if err := vfs.Run(ctx, argsBuilder(inputName, width, height, framePattern)); err != nil {
		return nil, err
	}

	frames := make([]model.DecodedFrame, 0, frameCount)
	delayMs := int(1000 / frameRate)
	for i := 1; i <= frameCount; i++ {
		name := fmt.Sprintf("frame-%s-%05d.png", jobID, i)
		pngBytes, err := vfs.Read(name)
		vfs.Unlink(name)
		if err != nil {
			break
		}
		bitmap, err := decodePNGToRGBA(pngBytes)
		if err != nil {
			return nil, rendererrors.NewDecodeFailedError("failed to parse decoded video frame", err)
		}
		frames = append(frames, model.DecodedFrame{
			Index:      i - 1,
			DelayMs:    delayMs,
			IsKeyFrame: i == 1,
			Bitmap:     bitmap,
		})
	}

	return frames, nil
}

func decodePNGToRGBA(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba.Pix, nil
}
