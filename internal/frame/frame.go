// Package frame implements the worker task: given a decoded RGBA bitmap and
// an ordered list of raster operations, produce a PNG-encoded still. Pure
// and stateless — every call depends only on its arguments.
package frame

import (
	"bytes"
	"image"
	"image/png"

	"github.com/five82/animrender/internal/model"
)

// Process applies operations in order to an RGBA bitmap of the given
// dimensions and returns the result PNG-encoded, matching the worker
// message contract's {type:"processedFrame", png} reply.
func Process(width, height int, bitmap []byte, operations []model.Operation) ([]byte, error) {
	img := &image.RGBA{
		Pix:    append([]byte(nil), bitmap...),
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	for _, op := range operations {
		switch op.Kind {
		case model.OpBlur:
			img = boxBlur(img, op.Radius)
		case model.OpSaturate:
			saturate(img, op.Factor)
		case model.OpOverlay:
			overlay(img, op.Color)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// boxBlur applies a separable box blur of kernel side 2r+1 with
// clamp-to-edge sampling on each axis. r<=0 is a no-op.
func boxBlur(img *image.RGBA, radius int) *image.RGBA {
	if radius <= 0 {
		return img
	}

	w := img.Rect.Dx()
	h := img.Rect.Dy()
	horiz := image.NewRGBA(img.Rect)
	out := image.NewRGBA(img.Rect)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rs, gs, bs, as, n int
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, w-1)
				r, g, b, a := getRGBA(img, sx, y)
				rs += r
				gs += g
				bs += b
				as += a
				n++
			}
			setRGBA(horiz, x, y, rs/n, gs/n, bs/n, as/n)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var rs, gs, bs, as, n int
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, h-1)
				r, g, b, a := getRGBA(horiz, x, sy)
				rs += r
				gs += g
				bs += b
				as += a
				n++
			}
			setRGBA(out, x, y, rs/n, gs/n, bs/n, as/n)
		}
	}

	return out
}

// saturate pushes each pixel's channels toward (factor>1) or away from
// (factor<1) its BT.601 luma, in place.
func saturate(img *image.RGBA, factor float64) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := getRGBA(img, x, y)
			luma := 0.2989*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			nr := luma + factor*(float64(r)-luma)
			ng := luma + factor*(float64(g)-luma)
			nb := luma + factor*(float64(b)-luma)
			setRGBA(img, x, y, clampChannel(nr), clampChannel(ng), clampChannel(nb), a)
		}
	}
}

// overlay composites a solid color over every pixel with source-over
// alpha blending: dst*(1-a) + src*a, a = color.a/255.
func overlay(img *image.RGBA, color [4]uint8) {
	alpha := float64(color[3]) / 255
	sr, sg, sb := float64(color[0]), float64(color[1]), float64(color[2])

	w := img.Rect.Dx()
	h := img.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := getRGBA(img, x, y)
			nr := float64(r)*(1-alpha) + sr*alpha
			ng := float64(g)*(1-alpha) + sg*alpha
			nb := float64(b)*(1-alpha) + sb*alpha
			setRGBA(img, x, y, clampChannel(nr), clampChannel(ng), clampChannel(nb), a)
		}
	}
}

func getRGBA(img *image.RGBA, x, y int) (r, g, b, a int) {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	return int(p[0]), int(p[1]), int(p[2]), int(p[3])
}

func setRGBA(img *image.RGBA, x, y, r, g, b, a int) {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = uint8(clampInt(r, 0, 255)), uint8(clampInt(g, 0, 255)), uint8(clampInt(b, 0, 255)), uint8(clampInt(a, 0, 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampChannel(v float64) int {
	return clampInt(int(v + 0.5), 0, 255)
}
