package frame

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/five82/animrender/internal/model"
)

func solidBitmap(w, h int, r, g, b, a uint8) []byte {
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		buf[i*4+0] = r
		buf[i*4+1] = g
		buf[i*4+2] = b
		buf[i*4+3] = a
	}
	return buf
}

func imageRGBAFromBitmap(w, h int, bitmap []byte) *image.RGBA {
	return &image.RGBA{
		Pix:    append([]byte(nil), bitmap...),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

func TestProcessNoOperationsProducesValidPNG(t *testing.T) {
	bitmap := solidBitmap(4, 4, 10, 20, 30, 255)
	out, err := Process(4, 4, bitmap, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode produced PNG: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("decoded dimensions = %dx%d, want 4x4", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestBoxBlurUniformImageUnchanged(t *testing.T) {
	bitmap := solidBitmap(6, 6, 100, 150, 200, 255)
	out, err := Process(6, 6, bitmap, []model.Operation{{Kind: model.OpBlur, Radius: 2}})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(3, 3).RGBA()
	if uint8(r>>8) != 100 || uint8(g>>8) != 150 || uint8(b>>8) != 200 {
		t.Errorf("blurring a uniform image changed its color: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestSaturateZeroFactorProducesGrayscale(t *testing.T) {
	bitmap := solidBitmap(2, 2, 200, 50, 10, 255)
	img := imageRGBAFromBitmap(2, 2, bitmap)
	saturate(img, 0)

	r, g, b, _ := getRGBA(img, 0, 0)
	if r != g || g != b {
		t.Errorf("factor=0 should desaturate to gray, got (%d,%d,%d)", r, g, b)
	}
}

func TestOverlayFullAlphaReplacesColor(t *testing.T) {
	bitmap := solidBitmap(2, 2, 0, 0, 0, 255)
	img := imageRGBAFromBitmap(2, 2, bitmap)
	overlay(img, [4]uint8{255, 0, 0, 255})

	r, g, b, _ := getRGBA(img, 0, 0)
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("full alpha overlay should fully replace color, got (%d,%d,%d)", r, g, b)
	}
}

func TestOverlayZeroAlphaLeavesColorUnchanged(t *testing.T) {
	bitmap := solidBitmap(2, 2, 10, 20, 30, 255)
	img := imageRGBAFromBitmap(2, 2, bitmap)
	overlay(img, [4]uint8{255, 0, 0, 0})

	r, g, b, _ := getRGBA(img, 0, 0)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("zero alpha overlay should leave color unchanged, got (%d,%d,%d)", r, g, b)
	}
}
