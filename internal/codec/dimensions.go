package codec

import "math"

// DeriveDimensions derives the output width/height for an encode, honoring
// a 720x720 cap, preserving aspect ratio, and rounding down to the nearest
// even value >= 2 (required for chroma subsampling). width/height are the
// configured target dimensions; fallbackAspectRatio is used only when
// either is non-positive (configurations in this pipeline always supply
// both, so that branch exists for completeness with sources that don't).
func DeriveDimensions(width, height int, fallbackAspectRatio float64) (int, int) {
	var ar float64
	if width > 0 && height > 0 {
		ar = float64(width) / float64(height)
	} else {
		ar = fallbackAspectRatio
	}
	if ar <= 0 {
		ar = 1
	}

	tw := minInt(width, 720)
	th := int(math.Round(float64(tw) / ar))
	if th > 720 {
		th = minInt(height, 720)
		tw = int(math.Round(float64(th) * ar))
	}
	tw = minInt(tw, width)
	th = minInt(height, th)

	return makeEven(tw), makeEven(th)
}

func makeEven(v int) int {
	if v < 2 {
		return 2
	}
	if v%2 != 0 {
		v--
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
