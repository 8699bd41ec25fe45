// Package decimate implements temporal coalescing over a decoded frame
// sequence: frames that arrive faster than a minimum interval and are
// visually near-identical to the last kept frame are dropped, reducing
// encoder workload at near-zero perceptual cost. Where the teacher ran
// scene-change detection by shelling to a helper binary, this runs the
// equivalent decision in-process per frame pair.
package decimate

import "github.com/five82/animrender/internal/model"

// Policy mirrors model.DecimationPolicy's fields by value so this package
// has no import-time dependency beyond model.DecodedFrame.
type Policy struct {
	Enabled             bool
	MinIntervalMs       int
	SimilarityThreshold float64
}

// Apply returns the subsequence of frames to keep, preserving temporal
// order and always retaining the final frame (so a looped render still
// terminates on the source's true last frame).
func Apply(frames []model.DecodedFrame, policy Policy) []model.DecodedFrame {
	if !policy.Enabled || len(frames) == 0 {
		return frames
	}

	selected := []model.DecodedFrame{frames[0]}
	lastKept := frames[0]

	for _, f := range frames[1:] {
		sim := Similarity(lastKept.Bitmap, f.Bitmap)
		if f.DelayMs < policy.MinIntervalMs && sim > policy.SimilarityThreshold {
			continue
		}
		selected = append(selected, f)
		lastKept = f
	}

	last := frames[len(frames)-1]
	if selected[len(selected)-1].Index != last.Index {
		selected = append(selected, last)
	}

	return selected
}

// Similarity scores two RGBA bitmaps in [0,1]: 1 means identical, 0 means
// maximally different. Mismatched lengths and empty bitmaps score 0. Alpha is ignored;
// scored over the mean absolute per-channel difference across R, G, B.
func Similarity(a, b []byte) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	pixels := len(a) / 4
	var sumDiff int
	for i := 0; i+3 < len(a); i += 4 {
		sumDiff += absDiff(a[i], b[i])
		sumDiff += absDiff(a[i+1], b[i+1])
		sumDiff += absDiff(a[i+2], b[i+2])
	}

	sim := 1 - float64(sumDiff)/float64(pixels*765)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
