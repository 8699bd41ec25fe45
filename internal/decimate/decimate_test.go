package decimate

import (
	"testing"

	"github.com/five82/animrender/internal/model"
)

func solid(v byte, n int) []byte {
	buf := make([]byte, n*4)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestSimilarityIdenticalBitmapsIsOne(t *testing.T) {
	a := solid(100, 4)
	if sim := Similarity(a, a); sim != 1 {
		t.Errorf("Similarity(identical) = %v, want 1", sim)
	}
}

func TestSimilarityMaxDifferenceIsZero(t *testing.T) {
	a := solid(0, 4)
	b := solid(255, 4)
	if sim := Similarity(a, b); sim != 0 {
		t.Errorf("Similarity(max diff) = %v, want 0", sim)
	}
}

func TestSimilarityMismatchedLengthsIsZero(t *testing.T) {
	a := solid(0, 4)
	b := solid(0, 8)
	if sim := Similarity(a, b); sim != 0 {
		t.Errorf("Similarity(mismatched lengths) = %v, want 0", sim)
	}
}

func TestSimilarityIgnoresAlpha(t *testing.T) {
	a := []byte{10, 20, 30, 0}
	b := []byte{10, 20, 30, 255}
	if sim := Similarity(a, b); sim != 1 {
		t.Errorf("Similarity should ignore alpha channel, got %v", sim)
	}
}

func TestApplyDisabledReturnsAllFrames(t *testing.T) {
	frames := []model.DecodedFrame{{Index: 0}, {Index: 1}, {Index: 2}}
	got := Apply(frames, Policy{Enabled: false})
	if len(got) != 3 {
		t.Errorf("Apply(disabled) len = %d, want 3", len(got))
	}
}

func TestApplyEmptyFramesReturnsEmpty(t *testing.T) {
	got := Apply(nil, Policy{Enabled: true, MinIntervalMs: 50, SimilarityThreshold: 0.9})
	if len(got) != 0 {
		t.Errorf("Apply(empty) len = %d, want 0", len(got))
	}
}

func TestApplyDropsFastNearIdenticalFrames(t *testing.T) {
	bitmap := solid(100, 4)
	frames := []model.DecodedFrame{
		{Index: 0, DelayMs: 20, Bitmap: bitmap},
		{Index: 1, DelayMs: 20, Bitmap: bitmap}, // identical + fast: dropped
		{Index: 2, DelayMs: 20, Bitmap: bitmap}, // identical + fast: dropped
	}
	got := Apply(frames, Policy{Enabled: true, MinIntervalMs: 50, SimilarityThreshold: 0.5})

	// Last frame must always be retained even though it was dropped above.
	if len(got) != 2 {
		t.Fatalf("Apply len = %d, want 2 (first kept + tail re-added)", len(got))
	}
	if got[0].Index != 0 {
		t.Errorf("got[0].Index = %d, want 0", got[0].Index)
	}
	if got[len(got)-1].Index != 2 {
		t.Errorf("last frame index = %d, want 2 (source's true last frame)", got[len(got)-1].Index)
	}
}

func TestApplyKeepsSlowFramesRegardlessOfSimilarity(t *testing.T) {
	bitmap := solid(100, 4)
	frames := []model.DecodedFrame{
		{Index: 0, DelayMs: 100, Bitmap: bitmap},
		{Index: 1, DelayMs: 100, Bitmap: bitmap}, // identical but slow: kept
		{Index: 2, DelayMs: 100, Bitmap: bitmap},
	}
	got := Apply(frames, Policy{Enabled: true, MinIntervalMs: 50, SimilarityThreshold: 0.99})
	if len(got) != 3 {
		t.Errorf("Apply len = %d, want 3 (all kept, none fast enough to drop)", len(got))
	}
}

func TestApplyKeepsDissimilarFramesRegardlessOfSpeed(t *testing.T) {
	frames := []model.DecodedFrame{
		{Index: 0, DelayMs: 10, Bitmap: solid(0, 4)},
		{Index: 1, DelayMs: 10, Bitmap: solid(255, 4)}, // fast but very different: kept
	}
	got := Apply(frames, Policy{Enabled: true, MinIntervalMs: 50, SimilarityThreshold: 0.9})
	if len(got) != 2 {
		t.Errorf("Apply len = %d, want 2 (dissimilar frame retained)", len(got))
	}
}

func TestApplyAlwaysKeepsLastFrameOfSource(t *testing.T) {
	bitmap := solid(50, 2)
	frames := make([]model.DecodedFrame, 0, 10)
	for i := 0; i < 10; i++ {
		frames = append(frames, model.DecodedFrame{Index: i, DelayMs: 1, Bitmap: bitmap})
	}
	got := Apply(frames, Policy{Enabled: true, MinIntervalMs: 1000, SimilarityThreshold: 0.5})
	if got[len(got)-1].Index != 9 {
		t.Errorf("last kept index = %d, want 9", got[len(got)-1].Index)
	}
}
