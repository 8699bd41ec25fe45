package codec

import (
	"bytes"
	"encoding/binary"
	"testing"

	rendererrors "github.com/five82/animrender/internal/errors"
)

func buildFakeWebPVP8L(t *testing.T, width, height int) []byte {
	t.Helper()
	payload := make([]byte, 5)
	payload[0] = 0x2f
	bits := uint32(width-1)&0x3fff | (uint32(height-1)&0x3fff)<<14
	binary.LittleEndian.PutUint32(payload[1:5], bits)

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	fileSize := uint32(4 + 8 + len(payload))
	binary.Write(&buf, binary.LittleEndian, fileSize)
	buf.WriteString("WEBP")
	buf.WriteString("VP8L")
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func TestValidateWebPPosterReturnsFeatures(t *testing.T) {
	features, err := ValidateWebPPoster(buildFakeWebPVP8L(t, 8, 6))
	if err != nil {
		t.Fatalf("ValidateWebPPoster: %v", err)
	}
	if features.Width != 8 || features.Height != 6 {
		t.Errorf("features = %dx%d, want 8x6", features.Width, features.Height)
	}
}

func TestValidateWebPPosterRejectsMalformedData(t *testing.T) {
	_, err := ValidateWebPPoster([]byte("not a webp file"))
	if !rendererrors.IsKind(err, rendererrors.KindDecodeFailed) {
		t.Errorf("expected DecodeFailed, got %v", err)
	}
}
