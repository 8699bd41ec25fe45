package codec

import (
	"github.com/deepteams/webp/mux"

	rendererrors "github.com/five82/animrender/internal/errors"
)

// ValidateWebPPoster parses a codec-produced poster file as a WebP
// container and returns its demuxed features. The codec binary writes
// the poster directly to the VFS with no feedback on whether the bytes
// it produced actually form a valid container; this catches a corrupt
// poster before it is handed back to a caller as Result.PosterFrame.
func ValidateWebPPoster(data []byte) (mux.Features, error) {
	dmx, err := mux.NewDemuxer(data)
	if err != nil {
		return mux.Features{}, rendererrors.NewDecodeFailedError("poster is not a valid webp container", err)
	}
	return dmx.GetFeatures(), nil
}
