package transcript

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// Source fetches the captions of one video.
// Videos without captions fail with models.ErrTranscriptUnavailable.
type Source interface {
	Fetch(ctx context.Context, videoID string) (models.Transcript, error)
}
