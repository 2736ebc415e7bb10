package codec

import (
	"context"
	"errors"
	"image"
	"io"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/port"
)

// ErrNoFrame means no frame could be decoded at the requested offset.
var ErrNoFrame = errors.New("codec: no frame available")

// NoFrameExtractor stands in where no video codec capability is wired.
// Every extraction fails, which makes the thumbnail pipeline fall back to
// its placeholder preview.
type NoFrameExtractor struct{}

// compile-time check: *NoFrameExtractor must satisfy port.FrameExtractor
var _ port.FrameExtractor = (*NoFrameExtractor)(nil)

func NewNoFrameExtractor() *NoFrameExtractor { return &NoFrameExtractor{} }

func (e *NoFrameExtractor) FrameAt(ctx context.Context, r io.Reader, offset time.Duration) (image.Image, error) {
	return nil, ErrNoFrame
}
