package port

import (
	"context"
	"image"
	"io"
	"time"
)

// Thumbnailer renders fixed-size previews. Implementations fit the source
// into the target box preserving aspect ratio and pad the remainder.
type Thumbnailer interface {
	Render(r io.Reader, width, height int) ([]byte, error)
	RenderFrame(img image.Image, width, height int) ([]byte, error)
	// Placeholder returns the preview used when rendering fails.
	Placeholder(width, height int) ([]byte, error)
	// Format is the single encoding format all previews share.
	Format() string
}

// FrameExtractor pulls one frame out of a video stream. The decoding itself
// is an external codec capability.
type FrameExtractor interface {
	FrameAt(ctx context.Context, r io.Reader, offset time.Duration) (image.Image, error)
}
