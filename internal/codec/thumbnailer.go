package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/fhuszti/creatives-ms-go/internal/port"
)

const thumbnailQuality = 80

// padColour fills the letterbox area around fitted previews.
var padColour = color.RGBA{R: 0xF4, G: 0xF4, B: 0xF4, A: 0xFF}

// WebPThumbnailer renders fixed-size webp previews: the source is fitted
// into the target box preserving aspect ratio, the remainder is padded.
type WebPThumbnailer struct{}

// compile-time check: *WebPThumbnailer must satisfy port.Thumbnailer
var _ port.Thumbnailer = (*WebPThumbnailer)(nil)

func NewWebPThumbnailer() *WebPThumbnailer {
	log.Println("initialising thumbnailer...")
	return &WebPThumbnailer{}
}

func (t *WebPThumbnailer) Format() string { return "webp" }

func (t *WebPThumbnailer) Render(r io.Reader, width, height int) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("thumbnailer: failed to decode image: %w", err)
	}
	return t.RenderFrame(img, width, height)
}

func (t *WebPThumbnailer) RenderFrame(img image.Image, width, height int) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(padColour), image.Point{}, draw.Src)

	src := img.Bounds()
	fitted := fitRect(src.Dx(), src.Dy(), width, height)
	draw.CatmullRom.Scale(canvas, fitted, img, src, draw.Over, nil)

	return encode(canvas)
}

func (t *WebPThumbnailer) Placeholder(width, height int) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(padColour), image.Point{}, draw.Src)
	return encode(canvas)
}

func encode(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	opts := &webp.Options{Quality: thumbnailQuality}
	if err := webp.Encode(buf, img, opts); err != nil {
		return nil, fmt.Errorf("thumbnailer: failed to encode WebP: %w", err)
	}
	return buf.Bytes(), nil
}

// fitRect centres a srcW×srcH image inside a dstW×dstH box, preserving
// aspect ratio.
func fitRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rect(0, 0, dstW, dstH)
	}

	scaleW := float64(dstW) / float64(srcW)
	scaleH := float64(dstH) / float64(srcH)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
