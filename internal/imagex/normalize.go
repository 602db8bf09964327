package imagex

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/disintegration/imaging"

	"github.com/aliskhannn/image-prompter/internal/model"
)

// Size limits for the ingestion pipeline.
const (
	// MaxImageBytes is the canonical budget an image must fit before it is
	// handed to the workflow client.
	MaxImageBytes = 5 << 20

	// MaxSourceBytes is the hard ceiling on any source image; larger inputs
	// are refused instead of recompressed.
	MaxSourceBytes = 20 << 20
)

// Bounding box and encode qualities used when recompressing.
const (
	fitBound      = 2000
	budgetQuality = 90
	proxyQuality  = 85
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrProcessing      = errors.New("image processing failed")
)

// Normalize turns a source image into a canonical payload.
//
// Images already within the budget pass through byte-identical. Larger ones
// are downscaled by sqrt(budget/size) on both axes, which approximates the
// byte budget while preserving aspect ratio, and re-encoded in their
// declared format. Only JPEG and PNG sources are accepted.
func Normalize(data []byte, mime, filename string) (model.ImagePayload, error) {
	if mime != model.MIMEJPEG && mime != model.MIMEPNG {
		return model.ImagePayload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
	if len(data) > MaxSourceBytes {
		return model.ImagePayload{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	// Within budget: no redundant recompression.
	if len(data) <= MaxImageBytes {
		return model.ImagePayload{Data: data, MIME: mime, Filename: filename}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return model.ImagePayload{}, fmt.Errorf("%w: decode: %v", ErrProcessing, err)
	}

	ratio := math.Sqrt(float64(MaxImageBytes) / float64(len(data)))
	width := int(math.Round(float64(img.Bounds().Dx()) * ratio))
	if width < 1 {
		width = 1
	}

	// Height 0 keeps the aspect ratio.
	resized := imaging.Resize(img, width, 0, imaging.Lanczos)

	format := imaging.JPEG
	if mime == model.MIMEPNG {
		format = imaging.PNG
	}

	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, resized, format, imaging.JPEGQuality(budgetQuality)); err != nil {
		return model.ImagePayload{}, fmt.Errorf("%w: encode: %v", ErrProcessing, err)
	}

	return model.ImagePayload{Data: buf.Bytes(), MIME: mime, Filename: filename}, nil
}

// FitBounds recompresses untrusted proxied bytes: the image is fitted into a
// 2000x2000 box (never upscaled) and re-encoded as JPEG. Used for remote
// images that blew the budget; the caller must force the content type to
// image/jpeg afterwards.
func FitBounds(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProcessing, err)
	}

	fitted := imaging.Fit(img, fitBound, fitBound, imaging.Lanczos)

	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, fitted, imaging.JPEG, imaging.JPEGQuality(proxyQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrProcessing, err)
	}

	return buf.Bytes(), nil
}
