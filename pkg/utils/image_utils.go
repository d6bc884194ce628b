package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	DefaultJPEGQuality = 90
	CroppedContentType = "image/jpeg"
	CroppedFilename    = "cropped.jpg"
)

var (
	ErrDecode      = errors.New("image could not be decoded")
	ErrEncode      = errors.New("image could not be encoded")
	ErrInvalidCrop = errors.New("invalid crop rectangle")
)

type ImageProcessor struct {
	log     *zap.Logger
	quality int
}

func NewImageProcessor(quality int, log *zap.Logger) *ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &ImageProcessor{log: log, quality: quality}
}

// DecodeImage rasterizes an uploaded file, applying EXIF orientation the
// same way a browser preview would.
func (p *ImageProcessor) DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Resolve copies the pixels inside rect onto a canvas of exactly the
// rectangle's size and encodes it as JPEG. No resampling happens here.
func (p *ImageProcessor) Resolve(src image.Image, rect Rect) ([]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source image", ErrDecode)
	}
	b := src.Bounds()
	clamped, err := rect.Clamp(b)
	if err != nil {
		return nil, err
	}

	area := image.Rect(clamped.X, clamped.Y, clamped.X+clamped.Width, clamped.Y+clamped.Height).Add(b.Min)
	cropped := imaging.Crop(src, area)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if buf.Len() == 0 {
		return nil, ErrEncode
	}

	p.log.Debug("Image cropped",
		zap.Stringer("rect", clamped),
		zap.Int("quality", p.quality),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

// CropBytes decodes data and resolves rect in one step.
func (p *ImageProcessor) CropBytes(data []byte, rect Rect) ([]byte, error) {
	img, err := p.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return p.Resolve(img, rect)
}
