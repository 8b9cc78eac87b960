package imagecodec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"Foodgram-Backend/domain"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxDimension = 1280

	// MaxPixels caps the declared size of a source picture before it is decoded.
	MaxPixels   = 40_000_000
	jpegQuality = 85
)

type Image struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// DecodeBase64 accepts either a data URI ("data:image/png;base64,....") or a bare
// base64 payload. The picture is scaled down to fit maxDimension on its longest
// side and re-encoded: PNG and GIF sources stay PNG, everything else becomes JPEG.
func DecodeBase64(payload string, maxDimension int) (*Image, error) {
	encoded := strings.TrimSpace(payload)
	if strings.HasPrefix(encoded, "data:") {
		header, body, found := strings.Cut(encoded, ",")
		if !found || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
			return nil, domain.ErrInvalidImage
		}
		encoded = body
	}
	if encoded == "" {
		return nil, domain.ErrInvalidImage
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
		}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", domain.ErrInvalidImage, cfg.Width, cfg.Height, MaxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}

	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	out := &Image{ContentType: "image/jpeg", Extension: "jpg"}
	outFormat := imaging.JPEG
	if format == "png" || format == "gif" {
		out.ContentType = "image/png"
		out.Extension = "png"
		outFormat = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, outFormat, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	out.Data = buf.Bytes()
	out.Width = img.Bounds().Dx()
	out.Height = img.Bounds().Dy()
	return out, nil
}
