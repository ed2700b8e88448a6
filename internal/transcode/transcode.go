// Package transcode re-encodes raster pages as lossy WebP.
//
// Transcode is pure: it reads the input buffer, returns a new buffer, and
// keeps no reference to either. Decoding supports JPEG and PNG in every pixel
// layout the standard decoders produce; everything is flattened to opaque
// 8-bit RGBA before encoding so that palette, grayscale, and alpha sources
// take the same encoder path.
package transcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"golang.org/x/image/draw"

	"comicz/internal/faults"
)

// MaxDimension is the largest width or height a WebP image can carry. Larger
// pages are rejected from their header before any pixels are allocated.
const MaxDimension = 16383

// Transcode decodes data and encodes it as WebP at quality (0..100).
// Decode failures are tagged faults.ErrDecode; normalization and encode
// failures are tagged faults.ErrEncode.
func Transcode(data []byte, quality int) ([]byte, error) {
	if quality < 0 || quality > 100 {
		return nil, faults.Wrap(faults.ErrEncode, "transcode", "options", fmt.Sprintf("quality %d outside 0..100", quality), nil)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, faults.Wrap(faults.ErrDecode, "transcode", "decode header", "", err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, faults.Wrap(faults.ErrDecode, "transcode", "decode header",
			fmt.Sprintf("%s image is %dx%d, limit is %d per side", format, cfg.Width, cfg.Height, MaxDimension), nil)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, faults.Wrap(faults.ErrDecode, "transcode", "decode", "", err)
	}
	if img.Bounds().Empty() {
		return nil, faults.Wrap(faults.ErrDecode, "transcode", "decode", format+" image has no pixels", nil)
	}

	rgba := Normalize(img)

	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return nil, faults.Wrap(faults.ErrEncode, "transcode", "options", fmt.Sprintf("quality %d", quality), err)
	}
	var out bytes.Buffer
	out.Grow(len(data) / 2)
	if err := webp.Encode(&out, rgba, opts); err != nil {
		return nil, faults.Wrap(faults.ErrEncode, "transcode", "encode webp", format, err)
	}
	return out.Bytes(), nil
}

// Normalize returns img as an opaque RGBA image anchored at the origin.
// Transparent regions are composited onto black.
func Normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
