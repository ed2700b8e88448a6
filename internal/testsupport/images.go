package testsupport

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/color/palette"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"testing"
)

// NoisyImage returns a deterministic RGBA image with enough high-frequency
// detail that lossy encoders produce visibly different sizes across qualities.
func NoisyImage(w, h int, seed uint64) *image.RGBA {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := uint8((x*255)/max(w-1, 1)) ^ uint8((y*255)/max(h-1, 1))
			img.SetRGBA(x, y, color.RGBA{
				R: base + uint8(rng.IntN(64)),
				G: uint8(rng.IntN(256)),
				B: 255 - base,
				A: 0xff,
			})
		}
	}
	return img
}

// PNGPage encodes a noisy w×h page as PNG.
func PNGPage(t testing.TB, w, h int) []byte {
	t.Helper()
	return encodePNG(t, NoisyImage(w, h, uint64(w*h)))
}

// TransparentPNGPage encodes a w×h NRGBA page with a translucent left half.
func TransparentPNGPage(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(0xff)
			if x < w/2 {
				a = 0x40
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0x80, B: 0x10, A: a})
		}
	}
	return encodePNG(t, img)
}

// PalettedPNGPage encodes a w×h page using the web-safe palette.
func PalettedPNGPage(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette.WebSafe)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetColorIndex(x, y, uint8((x+y)%len(palette.WebSafe)))
		}
	}
	return encodePNG(t, img)
}

// GrayPNGPage encodes a w×h 8-bit grayscale gradient.
func GrayPNGPage(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	return encodePNG(t, img)
}

// JPEGPage encodes a noisy w×h page as baseline JPEG.
func JPEGPage(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, NoisyImage(w, h, uint64(w+h)), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// CorruptImage returns bytes that carry a PNG signature but no decodable image.
func CorruptImage() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xde, 0xad}, 32)...)
}

// PNGHeaderOnly returns a PNG signature and IHDR chunk declaring a w x h RGB
// image with no pixel data after it.
func PNGHeaderOnly(w, h uint32) []byte {
	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 2, 0, 0, 0) // 8-bit truecolor, no interlace

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	buf.Write(binary.BigEndian.AppendUint32(nil, 13))
	buf.Write(chunk)
	buf.Write(binary.BigEndian.AppendUint32(nil, crc32.ChecksumIEEE(chunk)))
	return buf.Bytes()
}

func encodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
