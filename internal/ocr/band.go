package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// minBandHeight is the height the title band is upscaled to before OCR.
// Tesseract degrades sharply on text below ~20px.
const minBandHeight = 150

// LoadTitleBand decodes the image at path and returns its top band, the
// fraction of the height that carries the plot title, upscaled if needed.
func LoadTitleBand(path string, fraction float64) (image.Image, error) {
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultTitleBand
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	bandH := int(float64(bounds.Dy()) * fraction)
	if bandH < 1 {
		bandH = 1
	}

	band := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bandH))
	xdraw.Draw(band, band.Bounds(), src, bounds.Min, xdraw.Src)

	if bandH >= minBandHeight {
		return band, nil
	}

	// Upscale with a smooth kernel; nearest-neighbor blockiness hurts
	// recognition of thin glyphs like "1" and ".".
	scale := float64(minBandHeight) / float64(bandH)
	scaled := image.NewRGBA(image.Rect(0, 0, int(float64(bounds.Dx())*scale), minBandHeight))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), band, band.Bounds(), xdraw.Over, nil)
	return scaled, nil
}

// encodePNG renders an image to PNG bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode band: %w", err)
	}
	return buf.Bytes(), nil
}
