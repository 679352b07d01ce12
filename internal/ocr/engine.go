package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"github.com/SANJAI2406/bearing-force-viewer/pkg/geometry"
)

// TitleChars is the character set expected in a bearing-force plot title,
// e.g. "B4 [Ring Gear - Input Side] Force X Component Order 26.0".
const TitleChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz[]().-_ "

// DefaultTitleBand is the fraction of the image height occupied by the
// plot title. The generator writes the title into the top 7% of the PNG.
const DefaultTitleBand = 0.07

// Options configures an Engine.
type Options struct {
	// Language is the Tesseract language code. Defaults to "eng".
	Language string

	// TitleBand is the fraction of the image height to read. Defaults to
	// DefaultTitleBand.
	TitleBand float64
}

func (o Options) withDefaults() Options {
	if o.Language == "" {
		o.Language = "eng"
	}
	if o.TitleBand <= 0 || o.TitleBand > 1 {
		o.TitleBand = DefaultTitleBand
	}
	return o
}

// Engine performs OCR over plot images using Tesseract. An Engine is not
// safe for concurrent use; see Pool.
type Engine struct {
	client *gosseract.Client
	opts   Options
}

// NewEngine creates a new OCR engine.
func NewEngine(opts Options) (*Engine, error) {
	opts = opts.withDefaults()

	client := gosseract.NewClient()
	if err := client.SetLanguage(opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Disable dictionary-based word correction - plot titles carry tokens
	// like "B4" and "26.0" that are not English words
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")
	_ = client.SetVariable("language_model_penalty_non_freq_dict_word", "0")

	return &Engine{client: client, opts: opts}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// RecognizeTitle reads the title band of the image at path and returns the
// recognized word fragments in reading order.
func (e *Engine) RecognizeTitle(path string) ([]Fragment, error) {
	band, err := LoadTitleBand(path, e.opts.TitleBand)
	if err != nil {
		return nil, &RecognitionError{Path: path, Err: err}
	}

	encoded, err := encodePNG(band)
	if err != nil {
		return nil, &RecognitionError{Path: path, Err: err}
	}

	frags, err := e.detect(encoded)
	if err != nil {
		return nil, &RecognitionError{Path: path, Err: err}
	}
	if len(frags) == 0 {
		return nil, &RecognitionError{Path: path, Err: ErrNoText}
	}

	SortReadingOrder(frags)
	return frags, nil
}

// detect runs word-level OCR over the PNG-encoded band.
func (e *Engine) detect(png []byte) ([]Fragment, error) {
	mat, err := gocv.IMDecode(png, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode band: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	processed := preprocessBand(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode band: %w", err)
	}
	defer buf.Close()

	// A plot title is one line of text.
	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(TitleChars); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	var frags []Fragment
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		frags = append(frags, Fragment{
			Text: text,
			Bounds: geometry.RectInt{
				X:      box.Box.Min.X,
				Y:      box.Box.Min.Y,
				Width:  box.Box.Dx(),
				Height: box.Box.Dy(),
			},
			Confidence: box.Confidence,
		})
	}
	return frags, nil
}

// preprocessBand prepares the title band for OCR: grayscale, contrast
// equalization, Otsu binarization, and polarity normalization so text is
// dark on light.
func preprocessBand(band gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(band, &gray, gocv.ColorBGRToGray)

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	whiteCount := gocv.CountNonZero(binary)
	totalPixels := binary.Rows() * binary.Cols()
	if totalPixels > 0 && float64(whiteCount)/float64(totalPixels) < 0.5 {
		// More black than white - light text on dark background, invert.
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()

	return result
}
