// Package ocr recovers plot-title text from the PNG images that accompany
// each bearing-force data file.
package ocr

import (
	"errors"
	"fmt"
	"sort"

	"github.com/SANJAI2406/bearing-force-viewer/pkg/geometry"
)

// Fragment is a single recognized word with its location and the
// recognizer's confidence in it. Confidence is on the engine's native
// 0-100 scale and is only meaningful relative to other fragments.
type Fragment struct {
	Text       string
	Bounds     geometry.RectInt
	Confidence float64
}

// RecognitionError reports that an image produced no usable text: the
// engine is unavailable, the image is unreadable, or nothing was
// detected. It degrades the unit's metadata, never the whole run.
type RecognitionError struct {
	Path string
	Err  error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("recognize %s: %v", e.Path, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// ErrNoText is wrapped by RecognitionError when OCR ran but found nothing.
var ErrNoText = errors.New("no text detected")

// SortReadingOrder orders fragments left to right, top to bottom, so a
// joined pass over a single title line reads naturally.
func SortReadingOrder(frags []Fragment) {
	sort.SliceStable(frags, func(i, j int) bool {
		a, b := frags[i].Bounds, frags[j].Bounds
		// Fragments on roughly the same line sort by X.
		if overlap := verticalOverlap(a, b); overlap {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
}

func verticalOverlap(a, b geometry.RectInt) bool {
	return a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}
