// Package response holds the frequency-response data model produced by
// ingesting one design-of-experiments sweep.
package response

import (
	"math"
	"math/cmplx"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// Layout constants for the fixed CSV format. Rows are 1-indexed to match
// what a user sees when the source file is opened in a spreadsheet.
const (
	// FrequencyRow is the row holding the frequency axis.
	FrequencyRow = 7

	// DataStartRow is the first row of the first candidate block.
	DataStartRow = 9

	// BlockRows is the number of rows per candidate block:
	// real, imaginary, magnitude, phase, separator.
	BlockRows = 5

	// ChannelRows is the number of data rows within a block (separator excluded).
	ChannelRows = 4
)

// Value is a numeric reading that may be missing. Missing values stay
// missing; they are never coerced to zero so consumers can distinguish
// absence from a true zero reading.
type Value struct {
	F     float64
	Valid bool
}

// Some returns a present Value.
func Some(f float64) Value {
	return Value{F: f, Valid: true}
}

// Missing returns an absent Value.
func Missing() Value {
	return Value{}
}

// Or returns the value, or def when missing.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.F
}

// FrequencyPoint is one frequency bin with its four channels. Magnitude
// and phase are reported exactly as they appear in the source file, not
// recomputed from the complex parts.
type FrequencyPoint struct {
	Frequency float64
	Real      Value
	Imag      Value
	Magnitude Value
	Phase     Value
}

// Complex returns the point as a complex number when both parts are present.
func (p FrequencyPoint) Complex() (complex128, bool) {
	if !p.Real.Valid || !p.Imag.Valid {
		return 0, false
	}
	return complex(p.Real.F, p.Imag.F), true
}

// Candidate is one design-of-experiments iteration's frequency-response
// series for a single bearing/direction/order. It owns its points.
type Candidate struct {
	// Index is the zero-based position of the candidate block within its
	// source file.
	Index int

	// Label is the 1-based candidate number embedded in the file when
	// present ("Candidate 12"), otherwise Index+1.
	Label int

	Points []FrequencyPoint
}

// MagnitudeConsistent reports whether every reported magnitude agrees with
// sqrt(re^2+im^2) within tol. Points with any missing channel are skipped.
// This is a reporting aid only; reported values are never rewritten.
func (c *Candidate) MagnitudeConsistent(tol float64) bool {
	for _, p := range c.Points {
		z, ok := p.Complex()
		if !ok || !p.Magnitude.Valid {
			continue
		}
		if !scalar.EqualWithinAbsOrRel(cmplx.Abs(z), p.Magnitude.F, tol, tol) {
			return false
		}
	}
	return true
}

// SourceRecord identifies the file a set of candidates came from. One
// record is created per ingested file and shared read-only by every
// candidate extracted from it.
type SourceRecord struct {
	FilePath    string
	Frequencies []float64
}

// RowRange returns the 1-indexed first and last data rows of candidate i
// in the source file: the real, imaginary, magnitude and phase rows,
// excluding the separator.
func (s *SourceRecord) RowRange(i int) (startRow, endRow int) {
	startRow = DataStartRow + BlockRows*i
	return startRow, startRow + ChannelRows - 1
}

// ChannelRow returns the 1-indexed row of a single channel of candidate i.
// Channel offsets follow block order: 0=real, 1=imaginary, 2=magnitude,
// 3=phase. Out-of-range channels fall back to the magnitude row, which is
// what the viewer opens by default.
func (s *SourceRecord) ChannelRow(i, channel int) int {
	start, _ := s.RowRange(i)
	if channel < 0 || channel >= ChannelRows {
		channel = 2
	}
	return start + channel
}

// Bins returns the number of frequency bins in the file's axis.
func (s *SourceRecord) Bins() int {
	return len(s.Frequencies)
}

// ParseNumber parses a numeric token into a Value. Empty or unparseable
// tokens become missing. Infinities and NaN are treated as missing too;
// the source format only carries finite readings.
func ParseNumber(tok string) Value {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Missing()
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Some(f)
}
