// Package metadata models the categorical metadata attached to each data
// file - bearing identifier, measurement direction, harmonic order - and
// reconciles the two places it can come from: the filename and OCR over
// the paired plot image.
package metadata

import "fmt"

// Source tags where a field's value came from. Unresolved fields stay
// unresolved; they are never defaulted to a fixed value.
type Source int

const (
	Unresolved Source = iota
	FromFilename
	FromOCR
)

func (s Source) String() string {
	switch s {
	case FromFilename:
		return "filename"
	case FromOCR:
		return "ocr"
	default:
		return "unresolved"
	}
}

// Field is one metadata value with its provenance. Confidence is the
// recognizer's score when Source is FromOCR, zero otherwise.
type Field struct {
	Value      string
	Source     Source
	Confidence float64
}

// Resolved reports whether the field carries a value.
func (f Field) Resolved() bool {
	return f.Source != Unresolved
}

func (f Field) String() string {
	if !f.Resolved() {
		return "?"
	}
	return f.Value
}

// FilenameField builds a field derived from the filename.
func FilenameField(v string) Field {
	return Field{Value: v, Source: FromFilename}
}

// OCRField builds a field derived from OCR with the given confidence.
func OCRField(v string, confidence float64) Field {
	return Field{Value: v, Source: FromOCR, Confidence: confidence}
}

// Metadata describes one data file. Bearing, Direction and Order are the
// reconciled categorical fields; the rest are sweep hints recovered from
// the filename only.
type Metadata struct {
	Bearing     Field  // bearing identifier, e.g. "B4"
	BearingDesc string // optional description, e.g. "Ring Gear - Input Side"
	Direction   Field  // measurement axis: X, Y or Z
	Order       Field  // harmonic order, e.g. "26.0"

	Stage      string // gear stage, e.g. "1"
	Torque     string // e.g. "500Nm"
	Condition  string // e.g. "Drive"
	FileNumber int    // trailing --NNN number in the filename, 0 if absent
}

// Complete reports whether all three categorical fields are resolved.
func (m Metadata) Complete() bool {
	return m.Bearing.Resolved() && m.Direction.Resolved() && m.Order.Resolved()
}

// BearingLabel returns the bearing id with its description when known.
func (m Metadata) BearingLabel() string {
	if m.BearingDesc != "" && m.Bearing.Resolved() {
		return fmt.Sprintf("%s [%s]", m.Bearing.Value, m.BearingDesc)
	}
	return m.Bearing.String()
}
