package metadata

import "fmt"

// Policy selects which source wins when the filename and the OCR pass
// disagree about a resolved field.
type Policy int

const (
	// PreferFilename keeps the filename value on conflict.
	PreferFilename Policy = iota
	// PreferOCR keeps the recognized value on conflict.
	PreferOCR
)

func (p Policy) String() string {
	if p == PreferOCR {
		return "prefer-ocr"
	}
	return "prefer-filename"
}

// Note records a conflict the merge resolved silently. Conflicts are
// reported, never escalated to errors.
type Note struct {
	Field   string
	Kept    Field
	Dropped Field
}

func (n Note) String() string {
	return fmt.Sprintf("%s: kept %q (%s), dropped %q (%s)",
		n.Field, n.Kept.Value, n.Kept.Source, n.Dropped.Value, n.Dropped.Source)
}

// Reconcile merges filename hints with OCR results. A field resolved by
// only one side is taken as is; when both sides resolve a field to
// different values the policy decides and a Note records the loser.
// Sweep hints (stage, torque, condition, file number) only ever come
// from the filename and pass through untouched.
func Reconcile(fromName, fromOCR Metadata, policy Policy) (Metadata, []Note) {
	merged := fromName
	var notes []Note

	merged.Bearing = mergeField("bearing", fromName.Bearing, fromOCR.Bearing, policy, &notes)
	merged.Direction = mergeField("direction", fromName.Direction, fromOCR.Direction, policy, &notes)
	merged.Order = mergeField("order", fromName.Order, fromOCR.Order, policy, &notes)

	// The description has no filename counterpart.
	if merged.BearingDesc == "" {
		merged.BearingDesc = fromOCR.BearingDesc
	}

	return merged, notes
}

func mergeField(name string, fromName, fromOCR Field, policy Policy, notes *[]Note) Field {
	switch {
	case !fromName.Resolved():
		return fromOCR
	case !fromOCR.Resolved():
		return fromName
	case fromName.Value == fromOCR.Value:
		return fromName
	}

	kept, dropped := fromName, fromOCR
	if policy == PreferOCR {
		kept, dropped = fromOCR, fromName
	}
	*notes = append(*notes, Note{Field: name, Kept: kept, Dropped: dropped})
	return kept
}
