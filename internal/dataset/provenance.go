package dataset

import (
	"fmt"

	"github.com/SANJAI2406/bearing-force-viewer/internal/response"
)

// PointRef addresses a single value inside a dataset: an entry within a
// group, a channel within the entry's candidate block, and a frequency
// bin within the channel row.
type PointRef struct {
	Key     Key
	Entry   int // index into Candidates(Key)
	Channel int // 0=real, 1=imaginary, 2=magnitude, 3=phase
	Bin     int // zero-based frequency bin
}

// Provenance is a value's position in its source file, 1-indexed the way
// a spreadsheet displays it.
type Provenance struct {
	FilePath string
	Row      int
	Column   int
}

func (p Provenance) String() string {
	return fmt.Sprintf("%s row %d col %d", p.FilePath, p.Row, p.Column)
}

// dataStartColumn is the 1-indexed first numeric column; the two columns
// before it carry the candidate label.
const dataStartColumn = 3

// Resolve maps a point reference back to its file, row and column.
func (d *Dataset) Resolve(ref PointRef) (Provenance, error) {
	entries := d.entries[ref.Key]
	if ref.Entry < 0 || ref.Entry >= len(entries) {
		return Provenance{}, fmt.Errorf("no entry %d under %s", ref.Entry, ref.Key)
	}
	e := entries[ref.Entry]
	if ref.Bin < 0 || ref.Bin >= e.Source.Bins() {
		return Provenance{}, fmt.Errorf("bin %d out of range for %s", ref.Bin, e.Source.FilePath)
	}
	if ref.Channel < 0 || ref.Channel >= response.ChannelRows {
		return Provenance{}, fmt.Errorf("channel %d out of range", ref.Channel)
	}
	return Provenance{
		FilePath: e.Source.FilePath,
		Row:      e.Source.ChannelRow(e.Candidate.Index, ref.Channel),
		Column:   dataStartColumn + ref.Bin,
	}, nil
}
