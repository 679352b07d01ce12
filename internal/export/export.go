// Package export writes an ingested dataset out as an Excel workbook,
// one sheet per bearing and direction plus a Sources sheet tracing every
// candidate back to its file and rows.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/SANJAI2406/bearing-force-viewer/internal/dataset"
)

// WriteWorkbook writes ds to path. Sheets are laid out with the frequency
// axis in column A and one magnitude/phase column pair per candidate.
// Missing readings become empty cells, never zeros.
func WriteWorkbook(path string, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	keys := ds.Keys()
	sheets := groupSheets(keys)

	first := true
	for _, s := range sheets {
		if first {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, ds); err != nil {
			return err
		}
	}

	if err := writeSources(f, keys, ds, first); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// sheet is one bearing/direction tab and the keys feeding it, one per
// order.
type sheet struct {
	name string
	keys []dataset.Key
}

func groupSheets(keys []dataset.Key) []sheet {
	var sheets []sheet
	index := make(map[string]int)
	for _, k := range keys {
		name := sheetName(k)
		i, ok := index[name]
		if !ok {
			i = len(sheets)
			index[name] = i
			sheets = append(sheets, sheet{name: name})
		}
		sheets[i].keys = append(sheets[i].keys, k)
	}
	return sheets
}

// sheetName keeps within Excel's 31-character sheet name limit; keys are
// short ("B12 Y") so truncation only guards degenerate labels.
func sheetName(k dataset.Key) string {
	name := fmt.Sprintf("%s %s", k.Bearing, k.Direction)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeSheet(f *excelize.File, s sheet, ds *dataset.Dataset) error {
	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(s.name, cell, v)
	}

	if err := set(1, 1, "Frequency [Hz]"); err != nil {
		return err
	}

	// The frequency axis comes from the first entry on the sheet; files
	// grouped together share the same sweep.
	var freqs []float64

	col := 2
	for _, k := range s.keys {
		for _, e := range ds.Candidates(k) {
			if freqs == nil {
				freqs = e.Source.Frequencies
				for i, fr := range freqs {
					if err := set(1, i+2, fr); err != nil {
						return err
					}
				}
			}

			label := fmt.Sprintf("Order %s Cand %d", k.Order, e.Candidate.Label)
			if err := set(col, 1, label+" |F|"); err != nil {
				return err
			}
			if err := set(col+1, 1, label+" phase"); err != nil {
				return err
			}
			for i, p := range e.Candidate.Points {
				if p.Magnitude.Valid {
					if err := set(col, i+2, p.Magnitude.F); err != nil {
						return err
					}
				}
				if p.Phase.Valid {
					if err := set(col+1, i+2, p.Phase.F); err != nil {
						return err
					}
				}
			}
			col += 2
		}
	}
	return nil
}

// writeSources appends the provenance sheet: every candidate mapped to
// its file and 1-indexed row range.
func writeSources(f *excelize.File, keys []dataset.Key, ds *dataset.Dataset, rename bool) error {
	const name = "Sources"
	if rename {
		// Empty dataset: reuse the default sheet.
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}

	header := []any{"Bearing", "Direction", "Order", "Candidate", "File", "First Row", "Last Row"}
	for c, h := range header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, k := range keys {
		for _, e := range ds.Candidates(k) {
			start, end := e.Source.RowRange(e.Candidate.Index)
			values := []any{
				k.Bearing, k.Direction, k.Order,
				e.Candidate.Label, e.Source.FilePath, start, end,
			}
			for c, v := range values {
				cell, err := excelize.CoordinatesToCellName(c+1, row)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(name, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}
	return nil
}
