// Package tabular parses the fixed-layout bearing-force CSV files produced
// by a Romax design-of-experiments sweep.
//
// Layout, 1-indexed: rows 1-6 are header text, row 7 carries the frequency
// axis, row 8 is blank, and candidate blocks of five rows (real, imaginary,
// magnitude, phase, separator) repeat from row 9. The first two cells of
// every data row are labels, not readings.
package tabular

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/SANJAI2406/bearing-force-viewer/internal/response"
)

// labelColumns is the number of leading label cells on every data row.
const labelColumns = 2

var candidateLabel = regexp.MustCompile(`Candidate\s*(\d+)`)

// FormatError reports a structural violation of the tabular layout. It is
// fatal for the file it names, never for the whole ingestion run.
type FormatError struct {
	Path string
	Row  int // 1-indexed row, 0 when the whole file is malformed
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Path, e.Row, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// BlockError records one candidate block that failed to parse. Other
// blocks in the same file are unaffected.
type BlockError struct {
	Index int // zero-based candidate index within the file
	Row   int // 1-indexed row where the problem was found
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("candidate block %d (row %d): %v", e.Index, e.Row, e.Err)
}

// Result is the outcome of parsing one data file.
type Result struct {
	Source     *response.SourceRecord
	Candidates []response.Candidate

	// Warnings are non-fatal findings, such as a dropped trailing block.
	Warnings []string

	// Skipped lists candidate blocks rejected with a per-block error.
	Skipped []BlockError
}

// ParseFile parses the data file at path.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return Parse(path, f)
}

// Parse parses one data file read from r. The path is used for error
// reporting and recorded in the SourceRecord.
func Parse(path string, r io.Reader) (*Result, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}

	if len(lines) < response.FrequencyRow {
		return nil, &FormatError{Path: path, Msg: fmt.Sprintf("file has %d rows, frequency axis expected at row %d", len(lines), response.FrequencyRow)}
	}

	freqs, err := parseFrequencyAxis(path, lines[response.FrequencyRow-1])
	if err != nil {
		return nil, err
	}

	res := &Result{
		Source: &response.SourceRecord{FilePath: path, Frequencies: freqs},
	}

	// Candidate blocks start at DataStartRow and repeat every BlockRows
	// rows. Anything left over at the end is a partial block.
	dataRows := len(lines) - (response.DataStartRow - 1)
	if dataRows < 0 {
		dataRows = 0
	}
	blocks := dataRows / response.BlockRows
	if rem := dataRows % response.BlockRows; rem != 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("dropped trailing partial block of %d rows after candidate %d", rem, blocks))
	}

	for i := 0; i < blocks; i++ {
		startRow := response.DataStartRow + response.BlockRows*i // 1-indexed
		cand, err := parseBlock(lines, startRow, i, freqs)
		if err != nil {
			// Candidate-level failure is isolated; the rest of the file
			// still ingests.
			res.Skipped = append(res.Skipped, BlockError{Index: i, Row: startRow, Err: err})
			continue
		}
		res.Candidates = append(res.Candidates, cand)
	}

	return res, nil
}

// parseFrequencyAxis parses row 7 into the frequency axis. Every token
// must be a finite number and at least one bin must be present.
func parseFrequencyAxis(path, line string) ([]float64, error) {
	cells := dataCells(line, 0)
	if len(cells) == 0 {
		return nil, &FormatError{Path: path, Row: response.FrequencyRow, Msg: "frequency axis is empty"}
	}

	freqs := make([]float64, 0, len(cells))
	for i, cell := range cells {
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, &FormatError{
				Path: path,
				Row:  response.FrequencyRow,
				Msg:  fmt.Sprintf("frequency bin %d is not a number: %q", i+1, cell),
			}
		}
		freqs = append(freqs, f)
	}
	return freqs, nil
}

// parseBlock parses the four channel rows of one candidate block. startRow
// is the 1-indexed row of the real channel.
func parseBlock(lines []string, startRow, index int, freqs []float64) (response.Candidate, error) {
	bins := len(freqs)
	cand := response.Candidate{
		Index:  index,
		Label:  index + 1,
		Points: make([]response.FrequencyPoint, bins),
	}
	for i, f := range freqs {
		cand.Points[i].Frequency = f
	}

	// The candidate number is embedded in the first label cell of the
	// real row when the file carries one.
	if first := firstCell(lines[startRow-1]); first != "" {
		if m := candidateLabel.FindStringSubmatch(first); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				cand.Label = n
			}
		}
	}

	for ch := 0; ch < response.ChannelRows; ch++ {
		row := startRow + ch
		cells := dataCells(lines[row-1], bins)
		if len(cells) != bins {
			return response.Candidate{}, fmt.Errorf("row %d has %d columns, frequency axis has %d", row, len(cells), bins)
		}
		for i, cell := range cells {
			v := response.ParseNumber(cell)
			switch ch {
			case 0:
				cand.Points[i].Real = v
			case 1:
				cand.Points[i].Imag = v
			case 2:
				cand.Points[i].Magnitude = v
			case 3:
				cand.Points[i].Phase = v
			}
		}
	}

	return cand, nil
}

// dataCells splits a CSV row, drops the leading label cells, and trims
// empty cells left by trailing commas beyond the first bins columns.
// Empty cells within the axis length survive as missing readings, so a
// row whose last reading is absent still lines up with the axis. Pass
// bins 0 to trim every trailing empty cell.
func dataCells(line string, bins int) []string {
	cells := strings.Split(line, ",")
	if len(cells) <= labelColumns {
		return nil
	}
	cells = cells[labelColumns:]
	for len(cells) > bins && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// firstCell returns the trimmed first cell of a row.
func firstCell(line string) string {
	cell, _, _ := strings.Cut(line, ",")
	return strings.TrimSpace(cell)
}

// readLines reads r into a slice of raw rows. A trailing newline does not
// produce a phantom empty row.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
