package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SANJAI2406/bearing-force-viewer/internal/dataset"
	"github.com/SANJAI2406/bearing-force-viewer/internal/metadata"
	"github.com/SANJAI2406/bearing-force-viewer/internal/response"
)

func testDataset() *dataset.Dataset {
	ds := dataset.New()
	freqs := []float64{100, 200, 300}
	src := &response.SourceRecord{FilePath: "run--001.csv", Frequencies: freqs}

	m := metadata.Metadata{
		Bearing:   metadata.FilenameField("B4"),
		Direction: metadata.FilenameField("Y"),
		Order:     metadata.FilenameField("2.5"),
	}
	for idx := 0; idx < 2; idx++ {
		points := make([]response.FrequencyPoint, len(freqs))
		for i, f := range freqs {
			points[i] = response.FrequencyPoint{
				Frequency: f,
				Magnitude: response.Some(float64(10*idx + i)),
				Phase:     response.Some(float64(i)),
			}
		}
		// Second candidate has a hole in bin 1.
		if idx == 1 {
			points[1].Magnitude = response.Missing()
		}
		ds.Add(&dataset.Entry{
			Candidate: response.Candidate{Index: idx, Label: idx + 1, Points: points},
			Source:    src,
			Meta:      m,
		})
	}
	ds.Sort()
	return ds
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, testDataset()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"B4 Y", "Sources"}, f.GetSheetList())

	rows, err := f.GetRows("B4 Y")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)

	assert.Equal(t, "Frequency [Hz]", rows[0][0])
	assert.Equal(t, "Order 2.5 Cand 1 |F|", rows[0][1])
	assert.Equal(t, "Order 2.5 Cand 2 |F|", rows[0][3])
	assert.Equal(t, "100", rows[1][0])

	// Candidate 2, bin 1 magnitude is missing: the cell stays empty.
	cell, err := f.GetCellValue("B4 Y", "D3")
	require.NoError(t, err)
	assert.Empty(t, cell)

	// The same bin for candidate 1 carries its value.
	cell, err = f.GetCellValue("B4 Y", "B3")
	require.NoError(t, err)
	assert.Equal(t, "1", cell)
}

func TestWriteWorkbookSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, testDataset()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sources")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Bearing", "Direction", "Order", "Candidate", "File", "First Row", "Last Row"}, rows[0])
	assert.Equal(t, []string{"B4", "Y", "2.5", "1", "run--001.csv", "9", "12"}, rows[1])
	assert.Equal(t, []string{"B4", "Y", "2.5", "2", "run--001.csv", "14", "17"}, rows[2])
}

func TestWriteWorkbookEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteWorkbook(path, dataset.New()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sources"}, f.GetSheetList())
}
