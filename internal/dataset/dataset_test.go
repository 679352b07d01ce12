package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SANJAI2406/bearing-force-viewer/internal/metadata"
	"github.com/SANJAI2406/bearing-force-viewer/internal/response"
)

func meta(bearing, direction, order string) metadata.Metadata {
	m := metadata.Metadata{}
	if bearing != "" {
		m.Bearing = metadata.FilenameField(bearing)
	}
	if direction != "" {
		m.Direction = metadata.FilenameField(direction)
	}
	if order != "" {
		m.Order = metadata.FilenameField(order)
	}
	return m
}

func entry(path string, index int, m metadata.Metadata, freqs []float64) *Entry {
	points := make([]response.FrequencyPoint, len(freqs))
	for i, f := range freqs {
		points[i] = response.FrequencyPoint{
			Frequency: f,
			Magnitude: response.Some(float64(index*100 + i)),
		}
	}
	return &Entry{
		Candidate: response.Candidate{Index: index, Label: index + 1, Points: points},
		Source:    &response.SourceRecord{FilePath: path, Frequencies: freqs},
		Meta:      m,
	}
}

func TestDatasetGrouping(t *testing.T) {
	d := New()
	freqs := []float64{100, 200}
	d.Add(entry("b.csv", 0, meta("B4", "Y", "2.5"), freqs))
	d.Add(entry("a.csv", 1, meta("B4", "Y", "2.5"), freqs))
	d.Add(entry("a.csv", 0, meta("B4", "Y", "2.5"), freqs))
	d.Add(entry("c.csv", 0, meta("B4", "X", "26.0"), freqs))
	d.Add(entry("d.csv", 0, meta("B1", "Z", "3.0"), freqs))
	d.Sort()

	assert.Equal(t, 5, d.Len())
	assert.Equal(t, []string{"B1", "B4"}, d.Bearings())
	assert.Equal(t, []string{"X", "Y"}, d.Directions("B4"))
	assert.Equal(t, []string{"2.5"}, d.Orders("B4", "Y"))

	es := d.Candidates(Key{"B4", "Y", "2.5"})
	require.Len(t, es, 3)
	assert.Equal(t, "a.csv", es[0].Source.FilePath)
	assert.Equal(t, 0, es[0].Candidate.Index)
	assert.Equal(t, 1, es[1].Candidate.Index)
	assert.Equal(t, "b.csv", es[2].Source.FilePath)
}

func TestDatasetKeysOrderedNumerically(t *testing.T) {
	d := New()
	freqs := []float64{100}
	d.Add(entry("a.csv", 0, meta("B1", "X", "26.0"), freqs))
	d.Add(entry("b.csv", 0, meta("B1", "X", "3.0"), freqs))
	d.Add(entry("c.csv", 0, meta("B1", "X", ""), freqs))

	keys := d.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "3.0", keys[0].Order)
	assert.Equal(t, "26.0", keys[1].Order, "26 sorts after 3 numerically, not lexically")
	assert.Equal(t, "?", keys[2].Order, "unresolved order sorts last")
}

func TestDatasetUnresolvedStaysReachable(t *testing.T) {
	d := New()
	d.Add(entry("a.csv", 0, metadata.Metadata{}, []float64{100}))

	es := d.Candidates(Key{"?", "?", "?"})
	require.Len(t, es, 1)
	assert.Equal(t, "a.csv", es[0].Source.FilePath)
}

func TestResolveProvenance(t *testing.T) {
	d := New()
	freqs := []float64{100, 200, 300}
	m := meta("B4", "Y", "2.5")
	d.Add(entry("a.csv", 0, m, freqs))
	d.Add(entry("a.csv", 1, m, freqs))
	d.Sort()

	k := Key{"B4", "Y", "2.5"}

	// Second candidate block, magnitude channel, third bin. Blocks start
	// at row 9 and occupy five rows each; magnitude is the third row.
	p, err := d.Resolve(PointRef{Key: k, Entry: 1, Channel: 2, Bin: 2})
	require.NoError(t, err)
	assert.Equal(t, "a.csv", p.FilePath)
	assert.Equal(t, 16, p.Row)
	assert.Equal(t, 5, p.Column)

	_, err = d.Resolve(PointRef{Key: k, Entry: 5})
	assert.Error(t, err)
	_, err = d.Resolve(PointRef{Key: k, Entry: 0, Bin: 9})
	assert.Error(t, err)
	_, err = d.Resolve(PointRef{Key: k, Entry: 0, Channel: 4})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	c := response.Candidate{Points: []response.FrequencyPoint{
		{Frequency: 100, Magnitude: response.Some(1.0)},
		{Frequency: 200, Magnitude: response.Some(5.0)},
		{Frequency: 300, Magnitude: response.Missing()},
		{Frequency: 400, Magnitude: response.Some(3.0)},
	}}

	s, ok := Summarize(c)
	require.True(t, ok)
	assert.Equal(t, 4, s.Bins)
	assert.Equal(t, 3, s.ValidBins)
	assert.Equal(t, 5.0, s.PeakMagnitude)
	assert.Equal(t, 200.0, s.PeakFrequency)
	assert.InDelta(t, 3.0, s.MeanMagnitude, 1e-12)
}

func TestSummarizeAllMissing(t *testing.T) {
	c := response.Candidate{Points: []response.FrequencyPoint{
		{Frequency: 100, Magnitude: response.Missing()},
	}}
	s, ok := Summarize(c)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Bins)
	assert.Zero(t, s.ValidBins)
}
