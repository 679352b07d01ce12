package dataset

import (
	"gonum.org/v1/gonum/stat"

	"github.com/SANJAI2406/bearing-force-viewer/internal/response"
)

// Summary condenses one candidate's magnitude channel. Missing values are
// excluded rather than treated as zero.
type Summary struct {
	Bins          int
	ValidBins     int
	PeakMagnitude float64
	PeakFrequency float64
	MeanMagnitude float64
}

// Summarize computes the magnitude summary for a candidate. The second
// return is false when no bin carries a valid magnitude.
func Summarize(c response.Candidate) (Summary, bool) {
	s := Summary{Bins: len(c.Points)}

	vals := make([]float64, 0, len(c.Points))
	for _, p := range c.Points {
		if !p.Magnitude.Valid {
			continue
		}
		vals = append(vals, p.Magnitude.F)
		if p.Magnitude.F > s.PeakMagnitude || len(vals) == 1 {
			s.PeakMagnitude = p.Magnitude.F
			s.PeakFrequency = p.Frequency
		}
	}
	s.ValidBins = len(vals)
	if s.ValidBins == 0 {
		return Summary{Bins: s.Bins}, false
	}
	s.MeanMagnitude = stat.Mean(vals, nil)
	return s, true
}
