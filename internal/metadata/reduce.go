package metadata

import (
	"regexp"
	"strings"

	"github.com/SANJAI2406/bearing-force-viewer/internal/ocr"
)

// ocrCorrections repairs the recognizer's habitual confusions before
// vocabulary matching: I/l read as 1 inside bearing ids, z read as 2, 0
// read as O in "Order".
var ocrCorrections = strings.NewReplacer(
	"BI", "B1",
	"Bl", "B1",
	"z_", "2.",
	"Z_", "2.",
	"0rder", "Order",
	"0RDER", "ORDER",
)

var (
	bearingTokenRe = regexp.MustCompile(`^B\d+$`)
	// Direction may be a bare axis letter or embedded in a longer token
	// like "FORCEX" or "XCOMPONENT" when words fuse.
	directionTokenRe = regexp.MustCompile(`^(?:FORCE)?([XYZ])(?:COMPONENT)?$`)
	orderValueRe     = regexp.MustCompile(`^(\d+(?:[._]\d+)?)X?$`)
	orderFusedRe     = regexp.MustCompile(`^ORDER(\d+(?:[._]\d+)?)X?$`)
	bearingDescRe    = regexp.MustCompile(`(B\d+)\s*\[([^\]]+)\]`)

	nonAlnumRe = regexp.MustCompile(`[^A-Z0-9._]`)
)

// pick accumulates competing candidates for one field. Higher recognizer
// confidence wins; an exact confidence tie between different values
// leaves the field unresolved.
type pick struct {
	value string
	conf  float64
	set   bool
	tied  bool
}

func (p *pick) offer(value string, conf float64) {
	switch {
	case !p.set:
		p.value, p.conf, p.set = value, conf, true
	case conf > p.conf:
		p.value, p.conf, p.tied = value, conf, false
	case conf == p.conf && value != p.value:
		p.tied = true
	}
}

func (p *pick) field() Field {
	if !p.set || p.tied {
		return Field{}
	}
	return OCRField(p.value, p.conf)
}

// ReduceFragments reduces raw OCR fragments to a metadata guess. Fields
// with no matching fragment stay unresolved.
func ReduceFragments(frags []ocr.Fragment) Metadata {
	var bearing, direction, order pick

	norm := make([]string, len(frags))
	for i, f := range frags {
		norm[i] = normalizeToken(f.Text)
	}

	for i, tok := range norm {
		if tok == "" {
			continue
		}
		conf := frags[i].Confidence

		if bearingTokenRe.MatchString(tok) {
			bearing.offer(tok, conf)
		}
		if g := directionTokenRe.FindStringSubmatch(tok); g != nil {
			direction.offer(g[1], conf)
		}
		if g := orderFusedRe.FindStringSubmatch(tok); g != nil {
			if v, ok := normalizeOrder(g[1]); ok {
				order.offer(v, conf)
			}
		}
		// A numeric token counts as an order only when the preceding
		// fragment reads "Order"; bare numbers in the title are axis
		// limits, not orders.
		if i > 0 && norm[i-1] == "ORDER" {
			if g := orderValueRe.FindStringSubmatch(tok); g != nil {
				if v, ok := normalizeOrder(g[1]); ok {
					order.offer(v, conf)
				}
			}
		}
	}

	m := Metadata{
		Bearing:   bearing.field(),
		Direction: direction.field(),
		Order:     order.field(),
	}

	// The bracketed bearing description spans fragments; recover it from
	// the joined title text.
	joined := joinedText(frags)
	if g := bearingDescRe.FindStringSubmatch(joined); g != nil {
		if !m.Bearing.Resolved() {
			m.Bearing = OCRField(strings.ToUpper(g[1]), 0)
		}
		if strings.EqualFold(g[1], m.Bearing.Value) {
			m.BearingDesc = strings.TrimSpace(g[2])
		}
	}

	return m
}

// normalizeToken case-folds a fragment and strips everything outside the
// vocabulary alphabet. Dots and underscores survive for order values.
func normalizeToken(s string) string {
	s = ocrCorrections.Replace(s)
	s = strings.ToUpper(s)
	return nonAlnumRe.ReplaceAllString(s, "")
}

// joinedText joins corrected fragment texts in reading order.
func joinedText(frags []ocr.Fragment) string {
	parts := make([]string, len(frags))
	for i, f := range frags {
		parts[i] = ocrCorrections.Replace(f.Text)
	}
	return strings.Join(parts, " ")
}
