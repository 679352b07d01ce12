package metadata

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Filename conventions of the DOE export, e.g.
// "1st_stage_500Nm_Drive_B4_X_Order26--012.csv". Not every file encodes
// every field; whatever the name does not carry stays unresolved here and
// may be filled from OCR during reconciliation.
var (
	stageRe     = regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)_stage`)
	torqueRe    = regexp.MustCompile(`(\d+Nm)_(\w+?)(?:_|$|\.|-)`)
	numberRe    = regexp.MustCompile(`--(\d+)\.[A-Za-z]+$`)
	bearingRe   = regexp.MustCompile(`(?:^|[_\- ])(B\d+)(?:[_\- .]|$)`)
	directionRe = regexp.MustCompile(`(?i)(?:^|[_\- ])(X|Y|Z)(?:[_\- .]|$)`)
	orderRe     = regexp.MustCompile(`(?i)order[_\- ]?(\d+(?:[._]\d+)?)`)

	orderTokenRe = regexp.MustCompile(`^(\d+)[._]?(\d*)$`)
)

// FromFilenameHints extracts every hint the filename encodes. name may be
// a full path; only the base name is inspected.
func FromFilenameHints(name string) Metadata {
	base := filepath.Base(name)

	m := Metadata{Stage: "1"}
	if g := stageRe.FindStringSubmatch(base); g != nil {
		m.Stage = g[1]
	}
	if g := torqueRe.FindStringSubmatch(base); g != nil {
		m.Torque = g[1]
		m.Condition = g[2]
	}
	if g := numberRe.FindStringSubmatch(base); g != nil {
		m.FileNumber, _ = strconv.Atoi(g[1])
	}

	if g := bearingRe.FindStringSubmatch(base); g != nil {
		m.Bearing = FilenameField(strings.ToUpper(g[1]))
	}
	if g := directionRe.FindStringSubmatch(base); g != nil {
		m.Direction = FilenameField(strings.ToUpper(g[1]))
	}
	if g := orderRe.FindStringSubmatch(base); g != nil {
		if v, ok := normalizeOrder(g[1]); ok {
			m.Order = FilenameField(v)
		}
	}

	return m
}

// normalizeOrder canonicalizes an order token to "N.M" form: "26" and
// "26_0" both become "26.0".
func normalizeOrder(tok string) (string, bool) {
	g := orderTokenRe.FindStringSubmatch(tok)
	if g == nil {
		return "", false
	}
	dec := g[2]
	if dec == "" {
		dec = "0"
	}
	return g[1] + "." + dec, true
}
