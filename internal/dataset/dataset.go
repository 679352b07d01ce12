// Package dataset holds the in-memory result of an ingestion run: every
// parsed candidate grouped by bearing, direction and order, with enough
// provenance to point any value back to its file and row.
package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/SANJAI2406/bearing-force-viewer/internal/metadata"
	"github.com/SANJAI2406/bearing-force-viewer/internal/response"
)

// Key addresses one group of candidates. Unresolved metadata fields map
// to "?" so partially identified files stay reachable instead of being
// silently dropped.
type Key struct {
	Bearing   string
	Direction string
	Order     string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Bearing, k.Direction, k.Order)
}

// Entry is one candidate together with its source file and the metadata
// it was filed under.
type Entry struct {
	Candidate response.Candidate
	Source    *response.SourceRecord
	Meta      metadata.Metadata
}

// Dataset groups entries by key. It is not safe for concurrent mutation;
// ingestion merges into it from a single goroutine.
type Dataset struct {
	entries map[Key][]*Entry
}

func New() *Dataset {
	return &Dataset{entries: make(map[Key][]*Entry)}
}

// KeyFor derives the grouping key from a file's metadata.
func KeyFor(m metadata.Metadata) Key {
	return Key{
		Bearing:   m.Bearing.String(),
		Direction: m.Direction.String(),
		Order:     m.Order.String(),
	}
}

// Add files an entry under the key derived from its metadata.
func (d *Dataset) Add(e *Entry) {
	k := KeyFor(e.Meta)
	d.entries[k] = append(d.entries[k], e)
}

// Sort orders every group by source file path, then candidate index, so
// repeated runs over the same folder produce identical layouts.
func (d *Dataset) Sort() {
	for _, es := range d.entries {
		sort.SliceStable(es, func(i, j int) bool {
			if es[i].Source.FilePath != es[j].Source.FilePath {
				return es[i].Source.FilePath < es[j].Source.FilePath
			}
			return es[i].Candidate.Index < es[j].Candidate.Index
		})
	}
}

// Len returns the total number of entries across all groups.
func (d *Dataset) Len() int {
	n := 0
	for _, es := range d.entries {
		n += len(es)
	}
	return n
}

// Keys returns every populated key, sorted by bearing, direction, then
// numeric order.
func (d *Dataset) Keys() []Key {
	keys := make([]Key, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Bearing != keys[j].Bearing {
			return keys[i].Bearing < keys[j].Bearing
		}
		if keys[i].Direction != keys[j].Direction {
			return keys[i].Direction < keys[j].Direction
		}
		return lessOrder(keys[i].Order, keys[j].Order)
	})
	return keys
}

// Bearings returns the distinct bearing identifiers, sorted.
func (d *Dataset) Bearings() []string {
	return d.distinct(func(k Key) string { return k.Bearing }, sort.Strings)
}

// Directions returns the distinct directions seen for a bearing, sorted.
func (d *Dataset) Directions(bearing string) []string {
	return d.distinctWhere(
		func(k Key) bool { return k.Bearing == bearing },
		func(k Key) string { return k.Direction },
		sort.Strings,
	)
}

// Orders returns the distinct orders seen for a bearing and direction,
// sorted numerically where possible.
func (d *Dataset) Orders(bearing, direction string) []string {
	return d.distinctWhere(
		func(k Key) bool { return k.Bearing == bearing && k.Direction == direction },
		func(k Key) string { return k.Order },
		func(s []string) { sort.Slice(s, func(i, j int) bool { return lessOrder(s[i], s[j]) }) },
	)
}

// Candidates returns the entries filed under a key. The returned slice is
// shared; callers must not mutate it.
func (d *Dataset) Candidates(k Key) []*Entry {
	return d.entries[k]
}

func (d *Dataset) distinct(get func(Key) string, order func([]string)) []string {
	return d.distinctWhere(func(Key) bool { return true }, get, order)
}

func (d *Dataset) distinctWhere(keep func(Key) bool, get func(Key) string, order func([]string)) []string {
	seen := make(map[string]struct{})
	var out []string
	for k := range d.entries {
		if !keep(k) {
			continue
		}
		v := get(k)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	order(out)
	return out
}

// lessOrder compares order labels numerically, pushing non-numeric ones
// (the "?" placeholder) to the end.
func lessOrder(a, b string) bool {
	fa, ea := strconv.ParseFloat(a, 64)
	fb, eb := strconv.ParseFloat(b, 64)
	switch {
	case ea == nil && eb == nil:
		return fa < fb
	case ea == nil:
		return true
	case eb == nil:
		return false
	default:
		return a < b
	}
}
