// Package ingest discovers measurement files in a folder, runs parsing
// and metadata recognition over them with a bounded worker pool, and
// merges the results into a dataset. Individual file failures are
// collected, never fatal.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FolderError reports a folder that could not be scanned at all. It is
// the only condition that aborts a run.
type FolderError struct {
	Dir string
	Err error
}

func (e *FolderError) Error() string {
	return fmt.Sprintf("scan folder %s: %v", e.Dir, e.Err)
}

func (e *FolderError) Unwrap() error {
	return e.Err
}

// DiscoveryConfig controls which files a scan picks up. Zero value means
// defaults.
type DiscoveryConfig struct {
	// DataPatterns match data files; defaults to "*.csv".
	DataPatterns []string
	// ImagePatterns match plot images; defaults to "*.png".
	ImagePatterns []string
	// Recursive descends into subfolders. Off by default; measurement
	// exports put everything in one flat folder.
	Recursive bool
}

func (c DiscoveryConfig) withDefaults() DiscoveryConfig {
	if len(c.DataPatterns) == 0 {
		c.DataPatterns = []string{"*.csv"}
	}
	if len(c.ImagePatterns) == 0 {
		c.ImagePatterns = []string{"*.png"}
	}
	return c
}

// Unit is one data file with its paired plot image. ImagePath is empty
// when no image matches, and metadata then comes from the filename only.
type Unit struct {
	DataPath  string
	ImagePath string
}

// Discover scans dir for data files and pairs each with a plot image.
// Pairing is by case-insensitive shared stem; the plotting tool also
// emits images named {stem}_Candidate000001.png, which pair with {stem}.
func Discover(dir string, cfg DiscoveryConfig) ([]Unit, error) {
	cfg = cfg.withDefaults()

	if _, err := os.Stat(dir); err != nil {
		return nil, &FolderError{Dir: dir, Err: err}
	}

	data, err := match(dir, cfg.DataPatterns, cfg.Recursive)
	if err != nil {
		return nil, &FolderError{Dir: dir, Err: err}
	}
	images, err := match(dir, cfg.ImagePatterns, cfg.Recursive)
	if err != nil {
		return nil, &FolderError{Dir: dir, Err: err}
	}

	// Index images by lowercased stem. A stem like "x_Candidate000001"
	// is also filed under "x" so the per-candidate naming pairs up.
	byStem := make(map[string]string, len(images))
	for _, img := range images {
		stem := strings.ToLower(stemOf(img))
		byStem[stem] = img
		if base, ok := strings.CutSuffix(stem, "_candidate000001"); ok {
			if _, taken := byStem[base]; !taken {
				byStem[base] = img
			}
		}
	}

	units := make([]Unit, 0, len(data))
	for _, d := range data {
		units = append(units, Unit{
			DataPath:  d,
			ImagePath: byStem[strings.ToLower(stemOf(d))],
		})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].DataPath < units[j].DataPath })
	return units, nil
}

func match(dir string, patterns []string, recursive bool) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range patterns {
		if recursive {
			p = "**/" + p
		}
		hits, err := doublestar.FilepathGlob(filepath.Join(dir, p))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		for _, h := range hits {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out, nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
