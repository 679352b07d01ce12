package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/SANJAI2406/bearing-force-viewer/internal/dataset"
	"github.com/SANJAI2406/bearing-force-viewer/internal/metadata"
	"github.com/SANJAI2406/bearing-force-viewer/internal/ocr"
	"github.com/SANJAI2406/bearing-force-viewer/internal/tabular"
)

// DefaultParallelism caps the worker pool. Runs over fewer files use one
// worker per file.
const DefaultParallelism = 30

// FailureKind classifies why a unit produced no entries.
type FailureKind int

const (
	FailureFormat FailureKind = iota
	FailureRecognition
	FailureIO
	FailureCancelled
	FailureTimeout
)

func (k FailureKind) String() string {
	switch k {
	case FailureFormat:
		return "format"
	case FailureRecognition:
		return "recognition"
	case FailureIO:
		return "io"
	case FailureCancelled:
		return "cancelled"
	case FailureTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Failure records one unit that contributed nothing to the dataset.
type Failure struct {
	Path string
	Kind FailureKind
	Err  error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s: %v", f.Path, f.Kind, f.Err)
}

// Report collects everything a run found besides the dataset itself.
type Report struct {
	Failures []Failure
	Notes    []metadata.Note
	Warnings []string
}

// Recognizer extracts title fragments from a plot image. *ocr.Pool
// satisfies it; tests substitute a stub.
type Recognizer interface {
	RecognizeTitle(path string) ([]ocr.Fragment, error)
}

// Coordinator runs an ingestion over one folder. Zero value works; set
// Recognizer to enable OCR.
type Coordinator struct {
	// Parallelism bounds concurrent units; 0 means DefaultParallelism.
	Parallelism int

	// Recognizer is used for units with a paired image. Nil disables
	// recognition and metadata comes from filenames alone.
	Recognizer Recognizer

	// Policy decides conflicts between filename and OCR metadata.
	Policy metadata.Policy

	Discovery DiscoveryConfig

	Logger zerolog.Logger

	// Progress, when set, is called after each unit completes with the
	// number done and the total.
	Progress func(done, total int)
}

// unitResult is what one worker hands back for merging.
type unitResult struct {
	unit    Unit
	parsed  *tabular.Result
	meta    metadata.Metadata
	notes   []metadata.Note
	failure *Failure
}

// Run ingests every unit found in dir. Unit failures land in the report;
// the returned error is non-nil only when the folder itself cannot be
// scanned.
func (c *Coordinator) Run(ctx context.Context, dir string) (*dataset.Dataset, *Report, error) {
	units, err := Discover(dir, c.Discovery)
	if err != nil {
		return nil, nil, err
	}

	ds := dataset.New()
	report := &Report{}
	if len(units) == 0 {
		c.Logger.Info().Str("dir", dir).Msg("no data files found")
		return ds, report, nil
	}

	numWorkers := c.Parallelism
	if numWorkers <= 0 {
		numWorkers = DefaultParallelism
	}
	if numWorkers > len(units) {
		numWorkers = len(units)
	}

	c.Logger.Info().
		Str("dir", dir).
		Int("units", len(units)).
		Int("workers", numWorkers).
		Msg("ingestion started")

	var wg sync.WaitGroup
	unitChan := make(chan Unit, len(units))
	results := make(chan unitResult, len(units))

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range unitChan {
				if err := ctx.Err(); err != nil {
					results <- unitResult{unit: u, failure: contextFailure(u, err)}
					continue
				}
				results <- c.process(u)
			}
		}()
	}

	for _, u := range units {
		unitChan <- u
	}
	close(unitChan)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single-writer merge. A unit lands either whole or not at all. When
	// the context expires the loop stops waiting: units still in flight
	// are reported as failures and their late results are discarded.
	// Workers drain on their own; the results channel is buffered for
	// every unit, so they never block on an abandoned send.
	collected := make(map[string]bool, len(units))
	done := 0
merge:
	for done < len(units) {
		select {
		case res := <-results:
			done++
			collected[res.unit.DataPath] = true
			if c.Progress != nil {
				c.Progress(done, len(units))
			}
			c.merge(ds, report, res)
		case <-ctx.Done():
			for _, u := range units {
				if !collected[u.DataPath] {
					report.Failures = append(report.Failures, *contextFailure(u, ctx.Err()))
				}
			}
			break merge
		}
	}
	ds.Sort()

	c.Logger.Info().
		Int("entries", ds.Len()).
		Int("failures", len(report.Failures)).
		Msg("ingestion finished")
	return ds, report, nil
}

func (c *Coordinator) process(u Unit) unitResult {
	parsed, err := tabular.ParseFile(u.DataPath)
	if err != nil {
		kind := FailureIO
		var ferr *tabular.FormatError
		if errors.As(err, &ferr) {
			kind = FailureFormat
		}
		return unitResult{unit: u, failure: &Failure{Path: u.DataPath, Kind: kind, Err: err}}
	}

	fromName := metadata.FromFilenameHints(u.DataPath)

	var fromOCR metadata.Metadata
	if c.Recognizer != nil && u.ImagePath != "" {
		frags, err := c.Recognizer.RecognizeTitle(u.ImagePath)
		switch {
		case errors.Is(err, ocr.ErrNoText):
			c.Logger.Debug().Str("image", u.ImagePath).Msg("no title text detected")
		case err != nil:
			// Recognition trouble never discards the parsed data; the
			// filename hints still apply. Record it so the operator can
			// see which images misbehaved.
			c.Logger.Warn().Err(err).Str("image", u.ImagePath).Msg("title recognition failed")
		default:
			fromOCR = metadata.ReduceFragments(frags)
		}
	}

	meta, notes := metadata.Reconcile(fromName, fromOCR, c.Policy)
	return unitResult{unit: u, parsed: parsed, meta: meta, notes: notes}
}

func (c *Coordinator) merge(ds *dataset.Dataset, report *Report, res unitResult) {
	if res.failure != nil {
		report.Failures = append(report.Failures, *res.failure)
		c.Logger.Warn().
			Err(res.failure.Err).
			Str("path", res.failure.Path).
			Str("kind", res.failure.Kind.String()).
			Msg("unit failed")
		return
	}

	for _, w := range res.parsed.Warnings {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", res.unit.DataPath, w))
	}
	for _, be := range res.parsed.Skipped {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%s: %v", res.unit.DataPath, &be))
	}
	for _, n := range res.notes {
		report.Notes = append(report.Notes, n)
		c.Logger.Debug().
			Str("path", res.unit.DataPath).
			Str("conflict", n.String()).
			Msg("metadata reconciled")
	}

	for _, cand := range res.parsed.Candidates {
		ds.Add(&dataset.Entry{
			Candidate: cand,
			Source:    res.parsed.Source,
			Meta:      res.meta,
		})
	}
}

func contextFailure(u Unit, err error) *Failure {
	kind := FailureCancelled
	if errors.Is(err, context.DeadlineExceeded) {
		kind = FailureTimeout
	}
	return &Failure{Path: u.DataPath, Kind: kind, Err: err}
}
