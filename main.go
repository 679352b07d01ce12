// Command bearing-force-viewer ingests a folder of bearing force
// frequency response exports, reconciles each file's metadata from its
// name and its plot image, and prints what it found. With -export the
// dataset is also written out as an Excel workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/SANJAI2406/bearing-force-viewer/internal/config"
	"github.com/SANJAI2406/bearing-force-viewer/internal/dataset"
	"github.com/SANJAI2406/bearing-force-viewer/internal/export"
	"github.com/SANJAI2406/bearing-force-viewer/internal/ingest"
	"github.com/SANJAI2406/bearing-force-viewer/internal/ocr"
	"github.com/SANJAI2406/bearing-force-viewer/internal/version"
)

var (
	flagFolder  = flag.String("folder", "", "Folder of data files to ingest")
	flagWorkers = flag.Int("workers", 0, "Max concurrent files (0 = config value)")
	flagExport  = flag.String("export", "", "Write the dataset to this .xlsx file")
	flagNoOCR   = flag.Bool("no-ocr", false, "Skip title recognition on plot images")
	flagVerbose = flag.Bool("v", false, "Verbose output")
	flagVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("bearing-force-viewer %s (%s, built %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
		return
	}
	if *flagFolder == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -folder <dir> [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := newLogger(*flagVerbose)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}
	if *flagWorkers > 0 {
		cfg.Workers = *flagWorkers
	}
	if *flagNoOCR {
		cfg.OCR.Enabled = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("ingestion aborted")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	coord := &ingest.Coordinator{
		Parallelism: cfg.Workers,
		Policy:      cfg.Metadata.Policy(),
		Discovery:   cfg.IngestDiscovery(),
		Logger:      logger,
	}

	if cfg.OCR.Enabled {
		// Engines are created per image on demand; a missing tesseract
		// install degrades each unit to filename-only metadata.
		pool := ocr.NewPool(cfg.Workers, ocr.Options{
			Language:  cfg.OCR.Language,
			TitleBand: cfg.OCR.TitleBand,
		})
		defer pool.Close()
		coord.Recognizer = pool
	}

	var bar *progressbar.ProgressBar
	coord.Progress = func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "ingesting")
		}
		_ = bar.Set(done)
	}

	ds, report, err := coord.Run(ctx, *flagFolder)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	printDataset(ds)
	printReport(report)

	if *flagExport != "" {
		if err := export.WriteWorkbook(*flagExport, ds); err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
		fmt.Printf("\nwrote %s\n", *flagExport)
	}

	// Per-file failures are reported above but never change the exit
	// code; partial ingestion is still a successful run.
	return nil
}

func printDataset(ds *dataset.Dataset) {
	fmt.Printf("\n%d candidates ingested\n", ds.Len())
	for _, bearing := range ds.Bearings() {
		for _, dir := range ds.Directions(bearing) {
			for _, order := range ds.Orders(bearing, dir) {
				k := dataset.Key{Bearing: bearing, Direction: dir, Order: order}
				entries := ds.Candidates(k)
				fmt.Printf("  %s %s order %s: %d candidate(s)\n", bearing, dir, order, len(entries))
				for _, e := range entries {
					if s, ok := dataset.Summarize(e.Candidate); ok {
						fmt.Printf("    #%d peak %.4g at %.1f Hz (mean %.4g, %d/%d bins)\n",
							e.Candidate.Label, s.PeakMagnitude, s.PeakFrequency,
							s.MeanMagnitude, s.ValidBins, s.Bins)
					}
				}
			}
		}
	}
}

func printReport(r *ingest.Report) {
	if len(r.Failures) > 0 {
		fmt.Printf("\n%d file(s) failed:\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Printf("  %s\n", f)
		}
	}
	if *flagVerbose {
		for _, w := range r.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
		for _, n := range r.Notes {
			fmt.Printf("  metadata: %s\n", n)
		}
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
