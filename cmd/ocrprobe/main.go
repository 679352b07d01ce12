// Command ocrprobe runs title recognition on a single plot image and
// prints what the recognizer saw. It is the debugging aid for tuning the
// title band and checking how a misbehaving image reduces to metadata.
//
// Usage: ocrprobe -image <plot.png> [options]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/SANJAI2406/bearing-force-viewer/internal/metadata"
	"github.com/SANJAI2406/bearing-force-viewer/internal/ocr"
)

var (
	flagImage = flag.String("image", "", "Plot image to probe")
	flagBand  = flag.Float64("band", ocr.DefaultTitleBand, "Title band as a fraction of image height")
	flagLang  = flag.String("lang", "eng", "Tesseract language")
)

func main() {
	flag.Parse()

	if *flagImage == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -image <plot.png> [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	engine, err := ocr.NewEngine(ocr.Options{Language: *flagLang, TitleBand: *flagBand})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init ocr engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	frags, err := engine.RecognizeTitle(*flagImage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recognize %s: %v\n", *flagImage, err)
		os.Exit(1)
	}

	fmt.Printf("%d fragment(s):\n", len(frags))
	for _, f := range frags {
		fmt.Printf("  %-20q conf=%5.1f bounds=(%d,%d %dx%d)\n",
			f.Text, f.Confidence,
			f.Bounds.X, f.Bounds.Y, f.Bounds.Width, f.Bounds.Height)
	}

	m := metadata.ReduceFragments(frags)
	fmt.Printf("\nreduced metadata:\n")
	fmt.Printf("  bearing:   %s", m.Bearing)
	if m.BearingDesc != "" {
		fmt.Printf(" [%s]", m.BearingDesc)
	}
	fmt.Println()
	fmt.Printf("  direction: %s\n", m.Direction)
	fmt.Printf("  order:     %s\n", m.Order)
}
