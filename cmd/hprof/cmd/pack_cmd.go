package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mitchellh/ioprogress"

	"github.com/OhanaFS/hprof"
	"github.com/OhanaFS/hprof/util"
)

var (
	PackCmd  = flag.NewFlagSet("pack", flag.ExitOnError)
	pkInput  = PackCmd.String("input", "", "path to the heap dump")
	pkOutput = PackCmd.String("output", "", "path to the compressed output")
)

// RunPackCmd rewrites a heap dump in the zstd seekable format.
func RunPackCmd() int {
	if *pkInput == "" || *pkOutput == "" {
		log.Println("You must specify both -input and -output.")
		return 2
	}

	// Opening validates the header before anything is written.
	log.Printf("Opening heap dump %s\n", *pkInput)
	d, err := hprof.Open(*pkInput)
	if err != nil {
		log.Println("Failed to open heap dump:", err)
		return 1
	}
	defer d.Close()
	log.Printf("Found %s dump taken at %s\n", d.Version().Name(), d.Header().Time().UTC())

	// The header has been consumed; go back and copy the whole dump.
	if err := d.MoveReaderTo(0); err != nil {
		log.Println("Failed to rewind heap dump:", err)
		return 1
	}

	out, err := os.Create(*pkOutput)
	if err != nil {
		log.Println("Failed to create output file:", err)
		return 1
	}
	defer out.Close()

	progress := packProgress(d, os.Stderr)

	log.Println("Compressing...")
	n, err := hprof.Compress(out, progress)
	if err != nil {
		log.Println("Failed to compress heap dump:", err)
		return 1
	}
	if err := out.Sync(); err != nil {
		log.Println("Failed to sync output file:", err)
		return 1
	}

	outStat, err := out.Stat()
	if err != nil {
		log.Println("Failed to stat output file:", err)
		return 1
	}
	fmt.Println("")
	log.Printf("Packed %s into %s\n", util.FormatSize(n), util.FormatSize(outStat.Size()))
	return 0
}

// packProgress wraps the dump reader with a progress bar drawn to w. The total
// is the uncompressed length, which is what the reader yields.
func packProgress(d *hprof.Dump, w io.Writer) *ioprogress.Reader {
	return &ioprogress.Reader{
		Reader:       d.Reader(),
		Size:         d.Size(),
		DrawFunc:     ioprogress.DrawTerminalf(w, ioprogress.DrawTextFormatBytes),
		DrawInterval: time.Second,
	}
}
