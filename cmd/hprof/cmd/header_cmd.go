package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/OhanaFS/hprof"
	"github.com/OhanaFS/hprof/util"
	"github.com/OhanaFS/hprof/util/debug"
)

var (
	HeaderCmd = flag.NewFlagSet("header", flag.ExitOnError)
	hdInput   = HeaderCmd.String("input", "", "path to the heap dump")
	hdHex     = HeaderCmd.Bool("hex", false, "hexdump the header bytes")
	hdVerbose = HeaderCmd.Bool("verbose", false, "log reads and seeks")
)

// RunHeaderCmd prints the header of a heap dump to w.
func RunHeaderCmd(w io.Writer) int {
	if *hdInput == "" {
		log.Println("You must specify -input.")
		return 2
	}

	opts := &hprof.Options{}
	if *hdVerbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Println("Failed to create logger:", err)
			return 1
		}
		defer logger.Sync()
		opts.Logger = logger
		opts.TraceIO = true
	}

	d, err := hprof.OpenWithOptions(*hdInput, opts)
	if err != nil {
		log.Println("Failed to open heap dump:", err)
		return 1
	}
	defer d.Close()

	if err := printHeader(w, d, *hdHex); err != nil {
		log.Println("Failed to print header:", err)
		return 1
	}
	return 0
}

func printHeader(w io.Writer, d *hprof.Dump, hex bool) error {
	h := d.Header()
	fmt.Fprintf(w, "Version:         %s (%s)\n", h.Version, h.Version.Name())
	fmt.Fprintf(w, "Identifier size: %d bytes\n", h.IdentifierSize)
	fmt.Fprintf(w, "Timestamp:       %d (%s)\n", h.Timestamp, h.Time().UTC().Format(time.RFC3339Nano))
	fmt.Fprintf(w, "Header size:     %s\n", util.FormatSize(h.Size()))
	if stats, ok := d.IOStats(); ok {
		fmt.Fprintf(w, "I/O:             %d reads, %s, %d seeks\n",
			stats.Reads, util.FormatSize(stats.BytesRead), stats.Seeks)
	}

	if !hex {
		return nil
	}
	raw, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	return debug.Hexdump(w, raw, 0)
}
