package debug

import (
	"fmt"
	"io"
)

const bytesPerLine = 16

// Hexdump writes a hexdump of data to w. Offsets are printed relative to base,
// so a slice taken from the middle of a file shows its file offsets.
func Hexdump(w io.Writer, data []byte, base int64) error {
	for i := 0; i < len(data); i += bytesPerLine {
		line := data[i:]
		if len(line) > bytesPerLine {
			line = line[:bytesPerLine]
		}

		if _, err := fmt.Fprintf(w, "%08x  ", base+int64(i)); err != nil {
			return err
		}
		for j := 0; j < bytesPerLine; j++ {
			cell := "   "
			if j < len(line) {
				cell = fmt.Sprintf("%02x ", line[j])
			}
			if j == bytesPerLine/2-1 {
				cell += " "
			}
			if _, err := io.WriteString(w, cell); err != nil {
				return err
			}
		}

		printable := make([]byte, len(line))
		for j, b := range line {
			if b >= 32 && b < 127 {
				printable[j] = b
			} else {
				printable[j] = '.'
			}
		}
		if _, err := fmt.Fprintf(w, " |%s|\n", printable); err != nil {
			return err
		}
	}
	return nil
}
