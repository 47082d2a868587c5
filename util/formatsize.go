package util

import "fmt"

var sizeUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// FormatSize returns a human-readable string representation of a size in
// bytes. Heap dumps routinely run into tens of gigabytes, so units go up to
// TiB.
func FormatSize(size int64) string {
	if size < 1024 && size > -1024 {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size) / 1024
	unit := 0
	for unit < len(sizeUnits)-1 && (value >= 1024 || value <= -1024) {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}
