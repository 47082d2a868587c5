// Hprof opens heap dumps written in the hprof binary format. It validates the
// header and hands out a sequential reader whose byte count stays a stable
// coordinate while the underlying file is repositioned.
package hprof

import (
	"errors"

	"go.uber.org/zap"

	"github.com/OhanaFS/hprof/header"
	"github.com/OhanaFS/hprof/reader"
)

var (
	ErrEmptyFile = errors.New("heap dump file is empty")
)

// UnsupportedVersionError is returned by Open when the header string is not
// one of the known versions.
type UnsupportedVersionError = header.UnsupportedVersionError

// IOError is returned for any failure of the storage layer, whether while
// opening the dump, reading from it, repositioning it or closing it.
type IOError = reader.IOError

// Options specifies options for opening a Dump.
type Options struct {
	// BufferSize is the size of the reader's read-ahead buffer. Defaults to
	// reader.DefaultBufferSize.
	BufferSize int
	// Logger receives debug logs about opening and repositioning. Defaults to
	// a no-op logger.
	Logger *zap.Logger
	// TraceIO counts and logs every read and seek issued to the file. The
	// counters are available from Dump.IOStats.
	TraceIO bool
}
