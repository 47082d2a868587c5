package hprof

import (
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/OhanaFS/hprof/header"
	"github.com/OhanaFS/hprof/reader"
	"github.com/OhanaFS/hprof/util"
)

// openFile opens the random-access handle of a dump.
var openFile = func(name string) (io.ReadSeekCloser, error) {
	return os.Open(name)
}

// Dump is an opened heap dump. The header has been consumed and the reader is
// positioned at the first record.
//
// A Dump is not safe for concurrent use. Reads through Reader and calls to
// MoveReaderTo must be serialized by the caller.
type Dump struct {
	path       string
	size       int64
	compressed bool
	hdr        header.Header
	r          *reader.Reader
	logger     *zap.Logger
	trace      *util.CountingReadSeeker
	closers    []io.Closer

	tracker
}

// Open opens the heap dump at path with default options.
func Open(path string) (*Dump, error) {
	return OpenWithOptions(path, nil)
}

// OpenWithOptions opens the heap dump at path and parses its header. On
// failure nothing is left open.
func OpenWithOptions(path string, opts *Options) (d *Dump, err error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Reject empty files before touching their contents.
	info, err := os.Stat(path)
	if err != nil {
		return nil, &IOError{Op: "stat", Err: err}
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	f, err := openFile(path)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}
	closers := []io.Closer{f}
	defer func() {
		if err != nil {
			err = multierr.Append(err, closeAll(closers))
		}
	}()

	var handle io.ReadSeeker = f
	size := info.Size()
	compressed, err := isSeekableZstd(f)
	if err != nil {
		return nil, err
	}
	if compressed {
		zh, zerr := newCompressedHandle(f)
		if zerr != nil {
			return nil, zerr
		}
		closers = append(closers, zh)
		handle = zh

		// Offsets are in the decompressed stream, so measure that instead.
		if size, err = zh.Seek(0, io.SeekEnd); err != nil {
			return nil, &IOError{Op: "seek", Err: err}
		}
		if _, err = zh.Seek(0, io.SeekStart); err != nil {
			return nil, &IOError{Op: "seek", Err: err}
		}
	}

	var trace *util.CountingReadSeeker
	if opts.TraceIO {
		trace = util.NewCountingReadSeeker(handle, logger.Named("io"))
		handle = trace
	}

	r := reader.New(handle, &reader.Options{BufferSize: opts.BufferSize})
	hdr, err := header.Read(r)
	if err != nil {
		return nil, err
	}
	r.SetIdentifierSize(int(hdr.IdentifierSize))

	d = &Dump{
		path:       path,
		size:       size,
		compressed: compressed,
		hdr:        *hdr,
		r:          r,
		logger:     logger,
		trace:      trace,
		closers:    closers,
		tracker:    newTracker(r.ByteCount()),
	}
	logger.Debug("opened heap dump",
		zap.String("path", path),
		zap.Stringer("version", hdr.Version),
		zap.Uint32("identifierSize", hdr.IdentifierSize),
		zap.Int64("timestamp", hdr.Timestamp),
		zap.Int64("size", size),
		zap.Bool("compressed", compressed))
	return d, nil
}

// closeAll closes closers in reverse order of acquisition.
func closeAll(closers []io.Closer) error {
	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		if cerr := closers[i].Close(); cerr != nil {
			err = multierr.Append(err, &IOError{Op: "close", Err: cerr})
		}
	}
	return err
}

// Close releases the reader and the file handle. Closing twice returns an
// error from the file handle, which carries no risk to the data.
func (d *Dump) Close() error {
	return closeAll(d.closers)
}

// Reader returns the sequential decoder positioned after the header. Its byte
// count started at the header size.
func (d *Dump) Reader() *reader.Reader {
	return d.r
}

// Header returns the parsed header.
func (d *Dump) Header() header.Header {
	return d.hdr
}

// Version returns the format revision of the dump.
func (d *Dump) Version() header.Version {
	return d.hdr.Version
}

// Timestamp returns the dump timestamp in milliseconds since the epoch.
func (d *Dump) Timestamp() int64 {
	return d.hdr.Timestamp
}

// IdentifierSize returns the width of object identifiers in the dump.
func (d *Dump) IdentifierSize() int {
	return int(d.hdr.IdentifierSize)
}

// Path returns the path the dump was opened from.
func (d *Dump) Path() string {
	return d.path
}

// Size returns the length of the dump contents in bytes. For a compressed dump
// this is the decompressed length, the range MoveReaderTo addresses.
func (d *Dump) Size() int64 {
	return d.size
}

// Compressed reports whether the dump is stored in the zstd seekable format.
func (d *Dump) Compressed() bool {
	return d.compressed
}

// IOStats returns the read and seek counters of the file handle. ok is false
// unless the dump was opened with TraceIO.
func (d *Dump) IOStats() (stats util.IOStats, ok bool) {
	if d.trace == nil {
		return util.IOStats{}, false
	}
	return d.trace.Stats(), true
}
