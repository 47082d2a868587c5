package hprof

import (
	"encoding/binary"
	"fmt"
	"io"

	seekable "github.com/SaveTheRbtz/zstd-seekable-format-go"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"
)

const (
	zstdFrameMagic     = 0xFD2FB528
	skippableFrameMask = 0xFFFFFFF0
	skippableFrameBase = 0x184D2A50
)

// isSeekableZstd reports whether rs starts with a zstd frame, and rewinds it.
// A plain hprof dump starts with "JAVA", which cannot be mistaken for either
// magic.
func isSeekableZstd(rs io.ReadSeeker) (bool, error) {
	var magic [4]byte
	_, err := io.ReadFull(rs, magic[:])
	if _, serr := rs.Seek(0, io.SeekStart); serr != nil {
		return false, &IOError{Op: "seek", Err: serr}
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return false, nil
	}
	if err != nil {
		return false, &IOError{Op: "read", Err: err}
	}

	m := binary.LittleEndian.Uint32(magic[:])
	return m == zstdFrameMagic || m&skippableFrameMask == skippableFrameBase, nil
}

// compressedHandle presents a dump stored in the zstd seekable format as a
// random-access handle over the decompressed bytes.
type compressedHandle struct {
	rs     io.ReadSeeker
	dec    *zstd.Decoder
	closed bool
}

// Assert that the compressedHandle struct satisfies the io.ReadSeekCloser
// interface.
var _ io.ReadSeekCloser = &compressedHandle{}

func newCompressedHandle(rs io.ReadSeeker) (*compressedHandle, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	sr, err := seekable.NewReader(rs, dec)
	if err != nil {
		dec.Close()
		return nil, &IOError{Op: "open", Err: fmt.Errorf("failed to read seek table: %w", err)}
	}
	return &compressedHandle{rs: sr, dec: dec}, nil
}

func (h *compressedHandle) Read(p []byte) (int, error) {
	return h.rs.Read(p)
}

func (h *compressedHandle) Seek(offset int64, whence int) (int64, error) {
	return h.rs.Seek(offset, whence)
}

// Close releases the decoder. The compressed file itself is closed by its
// owner.
func (h *compressedHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	var err error
	if c, ok := h.rs.(io.Closer); ok {
		err = c.Close()
	}
	h.dec.Close()
	return err
}

// Compress copies r into w in the zstd seekable format, so that the result
// can be opened with Open and repositioned without decompressing from the
// start. w is not closed.
func Compress(w io.Writer, r io.Reader) (n int64, err error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	sw, err := seekable.NewWriter(w, enc)
	if err != nil {
		return 0, multierr.Append(
			fmt.Errorf("failed to create seekable writer: %w", err), enc.Close())
	}

	n, err = io.Copy(sw, r)
	if err != nil {
		return n, multierr.Combine(err, sw.Close(), enc.Close())
	}
	// Closing the seekable writer emits the seek table.
	return n, multierr.Combine(sw.Close(), enc.Close())
}
