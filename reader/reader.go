// Package reader implements a buffered big-endian byte reader over a
// random-access handle. Every byte handed out is counted, and the count is
// never rewound, so callers can use it as a coordinate that stays stable
// across repositioning of the handle.
package reader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultBufferSize is the size of the read-ahead buffer when none is given.
const DefaultBufferSize = 64 * 1024

var (
	ErrDelimiterNotFound         = errors.New("delimiter not found within limit")
	ErrUnsupportedIdentifierSize = errors.New("unsupported identifier size")
)

// Options specifies options for the Reader.
type Options struct {
	// BufferSize is the size of the read-ahead buffer. Values below 16 are
	// raised to 16 by bufio.
	BufferSize int
	// ByteCount is the value the byte count starts at.
	ByteCount int64
	// IdentifierSize is the width in bytes of the identifiers returned by
	// ReadID. It can be set later with SetIdentifierSize.
	IdentifierSize int
}

// Reader reads primitive values from a random-access handle through an
// internal read-ahead buffer.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	rs        io.ReadSeeker
	br        *bufio.Reader
	byteCount int64
	idSize    int
	scratch   [8]byte
}

// Assert that the Reader struct satisfies the io.Reader and io.ByteReader
// interfaces.
var _ io.Reader = &Reader{}
var _ io.ByteReader = &Reader{}

// New creates a new Reader over rs. rs is read from its current position.
func New(rs io.ReadSeeker, opts *Options) *Reader {
	if opts == nil {
		opts = &Options{}
	}
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Reader{
		rs:        rs,
		br:        bufio.NewReaderSize(rs, size),
		byteCount: opts.ByteCount,
		idSize:    opts.IdentifierSize,
	}
}

// ByteCount returns the number of bytes consumed so far, plus the starting
// value given in Options.
func (r *Reader) ByteCount() int64 {
	return r.byteCount
}

// Buffered returns the number of bytes read ahead from the handle that have
// not been consumed yet.
func (r *Reader) Buffered() int {
	return r.br.Buffered()
}

// IdentifierSize returns the width of identifiers read by ReadID.
func (r *Reader) IdentifierSize() int {
	return r.idSize
}

// SetIdentifierSize sets the width of identifiers read by ReadID.
func (r *Reader) SetIdentifierSize(size int) {
	r.idSize = size
}

// Invalidate drops any read-ahead bytes. The byte count is left untouched.
func (r *Reader) Invalidate() {
	r.br.Reset(r.rs)
}

// SeekTo drops the read-ahead buffer and moves the underlying handle to the
// absolute offset. The next read starts at offset; the byte count carries on
// from where it was.
func (r *Reader) SeekTo(offset int64) error {
	r.Invalidate()
	if _, err := r.rs.Seek(offset, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Err: err}
	}
	return nil
}

// Read implements io.Reader. io.EOF is returned unwrapped so that the Reader
// composes with io.Copy and friends; any other failure is an *IOError.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.br.Read(p)
	r.byteCount += int64(n)
	if err != nil && err != io.EOF {
		err = &IOError{Op: "read", Err: err}
	}
	return n, err
}

// ReadByte implements io.ByteReader, with the same error convention as Read.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, err
		}
		return 0, &IOError{Op: "read", Err: err}
	}
	r.byteCount++
	return b, nil
}

// ReadFull reads exactly len(p) bytes.
func (r *Reader) ReadFull(p []byte) error {
	n, err := io.ReadFull(r.br, p)
	r.byteCount += int64(n)
	if err != nil {
		return &IOError{Op: "read", Err: err}
	}
	return nil
}

func (r *Reader) readN(n int) ([]byte, error) {
	b := r.scratch[:n]
	if err := r.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadU1 reads an unsigned byte.
func (r *Reader) ReadU1() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU2 reads a big-endian unsigned 16-bit integer.
func (r *Reader) ReadU2() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadU4 reads a big-endian unsigned 32-bit integer.
func (r *Reader) ReadU4() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU8 reads a big-endian unsigned 64-bit integer.
func (r *Reader) ReadU8() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadInt reads a big-endian signed 32-bit integer.
func (r *Reader) ReadInt() (int32, error) {
	v, err := r.ReadU4()
	return int32(v), err
}

// ReadLong reads a big-endian signed 64-bit integer.
func (r *Reader) ReadLong() (int64, error) {
	v, err := r.ReadU8()
	return int64(v), err
}

// ReadID reads an object identifier of IdentifierSize bytes.
func (r *Reader) ReadID() (uint64, error) {
	switch r.idSize {
	case 1:
		v, err := r.ReadU1()
		return uint64(v), err
	case 2:
		v, err := r.ReadU2()
		return uint64(v), err
	case 4:
		v, err := r.ReadU4()
		return uint64(v), err
	case 8:
		return r.ReadU8()
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedIdentifierSize, r.idSize)
	}
}

// ReadUntil reads up to and including delim, returning the bytes before it.
// At most max bytes are consumed: if delim is not among them, those bytes are
// returned together with ErrDelimiterNotFound.
func (r *Reader) ReadUntil(delim byte, max int) ([]byte, error) {
	var buf []byte
	for len(buf) < max {
		b, err := r.br.ReadByte()
		if err != nil {
			return buf, &IOError{Op: "read", Err: err}
		}
		r.byteCount++
		if b == delim {
			return buf, nil
		}
		buf = append(buf, b)
	}
	return buf, ErrDelimiterNotFound
}

// Skip discards the next n bytes.
func (r *Reader) Skip(n int64) error {
	const chunk = 1 << 30
	for n > 0 {
		step := n
		if step > chunk {
			step = chunk
		}
		d, err := r.br.Discard(int(step))
		r.byteCount += int64(d)
		n -= int64(d)
		if err != nil {
			return &IOError{Op: "skip", Err: err}
		}
	}
	return nil
}
