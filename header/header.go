package header

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/OhanaFS/hprof/reader"
)

// Header describes the fixed prefix of a heap dump.
type Header struct {
	// Version is the format revision named by the leading header string.
	Version Version
	// IdentifierSize is the width in bytes of object identifiers in the
	// records that follow, typically 4 or 8.
	IdentifierSize uint32
	// Timestamp is the time the dump was taken, in milliseconds since the
	// epoch.
	Timestamp int64
}

// MaxVersionLength bounds the scan for the header string terminator. It is
// longer than any known header string.
const MaxVersionLength = 64

var _ encoding.BinaryMarshaler = (*Header)(nil)

var (
	ErrInvalidIdentifierSize = errors.New("invalid identifier size")
)

// UnsupportedVersionError is returned when the header string is not one of
// the known versions.
type UnsupportedVersionError struct {
	// Header is the header string found in the dump.
	Header string
	// Known lists the supported header strings.
	Known []string
}

func (e *UnsupportedVersionError) Error() string {
	quoted := make([]string, len(e.Known))
	for i, k := range e.Known {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return fmt.Sprintf("unsupported hprof version %q, expected one of %s",
		e.Header, strings.Join(quoted, ", "))
}

// Source is the part of the sequential decoder the header parser needs.
type Source interface {
	ReadUntil(delim byte, max int) ([]byte, error)
	ReadU4() (uint32, error)
	ReadLong() (int64, error)
}

var _ Source = (*reader.Reader)(nil)

// Read parses a header from r, leaving r positioned at the first record.
func Read(r Source) (*Header, error) {
	// The header string is NUL-terminated ASCII.
	// Running out of input before the NUL means this is not an hprof file.
	raw, err := r.ReadUntil(0, MaxVersionLength)
	if errors.Is(err, reader.ErrDelimiterNotFound) || errors.Is(err, io.EOF) {
		return nil, &UnsupportedVersionError{Header: string(raw), Known: KnownVersions()}
	}
	if err != nil {
		return nil, err
	}
	version, ok := LookupVersion(string(raw))
	if !ok {
		return nil, &UnsupportedVersionError{Header: string(raw), Known: KnownVersions()}
	}

	idSize, err := r.ReadU4()
	if err != nil {
		return nil, err
	}
	if idSize == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIdentifierSize, idSize)
	}

	timestamp, err := r.ReadLong()
	if err != nil {
		return nil, err
	}

	return &Header{
		Version:        version,
		IdentifierSize: idSize,
		Timestamp:      timestamp,
	}, nil
}

// Size returns the encoded size of the header in bytes, which is also the
// offset of the first record.
func (h Header) Size() int64 {
	return int64(len(h.Version.String())) + 1 + 4 + 8
}

// Time returns the dump timestamp as a time.Time.
func (h Header) Time() time.Time {
	return time.UnixMilli(h.Timestamp)
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (h Header) MarshalBinary() ([]byte, error) {
	if !h.Version.Valid() {
		return nil, &UnsupportedVersionError{Header: h.Version.String(), Known: KnownVersions()}
	}
	s := h.Version.String()
	data := make([]byte, h.Size())
	copy(data, s)
	data[len(s)] = 0
	binary.BigEndian.PutUint32(data[len(s)+1:], h.IdentifierSize)
	binary.BigEndian.PutUint64(data[len(s)+5:], uint64(h.Timestamp))
	return data, nil
}
