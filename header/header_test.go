package header_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OhanaFS/hprof/header"
	"github.com/OhanaFS/hprof/reader"
)

const testTimestamp = int64(1600000000000)

func TestLookupVersion(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		header  string
		version header.Version
		name    string
	}{
		{"JAVA PROFILE 1.0", header.V1, "JDK1_2_BETA3"},
		{"JAVA PROFILE 1.0.1", header.V2, "JDK1_2_BETA4"},
		{"JAVA PROFILE 1.0.2", header.V3, "JDK_6"},
		{"JAVA PROFILE 1.0.3", header.V4, "ANDROID"},
	}
	for _, tt := range tests {
		v, ok := header.LookupVersion(tt.header)
		assert.True(ok, tt.header)
		assert.Equal(tt.version, v)
		assert.Equal(tt.header, v.String())
		assert.Equal(tt.name, v.Name())
	}

	for _, s := range []string{"", "java profile 1.0.2", "JAVA PROFILE 1.0.4", "JAVA PROFILE 1.0.2 "} {
		_, ok := header.LookupVersion(s)
		assert.False(ok, s)
	}
}

func TestKnownVersionsIsACopy(t *testing.T) {
	assert := assert.New(t)

	known := header.KnownVersions()
	assert.Equal([]string{
		"JAVA PROFILE 1.0",
		"JAVA PROFILE 1.0.1",
		"JAVA PROFILE 1.0.2",
		"JAVA PROFILE 1.0.3",
	}, known)

	known[0] = "mutated"
	assert.Equal("JAVA PROFILE 1.0", header.KnownVersions()[0])
	_, ok := header.LookupVersion("mutated")
	assert.False(ok)
}

func TestInvalidVersion(t *testing.T) {
	assert := assert.New(t)

	var v header.Version
	assert.False(v.Valid())
	assert.Equal("Version(0)", v.String())
	assert.Equal("UNKNOWN", header.Version(9).Name())
}

func TestReadEveryVersion(t *testing.T) {
	for _, v := range []header.Version{header.V1, header.V2, header.V3, header.V4} {
		t.Run(v.Name(), func(t *testing.T) {
			assert := assert.New(t)

			h := &header.Header{Version: v, IdentifierSize: 4, Timestamp: testTimestamp}
			b, err := h.MarshalBinary()
			assert.NoError(err)
			assert.Equal(int(h.Size()), len(b))

			r := reader.New(bytes.NewReader(b), nil)
			h2, err := header.Read(r)
			assert.NoError(err)
			assert.Equal(h, h2)
			assert.Equal(h.Size(), r.ByteCount())
		})
	}
}

func TestReadAndroidHeader(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	buf.WriteString("JAVA PROFILE 1.0.3")
	buf.WriteByte(0)
	buf.Write([]byte{0, 0, 0, 8})
	buf.Write([]byte{0x00, 0x00, 0x01, 0x74, 0x87, 0x6e, 0x80, 0x00})

	r := reader.New(bytes.NewReader(buf.Bytes()), nil)
	h, err := header.Read(r)
	assert.NoError(err)
	assert.Equal(header.V4, h.Version)
	assert.Equal("ANDROID", h.Version.Name())
	assert.Equal(uint32(8), h.IdentifierSize)
	assert.Equal(testTimestamp, h.Timestamp)
	// 18-byte version string, NUL, u4, u8.
	assert.Equal(int64(31), h.Size())
	assert.Equal(int64(31), r.ByteCount())
	assert.True(h.Time().Equal(time.Date(2020, time.September, 13, 12, 26, 40, 0, time.UTC)))
}

func TestReadUnsupportedVersion(t *testing.T) {
	assert := assert.New(t)

	r := reader.New(bytes.NewReader([]byte("JAVA PROFILE 9.9\x00\x00\x00\x00\x08")), nil)
	_, err := header.Read(r)

	var verr *header.UnsupportedVersionError
	assert.True(errors.As(err, &verr))
	assert.Equal("JAVA PROFILE 9.9", verr.Header)
	for _, known := range header.KnownVersions() {
		assert.Contains(err.Error(), `"`+known+`"`)
	}
}

func TestReadUnterminatedVersion(t *testing.T) {
	assert := assert.New(t)

	r := reader.New(bytes.NewReader(bytes.Repeat([]byte("x"), 1024)), nil)
	_, err := header.Read(r)

	var verr *header.UnsupportedVersionError
	assert.True(errors.As(err, &verr))
	assert.Equal(header.MaxVersionLength, len(verr.Header))
	// The scan stops at the limit instead of reading the whole input.
	assert.Equal(int64(header.MaxVersionLength), r.ByteCount())
}

func TestReadShortInputWithoutTerminator(t *testing.T) {
	for _, content := range []string{"", "hello", "JAVA PROFILE 1.0.2"} {
		r := reader.New(bytes.NewReader([]byte(content)), nil)
		_, err := header.Read(r)

		var verr *header.UnsupportedVersionError
		if assert.True(t, errors.As(err, &verr), "content %q", content) {
			assert.Equal(t, content, verr.Header)
			assert.Contains(t, verr.Error(), `"JAVA PROFILE 1.0.3"`)
		}
	}
}

func TestReadTruncated(t *testing.T) {
	h := &header.Header{Version: header.V3, IdentifierSize: 8, Timestamp: testTimestamp}
	b, err := h.MarshalBinary()
	assert.NoError(t, err)

	// Cuts past the version string; shorter input is not recognisable as hprof.
	for _, n := range []int{19, 21, 23, 30} {
		r := reader.New(bytes.NewReader(b[:n]), nil)
		_, err := header.Read(r)

		var ioErr *reader.IOError
		assert.True(t, errors.As(err, &ioErr), "truncated at %d", n)
		assert.True(t, errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF), "truncated at %d", n)
	}
}

func TestReadZeroIdentifierSize(t *testing.T) {
	h := &header.Header{Version: header.V3, IdentifierSize: 0, Timestamp: testTimestamp}
	b, err := h.MarshalBinary()
	assert.NoError(t, err)

	_, err = header.Read(reader.New(bytes.NewReader(b), nil))
	assert.ErrorIs(t, err, header.ErrInvalidIdentifierSize)
}

func TestMarshalInvalidVersion(t *testing.T) {
	h := &header.Header{IdentifierSize: 4}
	_, err := h.MarshalBinary()

	var verr *header.UnsupportedVersionError
	assert.True(t, errors.As(err, &verr))
}
