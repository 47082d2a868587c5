package util

import (
	"io"

	"go.uber.org/zap"
)

// IOStats counts the operations issued against a handle.
type IOStats struct {
	// Reads is the number of Read calls that reached the handle.
	Reads int64
	// BytesRead is the total number of bytes returned by those calls.
	BytesRead int64
	// Seeks is the number of Seek calls that reached the handle.
	Seeks int64
}

// CountingReadSeeker wraps an io.ReadSeeker, counting every read and seek and
// logging each of them at debug level.
type CountingReadSeeker struct {
	rs     io.ReadSeeker
	logger *zap.Logger
	stats  IOStats
}

// Assert that the CountingReadSeeker struct satisfies the io.ReadSeeker
// interface.
var _ io.ReadSeeker = &CountingReadSeeker{}

// NewCountingReadSeeker creates a new CountingReadSeeker. A nil logger
// disables logging.
func NewCountingReadSeeker(rs io.ReadSeeker, logger *zap.Logger) *CountingReadSeeker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CountingReadSeeker{rs: rs, logger: logger}
}

func (c *CountingReadSeeker) Read(p []byte) (int, error) {
	n, err := c.rs.Read(p)
	c.stats.Reads++
	c.stats.BytesRead += int64(n)
	c.logger.Debug("read",
		zap.Int("requested", len(p)), zap.Int("n", n), zap.Error(err))
	return n, err
}

func (c *CountingReadSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := c.rs.Seek(offset, whence)
	c.stats.Seeks++
	c.logger.Debug("seek",
		zap.Int64("offset", offset), zap.Int("whence", whence),
		zap.Int64("pos", pos), zap.Error(err))
	return pos, err
}

// Stats returns the counters accumulated so far.
func (c *CountingReadSeeker) Stats() IOStats {
	return c.stats
}
