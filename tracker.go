package hprof

import "go.uber.org/zap"

// tracker maps the reader's byte count onto physical offsets. At the last
// synchronisation point the reader had counted lastReaderByteCount bytes and
// the handle was at lastKnownPosition; every byte consumed since advances both
// by one.
type tracker struct {
	lastReaderByteCount int64
	lastKnownPosition   int64
	// lost is set when a reposition failed half-way, after the read-ahead was
	// dropped but before the handle moved. The next MoveReaderTo always seeks.
	lost bool
}

func newTracker(byteCount int64) tracker {
	return tracker{
		lastReaderByteCount: byteCount,
		lastKnownPosition:   byteCount,
	}
}

// Position returns the offset the next read from Reader will start at.
func (d *Dump) Position() int64 {
	return d.lastKnownPosition + (d.r.ByteCount() - d.lastReaderByteCount)
}

// MoveReaderTo makes the next read from Reader start at offset. The reader's
// byte count is left as it is, so offsets recorded from it before the move
// stay valid. Moving to the current position does nothing.
//
// The offset is not checked against the size of the dump; an offset past the
// end shows up as an error on the next read.
func (d *Dump) MoveReaderTo(offset int64) error {
	if !d.lost && d.Position() == offset {
		return nil
	}

	from := d.Position()
	if err := d.r.SeekTo(offset); err != nil {
		d.lost = true
		return err
	}
	d.lastReaderByteCount = d.r.ByteCount()
	d.lastKnownPosition = offset
	d.lost = false

	d.logger.Debug("repositioned reader",
		zap.Int64("from", from),
		zap.Int64("to", offset),
		zap.Int64("byteCount", d.lastReaderByteCount))
	return nil
}
