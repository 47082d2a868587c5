package reader

// IOError is a failure of the underlying storage layer: an open, read, seek
// or close that did not succeed.
type IOError struct {
	// Op is the operation that failed, such as "read" or "seek".
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}
