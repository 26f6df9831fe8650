package tailer

import (
	"io"
	"os"
)

// File is an open handle on the tailed log
type File interface {
	io.Reader
	io.Seeker
	io.Closer
}

// FileSource opens the tailed path and reports its current on-disk size.
// Tests swap in an in-memory implementation.
type FileSource interface {
	Open(path string) (File, error)
	Size(path string) (int64, error)
}

// OSFileSource reads from the local filesystem
type OSFileSource struct{}

// Open opens path read-only
func (OSFileSource) Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Size stats the path rather than the open handle, so a file replaced under
// the same name is seen as soon as it appears.
func (OSFileSource) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
