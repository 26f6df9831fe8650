package tailer

import (
	"errors"
	"io"
	"io/fs"
	"sync"
)

// memFS is an in-memory FileSource. Replacing a path swaps in a new entry,
// so handles opened earlier keep seeing the old content, like a renamed file.
type memFS struct {
	mu      sync.Mutex
	files   map[string]*memEntry
	openErr error
	readErr error // returned once by the next Read
	opened  int
	closed  int
}

type memEntry struct {
	data []byte
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string]*memEntry)}
}

func (m *memFS) write(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &memEntry{data: []byte(content)}
}

func (m *memFS) writeBytes(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &memEntry{data: append([]byte(nil), content...)}
}

func (m *memFS) append(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.files[path]
	if !ok {
		e = &memEntry{}
		m.files[path] = e
	}
	e.data = append(e.data, content...)
}

func (m *memFS) remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

func (m *memFS) failNextRead(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

func (m *memFS) handles() (opened, closed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened, m.closed
}

func (m *memFS) Open(path string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return nil, m.openErr
	}
	e, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	m.opened++
	return &memFile{fs: m, entry: e}, nil
}

func (m *memFS) Size(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.files[path]
	if !ok {
		return 0, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return int64(len(e.data)), nil
}

type memFile struct {
	fs     *memFS
	entry  *memEntry
	pos    int64
	closed bool
}

func (f *memFile) Read(p []byte) (int, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	if f.closed {
		return 0, fs.ErrClosed
	}
	if err := f.fs.readErr; err != nil {
		f.fs.readErr = nil
		return 0, err
	}
	if f.pos >= int64(len(f.entry.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.entry.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = int64(len(f.entry.data))
	default:
		return 0, errors.New("bad whence")
	}
	if base+offset < 0 {
		return 0, errors.New("negative position")
	}
	f.pos = base + offset
	return f.pos, nil
}

func (f *memFile) Close() error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	if f.closed {
		return fs.ErrClosed
	}
	f.closed = true
	f.fs.closed++
	return nil
}
