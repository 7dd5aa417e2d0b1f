package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edsrzf/mmap-go"
)

// MappedFile is one read-only view of a file on disk. Data aliases the
// mapped region (or a plain read on filesystems that refuse mappings) and
// stays valid until the cache is closed.
type MappedFile struct {
	Path    string
	Data    []byte
	Size    int64
	ModTime time.Time

	mapping mmap.MMap
	file    *os.File
}

func (m *MappedFile) release() error {
	var err error
	if m.mapping != nil {
		err = m.mapping.Unmap()
	}
	if m.file != nil {
		if cerr := m.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// FileCache memory-maps files on demand. Every Get revalidates the cached
// mapping against the file's current mtime and size, so an edit made on
// disk while the process runs is visible on the next call.
type FileCache struct {
	logger *slog.Logger

	mu   sync.Mutex
	open map[string]*MappedFile
	// Superseded mappings are parked here instead of being unmapped:
	// a caller handed the old bytes may still be reading them. They are
	// released in Close.
	stale []*MappedFile
}

// NewFileCache creates an empty cache. Close must be called to release
// the mappings.
func NewFileCache(logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{logger: logger, open: make(map[string]*MappedFile)}
}

// Get returns the current content of the file at path, mapping it on first
// access and remapping when the file changed on disk since the last call.
func (c *FileCache) Get(path string) (*MappedFile, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if mf, ok := c.open[path]; ok {
		if mf.ModTime.Equal(st.ModTime()) && mf.Size == st.Size() {
			return mf, nil
		}
		c.stale = append(c.stale, mf)
		delete(c.open, path)
	}

	mf, err := c.load(path, st)
	if err != nil {
		return nil, err
	}
	c.open[path] = mf
	return mf, nil
}

func (c *FileCache) load(path string, st os.FileInfo) (*MappedFile, error) {
	mf := &MappedFile{Path: path, Size: st.Size(), ModTime: st.ModTime()}
	if st.Size() == 0 {
		// Zero bytes cannot be mapped.
		return mf, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("map %s: %v: %w", path, err, readErr)
		}
		c.logger.Warn("mmap unavailable, file read into memory",
			"path", path, "error", err)
		mf.Data = data
		return mf, nil
	}

	mf.Data = m
	mf.mapping = m
	mf.file = f
	return mf, nil
}

// Close unmaps every mapping the cache ever produced. The cache is empty
// and reusable afterwards.
func (c *FileCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for path, mf := range c.open {
		if err := mf.release(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release %s: %w", path, err)
		}
	}
	for _, mf := range c.stale {
		if err := mf.release(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release %s: %w", mf.Path, err)
		}
	}
	c.open = make(map[string]*MappedFile)
	c.stale = nil
	return firstErr
}
