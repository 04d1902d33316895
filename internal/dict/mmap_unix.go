//go:build unix

package dict

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open memory-maps a PHT2 file read-only and validates it. On any
// failure the mapping is released and no state is retained.
func Open(path string) (*Trie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("dict: %w", err)
	}
	size := int(info.Size())
	if size < headerSize {
		return nil, ErrTruncated
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("dict: mmap: %w", err)
	}

	t, err := NewTrie(data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}
	t.unmap = func() error { return unix.Munmap(data) }
	return t, nil
}
