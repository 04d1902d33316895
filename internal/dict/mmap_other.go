//go:build !unix

package dict

import (
	"fmt"
	"os"
)

// Open falls back to reading the whole file where mmap is unavailable.
func Open(path string) (*Trie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dict: %w", err)
	}
	return NewTrie(data)
}
