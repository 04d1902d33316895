// Package dict answers English/Vietnamese word membership for the
// auto-restore feature. The shipped dictionaries are prebuilt binary
// tries loaded zero-copy through mmap; a mutable JSON overlay carries
// the user's custom words.
package dict

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// PHT2 trie layout:
//
//	offset 0: "PHT2"
//	offset 4: version byte (0x01)
//	offset 5: reserved
//	offset 6: root node
//	node:     u8 flags (bit0 terminal)
//	          u8 childCount
//	          childCount × { u8 symbol, u32le absolute offset }
//
// Symbols 0–25 are 'a'–'z', 26–35 are '0'–'9'.
const (
	trieMagic   = "PHT2"
	trieVersion = 0x01
	headerSize  = 6

	flagTerminal = 0x01
)

var (
	ErrBadMagic   = errors.New("dict: bad trie magic")
	ErrBadVersion = errors.New("dict: unsupported trie version")
	ErrTruncated  = errors.New("dict: truncated trie")
)

// Trie is a read-only view over a PHT2 blob. The backing slice may be a
// memory-mapped region; the trie never mutates it.
type Trie struct {
	data  []byte
	words int
	unmap func() error
}

func symbolOf(c byte) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a', true
	case c >= '0' && c <= '9':
		return 26 + c - '0', true
	}
	return 0, false
}

// NewTrie validates a blob and returns a trie over it. The blob is not
// copied.
func NewTrie(data []byte) (*Trie, error) {
	if len(data) < headerSize+2 {
		return nil, ErrTruncated
	}
	if string(data[:4]) != trieMagic {
		return nil, ErrBadMagic
	}
	if data[4] != trieVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, data[4])
	}
	t := &Trie{data: data}
	words, err := t.count(headerSize, 0)
	if err != nil {
		return nil, err
	}
	t.words = words
	return t, nil
}

// count walks the trie once at load time, validating every offset.
func (t *Trie) count(off int, depth int) (int, error) {
	if depth > 64 {
		return 0, ErrTruncated
	}
	if off+2 > len(t.data) {
		return 0, ErrTruncated
	}
	flags := t.data[off]
	n := int(t.data[off+1])
	if off+2+n*5 > len(t.data) {
		return 0, ErrTruncated
	}
	total := 0
	if flags&flagTerminal != 0 {
		total++
	}
	for i := 0; i < n; i++ {
		rec := off + 2 + i*5
		child := int(binary.LittleEndian.Uint32(t.data[rec+1 : rec+5]))
		sub, err := t.count(child, depth+1)
		if err != nil {
			return 0, err
		}
		total += sub
	}
	return total, nil
}

// Contains reports membership of a lowercase ASCII word.
func (t *Trie) Contains(word string) bool {
	if t == nil || len(word) == 0 {
		return false
	}
	off := headerSize
	for i := 0; i < len(word); i++ {
		sym, ok := symbolOf(word[i])
		if !ok {
			return false
		}
		n := int(t.data[off+1])
		next := -1
		for c := 0; c < n; c++ {
			rec := off + 2 + c*5
			if t.data[rec] == sym {
				next = int(binary.LittleEndian.Uint32(t.data[rec+1 : rec+5]))
				break
			}
		}
		if next < 0 {
			return false
		}
		off = next
	}
	return t.data[off]&flagTerminal != 0
}

// Len returns the number of words in the trie.
func (t *Trie) Len() int {
	if t == nil {
		return 0
	}
	return t.words
}

// Close releases the mapped region, if any.
func (t *Trie) Close() error {
	if t == nil || t.unmap == nil {
		return nil
	}
	f := t.unmap
	t.unmap = nil
	return f()
}

// Build serializes a word list into the PHT2 format. It exists for the
// dictionary preparation tool and for tests; the engine only ever reads.
func Build(words []string) ([]byte, error) {
	type node struct {
		terminal bool
		children map[byte]*node
	}
	root := &node{children: map[byte]*node{}}
	for _, w := range words {
		cur := root
		for i := 0; i < len(w); i++ {
			sym, ok := symbolOf(w[i])
			if !ok {
				return nil, fmt.Errorf("dict: word %q has symbol %q outside [a-z0-9]", w, w[i])
			}
			next, ok := cur.children[sym]
			if !ok {
				next = &node{children: map[byte]*node{}}
				cur.children[sym] = next
			}
			cur = next
		}
		cur.terminal = true
	}

	out := make([]byte, 0, 1024)
	out = append(out, trieMagic...)
	out = append(out, trieVersion, 0)

	// Depth-first emission. Child offsets are patched once known.
	var emit func(n *node) int
	emit = func(n *node) int {
		off := len(out)
		flags := byte(0)
		if n.terminal {
			flags = flagTerminal
		}
		syms := make([]byte, 0, len(n.children))
		for s := range n.children {
			syms = append(syms, s)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

		out = append(out, flags, byte(len(syms)))
		recBase := len(out)
		for _, s := range syms {
			out = append(out, s, 0, 0, 0, 0)
		}
		for i, s := range syms {
			child := emit(n.children[s])
			rec := recBase + i*5
			binary.LittleEndian.PutUint32(out[rec+1:rec+5], uint32(child))
		}
		return off
	}
	emit(root)
	return out, nil
}
