// Package macro implements the user-defined shortcut table: static text
// expansions plus dynamic snippets (date, time, counter, clipboard,
// random choice).
package macro

import (
	"math/rand"
	"strings"
	"time"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/vkey"
)

// SnippetType selects how an entry's content is expanded.
type SnippetType uint8

const (
	Static SnippetType = iota
	Date
	Time
	DateTime
	Clipboard
	Random
	Counter

	snippetTypeCount
)

// Entry is one macro definition.
type Entry struct {
	Shortcut string
	Content  string
	Snippet  SnippetType

	// cached holds the pre-composed expansion for static entries.
	cached []vkey.EngCode
}

// Env supplies the host services dynamic snippets depend on. Tests
// inject deterministic implementations.
type Env struct {
	Now       func() time.Time
	Intn      func(n int) int
	Clipboard func() string
}

// Table maps normalized shortcuts to entries. Insertion order is kept so
// saves are stable. The table is mutated only between engine events.
type Table struct {
	order   []string // normalized shortcuts in insertion order
	entries map[string]*Entry
	counts  map[string]int // per-shortcut counter snippets

	env Env
}

// NewTable returns an empty table using the given environment. Zero Env
// fields fall back to the real clock/RNG and an empty clipboard.
func NewTable(env Env) *Table {
	if env.Now == nil {
		env.Now = time.Now
	}
	if env.Intn == nil {
		env.Intn = rand.Intn
	}
	if env.Clipboard == nil {
		env.Clipboard = func() string { return "" }
	}
	return &Table{
		entries: map[string]*Entry{},
		counts:  map[string]int{},
		env:     env,
	}
}

// normalize lowercases a shortcut for case-insensitive lookup.
func normalize(shortcut string) string { return strings.ToLower(shortcut) }

// Add inserts or replaces an entry. Static content is pre-composed once.
func (t *Table) Add(shortcut, content string, snippet SnippetType) bool {
	shortcut = strings.TrimSpace(shortcut)
	if shortcut == "" || content == "" || snippet >= snippetTypeCount {
		return false
	}
	key := normalize(shortcut)
	e, exists := t.entries[key]
	if !exists {
		e = &Entry{}
		t.entries[key] = e
		t.order = append(t.order, key)
	}
	e.Shortcut = shortcut
	e.Content = content
	e.Snippet = snippet
	if snippet == Static {
		e.cached = charset.EncodeText(content)
	} else {
		e.cached = nil
	}
	return true
}

// Delete removes an entry by shortcut.
func (t *Table) Delete(shortcut string) bool {
	key := normalize(shortcut)
	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether a shortcut is defined.
func (t *Table) Has(shortcut string) bool {
	_, ok := t.entries[normalize(shortcut)]
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.order) }

// All returns the entries in insertion order.
func (t *Table) All() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, *t.entries[key])
	}
	return out
}

// Find looks up a typed word (already lowercased by the engine) and
// returns its expansion. Dynamic snippets are computed per call; static
// entries return the cached composition. A defined entry whose dynamic
// expansion is empty (e.g. an empty clipboard) reports found with no
// codes, and the engine emits nothing.
func (t *Table) Find(word string) ([]vkey.EngCode, bool) {
	e, ok := t.entries[normalize(word)]
	if !ok {
		return nil, false
	}
	if e.Snippet == Static {
		return e.cached, true
	}
	text := t.expand(e)
	if text == "" {
		return nil, true
	}
	return charset.EncodeText(text), true
}

// replaceEntries swaps in fully parsed definitions; the binary loader
// commits through this only when the whole blob decoded.
func (t *Table) replaceEntries(order []string, entries map[string]*Entry) {
	t.order = order
	t.entries = entries
	t.counts = map[string]int{}
}
