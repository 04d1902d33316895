package macro

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/username/phtv-core/internal/charset"
)

// Binary blob layout:
// [u16le count][per entry: u8 shortcutLen, shortcut utf8,
//
//	u16le contentLen, content utf8, u8 snippetType]
var ErrTruncated = errors.New("macro: truncated blob")

// LoadBinary replaces the table from a binary blob. On any decode error
// the table keeps its previous entries.
func (t *Table) LoadBinary(data []byte) error {
	order := []string{}
	entries := map[string]*Entry{}

	if len(data) == 0 {
		t.replaceEntries(order, entries)
		return nil
	}
	if len(data) < 2 {
		return ErrTruncated
	}
	count := int(binary.LittleEndian.Uint16(data))
	cursor := 2
	for i := 0; i < count; i++ {
		if cursor >= len(data) {
			return ErrTruncated
		}
		shortcutLen := int(data[cursor])
		cursor++
		if cursor+shortcutLen+2 > len(data) {
			return ErrTruncated
		}
		shortcut := string(data[cursor : cursor+shortcutLen])
		cursor += shortcutLen
		contentLen := int(binary.LittleEndian.Uint16(data[cursor:]))
		cursor += 2
		if cursor+contentLen+1 > len(data) {
			return ErrTruncated
		}
		content := string(data[cursor : cursor+contentLen])
		cursor += contentLen
		snippet := SnippetType(data[cursor])
		cursor++
		if snippet >= snippetTypeCount {
			snippet = Static
		}

		key := normalize(shortcut)
		if _, dup := entries[key]; !dup {
			order = append(order, key)
		}
		e := &Entry{Shortcut: shortcut, Content: content, Snippet: snippet}
		if snippet == Static {
			e.cached = charset.EncodeText(content)
		}
		entries[key] = e
	}

	t.replaceEntries(order, entries)
	return nil
}

// SaveBinary serializes the table in insertion order. Entries whose
// shortcut or content exceed the field widths are skipped.
func (t *Table) SaveBinary() []byte {
	var buf bytes.Buffer
	kept := make([]*Entry, 0, len(t.order))
	for _, key := range t.order {
		e := t.entries[key]
		if len(e.Shortcut) > math.MaxUint8 || len(e.Content) > math.MaxUint16 {
			continue
		}
		kept = append(kept, e)
	}

	var header [2]byte
	binary.LittleEndian.PutUint16(header[:], uint16(len(kept)))
	buf.Write(header[:])
	for _, e := range kept {
		buf.WriteByte(byte(len(e.Shortcut)))
		buf.WriteString(e.Shortcut)
		var clen [2]byte
		binary.LittleEndian.PutUint16(clen[:], uint16(len(e.Content)))
		buf.Write(clen[:])
		buf.WriteString(e.Content)
		buf.WriteByte(byte(e.Snippet))
	}
	return buf.Bytes()
}

// unescapeField decodes the \n \r \t \\ escapes of the text format.
func unescapeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// escapeField is the inverse of unescapeField.
func escapeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// LoadText reads the tab-separated text format: one `shortcut<TAB>content`
// entry per line, `#` comments, escaped control characters. Malformed
// lines are skipped, matching the original loader. When appendEntries is false
// the current entries are dropped first.
func (t *Table) LoadText(r io.Reader, appendEntries bool) error {
	if !appendEntries {
		t.replaceEntries([]string{}, map[string]*Entry{})
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := strings.IndexByte(line, '\t')
		if sep <= 0 || sep+1 >= len(line) {
			continue
		}
		shortcut := unescapeField(line[:sep])
		content := unescapeField(line[sep+1:])
		if shortcut == "" || content == "" {
			continue
		}
		t.Add(shortcut, content, Static)
	}
	return scanner.Err()
}

// SaveText writes the tab-separated text format in insertion order.
func (t *Table) SaveText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, key := range t.order {
		e := t.entries[key]
		if _, err := bw.WriteString(escapeField(e.Shortcut)); err != nil {
			return err
		}
		if err := bw.WriteByte('\t'); err != nil {
			return err
		}
		if _, err := bw.WriteString(escapeField(e.Content)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
