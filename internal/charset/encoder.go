package charset

import (
	"unicode/utf8"

	"github.com/username/phtv-core/internal/vkey"
)

// Encoder renders engine code points through one code table.
type Encoder struct {
	table *Table
}

// NewEncoder returns an encoder over the given table.
func NewEncoder(id ID) *Encoder {
	return &Encoder{table: Get(id)}
}

// Table returns the encoder's active table.
func (e *Encoder) Table() *Table { return e.table }

// Render converts one EngCode into its output code units. Pure
// characters carry their code point verbatim, raw key codes project to
// ASCII, and composed codes resolve through the table's variant cells.
func (e *Encoder) Render(c vkey.EngCode) string {
	if c.IsPureChar() {
		return string(rune(c.Payload()))
	}
	if !c.IsCharCode() {
		r := vkey.ToASCII(c.Key(), c.Caps())
		if r == 0 {
			return ""
		}
		return string(r)
	}
	return e.table.Render(BaseCode(c.Payload()), c.Mark(), c.Caps())
}

// Units reports how many output code units Render would produce. The
// host deletes one rendered unit per physical backspace, so the engine
// tracks this per committed slot.
func (e *Encoder) Units(c vkey.EngCode) int {
	return utf8.RuneCountInString(e.Render(c))
}

// RenderAll renders a sequence in order.
func (e *Encoder) RenderAll(codes []vkey.EngCode) string {
	out := make([]byte, 0, len(codes)*2)
	for _, c := range codes {
		out = append(out, e.Render(c)...)
	}
	return string(out)
}
