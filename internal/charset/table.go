package charset

import "github.com/username/phtv-core/internal/vkey"

// ID selects one of the five output code tables.
type ID int

const (
	Unicode ID = iota
	TCVN3
	VNIWindows
	UnicodeComposite
	CP1258

	tableCount
)

// Sanitize clamps an out-of-range table id to Unicode, the way the
// original convert tool does.
func Sanitize(id ID) ID {
	if id < Unicode || id >= tableCount {
		return Unicode
	}
	return id
}

// IsDoubleCode reports whether the table can map one character to two
// output code units.
func IsDoubleCode(id ID) bool {
	switch id {
	case VNIWindows, UnicodeComposite, CP1258:
		return true
	}
	return false
}

// variants holds the rendered form of one base letter for every
// (tone, case) combination: [tone][0] uppercase, [tone][1] lowercase.
type variants [6][2]string

// Table maps base letters to their rendered variants in one encoding.
type Table struct {
	id   ID
	name string
	data map[BaseCode]*variants

	// reverse maps every rendered variant string back to its identity;
	// built lazily on the first Lookup.
	reverse map[string]Variant
}

// Variant identifies one cell of a table.
type Variant struct {
	Base  BaseCode
	Tone  vkey.Tone
	Upper bool
}

// Name returns the table's display name.
func (t *Table) Name() string { return t.name }

// ID returns the table's identity.
func (t *Table) ID() ID { return t.id }

// Render returns the code units of a base letter with the given tone and
// case. Unknown bases render empty.
func (t *Table) Render(base BaseCode, tone vkey.Tone, upper bool) string {
	v, ok := t.data[base]
	if !ok {
		return ""
	}
	col := 1
	if upper {
		col = 0
	}
	return v[tone][col]
}

// Lookup resolves a rendered string back to its table cell.
func (t *Table) Lookup(s string) (Variant, bool) {
	if t.reverse == nil {
		t.reverse = make(map[string]Variant, len(t.data)*12)
		for base, v := range t.data {
			for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
				// Lowercase first: tables that collapse case onto one
				// glyph (TCVN3 tone cells) resolve as lowercase.
				for col := 1; col >= 0; col-- {
					key := v[tone][col]
					if key == "" {
						continue
					}
					if _, dup := t.reverse[key]; dup {
						continue
					}
					t.reverse[key] = Variant{
						Base:  base,
						Tone:  tone,
						Upper: col == 0,
					}
				}
			}
		}
	}
	v, ok := t.reverse[s]
	return v, ok
}

// tables is the registry, populated by the per-encoding files.
var tables [tableCount]*Table

// Get returns the table for an id, sanitizing out-of-range values.
func Get(id ID) *Table { return tables[Sanitize(id)] }
