package engine

import "github.com/username/phtv-core/internal/vkey"

// maxBuffer bounds the per-word composition buffer. Hitting the bound
// forces a word break.
const maxBuffer = 32

// TypedKey records one raw keystroke of the current word.
type TypedKey struct {
	Key  vkey.KeyID
	Caps bool
}

// session holds the per-word mutable state. It is owned by one Engine.
type session struct {
	typed    []TypedKey
	composed []vkey.EngCode

	// units mirrors composed with the rendered code-unit width of each
	// slot, so backspace counts stay correct for double-code tables.
	units []int

	// raw marks a session restored to its literal keystrokes: no further
	// transformation happens until the next word break.
	raw bool

	// primed uppercases the next letter (auto-capitalize after a
	// sentence break).
	primed bool
}

func (s *session) reset() {
	s.typed = s.typed[:0]
	s.composed = s.composed[:0]
	s.units = s.units[:0]
	s.raw = false
}

func (s *session) len() int { return len(s.typed) }

// renderedUnits sums the code-unit widths of composed[from:].
func (s *session) renderedUnits(from int) int {
	total := 0
	for i := from; i < len(s.units); i++ {
		total += s.units[i]
	}
	return total
}

// rawCodes projects the typed keys as literal EngCodes.
func (s *session) rawCodes() []vkey.EngCode {
	out := make([]vkey.EngCode, len(s.typed))
	for i, tk := range s.typed {
		out[i] = vkey.FromKey(tk.Key, tk.Caps)
	}
	return out
}

// dirty reports whether the composed form differs from the raw typing.
func (s *session) dirty() bool {
	if len(s.composed) != len(s.typed) {
		return true
	}
	for i, tk := range s.typed {
		if s.composed[i] != vkey.FromKey(tk.Key, tk.Caps) {
			return true
		}
	}
	return false
}

// asciiWord lowercases the raw keystrokes to ASCII for dictionary and
// macro lookups. Returns false when a key has no letter projection.
func (s *session) asciiWord() (string, bool) {
	buf := make([]byte, 0, len(s.typed))
	for _, tk := range s.typed {
		r := vkey.ToASCII(tk.Key, false)
		if r < 'a' || r > 'z' {
			if r >= '0' && r <= '9' {
				buf = append(buf, byte(r))
				continue
			}
			return "", false
		}
		buf = append(buf, byte(r))
	}
	return string(buf), len(buf) > 0
}
