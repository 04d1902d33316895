package charset

import (
	"golang.org/x/text/unicode/norm"

	"github.com/username/phtv-core/internal/vkey"
)

// pureChar wraps a code point that has no key or table identity, such as
// punctuation outside the keyboard map or non-Vietnamese letters in
// macro expansions.
func pureChar(r rune) (vkey.EngCode, bool) {
	if r > 0xFFFF {
		// Outside the payload range; the caller drops it.
		return 0, false
	}
	return vkey.EngCode(r) | vkey.PureCharMask | vkey.CharCodeMask, true
}

// EncodeText converts a utf-8 string into engine code points. ASCII maps
// through the key namespace, precomposed Vietnamese letters through the
// Unicode table, and anything else is carried as a pure character.
// Characters that fit none of these (astral code points) are dropped.
func EncodeText(s string) []vkey.EngCode {
	uni := Get(Unicode)
	out := make([]vkey.EngCode, 0, len(s))
	for _, r := range norm.NFC.String(s) {
		if key, upper, ok := vkey.FromASCII(r); ok {
			out = append(out, vkey.FromKey(key, upper))
			continue
		}
		if v, ok := uni.Lookup(string(r)); ok {
			out = append(out, vkey.FromChar(uint16(v.Base), v.Upper).WithMark(v.Tone))
			continue
		}
		if c, ok := pureChar(r); ok {
			out = append(out, c)
		}
	}
	return out
}
