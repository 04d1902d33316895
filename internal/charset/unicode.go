package charset

import (
	"golang.org/x/text/unicode/norm"

	"github.com/username/phtv-core/internal/vkey"
)

// baseRunes gives the tone-less rendering of every base in both cases.
// All other Unicode variants are derived from these plus the combining
// tone marks through NFC composition.
var baseRunes = map[BaseCode][2]rune{
	BaseA:  {'A', 'a'},
	BaseAW: {'Ă', 'ă'},
	BaseAA: {'Â', 'â'},
	BaseE:  {'E', 'e'},
	BaseEE: {'Ê', 'ê'},
	BaseI:  {'I', 'i'},
	BaseO:  {'O', 'o'},
	BaseOO: {'Ô', 'ô'},
	BaseOW: {'Ơ', 'ơ'},
	BaseU:  {'U', 'u'},
	BaseUW: {'Ư', 'ư'},
	BaseY:  {'Y', 'y'},
	BaseD:  {'D', 'd'},
	BaseDD: {'Đ', 'đ'},
}

// combiningMark holds the combining code point of each tone.
var combiningMark = [6]rune{
	vkey.ToneNone:  0,
	vkey.ToneAcute: 0x0301,
	vkey.ToneGrave: 0x0300,
	vkey.ToneHook:  0x0309,
	vkey.ToneTilde: 0x0303,
	vkey.ToneDot:   0x0323,
}

func buildUnicodeTable() *Table {
	data := make(map[BaseCode]*variants, len(baseRunes))
	for base, pair := range baseRunes {
		v := &variants{}
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			for col := 0; col < 2; col++ {
				s := string(pair[col])
				if tone != vkey.ToneNone && IsVowelBase(base) {
					s = norm.NFC.String(s + string(combiningMark[tone]))
				}
				v[tone][col] = s
			}
		}
		data[base] = v
	}
	return &Table{id: Unicode, name: "Unicode", data: data}
}

// buildCompositeTable keeps the marked vowel glyphs precomposed and
// appends the combining tone mark as a second code unit.
func buildCompositeTable() *Table {
	data := make(map[BaseCode]*variants, len(baseRunes))
	for base, pair := range baseRunes {
		v := &variants{}
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			for col := 0; col < 2; col++ {
				s := string(pair[col])
				if tone != vkey.ToneNone && IsVowelBase(base) {
					s += string(combiningMark[tone])
				}
				v[tone][col] = s
			}
		}
		data[base] = v
	}
	return &Table{id: UnicodeComposite, name: "Unicode Composite", data: data}
}

// CombiningMark returns the combining code point of a tone, or 0.
func CombiningMark(tone vkey.Tone) rune { return combiningMark[tone] }

// ToneOfCombining resolves a combining mark code point back to its tone.
func ToneOfCombining(r rune) (vkey.Tone, bool) {
	for tone := vkey.ToneAcute; tone <= vkey.ToneDot; tone++ {
		if combiningMark[tone] == r {
			return tone, true
		}
	}
	return vkey.ToneNone, false
}

func init() {
	tables[Unicode] = buildUnicodeTable()
	tables[UnicodeComposite] = buildCompositeTable()
}
