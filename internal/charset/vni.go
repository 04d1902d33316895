package charset

import "github.com/username/phtv-core/internal/vkey"

// VNI-Windows renders a tone-marked letter as the base glyph followed by
// a diacritic glyph. Plain vowels take the bare tone glyphs; circumflex
// and breve bases fold their structural mark into the second glyph; horn
// vowels and đ are single repurposed glyphs. The i series keeps the code
// page's single precomposed forms so the dot under i does not collide.
// Uppercase second glyphs sit 0x20 below their lowercase forms.

// Bare tone glyphs following a plain vowel.
var vniToneGlyph = [6]rune{
	vkey.ToneAcute: 0xF9, // ù
	vkey.ToneGrave: 0xF8, // ø
	vkey.ToneHook:  0xFB, // û
	vkey.ToneTilde: 0xF5, // õ
	vkey.ToneDot:   0xEF, // ï
}

// Circumflex glyph and its five tone-combined forms.
var vniHatGlyph = [6]rune{
	vkey.ToneNone:  0xE2, // â
	vkey.ToneAcute: 0xE1, // á
	vkey.ToneGrave: 0xE0, // à
	vkey.ToneHook:  0xE5, // å
	vkey.ToneTilde: 0xE3, // ã
	vkey.ToneDot:   0xE4, // ä
}

// Breve glyph and its tone-combined forms.
var vniBreveGlyph = [6]rune{
	vkey.ToneNone:  0xEA, // ê
	vkey.ToneAcute: 0xE9, // é
	vkey.ToneGrave: 0xE8, // è
	vkey.ToneHook:  0xFA, // ú
	vkey.ToneTilde: 0xFC, // ü
	vkey.ToneDot:   0xEB, // ë
}

// Single-glyph letters.
const (
	vniHornO = 0xF4 // ô glyph repurposed as ơ
	vniHornU = 0xF6 // ö glyph repurposed as ư
	vniDBar  = 0xF1 // ñ glyph repurposed as đ
)

// Precomposed i series: tone-less, sắc, huyền, hỏi, ngã, nặng.
var vniISeries = [6]rune{'i', 0xED, 0xEC, 0xEE, 0xF3, 0xF2}

func vniUpper(r rune) rune {
	if r >= 0xE0 && r <= 0xFE {
		return r - 0x20
	}
	if r >= 'a' && r <= 'z' {
		return r - 0x20
	}
	return r
}

func vniRow(base BaseCode) ([6][2]string, bool) {
	var row [6][2]string
	set := func(tone vkey.Tone, lower string) {
		upper := make([]rune, 0, 2)
		for _, r := range lower {
			upper = append(upper, vniUpper(r))
		}
		row[tone][0] = string(upper)
		row[tone][1] = lower
	}

	switch base {
	case BaseA, BaseE, BaseO, BaseU, BaseY:
		letter := map[BaseCode]rune{
			BaseA: 'a', BaseE: 'e', BaseO: 'o', BaseU: 'u', BaseY: 'y',
		}[base]
		set(vkey.ToneNone, string(letter))
		for tone := vkey.ToneAcute; tone <= vkey.ToneDot; tone++ {
			set(tone, string(letter)+string(vniToneGlyph[tone]))
		}
	case BaseI:
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			set(tone, string(vniISeries[tone]))
		}
	case BaseAA, BaseEE, BaseOO:
		letter := map[BaseCode]rune{
			BaseAA: 'a', BaseEE: 'e', BaseOO: 'o',
		}[base]
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			set(tone, string(letter)+string(vniHatGlyph[tone]))
		}
	case BaseAW:
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			set(tone, "a"+string(vniBreveGlyph[tone]))
		}
	case BaseOW, BaseUW:
		letter := rune(vniHornO)
		if base == BaseUW {
			letter = vniHornU
		}
		set(vkey.ToneNone, string(letter))
		for tone := vkey.ToneAcute; tone <= vkey.ToneDot; tone++ {
			set(tone, string(letter)+string(vniToneGlyph[tone]))
		}
	case BaseD:
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			set(tone, "d")
		}
	case BaseDD:
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			set(tone, string(rune(vniDBar)))
		}
	default:
		return row, false
	}
	return row, true
}

func buildVNITable() *Table {
	data := make(map[BaseCode]*variants, len(baseRunes))
	for base := range baseRunes {
		row, ok := vniRow(base)
		if !ok {
			continue
		}
		v := variants(row)
		data[base] = &v
	}
	return &Table{id: VNIWindows, name: "VNI-Windows", data: data}
}

func init() {
	tables[VNIWindows] = buildVNITable()
}
