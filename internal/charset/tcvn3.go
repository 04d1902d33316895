package charset

import "github.com/username/phtv-core/internal/vkey"

// TCVN3 (ABC) is an 8-bit font encoding with lowercase glyphs only for
// the tone-marked letters; capitals are produced by the companion "H"
// fonts, so the uppercase column reuses the lowercase tone glyphs after
// the capital base letter tradition of the original tables. Values are
// the TCVN3 byte assignments carried as code units.
//
// Row layout per base: tone-less, then sắc/huyền/hỏi/ngã/nặng.
var tcvn3Lower = map[BaseCode][6]rune{
	BaseA:  {'a', 0xB8, 0xB5, 0xB6, 0xB7, 0xB9},
	BaseAW: {0xA8, 0xBE, 0xBB, 0xBC, 0xBD, 0xC6},
	BaseAA: {0xA9, 0xCA, 0xC7, 0xC8, 0xC9, 0xCB},
	BaseE:  {'e', 0xD0, 0xCC, 0xCE, 0xCF, 0xD1},
	BaseEE: {0xAA, 0xD5, 0xD2, 0xD3, 0xD4, 0xD6},
	BaseI:  {'i', 0xDD, 0xD7, 0xD8, 0xDC, 0xDE},
	BaseO:  {'o', 0xE3, 0xDF, 0xE1, 0xE2, 0xE4},
	BaseOO: {0xAB, 0xE8, 0xE5, 0xE6, 0xE7, 0xE9},
	BaseOW: {0xAC, 0xED, 0xEA, 0xEB, 0xEC, 0xEE},
	BaseU:  {'u', 0xF3, 0xEF, 0xF1, 0xF2, 0xF4},
	BaseUW: {0xAD, 0xF8, 0xF5, 0xF6, 0xF7, 0xF9},
	BaseY:  {'y', 0xFD, 0xFA, 0xFB, 0xFC, 0xFE},
	BaseD:  {'d', 'd', 'd', 'd', 'd', 'd'},
	BaseDD: {0xAE, 0xAE, 0xAE, 0xAE, 0xAE, 0xAE},
}

// Capital base glyphs of the marked letters.
var tcvn3Upper = map[BaseCode]rune{
	BaseA:  'A',
	BaseAW: 0xA1,
	BaseAA: 0xA2,
	BaseE:  'E',
	BaseEE: 0xA3,
	BaseI:  'I',
	BaseO:  'O',
	BaseOO: 0xA4,
	BaseOW: 0xA5,
	BaseU:  'U',
	BaseUW: 0xA6,
	BaseY:  'Y',
	BaseD:  'D',
	BaseDD: 0xA7,
}

func buildTCVN3Table() *Table {
	data := make(map[BaseCode]*variants, len(tcvn3Lower))
	for base, row := range tcvn3Lower {
		v := &variants{}
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			v[tone][1] = string(row[tone])
			if tone == vkey.ToneNone {
				v[tone][0] = string(tcvn3Upper[base])
			} else {
				// Tone glyphs have no capital form in the base font.
				v[tone][0] = string(row[tone])
			}
		}
		data[base] = v
	}
	return &Table{id: TCVN3, name: "TCVN3", data: data}
}

func init() {
	tables[TCVN3] = buildTCVN3Table()
}
