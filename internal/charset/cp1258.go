package charset

import "github.com/username/phtv-core/internal/vkey"

// cp1258Precomposed lists the tone-marked letters that exist as single
// code points in Windows-1258 (the Latin-1 inheritance: acute, grave and
// tilde on the plain vowels). Every other tone renders as base letter
// plus the code page's combining mark.
var cp1258Precomposed = map[BaseCode]map[vkey.Tone][2]rune{
	BaseA: {
		vkey.ToneAcute: {'Á', 'á'},
		vkey.ToneGrave: {'À', 'à'},
		vkey.ToneTilde: {'Ã', 'ã'},
	},
	BaseE: {
		vkey.ToneAcute: {'É', 'é'},
		vkey.ToneGrave: {'È', 'è'},
	},
	BaseI: {
		vkey.ToneAcute: {'Í', 'í'},
		vkey.ToneGrave: {'Ì', 'ì'},
	},
	BaseO: {
		vkey.ToneAcute: {'Ó', 'ó'},
		vkey.ToneGrave: {'Ò', 'ò'},
		vkey.ToneTilde: {'Õ', 'õ'},
	},
	BaseU: {
		vkey.ToneAcute: {'Ú', 'ú'},
		vkey.ToneGrave: {'Ù', 'ù'},
	},
	BaseY: {
		vkey.ToneAcute: {'Ý', 'ý'},
	},
}

func buildCP1258Table() *Table {
	data := make(map[BaseCode]*variants, len(baseRunes))
	for base, pair := range baseRunes {
		v := &variants{}
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			for col := 0; col < 2; col++ {
				if pre, ok := cp1258Precomposed[base][tone]; ok {
					v[tone][col] = string(pre[col])
					continue
				}
				s := string(pair[col])
				if tone != vkey.ToneNone && IsVowelBase(base) {
					s += string(combiningMark[tone])
				}
				v[tone][col] = s
			}
		}
		data[base] = v
	}
	return &Table{id: CP1258, name: "CP1258", data: data}
}

func init() {
	tables[CP1258] = buildCP1258Table()
}
