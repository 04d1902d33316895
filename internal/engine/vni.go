package engine

import (
	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/vkey"
)

// VNI tone key mappings. 0 removes the current tone.
var vniToneKeys = map[vkey.KeyID]vkey.Tone{
	vkey.Key1: vkey.ToneAcute,
	vkey.Key2: vkey.ToneGrave,
	vkey.Key3: vkey.ToneHook,
	vkey.Key4: vkey.ToneTilde,
	vkey.Key5: vkey.ToneDot,
	vkey.Key0: vkey.ToneNone,
}

// VNI structural mark keys: 6 circumflex, 7 horn, 8 breve, 9 the
// d stroke.
var vniMarkKeys = map[vkey.KeyID]charset.VowelMark{
	vkey.Key6: charset.MarkHat,
	vkey.Key7: charset.MarkHorn,
	vkey.Key8: charset.MarkBreve,
	vkey.Key9: charset.MarkDBar,
}
