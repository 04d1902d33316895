package engine

import (
	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/config"
	"github.com/username/phtv-core/internal/vkey"
)

// Telex tone key mappings. z removes the current tone.
var telexToneKeys = map[vkey.KeyID]vkey.Tone{
	vkey.KeyS: vkey.ToneAcute,
	vkey.KeyF: vkey.ToneGrave,
	vkey.KeyR: vkey.ToneHook,
	vkey.KeyX: vkey.ToneTilde,
	vkey.KeyJ: vkey.ToneDot,
	vkey.KeyZ: vkey.ToneNone,
}

// Letters the hat mark applies to when doubled in Telex (aa, ee, oo).
var telexDoubleTargets = map[vkey.KeyID]bool{
	vkey.KeyA: true,
	vkey.KeyE: true,
	vkey.KeyO: true,
}

// Horn/breve targets of the Telex w modifier.
var telexHornTargets = map[vkey.KeyID]charset.VowelMark{
	vkey.KeyO: charset.MarkHorn,
	vkey.KeyU: charset.MarkHorn,
	vkey.KeyA: charset.MarkBreve,
}

// Quick-Telex short consonants: the doubled letter expands to a pair.
var quickTelexPairs = map[vkey.KeyID]vkey.KeyID{
	vkey.KeyC: vkey.KeyH, // cc -> ch
	vkey.KeyG: vkey.KeyI, // gg -> gi
	vkey.KeyK: vkey.KeyH, // kk -> kh
	vkey.KeyN: vkey.KeyG, // nn -> ng
	vkey.KeyP: vkey.KeyH, // pp -> ph
	vkey.KeyQ: vkey.KeyU, // qq -> qu
	vkey.KeyT: vkey.KeyH, // tt -> th
}

// Quick start consonants accepted at the first position.
var quickStartConsonants = map[vkey.KeyID][]vkey.KeyID{
	vkey.KeyF: {vkey.KeyP, vkey.KeyH}, // f -> ph
	vkey.KeyJ: {vkey.KeyG, vkey.KeyI}, // j -> gi
	vkey.KeyW: {vkey.KeyQ, vkey.KeyU}, // w -> qu
	vkey.KeyZ: {vkey.KeyD},            // z -> d
}

// Quick end consonants accepted after the nucleus.
var quickEndConsonants = map[vkey.KeyID][]vkey.KeyID{
	vkey.KeyG: {vkey.KeyN, vkey.KeyG}, // g -> ng
	vkey.KeyH: {vkey.KeyN, vkey.KeyH}, // h -> nh
	vkey.KeyK: {vkey.KeyC, vkey.KeyH}, // k -> ch
}

// toneKeyFor classifies a key as a tone key under the active scheme.
// The bool reports whether the key is a tone key at all; the Tone is
// ToneNone for the removal keys (Telex z, VNI 0).
func toneKeyFor(t config.InputType, key vkey.KeyID) (vkey.Tone, bool) {
	switch t {
	case config.VNI:
		tone, ok := vniToneKeys[key]
		return tone, ok
	default: // Telex and both SimpleTelex variants
		tone, ok := telexToneKeys[key]
		return tone, ok
	}
}

// hornModifierAllowed reports whether w acts as the horn/breve modifier.
func hornModifierAllowed(t config.InputType) bool {
	return t == config.Telex || t == config.SimpleTelex1
}

// standaloneWAllowed reports whether a bare w composes ư.
func standaloneWAllowed(t config.InputType) bool {
	return t == config.Telex
}
