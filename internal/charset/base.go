// Package charset holds the five output code tables and the encoder that
// turns engine code points into rendered code units.
package charset

import "github.com/username/phtv-core/internal/vkey"

// BaseCode identifies a composable Vietnamese letter independent of tone
// and case. It is the payload of a composed EngCode.
type BaseCode uint16

const (
	BaseNone BaseCode = iota
	BaseA             // a
	BaseAW            // ă
	BaseAA            // â
	BaseE             // e
	BaseEE            // ê
	BaseI             // i
	BaseO             // o
	BaseOO            // ô
	BaseOW            // ơ
	BaseU             // u
	BaseUW            // ư
	BaseY             // y
	BaseD             // d
	BaseDD            // đ

	baseCount
)

// VowelMark is a structural diacritic: circumflex, breve, horn or the
// đ stroke. Tones are carried separately on the EngCode mark bits.
type VowelMark int

const (
	MarkNone  VowelMark = iota
	MarkHat             // â ê ô
	MarkBreve           // ă
	MarkHorn            // ơ ư
	MarkDBar            // đ
)

// plainBase maps a letter key to its unmarked base.
var plainBase = map[vkey.KeyID]BaseCode{
	vkey.KeyA: BaseA,
	vkey.KeyE: BaseE,
	vkey.KeyI: BaseI,
	vkey.KeyO: BaseO,
	vkey.KeyU: BaseU,
	vkey.KeyY: BaseY,
	vkey.KeyD: BaseD,
}

// markedBase maps (plain base, vowel mark) to the marked base.
var markedBase = map[BaseCode]map[VowelMark]BaseCode{
	BaseA: {MarkHat: BaseAA, MarkBreve: BaseAW},
	BaseE: {MarkHat: BaseEE},
	BaseO: {MarkHat: BaseOO, MarkHorn: BaseOW},
	BaseU: {MarkHorn: BaseUW},
	BaseD: {MarkDBar: BaseDD},
}

// baseLetter maps every base back to its plain letter key and mark.
var baseLetter = map[BaseCode]struct {
	Key  vkey.KeyID
	Mark VowelMark
}{
	BaseA:  {vkey.KeyA, MarkNone},
	BaseAW: {vkey.KeyA, MarkBreve},
	BaseAA: {vkey.KeyA, MarkHat},
	BaseE:  {vkey.KeyE, MarkNone},
	BaseEE: {vkey.KeyE, MarkHat},
	BaseI:  {vkey.KeyI, MarkNone},
	BaseO:  {vkey.KeyO, MarkNone},
	BaseOO: {vkey.KeyO, MarkHat},
	BaseOW: {vkey.KeyO, MarkHorn},
	BaseU:  {vkey.KeyU, MarkNone},
	BaseUW: {vkey.KeyU, MarkHorn},
	BaseY:  {vkey.KeyY, MarkNone},
	BaseD:  {vkey.KeyD, MarkNone},
	BaseDD: {vkey.KeyD, MarkDBar},
}

// BaseForKey returns the unmarked base of a letter key, if it has one.
func BaseForKey(key vkey.KeyID) (BaseCode, bool) {
	b, ok := plainBase[key]
	return b, ok
}

// ApplyMark combines a base with a vowel mark. Re-marking an already
// marked base resolves through its plain letter first, so ô+horn gives ơ.
func ApplyMark(base BaseCode, mark VowelMark) (BaseCode, bool) {
	if mark == MarkNone {
		return base, true
	}
	letter, ok := baseLetter[base]
	if !ok {
		return base, false
	}
	plain := plainBase[letter.Key]
	marked, ok := markedBase[plain][mark]
	return marked, ok
}

// StripMark returns the plain letter base of a marked base.
func StripMark(base BaseCode) BaseCode {
	letter, ok := baseLetter[base]
	if !ok {
		return base
	}
	return plainBase[letter.Key]
}

// LetterOf returns the plain letter key and mark of a base.
func LetterOf(base BaseCode) (vkey.KeyID, VowelMark, bool) {
	letter, ok := baseLetter[base]
	return letter.Key, letter.Mark, ok
}

// MarkOf returns the structural mark carried by a base.
func MarkOf(base BaseCode) VowelMark {
	letter, ok := baseLetter[base]
	if !ok {
		return MarkNone
	}
	return letter.Mark
}

// IsVowelBase reports whether the base is a vowel (everything except d/đ).
func IsVowelBase(base BaseCode) bool {
	switch base {
	case BaseD, BaseDD, BaseNone:
		return false
	}
	return base < baseCount
}
