package engine

import (
	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/config"
	"github.com/username/phtv-core/internal/vkey"
)

// validOnsets are the legal Vietnamese initial consonant clusters.
var validOnsets = map[string]bool{
	"": true,
	// Single consonants. A bare q never precedes a vowel; it only
	// appears through the qu digraph.
	"b": true, "c": true, "d": true, "đ": true, "g": true, "h": true,
	"k": true, "l": true, "m": true, "n": true, "p": true,
	"r": true, "s": true, "t": true, "v": true, "x": true,
	// Digraphs
	"ch": true, "gh": true, "gi": true, "kh": true, "ng": true,
	"nh": true, "ph": true, "qu": true, "th": true, "tr": true,
	// Trigraph
	"ngh": true,
}

// zfwjOnsets extends the onset set for loanword typing.
var zfwjOnsets = map[string]bool{
	"z": true, "f": true, "w": true, "j": true,
}

// validCodas are the legal final consonant clusters. Offglides (i, y, o,
// u) live in the nucleus cluster tables instead.
var validCodas = map[string]bool{
	"":  true,
	"c": true, "ch": true, "m": true, "n": true,
	"ng": true, "nh": true, "p": true, "t": true,
}

// stopCodas require a sắc or nặng tone.
var stopCodas = map[string]bool{
	"c": true, "ch": true, "p": true, "t": true,
}

// spellingExceptions are onset/vowel pairings that are illegal even when
// both parts are individually fine: c must be k before e/i/y, g must be
// gh before e, ng must be ngh before e/i, and the reverse.
var spellingExceptions = map[string]bool{
	"c e": true, "c ê": true, "c i": true, "c y": true,
	"k a": true, "k ă": true, "k â": true, "k o": true, "k ô": true,
	"k ơ": true, "k u": true, "k ư": true,
	"g e": true, "g ê": true,
	"ng e": true, "ng ê": true, "ng i": true,
	"gh a": true, "gh ă": true, "gh â": true, "gh o": true, "gh ô": true,
	"gh ơ": true, "gh u": true, "gh ư": true,
	"ngh a": true, "ngh ă": true, "ngh â": true, "ngh o": true,
	"ngh ô": true, "ngh ơ": true, "ngh u": true, "ngh ư": true,
}

// Nucleus clusters that never take a coda (glide-final diphthongs and
// triphthongs) and clusters that may.
var openNuclei = map[string]bool{
	"ai": true, "ao": true, "au": true, "ay": true, "âu": true, "ây": true,
	"eo": true, "êu": true, "ia": true, "iu": true, "oi": true, "ôi": true,
	"ơi": true, "ua": true, "ui": true, "uơ": true, "ưa": true, "ưi": true,
	"ưu": true, "uy": true, "iêu": true, "oai": true, "oay": true,
	"oeo": true, "uây": true, "uôi": true, "uya": true, "uyu": true,
	"ươi": true, "ươu": true, "yêu": true,
}

var closedNuclei = map[string]bool{
	"a": true, "ă": true, "â": true, "e": true, "ê": true, "i": true,
	"o": true, "ô": true, "ơ": true, "u": true, "ư": true, "y": true,
	"oa": true, "oă": true, "oe": true, "oo": true, "uâ": true,
	"uê": true, "uô": true, "uy": true, "ươ": true, "iê": true,
	"yê": true, "uyê": true,
}

// letterOf renders one composed slot as its lowercase Vietnamese letter
// for the rule tables (tone stripped, structural mark kept).
func letterOf(c vkey.EngCode) string {
	if !c.IsCharCode() {
		r := vkey.ToASCII(c.Key(), false)
		if r == 0 {
			return ""
		}
		return string(r)
	}
	base := charset.BaseCode(c.Payload())
	return charset.Get(charset.Unicode).Render(base, vkey.ToneNone, false)
}

func isVowelLetter(l string) bool {
	switch l {
	case "a", "ă", "â", "e", "ê", "i", "o", "ô", "ơ", "u", "ư", "y":
		return true
	}
	return false
}

// Validate checks a composed word against Vietnamese phonotactics.
// The empty word is vacuously valid.
func Validate(composed []vkey.EngCode, cfg config.Snapshot) bool {
	if len(composed) == 0 {
		return true
	}

	letters := make([]string, len(composed))
	tone := vkey.ToneNone
	for i, c := range composed {
		l := letterOf(c)
		if l == "" || (l[0] >= '0' && l[0] <= '9') {
			// Digits and unprintables force a restore on break.
			return false
		}
		letters[i] = l
		if t := c.Mark(); t != vkey.ToneNone {
			tone = t
		}
	}

	// Split into onset, nucleus, coda with the gi/qu digraph rule.
	i, n := 0, len(letters)
	onset := ""
	for i < n && !isVowelLetter(letters[i]) {
		onset += letters[i]
		i++
	}
	if i < n && i+1 < n && isVowelLetter(letters[i+1]) {
		if onset == "g" && letters[i] == "i" || onset == "q" && letters[i] == "u" {
			onset += letters[i]
			i++
		}
	}
	nucleus := ""
	for i < n && isVowelLetter(letters[i]) {
		nucleus += letters[i]
		i++
	}
	coda := ""
	for i < n {
		if isVowelLetter(letters[i]) {
			// Vowel after the coda: not a Vietnamese syllable.
			return false
		}
		coda += letters[i]
		i++
	}

	if nucleus == "" {
		// A consonant-only prefix the user may still be extending.
		return coda == ""
	}
	if !validOnsets[onset] && !(cfg.AllowConsonantZFWJ && zfwjOnsets[onset]) {
		return false
	}
	if !validCodas[coda] {
		return false
	}
	if coda == "" {
		if !openNuclei[nucleus] && !closedNuclei[nucleus] {
			return false
		}
	} else if !closedNuclei[nucleus] {
		return false
	}
	if stopCodas[coda] && tone != vkey.ToneAcute && tone != vkey.ToneDot {
		return false
	}

	first := ""
	for _, r := range nucleus {
		first = string(r)
		break
	}
	if spellingExceptions[onset+" "+first] {
		return false
	}
	return true
}
