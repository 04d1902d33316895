package engine

import (
	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/config"
	"github.com/username/phtv-core/internal/vkey"
)

// slot is one rendered position of the composed word.
type slot struct {
	key        vkey.KeyID       // originating key (letters and raw keys)
	base       charset.BaseCode // composable identity; BaseNone otherwise
	caps       bool
	pure       bool // digits and punctuation: never transformed
	standalone bool // produced by the standalone-W rule
	origin     int  // index of the typed key that created this slot
}

func (s slot) isVowel() bool { return charset.IsVowelBase(s.base) }

// word is the sequential composition state: slots plus the pending tone.
type word struct {
	slots []slot
	tone  vkey.Tone
	cfg   config.Snapshot

	idx     int // index of the typed key currently being fed
	carrier int // slot index carrying the tone, -1 when none
}

// composeWord replays the typed keys into a composed projection. It is a
// pure function of (typed, cfg); the engine diffs successive projections
// to produce its output.
func composeWord(typed []TypedKey, cfg config.Snapshot) []vkey.EngCode {
	codes, _ := composeWithOrigins(typed, cfg)
	return codes
}

// composeWithOrigins additionally reports, per composed slot, the index
// of the typed key that created it. Backspace uses the mapping to peel
// the right raw keys off the buffer.
func composeWithOrigins(typed []TypedKey, cfg config.Snapshot) ([]vkey.EngCode, []int) {
	w := &word{cfg: cfg, carrier: -1}
	for i, tk := range typed {
		w.idx = i
		w.feed(tk)
	}
	w.normalize()
	origins := make([]int, len(w.slots))
	for i, s := range w.slots {
		origins[i] = s.origin
	}
	return w.codes(), origins
}

func (w *word) hasVowel() bool {
	for _, s := range w.slots {
		if s.isVowel() {
			return true
		}
	}
	return false
}

func (w *word) lastVowel() int {
	for i := len(w.slots) - 1; i >= 0; i-- {
		if w.slots[i].isVowel() {
			return i
		}
	}
	return -1
}

func (w *word) hasPure() bool {
	for _, s := range w.slots {
		if s.pure {
			return true
		}
	}
	return false
}

func (w *word) appendKey(key vkey.KeyID, caps bool) {
	s := slot{key: key, caps: caps, origin: w.idx}
	if vkey.IsLetter(key) {
		if base, ok := charset.BaseForKey(key); ok {
			s.base = base
		}
	} else {
		s.pure = true
	}
	w.slots = append(w.slots, s)
}

func (w *word) appendExpansion(keys []vkey.KeyID, caps bool) {
	for i, k := range keys {
		w.appendKey(k, caps && i == 0)
	}
}

// feed advances the composition by one keystroke.
func (w *word) feed(tk TypedKey) {
	key, caps := tk.Key, tk.Caps
	it := w.cfg.InputType

	// Tone keys. The removal keys (Telex z, VNI 0) clear silently when a
	// tone exists and stay literal otherwise.
	if tone, isTone := toneKeyFor(it, key); isTone {
		if tone == vkey.ToneNone {
			if w.tone != vkey.ToneNone && w.hasVowel() {
				w.tone = vkey.ToneNone
				return
			}
		} else if w.hasVowel() && !w.hasPure() {
			if w.tone == tone {
				// Double-tone rule: the repeated key removes the tone
				// and falls onto the word as a literal.
				w.tone = vkey.ToneNone
				w.appendKey(key, caps)
				return
			}
			w.tone = tone
			return
		}
	}

	if it == config.VNI {
		if mark, ok := vniMarkKeys[key]; ok {
			if w.applyVNIMark(mark, key, caps) {
				return
			}
		}
	} else if vkey.IsLetter(key) {
		switch {
		case key == vkey.KeyD:
			if w.applyDD(key, caps) {
				return
			}
		case telexDoubleTargets[key]:
			if w.applyDouble(key, caps) {
				return
			}
		case key == vkey.KeyW && hornModifierAllowed(it):
			if w.applyHorn(key, caps, it) {
				return
			}
		}
	}

	// Quick-telex stays a full-Telex convenience; the simple variants
	// drop it along with the other shortcuts.
	if w.cfg.QuickTelex && it == config.Telex {
		if w.applyQuickTelex(key, caps) {
			return
		}
	}
	if w.cfg.QuickStartConsonant && len(w.slots) == 0 {
		if exp, ok := quickStartConsonants[key]; ok {
			w.appendExpansion(exp, caps)
			return
		}
	}
	if w.cfg.QuickEndConsonant && len(w.slots) > 0 {
		if exp, ok := quickEndConsonants[key]; ok && w.slots[len(w.slots)-1].isVowel() {
			w.appendExpansion(exp, caps)
			return
		}
	}

	w.appendKey(key, caps)
}

// applyDouble handles the Telex aa/ee/oo patterns against the last
// vowel, with the usual revert on a third press.
func (w *word) applyDouble(key vkey.KeyID, caps bool) bool {
	lv := w.lastVowel()
	if lv < 0 {
		return false
	}
	plain, _ := charset.BaseForKey(key)
	hatted, ok := charset.ApplyMark(plain, charset.MarkHat)
	if !ok {
		return false
	}
	switch w.slots[lv].base {
	case plain:
		w.slots[lv].base = hatted
		return true
	case hatted:
		// Revert: the mark comes off and the letter lands literally.
		w.slots[lv].base = plain
		w.appendKey(key, caps)
		return true
	}
	return false
}

// applyDD turns a pending d into đ, reverting on a third press.
func (w *word) applyDD(key vkey.KeyID, caps bool) bool {
	for i := len(w.slots) - 1; i >= 0; i-- {
		switch w.slots[i].base {
		case charset.BaseD:
			w.slots[i].base = charset.BaseDD
			return true
		case charset.BaseDD:
			w.slots[i].base = charset.BaseD
			w.appendKey(key, caps)
			return true
		}
	}
	return false
}

// applyHorn handles the Telex w modifier: ươ pairs, single-vowel horn
// and breve, the standalone-W rule, and revert.
func (w *word) applyHorn(key vkey.KeyID, caps bool, it config.InputType) bool {
	n := len(w.slots)
	if n >= 2 && w.slots[n-1].base == charset.BaseO {
		prev := w.slots[n-2].base
		if prev == charset.BaseU || prev == charset.BaseUW {
			w.slots[n-2].base = charset.BaseUW
			w.slots[n-1].base = charset.BaseOW
			return true
		}
	}
	if lv := w.lastVowel(); lv >= 0 {
		base := w.slots[lv].base
		letterKey, mark, ok := charset.LetterOf(base)
		if !ok {
			return false
		}
		if target, has := telexHornTargets[letterKey]; has {
			if mark == charset.MarkNone {
				marked, ok := charset.ApplyMark(base, target)
				if !ok {
					return false
				}
				w.slots[lv].base = marked
				return true
			}
			if mark == target {
				w.slots[lv].base = charset.StripMark(base)
				w.appendKey(key, caps)
				return true
			}
		}
	}
	if standaloneWAllowed(it) {
		last := n - 1
		if n == 0 || !w.slots[last].isVowel() {
			w.slots = append(w.slots, slot{
				key:        vkey.KeyU,
				base:       charset.BaseUW,
				caps:       caps,
				standalone: true,
				origin:     w.idx,
			})
			return true
		}
	}
	return false
}

// applyVNIMark handles the VNI 6/7/8/9 structural keys.
func (w *word) applyVNIMark(mark charset.VowelMark, key vkey.KeyID, caps bool) bool {
	if mark == charset.MarkDBar {
		for i := len(w.slots) - 1; i >= 0; i-- {
			switch w.slots[i].base {
			case charset.BaseD:
				w.slots[i].base = charset.BaseDD
				return true
			case charset.BaseDD:
				w.slots[i].base = charset.BaseD
				w.appendKey(key, caps)
				return true
			}
		}
		return false
	}

	// The ươ pair under the horn key.
	n := len(w.slots)
	if mark == charset.MarkHorn && n >= 2 && w.slots[n-1].base == charset.BaseO {
		prev := w.slots[n-2].base
		if prev == charset.BaseU || prev == charset.BaseUW {
			w.slots[n-2].base = charset.BaseUW
			w.slots[n-1].base = charset.BaseOW
			return true
		}
	}

	for i := len(w.slots) - 1; i >= 0; i-- {
		if !w.slots[i].isVowel() {
			continue
		}
		base := w.slots[i].base
		if marked, ok := charset.ApplyMark(base, mark); ok && marked != base {
			if charset.MarkOf(base) == charset.MarkNone {
				w.slots[i].base = marked
				return true
			}
		}
		if charset.MarkOf(base) == mark {
			w.slots[i].base = charset.StripMark(base)
			w.appendKey(key, caps)
			return true
		}
	}
	return false
}

// applyQuickTelex expands the doubled short consonants (cc→ch, …) and
// uu→ươ.
func (w *word) applyQuickTelex(key vkey.KeyID, caps bool) bool {
	n := len(w.slots)
	if n == 0 {
		return false
	}
	last := w.slots[n-1]
	if key == vkey.KeyU && last.base == charset.BaseU {
		w.slots[n-1].base = charset.BaseUW
		w.slots = append(w.slots, slot{key: vkey.KeyO, base: charset.BaseOW, caps: false, origin: w.idx})
		return true
	}
	second, ok := quickTelexPairs[key]
	if !ok {
		return false
	}
	if last.base != charset.BaseNone || last.pure || last.key != key {
		return false
	}
	w.appendKey(second, false)
	return true
}

// wordShape is the onset/nucleus/coda split of the current slots.
type wordShape struct {
	onset   []int
	nucleus []int
	coda    []int
	regular bool // false when slots remain after the coda or a pure slot intrudes
}

// parse splits the slots into onset, nucleus and coda, treating the gi
// and qu digraphs as onset material.
func (w *word) parse() wordShape {
	sh := wordShape{regular: true}
	n := len(w.slots)
	i := 0
	for i < n && !w.slots[i].isVowel() {
		if w.slots[i].pure {
			sh.regular = false
			return sh
		}
		sh.onset = append(sh.onset, i)
		i++
	}
	// gi + vowel and qu + vowel keep their glide in the onset.
	if i < n && i+1 < n && w.slots[i+1].isVowel() {
		if len(sh.onset) == 1 {
			first := w.slots[sh.onset[0]].key
			if first == vkey.KeyG && w.slots[i].base == charset.BaseI {
				sh.onset = append(sh.onset, i)
				i++
			} else if first == vkey.KeyQ && w.slots[i].base == charset.BaseU {
				sh.onset = append(sh.onset, i)
				i++
			}
		}
	}
	for i < n && w.slots[i].isVowel() {
		sh.nucleus = append(sh.nucleus, i)
		i++
	}
	for i < n && !w.slots[i].isVowel() && !w.slots[i].pure {
		sh.coda = append(sh.coda, i)
		i++
	}
	if i != n {
		sh.regular = false
	}
	return sh
}

// normalize applies the structural rules that depend on the whole word:
// the iê/uô/ươ nucleus upgrades and tone carrier placement.
func (w *word) normalize() {
	w.carrier = -1
	sh := w.parse()
	if len(sh.nucleus) == 0 {
		return
	}

	// Toned ie/uo nuclei upgrade to iê/uô (ties… → tiế…, buonf →
	// buồn, tuoir → tuổi). Without a tone the typing stays literal.
	if w.tone != vkey.ToneNone && len(sh.nucleus) >= 2 {
		for i := len(sh.nucleus) - 2; i >= 0; i-- {
			f := &w.slots[sh.nucleus[i]]
			s := &w.slots[sh.nucleus[i+1]]
			upgraded := true
			switch {
			case (f.base == charset.BaseI || f.base == charset.BaseY) && s.base == charset.BaseE:
				s.base = charset.BaseEE
			case f.base == charset.BaseU && s.base == charset.BaseO:
				s.base = charset.BaseOO
			case f.base == charset.BaseUW && s.base == charset.BaseO:
				s.base = charset.BaseOW
			default:
				upgraded = false
			}
			if upgraded {
				break
			}
		}
	}

	if w.tone != vkey.ToneNone {
		pos := tonePosition(w, sh)
		if pos >= 0 {
			w.carrier = sh.nucleus[pos]
		}
	}
}

// tonePosition picks the index within the nucleus that carries the tone.
func tonePosition(w *word, sh wordShape) int {
	n := len(sh.nucleus)
	if n == 0 {
		return -1
	}
	if n == 1 {
		return 0
	}

	// A structurally marked vowel always carries the tone; prefer the
	// rightmost one (ươ places on ơ, uyê on ê).
	for i := n - 1; i >= 0; i-- {
		if charset.MarkOf(w.slots[sh.nucleus[i]].base) != charset.MarkNone {
			return i
		}
	}

	// With a coda the tone sits on the last nucleus vowel (hoàng, quýt).
	if len(sh.coda) > 0 {
		return n - 1
	}

	// Open oa/oe/uy pairs follow the orthography toggle: hòa vs hoà.
	if n == 2 {
		f := w.slots[sh.nucleus[0]].base
		s := w.slots[sh.nucleus[1]].base
		openPair := (f == charset.BaseO && (s == charset.BaseA || s == charset.BaseE)) ||
			(f == charset.BaseU && s == charset.BaseY)
		if openPair {
			if w.cfg.ModernOrthography {
				return 1
			}
			return 0
		}
		// Glide-final pairs (ai, ao, mùa, nghĩa…) tone the first vowel.
		return 0
	}

	// Triphthongs tone the middle vowel (hoài, khuỷu).
	return 1
}

// codes projects the slots into EngCodes.
func (w *word) codes() []vkey.EngCode {
	out := make([]vkey.EngCode, len(w.slots))
	for i, s := range w.slots {
		switch {
		case s.pure || s.base == charset.BaseNone:
			out[i] = vkey.FromKey(s.key, s.caps)
		case i == w.carrier:
			c := vkey.FromChar(uint16(s.base), s.caps).WithMark(w.tone)
			if s.standalone {
				c = c.WithStandalone()
			}
			out[i] = c
		case charset.MarkOf(s.base) != charset.MarkNone || s.base == charset.BaseDD:
			c := vkey.FromChar(uint16(s.base), s.caps)
			if s.standalone {
				c = c.WithStandalone()
			}
			out[i] = c
		default:
			out[i] = vkey.FromKey(s.key, s.caps)
		}
	}
	return out
}
