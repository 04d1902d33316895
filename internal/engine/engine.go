// Package engine implements the keystroke state machine at the core of
// the input method: it consumes logical key events, maintains the
// per-word composition buffer, and emits backspace/insert operations for
// the host to apply.
package engine

import (
	"os"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/config"
	"github.com/username/phtv-core/internal/dict"
	"github.com/username/phtv-core/internal/macro"
	"github.com/username/phtv-core/internal/vkey"
)

// Engine is a single-threaded composition engine. One instance is owned
// by the host's keystroke-dispatch goroutine; configuration updates
// arrive through the atomic holder and take effect on the next event.
type Engine struct {
	cfg    *config.Holder
	dict   *dict.Dictionary
	macros *macro.Table

	s      session
	primed bool // uppercase the next letter

	tempOffSpelling bool
	paused          bool
	restoreArmed    bool // custom restore modifier held with no key since

	enc   *charset.Encoder
	encID charset.ID

	diag func(error)
}

// New creates an engine reading configuration from the holder.
func New(holder *config.Holder, macroEnv macro.Env) *Engine {
	e := &Engine{
		cfg:    holder,
		dict:   dict.New(),
		macros: macro.NewTable(macroEnv),
		encID:  -1,
	}
	e.syncEncoder(holder.Load())
	return e
}

// SetDiagnostic installs the out-of-band error sink. A nil sink is
// silent; the engine never fails in-band.
func (e *Engine) SetDiagnostic(f func(error)) { e.diag = f }

func (e *Engine) report(err error) {
	if e.diag != nil && err != nil {
		e.diag(err)
	}
}

// ApplyConfig publishes a new configuration snapshot.
func (e *Engine) ApplyConfig(s config.Snapshot) { e.cfg.Store(s) }

// Config returns the current snapshot.
func (e *Engine) Config() config.Snapshot { return e.cfg.Load() }

// Macros exposes the macro table for host-side management.
func (e *Engine) Macros() *macro.Table { return e.macros }

// Dictionary exposes the dictionary set.
func (e *Engine) Dictionary() *dict.Dictionary { return e.dict }

// LoadDictionary maps a PHT2 trie. Failure keeps the previous trie and
// reports through the diagnostic sink; auto-restore silently degrades.
func (e *Engine) LoadDictionary(kind dict.Kind, path string) bool {
	if err := e.dict.Load(kind, path); err != nil {
		e.report(err)
		return false
	}
	return true
}

// LoadCustomDictionary replaces the custom word overlays from JSON.
func (e *Engine) LoadCustomDictionary(data []byte) bool {
	if err := e.dict.LoadCustom(data); err != nil {
		e.report(err)
		return false
	}
	return true
}

// ReloadMacros replaces the macro table from a binary blob. The table
// keeps its previous entries when the blob is truncated.
func (e *Engine) ReloadMacros(data []byte) bool {
	if err := e.macros.LoadBinary(data); err != nil {
		e.report(err)
		return false
	}
	return true
}

// ReloadMacrosFile replaces the macro table from the TSV text format.
func (e *Engine) ReloadMacrosFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		e.report(err)
		return false
	}
	defer f.Close()
	if err := e.macros.LoadText(f, false); err != nil {
		e.report(err)
		return false
	}
	return true
}

// NewSession discards the current composition without emitting output.
func (e *Engine) NewSession() {
	e.s.reset()
}

// NotifyMouseDown resets the session: the caret moved, so the buffered
// word no longer sits before it.
func (e *Engine) NotifyMouseDown() {
	e.s.reset()
	e.primed = false
}

// TempOffSpelling disables the validator until the next word break.
func (e *Engine) TempOffSpelling() { e.tempOffSpelling = true }

// TempOffEngine pauses or resumes all processing.
func (e *Engine) TempOffEngine(off bool) {
	e.paused = off
	e.s.reset()
}

// RestoreRawKeys manually replaces the composition with its literal
// keystrokes. The session continues on the raw word; a second call with
// no new keys reports false.
func (e *Engine) RestoreRawKeys() (Output, bool) {
	e.syncEncoder(e.cfg.Load())
	out := e.restoreInPlace(ExtNone)
	return out, out.Code == Restore
}

// syncEncoder follows the configured code table.
func (e *Engine) syncEncoder(cfg config.Snapshot) {
	if e.enc == nil || e.encID != cfg.CodeTable {
		e.encID = charset.Sanitize(cfg.CodeTable)
		e.enc = charset.NewEncoder(e.encID)
	}
}

// HandleEvent is the single entry point for key and mouse events.
func (e *Engine) HandleEvent(ev Event) Output {
	cfg := e.cfg.Load()
	e.syncEncoder(cfg)

	switch ev.Kind {
	case MouseDown:
		e.NotifyMouseDown()
		return doNothing()
	case NewSessionEvent:
		e.NewSession()
		return doNothing()
	case KeyUp:
		return e.handleKeyUp(ev, cfg)
	}

	key := ev.Key

	if vkey.IsModifier(key) {
		if cfg.RestoreOnEscape && key == cfg.CustomEscapeKey {
			e.restoreArmed = true
		} else {
			e.restoreArmed = false
		}
		if cfg.PauseKeyEnabled && key == cfg.PauseKey {
			e.paused = !e.paused
			e.s.reset()
		}
		return doNothing()
	}
	e.restoreArmed = false

	if e.paused {
		return doNothing()
	}
	if ev.Control {
		// A chorded shortcut invalidates the composition context.
		e.s.reset()
		return doNothing()
	}

	if cfg.RestoreOnEscape && key == cfg.CustomEscapeKey {
		return e.restoreInPlace(ExtNone)
	}
	if key == vkey.KeyEsc {
		e.s.reset()
		return doNothing()
	}

	if key == vkey.KeyDelete {
		return e.handleBackspace(cfg)
	}

	shifted := ev.Caps == vkey.CapsShift
	if vkey.IsWordBreak(key, shifted) {
		return e.handleWordBreak(key, shifted, cfg)
	}

	if !vkey.IsPrintable(key) {
		return doNothing()
	}

	caps := ev.Caps.Upper()
	effCaps := caps
	if cfg.UpperCaseFirstChar && e.primed && vkey.IsLetter(key) {
		effCaps = true
	}
	if vkey.IsLetter(key) {
		e.primed = false
	}

	if cfg.Language == config.English {
		return e.handleEnglishKey(key, caps)
	}
	return e.handlePrintable(key, caps, effCaps, cfg)
}

// handleKeyUp implements the modifier-release restore gesture: fire once
// when the configured modifier goes up with no key in between.
func (e *Engine) handleKeyUp(ev Event, cfg config.Snapshot) Output {
	if e.restoreArmed && vkey.IsModifier(ev.Key) && ev.Key == cfg.CustomEscapeKey {
		e.restoreArmed = false
		if cfg.RestoreOnEscape {
			return e.restoreInPlace(ExtNone)
		}
	}
	return doNothing()
}

// restoreInPlace replaces the composition with its raw keystrokes and
// keeps the session alive in literal mode.
func (e *Engine) restoreInPlace(ext ExtCode) Output {
	if e.s.len() == 0 || !e.s.dirty() {
		return doNothing()
	}
	backs := e.s.renderedUnits(0)
	raw := e.s.rawCodes()

	e.s.composed = append(e.s.composed[:0], raw...)
	e.s.units = e.s.units[:0]
	for range raw {
		e.s.units = append(e.s.units, 1)
	}
	e.s.raw = true

	return Output{
		Code:       Restore,
		Ext:        ext,
		Backspaces: backs,
		Chars:      reversed(raw),
	}
}

// handleEnglishKey tracks the word for macro matching but never
// transforms; every key passes through.
func (e *Engine) handleEnglishKey(key vkey.KeyID, caps bool) Output {
	if e.s.len() >= maxBuffer {
		e.s.reset()
	}
	e.s.typed = append(e.s.typed, TypedKey{Key: key, Caps: caps})
	code := vkey.FromKey(key, caps)
	e.s.composed = append(e.s.composed, code)
	e.s.units = append(e.s.units, e.enc.Units(code))
	return doNothing()
}

// handlePrintable runs the main composition algorithm for one key.
func (e *Engine) handlePrintable(key vkey.KeyID, physCaps, effCaps bool, cfg config.Snapshot) Output {
	if e.s.len() >= maxBuffer {
		// Forced word break: the overflowing key starts a new session.
		e.s.reset()
	}

	e.s.typed = append(e.s.typed, TypedKey{Key: key, Caps: effCaps})

	if e.s.raw {
		code := vkey.FromKey(key, effCaps)
		e.s.composed = append(e.s.composed, code)
		e.s.units = append(e.s.units, e.enc.Units(code))
		if effCaps == physCaps {
			return doNothing()
		}
		return Output{
			Code:  WillProcess,
			Ext:   ExtNormal,
			Chars: []vkey.EngCode{code},
		}
	}

	composed := composeWord(e.s.typed, cfg)
	p := commonPrefix(e.s.composed, composed)
	backs := e.s.renderedUnits(p)
	suffix := composed[p:]

	passthrough := p == len(e.s.composed) &&
		len(suffix) == 1 &&
		suffix[0] == vkey.FromKey(key, physCaps)

	// Commit the new projection.
	e.s.composed = append(e.s.composed[:p], suffix...)
	e.s.units = e.s.units[:p]
	for _, c := range suffix {
		e.s.units = append(e.s.units, e.enc.Units(c))
	}

	if passthrough {
		return doNothing()
	}
	if backs == 0 && len(suffix) == 0 {
		// The key was consumed without visible change; the host must
		// still swallow it.
		return Output{Code: WillProcess, Ext: ExtSuppressEmpty}
	}
	return Output{
		Code:       WillProcess,
		Ext:        ExtNormal,
		Backspaces: backs,
		Chars:      reversed(suffix),
	}
}

// handleBackspace undoes the last keystroke. When the remaining word
// re-composes to something other than "drop the last rendered char",
// the engine takes over the edit.
func (e *Engine) handleBackspace(cfg config.Snapshot) Output {
	if e.s.len() == 0 {
		return Output{Code: DoNothing, Ext: ExtDelete}
	}

	if e.s.raw {
		e.s.typed = e.s.typed[:len(e.s.typed)-1]
		e.s.composed = e.s.composed[:len(e.s.composed)-1]
		e.s.units = e.s.units[:len(e.s.units)-1]
		return Output{Code: DoNothing, Ext: ExtDelete}
	}

	// Deleting one rendered slot peels off the raw key that created it.
	// When the slot carried the tone, the tone key dies with it; any
	// other keys the re-composition orphans are dropped as well.
	target := len(e.s.composed) - 1
	_, origins := composeWithOrigins(e.s.typed, cfg)
	o := origins[len(origins)-1]
	carrierDied := e.s.composed[len(e.s.composed)-1].Mark() != vkey.ToneNone

	inSlots := make(map[int]bool, len(origins))
	for _, idx := range origins {
		inSlots[idx] = true
	}
	kept := e.s.typed[:0]
	for i, tk := range e.s.typed {
		if i == o {
			continue
		}
		if carrierDied && i > o && !inSlots[i] {
			// A consumed tone/mark key past the dead carrier.
			continue
		}
		kept = append(kept, tk)
	}
	e.s.typed = kept

	composed := composeWord(e.s.typed, cfg)
	for len(composed) > target && len(e.s.typed) > 0 {
		e.s.typed = e.s.typed[:len(e.s.typed)-1]
		composed = composeWord(e.s.typed, cfg)
	}
	p := commonPrefix(e.s.composed, composed)
	backs := e.s.renderedUnits(p)
	suffix := composed[p:]

	simpleDrop := len(suffix) == 0 &&
		p == len(e.s.composed)-1 &&
		e.s.units[len(e.s.units)-1] == 1

	e.s.composed = append(e.s.composed[:p], suffix...)
	e.s.units = e.s.units[:p]
	for _, c := range suffix {
		e.s.units = append(e.s.units, e.enc.Units(c))
	}

	if simpleDrop {
		// The host's own backspace removes the single rendered unit.
		return Output{Code: DoNothing, Ext: ExtDelete}
	}
	return Output{
		Code:       WillProcess,
		Ext:        ExtDelete,
		Backspaces: backs,
		Chars:      reversed(suffix),
	}
}

// handleWordBreak ends the session: macros first, then the English and
// spelling restores, then a plain break.
func (e *Engine) handleWordBreak(key vkey.KeyID, shifted bool, cfg config.Snapshot) Output {
	out := Output{Code: BreakWord, Ext: ExtWordBreak}
	if cfg.Language == config.English {
		// Pure pass-through: the break key reaches the app untouched.
		out = doNothing()
	}

	if e.s.len() > 0 {
		if mo, ok := e.tryMacro(cfg); ok {
			out = mo
		} else if cfg.Language == config.Vietnamese {
			if ro, ok := e.tryAutoEnglish(cfg); ok {
				out = ro
			} else if ro, ok := e.trySpellingRestore(cfg); ok {
				out = ro
			}
		}
	}

	e.s.reset()
	e.tempOffSpelling = false
	if cfg.UpperCaseFirstChar {
		// A sentence end primes the flag; whitespace in between keeps it.
		if isSentenceEnd(key, shifted) {
			e.primed = true
		}
	} else {
		e.primed = false
	}
	return out
}

func isSentenceEnd(key vkey.KeyID, shifted bool) bool {
	switch {
	case key == vkey.KeyDot && !shifted:
		return true
	case key == vkey.Key1 && shifted: // !
		return true
	case key == vkey.KeySlash && shifted: // ?
		return true
	case key == vkey.KeyReturn || key == vkey.KeyEnter:
		return true
	}
	return false
}

// tryMacro expands the current word if it matches a shortcut.
func (e *Engine) tryMacro(cfg config.Snapshot) (Output, bool) {
	if !cfg.UseMacro {
		return Output{}, false
	}
	if cfg.Language == config.English && !cfg.UseMacroInEnglish {
		return Output{}, false
	}
	word, ok := e.s.asciiWord()
	if !ok {
		return Output{}, false
	}
	codes, found := e.macros.Find(word)
	if !found || len(codes) == 0 {
		return Output{}, false
	}
	if cfg.AutoCapsMacro {
		codes = applyMacroCaps(codes, e.s.typed)
	}
	return Output{
		Code:       ReplaceMacro,
		Ext:        ExtNormal,
		Backspaces: e.s.renderedUnits(0),
		MacroChars: codes,
	}, true
}

// tryAutoEnglish restores raw typing for words in the English dictionary
// but not the Vietnamese one.
func (e *Engine) tryAutoEnglish(cfg config.Snapshot) (Output, bool) {
	if !cfg.AutoRestoreEnglish || !e.s.dirty() {
		return Output{}, false
	}
	word, ok := e.s.asciiWord()
	if !ok {
		return Output{}, false
	}
	if !e.dict.IsEnglish(word) || e.dict.IsVietnamese(word) {
		return Output{}, false
	}
	return Output{
		Code:       RestoreAndStartNewSession,
		Ext:        ExtAutoEnglishRestore,
		Backspaces: e.s.renderedUnits(0),
		Chars:      reversed(e.s.rawCodes()),
	}, true
}

// trySpellingRestore restores raw typing for illegal Vietnamese words.
func (e *Engine) trySpellingRestore(cfg config.Snapshot) (Output, bool) {
	if !cfg.CheckSpelling || !cfg.RestoreIfWrong || e.tempOffSpelling {
		return Output{}, false
	}
	if !e.s.dirty() || Validate(e.s.composed, cfg) {
		return Output{}, false
	}
	return Output{
		Code:       RestoreAndStartNewSession,
		Ext:        ExtWordBreak,
		Backspaces: e.s.renderedUnits(0),
		Chars:      reversed(e.s.rawCodes()),
	}, true
}

// applyMacroCaps mirrors the typed word's case onto the expansion: all
// caps uppercases everything, a capitalized first letter uppercases the
// first character.
func applyMacroCaps(codes []vkey.EngCode, typed []TypedKey) []vkey.EngCode {
	letters := 0
	caps := 0
	firstCaps := false
	for i, tk := range typed {
		if !vkey.IsLetter(tk.Key) {
			continue
		}
		letters++
		if tk.Caps {
			caps++
			if i == 0 {
				firstCaps = true
			}
		}
	}
	if letters == 0 || caps == 0 {
		return codes
	}

	out := make([]vkey.EngCode, len(codes))
	copy(out, codes)
	if caps == letters {
		for i, c := range out {
			if !c.IsPureChar() {
				out[i] = c.WithCaps(true)
			}
		}
		return out
	}
	if firstCaps {
		if !out[0].IsPureChar() {
			out[0] = out[0].WithCaps(true)
		}
	}
	return out
}

func commonPrefix(a, b []vkey.EngCode) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
