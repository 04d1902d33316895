package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/config"
	"github.com/username/phtv-core/internal/dict"
	"github.com/username/phtv-core/internal/macro"
	"github.com/username/phtv-core/internal/vkey"
)

// host simulates the platform shim: it applies engine outputs to a text
// buffer exactly the way the rendering contract prescribes.
type host struct {
	t   *testing.T
	e   *Engine
	enc *charset.Encoder

	text []rune
	last Output
}

func newHost(t *testing.T, cfg config.Snapshot) *host {
	t.Helper()
	return &host{
		t:   t,
		e:   New(config.NewHolder(cfg), macro.Env{}),
		enc: charset.NewEncoder(cfg.CodeTable),
	}
}

func (h *host) deleteUnits(n int) {
	if n > len(h.text) {
		h.t.Fatalf("backspace underflow: %d > %d", n, len(h.text))
	}
	h.text = h.text[:len(h.text)-n]
}

func (h *host) insert(codes []vkey.EngCode, reverseOrder bool) {
	if reverseOrder {
		for i := len(codes) - 1; i >= 0; i-- {
			h.text = append(h.text, []rune(h.enc.Render(codes[i]))...)
		}
	} else {
		for _, c := range codes {
			h.text = append(h.text, []rune(h.enc.Render(c))...)
		}
	}
}

// press delivers one character keystroke and applies the output.
func (h *host) press(r rune) {
	h.t.Helper()
	key, upper, ok := vkey.FromASCII(r)
	if !ok {
		h.t.Fatalf("no key for %q", r)
	}
	caps := vkey.CapsNone
	if upper {
		caps = vkey.CapsShift
	}
	out := h.e.HandleEvent(Event{Kind: KeyDown, Key: key, Caps: caps})
	h.last = out

	isBreak := vkey.IsWordBreak(key, caps == vkey.CapsShift)
	switch out.Code {
	case DoNothing:
		if key == vkey.KeyDelete {
			if len(h.text) > 0 {
				h.deleteUnits(1)
			}
			return
		}
		h.text = append(h.text, vkey.ToASCII(key, upper))
	case WillProcess:
		h.deleteUnits(out.Backspaces)
		h.insert(out.Chars, true)
	case BreakWord:
		h.text = append(h.text, vkey.ToASCII(key, upper))
	case Restore, RestoreAndStartNewSession:
		h.deleteUnits(out.Backspaces)
		h.insert(out.Chars, true)
		if isBreak {
			h.text = append(h.text, vkey.ToASCII(key, upper))
		}
	case ReplaceMacro:
		h.deleteUnits(out.Backspaces)
		h.insert(out.MacroChars, false)
		h.text = append(h.text, vkey.ToASCII(key, upper))
	}
}

func (h *host) pressKey(key vkey.KeyID) {
	h.t.Helper()
	out := h.e.HandleEvent(Event{Kind: KeyDown, Key: key})
	h.last = out
	switch out.Code {
	case Restore, RestoreAndStartNewSession, WillProcess:
		h.deleteUnits(out.Backspaces)
		h.insert(out.Chars, true)
	case DoNothing:
		if key == vkey.KeyDelete && len(h.text) > 0 {
			h.deleteUnits(1)
		}
	}
}

func (h *host) typeString(s string) {
	h.t.Helper()
	for _, r := range s {
		h.press(r)
	}
}

func (h *host) assertText(want string) {
	h.t.Helper()
	if got := string(h.text); got != want {
		h.t.Errorf("text = %q, want %q", got, want)
	}
}

func defaultConfig() config.Snapshot {
	cfg := config.Default()
	cfg.UseMacro = false
	cfg.AutoRestoreEnglish = false
	return cfg
}

func TestTelexToneMigration(t *testing.T) {
	// tiesng: the tone lands on e, migrates onto ê as the word grows.
	h := newHost(t, defaultConfig())

	steps := []struct {
		key  rune
		text string
	}{
		{'t', "t"},
		{'i', "ti"},
		{'e', "tie"},
		{'s', "tiế"},
		{'n', "tiến"},
		{'g', "tiếng"},
		{' ', "tiếng "},
	}
	for _, st := range steps {
		h.press(st.key)
		h.assertText(st.text)
	}
}

func TestTelexBasicWords(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"viet", "vieetj", "việt"},
		{"nam", "nam", "nam"},
		{"duong", "dduowngf", "đường"},
		{"hon", "hown", "hơn"},
		{"standalone w", "nhw", "như"},
		{"double tone cancel", "ass", "as"},
		{"tone reapply", "asss", "ás"},
		{"mark revert", "aaa", "aa"},
		{"tone removal z", "asz", "a"},
		{"uu quick", "tuu", "tuu"}, // quick telex off by default
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHost(t, defaultConfig())
			h.typeString(tt.keys)
			h.assertText(tt.want)
		})
	}
}

func TestVNIBasicWords(t *testing.T) {
	cfg := defaultConfig()
	cfg.InputType = config.VNI
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"viet", "vie6t5", "việt"},
		{"duong", "d9u7o7ng2", "đường"},
		{"tone digits", "toi1", "tói"},
		{"literal digit", "12", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHost(t, cfg)
			h.typeString(tt.keys)
			h.assertText(tt.want)
		})
	}
}

func TestModernVsTraditionalOrthography(t *testing.T) {
	modern := defaultConfig()
	h := newHost(t, modern)
	h.typeString("hoaf")
	h.assertText("hoà")

	trad := defaultConfig()
	trad.ModernOrthography = false
	h = newHost(t, trad)
	h.typeString("hoaf")
	h.assertText("hòa")
}

func TestSpellingRestoreOnBreak(t *testing.T) {
	// Telex turns user into ủe; the dot break restores the raw keys.
	h := newHost(t, defaultConfig())
	h.typeString("user.")
	h.assertText("user.")
	if h.last.Code != RestoreAndStartNewSession {
		t.Errorf("code = %v, want RestoreAndStartNewSession", h.last.Code)
	}
	if h.last.Ext != ExtWordBreak {
		t.Errorf("ext = %v, want ExtWordBreak", h.last.Ext)
	}
}

func TestInvalidMarkRestore(t *testing.T) {
	// aaa composes â then reverts to aa; the break sees an illegal
	// nucleus and restores the literal typing.
	h := newHost(t, defaultConfig())
	h.typeString("aaa ")
	h.assertText("aaa ")
}

func TestAutoEnglishRestore(t *testing.T) {
	dir := t.TempDir()
	blob, err := dict.Build([]string{"terminal", "user"})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "en_dict.bin")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig()
	cfg.AutoRestoreEnglish = true
	h := newHost(t, cfg)
	if !h.e.LoadDictionary(dict.English, path) {
		t.Fatal("dictionary load failed")
	}

	h.typeString("terminal ")
	h.assertText("terminal ")
	if h.last.Code != RestoreAndStartNewSession {
		t.Errorf("code = %v, want RestoreAndStartNewSession", h.last.Code)
	}
	if h.last.Ext != ExtAutoEnglishRestore {
		t.Errorf("ext = %v, want ExtAutoEnglishRestore", h.last.Ext)
	}
}

func TestCustomEnglishRestore(t *testing.T) {
	cfg := defaultConfig()
	cfg.AutoRestoreEnglish = true
	h := newHost(t, cfg)
	h.e.LoadCustomDictionary([]byte(`[{"word":"qes","type":"en"}]`))

	h.typeString("qes ")
	h.assertText("qes ")
	if h.last.Ext != ExtAutoEnglishRestore {
		t.Errorf("ext = %v, want ExtAutoEnglishRestore", h.last.Ext)
	}

	// Without the custom entry the invalid-spelling rule restores the
	// same text with a different code.
	h2 := newHost(t, cfg)
	h2.typeString("qes ")
	h2.assertText("qes ")
	if h2.last.Ext != ExtWordBreak {
		t.Errorf("ext = %v, want ExtWordBreak", h2.last.Ext)
	}
}

func TestRestoreOnEscape(t *testing.T) {
	h := newHost(t, defaultConfig())
	h.typeString("tooi")
	h.assertText("tôi")

	h.pressKey(vkey.KeyEsc)
	h.assertText("tooi")
	if h.last.Code != Restore {
		t.Errorf("code = %v, want Restore", h.last.Code)
	}

	// The session stays alive on the raw word; further keys extend it
	// without re-transformation.
	h.press('s')
	h.assertText("toois")

	// A second restore with no new transformation is a no-op.
	out, issued := h.e.RestoreRawKeys()
	if issued || out.Code != DoNothing {
		t.Errorf("second restore = (%v, %v), want no-op", out.Code, issued)
	}
}

func TestBackspace(t *testing.T) {
	h := newHost(t, defaultConfig())
	h.typeString("tiesng")
	h.assertText("tiếng")

	h.pressKey(vkey.KeyDelete)
	h.assertText("tiến")
	h.pressKey(vkey.KeyDelete)
	h.assertText("tiế")
	h.pressKey(vkey.KeyDelete)
	h.assertText("ti")

	// Underflow: empty session does nothing.
	h.pressKey(vkey.KeyDelete)
	h.pressKey(vkey.KeyDelete)
	h.pressKey(vkey.KeyDelete)
	h.assertText("")
}

func TestEmptySessionBreak(t *testing.T) {
	h := newHost(t, defaultConfig())
	h.press(' ')
	h.assertText(" ")
	if h.last.Code != BreakWord {
		t.Errorf("code = %v, want BreakWord", h.last.Code)
	}
}

func TestBufferOverflowForcesBreak(t *testing.T) {
	h := newHost(t, defaultConfig())
	for i := 0; i < 32; i++ {
		h.press('m')
	}
	h.press('a')
	h.press('s')
	// The overflowing key started a fresh session: the tone applies to
	// the new word only.
	h.assertText(strings.Repeat("m", 32) + "á")
}

func TestEnglishModePassthrough(t *testing.T) {
	cfg := defaultConfig()
	cfg.Language = config.English
	h := newHost(t, cfg)
	h.typeString("vieetj ")
	h.assertText("vieetj ")
	if h.last.Code != DoNothing {
		t.Errorf("code = %v, want DoNothing", h.last.Code)
	}
}

func TestMacroExpansion(t *testing.T) {
	cfg := defaultConfig()
	cfg.UseMacro = true
	h := newHost(t, cfg)
	h.e.Macros().Add("btw", "by the way", macro.Static)

	h.typeString("btw ")
	h.assertText("by the way ")
	if h.last.Code != ReplaceMacro {
		t.Errorf("code = %v, want ReplaceMacro", h.last.Code)
	}
}

func TestMacroAutoCaps(t *testing.T) {
	cfg := defaultConfig()
	cfg.UseMacro = true
	cfg.AutoCapsMacro = true
	h := newHost(t, cfg)
	h.e.Macros().Add("btw", "by the way", macro.Static)

	h.typeString("Btw ")
	h.assertText("By the way ")

	h.typeString("BTW ")
	h.assertText("By the way BY THE WAY ")
}

func TestMacroInEnglishMode(t *testing.T) {
	cfg := defaultConfig()
	cfg.Language = config.English
	cfg.UseMacro = true
	cfg.UseMacroInEnglish = true
	h := newHost(t, cfg)
	h.e.Macros().Add("ms", "millisecond", macro.Static)

	h.typeString("ms ")
	h.assertText("millisecond ")
}

func TestUpperCaseFirstChar(t *testing.T) {
	cfg := defaultConfig()
	cfg.UpperCaseFirstChar = true
	h := newHost(t, cfg)
	h.typeString("an. ba")
	h.assertText("an. Ba")
}

func TestQuickTelex(t *testing.T) {
	cfg := defaultConfig()
	cfg.QuickTelex = true
	h := newHost(t, cfg)
	h.typeString("cc")
	h.assertText("ch")

	h = newHost(t, cfg)
	h.typeString("tuu")
	h.assertText("tươ")
}

func TestQuickStartEndConsonants(t *testing.T) {
	cfg := defaultConfig()
	cfg.QuickStartConsonant = true
	cfg.QuickEndConsonant = true
	h := newHost(t, cfg)
	h.typeString("fanh")
	h.assertText("phanh")

	h = newHost(t, cfg)
	h.typeString("hag")
	h.assertText("hang")
}

func TestSimpleTelexVariants(t *testing.T) {
	// SimpleTelex1 keeps the uw/ow horn but loses the standalone W.
	cfg := defaultConfig()
	cfg.InputType = config.SimpleTelex1
	h := newHost(t, cfg)
	h.typeString("tuw")
	h.assertText("tư")

	h = newHost(t, cfg)
	h.typeString("nhw")
	h.assertText("nhw")

	// SimpleTelex2 treats w as a plain letter everywhere.
	cfg.InputType = config.SimpleTelex2
	h = newHost(t, cfg)
	h.typeString("tuw")
	h.assertText("tuw")

	// Tone keys work in both variants.
	h = newHost(t, cfg)
	h.typeString("mas")
	h.assertText("má")
}

func TestMouseDownResetsSession(t *testing.T) {
	h := newHost(t, defaultConfig())
	h.typeString("tooi")
	h.assertText("tôi")

	h.e.HandleEvent(Event{Kind: MouseDown})

	// The next word composes from scratch; the previous one is left
	// untouched on screen.
	h.typeString("as")
	h.assertText("tôiá")
}

func TestTempOffSpelling(t *testing.T) {
	h := newHost(t, defaultConfig())
	h.e.TempOffSpelling()
	h.typeString("qes ")
	// Validator disabled for this word: the composition stays.
	h.assertText("qé ")
}

func TestDeterminism(t *testing.T) {
	run := func() string {
		h := newHost(t, defaultConfig())
		h.typeString("dduowngf tiesng vieetj ")
		return string(h.text)
	}
	a, b := run(), run()
	if a != b {
		t.Errorf("outputs differ: %q vs %q", a, b)
	}
	if a != "đường tiếng việt " {
		t.Errorf("text = %q", a)
	}
}
