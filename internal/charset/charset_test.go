package charset

import (
	"testing"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/username/phtv-core/internal/vkey"
)

func TestUnicodeTableTones(t *testing.T) {
	uni := Get(Unicode)
	tests := []struct {
		base  BaseCode
		tone  vkey.Tone
		upper bool
		want  string
	}{
		{BaseA, vkey.ToneNone, false, "a"},
		{BaseA, vkey.ToneAcute, false, "á"},
		{BaseA, vkey.ToneAcute, true, "Á"},
		{BaseAW, vkey.ToneHook, false, "ẳ"},
		{BaseAA, vkey.ToneTilde, true, "Ẫ"},
		{BaseEE, vkey.ToneDot, false, "ệ"},
		{BaseOW, vkey.ToneGrave, false, "ờ"},
		{BaseUW, vkey.ToneAcute, false, "ứ"},
		{BaseY, vkey.ToneDot, false, "ỵ"},
		{BaseDD, vkey.ToneNone, false, "đ"},
		{BaseDD, vkey.ToneNone, true, "Đ"},
	}
	for _, tt := range tests {
		if got := uni.Render(tt.base, tt.tone, tt.upper); got != tt.want {
			t.Errorf("Render(%d, %d, %v) = %q, want %q",
				tt.base, tt.tone, tt.upper, got, tt.want)
		}
	}
}

func TestCompositeAgreesWithPrecomposed(t *testing.T) {
	// NFC over the composite rendering must equal the precomposed
	// Unicode rendering for every cell.
	uni := Get(Unicode)
	comp := Get(UnicodeComposite)
	for base := BaseA; base <= BaseDD; base++ {
		for tone := vkey.ToneNone; tone <= vkey.ToneDot; tone++ {
			for _, upper := range []bool{false, true} {
				pre := uni.Render(base, tone, upper)
				dec := comp.Render(base, tone, upper)
				if pre == "" || dec == "" {
					continue
				}
				if norm.NFC.String(dec) != pre {
					t.Errorf("NFC(%q) = %q, want %q (base %d tone %d)",
						dec, norm.NFC.String(dec), pre, base, tone)
				}
			}
		}
	}
}

func TestCompositeIsDoubleCode(t *testing.T) {
	comp := Get(UnicodeComposite)
	s := comp.Render(BaseA, vkey.ToneAcute, false)
	if utf8.RuneCountInString(s) != 2 {
		t.Errorf("composite á = %q (%d units), want 2 units", s, utf8.RuneCountInString(s))
	}
	s = comp.Render(BaseA, vkey.ToneNone, false)
	if utf8.RuneCountInString(s) != 1 {
		t.Errorf("composite a = %q, want 1 unit", s)
	}
}

func TestReverseLookup(t *testing.T) {
	for _, id := range []ID{Unicode, TCVN3, VNIWindows, UnicodeComposite, CP1258} {
		table := Get(id)
		v, ok := table.Lookup(table.Render(BaseEE, vkey.ToneGrave, false))
		if !ok {
			t.Errorf("%s: ề not found in reverse lookup", table.Name())
			continue
		}
		if v.Base != BaseEE || v.Tone != vkey.ToneGrave {
			t.Errorf("%s: Lookup(ề) = %+v", table.Name(), v)
		}
	}
}

func TestEncoderRender(t *testing.T) {
	enc := NewEncoder(Unicode)
	tests := []struct {
		code vkey.EngCode
		want string
	}{
		{vkey.FromKey(vkey.KeyA, false), "a"},
		{vkey.FromKey(vkey.KeyA, true), "A"},
		{vkey.FromKey(vkey.KeySpace, false), " "},
		{vkey.FromChar(uint16(BaseEE), false).WithMark(vkey.ToneAcute), "ế"},
		{vkey.FromChar(uint16(BaseUW), true).WithMark(vkey.ToneTilde), "Ữ"},
		{vkey.EngCode('~') | vkey.PureCharMask | vkey.CharCodeMask, "~"},
	}
	for _, tt := range tests {
		if got := enc.Render(tt.code); got != tt.want {
			t.Errorf("Render(%#x) = %q, want %q", uint32(tt.code), got, tt.want)
		}
	}
}

func TestEncoderUnits(t *testing.T) {
	uni := NewEncoder(Unicode)
	comp := NewEncoder(UnicodeComposite)
	toned := vkey.FromChar(uint16(BaseA), false).WithMark(vkey.ToneDot)
	if uni.Units(toned) != 1 {
		t.Errorf("unicode ạ units = %d, want 1", uni.Units(toned))
	}
	if comp.Units(toned) != 2 {
		t.Errorf("composite ạ units = %d, want 2", comp.Units(toned))
	}
}

func TestEncodeTextRoundTrip(t *testing.T) {
	enc := NewEncoder(Unicode)
	for _, s := range []string{
		"tiếng Việt",
		"hello world",
		"đường phố",
		"Mix 123, ok?",
	} {
		codes := EncodeText(s)
		if got := enc.RenderAll(codes); got != s {
			t.Errorf("EncodeText round trip = %q, want %q", got, s)
		}
	}
}

func TestApplyMark(t *testing.T) {
	tests := []struct {
		base BaseCode
		mark VowelMark
		want BaseCode
	}{
		{BaseA, MarkHat, BaseAA},
		{BaseA, MarkBreve, BaseAW},
		{BaseE, MarkHat, BaseEE},
		{BaseO, MarkHorn, BaseOW},
		{BaseU, MarkHorn, BaseUW},
		{BaseD, MarkDBar, BaseDD},
		// Re-marking resolves through the plain letter.
		{BaseOO, MarkHorn, BaseOW},
	}
	for _, tt := range tests {
		got, ok := ApplyMark(tt.base, tt.mark)
		if !ok || got != tt.want {
			t.Errorf("ApplyMark(%d, %d) = (%d, %v), want %d",
				tt.base, tt.mark, got, ok, tt.want)
		}
	}

	if _, ok := ApplyMark(BaseI, MarkHat); ok {
		t.Error("i must not take a hat")
	}
}

func TestSanitize(t *testing.T) {
	if Sanitize(ID(99)) != Unicode {
		t.Error("out-of-range table must sanitize to Unicode")
	}
	if Sanitize(CP1258) != CP1258 {
		t.Error("CP1258 must survive sanitize")
	}
}
