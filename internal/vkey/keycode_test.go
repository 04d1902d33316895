package vkey

import "testing"

func TestASCIIRoundTrip(t *testing.T) {
	for _, upper := range []bool{false, true} {
		for key := KeyID(0); key < 128; key++ {
			r := ToASCII(key, upper)
			if r == 0 {
				continue
			}
			gotKey, gotUpper, ok := FromASCII(r)
			if !ok {
				t.Fatalf("FromASCII(%q) not found", r)
			}
			// Characters reachable from two keys (newline, space)
			// resolve to one canonical key; only the projection must
			// round-trip.
			if ToASCII(gotKey, gotUpper) != r {
				t.Errorf("round trip of %q produced %q", r, ToASCII(gotKey, gotUpper))
			}
		}
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		key    KeyID
		letter bool
		number bool
		brk    bool
	}{
		{KeyA, true, false, false},
		{KeyZ, true, false, false},
		{Key0, false, true, false},
		{KeySpace, false, false, true},
		{KeyReturn, false, false, true},
		{KeyLeft, false, false, true},
		{KeyDot, false, false, true},
		{KeyForwardDelete, false, false, true},
		{KeyMinus, false, false, false},
		{KeyQuote, false, false, false},
	}
	for _, tt := range tests {
		if got := IsLetter(tt.key); got != tt.letter {
			t.Errorf("IsLetter(%d) = %v, want %v", tt.key, got, tt.letter)
		}
		if got := IsNumber(tt.key); got != tt.number {
			t.Errorf("IsNumber(%d) = %v, want %v", tt.key, got, tt.number)
		}
		if got := IsWordBreak(tt.key, false); got != tt.brk {
			t.Errorf("IsWordBreak(%d) = %v, want %v", tt.key, got, tt.brk)
		}
	}
}

func TestShiftedDigitBreaks(t *testing.T) {
	// Shift-1/9/0 type ! ( ) and end the word; the bare digits do not.
	for _, key := range []KeyID{Key1, Key9, Key0} {
		if !IsWordBreak(key, true) {
			t.Errorf("shifted %d should break", key)
		}
		if IsWordBreak(key, false) {
			t.Errorf("bare %d should not break", key)
		}
	}
}

func TestEngCodeBits(t *testing.T) {
	c := FromKey(KeyA, true)
	if c.IsCharCode() || !c.Caps() || c.Key() != KeyA {
		t.Errorf("FromKey: %#x", uint32(c))
	}

	c = FromChar(7, false).WithMark(ToneDot)
	if !c.IsCharCode() || c.Caps() || c.Payload() != 7 {
		t.Errorf("FromChar: %#x", uint32(c))
	}
	if c.Mark() != ToneDot {
		t.Errorf("Mark = %v, want ToneDot", c.Mark())
	}

	// Marks are exclusive: setting a new one clears the old.
	c = c.WithMark(ToneAcute)
	if c.Mark() != ToneAcute {
		t.Errorf("Mark after replace = %v", c.Mark())
	}
	c = c.WithMark(ToneNone)
	if c.Mark() != ToneNone {
		t.Errorf("Mark after clear = %v", c.Mark())
	}
}

func TestHotkeyDecoding(t *testing.T) {
	h := Hotkey(0x8000 | 0x100 | int(KeySpace))
	if h.Key() != KeySpace || !h.Control() || !h.Beep() {
		t.Errorf("hotkey decode failed: %#x", int(h))
	}
	if h.Shift() || h.Command() || h.Option() || h.Function() {
		t.Errorf("spurious modifier bits: %#x", int(h))
	}
}
