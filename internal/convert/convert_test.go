package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/phtv-core/internal/charset"
)

func TestIdentityConversion(t *testing.T) {
	opts := Options{From: charset.Unicode, To: charset.Unicode}
	for _, s := range []string{
		"tiếng Việt",
		"Đường phố cũ",
		"plain ascii",
		"mixed: 關係 ok", // untouched pass-through
	} {
		assert.Equal(t, s, String(s, opts))
	}
}

func TestRoundTripAcrossTables(t *testing.T) {
	src := "Việt Nam đổi mới, tự do"
	for _, to := range []charset.ID{
		charset.TCVN3,
		charset.VNIWindows,
		charset.UnicodeComposite,
		charset.CP1258,
	} {
		encoded := String(src, Options{From: charset.Unicode, To: to})
		back := String(encoded, Options{From: to, To: charset.Unicode})
		assert.Equal(t, src, back, "table %d", to)
	}
}

func TestCompositeConversion(t *testing.T) {
	src := "ti\u1ebfng" // precomposed ế
	out := String(src, Options{From: charset.Unicode, To: charset.UnicodeComposite})
	// ế comes out as ê plus the combining acute.
	assert.Equal(t, "ti\u00ea\u0301ng", out)

	back := String(out, Options{From: charset.UnicodeComposite, To: charset.Unicode})
	assert.Equal(t, src, back)
}

func TestRemoveMark(t *testing.T) {
	out := String("tiếng Việt", Options{
		From:       charset.Unicode,
		To:         charset.Unicode,
		RemoveMark: true,
	})
	assert.Equal(t, "tieng Viet", out)
}

func TestCaseTransforms(t *testing.T) {
	opts := Options{From: charset.Unicode, To: charset.Unicode}

	opts.AllCaps = true
	assert.Equal(t, "VIỆT NAM", String("việt nam", opts))

	opts = Options{From: charset.Unicode, To: charset.Unicode, AllLower: true}
	assert.Equal(t, "việt nam", String("VIỆT NAM", opts))

	opts = Options{From: charset.Unicode, To: charset.Unicode, CapsEachWord: true}
	assert.Equal(t, "Việt Nam Dân Chủ", String("việt nam dân chủ", opts))

	opts = Options{From: charset.Unicode, To: charset.Unicode, CapsFirstLetter: true}
	assert.Equal(t, "Xin chào. Tạm biệt", String("xin chào. tạm biệt", opts))
}

func TestOptionPrecedence(t *testing.T) {
	// AllCaps wins over everything else.
	opts := Options{
		From:         charset.Unicode,
		To:           charset.Unicode,
		AllCaps:      true,
		AllLower:     true,
		CapsEachWord: true,
	}
	assert.Equal(t, "HAI BA", String("hai ba", opts))

	// AllLower beats the sentence-caps options.
	opts = Options{
		From:            charset.Unicode,
		To:              charset.Unicode,
		AllLower:        true,
		CapsFirstLetter: true,
	}
	assert.Equal(t, "hai. ba", String("Hai. Ba", opts))
}

func TestSanitizedTables(t *testing.T) {
	out := String("việt", Options{From: charset.ID(9), To: charset.ID(-3)})
	assert.Equal(t, "việt", out)
}
