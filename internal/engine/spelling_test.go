package engine

import (
	"testing"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/config"
	"github.com/username/phtv-core/internal/vkey"
)

func newTestEncoder() *charset.Encoder {
	return charset.NewEncoder(charset.Unicode)
}

// composeFor builds the composed projection of a Telex key string.
func composeFor(t *testing.T, keys string, cfg config.Snapshot) []vkey.EngCode {
	t.Helper()
	typed := make([]TypedKey, 0, len(keys))
	for _, r := range keys {
		key, upper, ok := vkey.FromASCII(r)
		if !ok {
			t.Fatalf("no key for %q", r)
		}
		typed = append(typed, TypedKey{Key: key, Caps: upper})
	}
	return composeWord(typed, cfg)
}

func TestValidateLegalSyllables(t *testing.T) {
	cfg := config.Default()
	legal := []string{
		"vieetj",   // việt
		"nam",      // nam
		"tiesng",   // tiếng
		"nghieeng", // nghiêng
		"dduowngf", // đường
		"hoaf",     // hoà
		"quaan",    // quân
		"giof",     // giò: gi + o
		"toans",    // toán
		"uoongs",   // uống
		"khuyar",   // khuỷa-like: uya
		"mwa",      // mưa via w
		"anh",
		"em",
		"a",
	}
	for _, keys := range legal {
		t.Run(keys, func(t *testing.T) {
			composed := composeFor(t, keys, cfg)
			if !Validate(composed, cfg) {
				t.Errorf("Validate(%s) = Invalid, want Valid", keys)
			}
		})
	}
}

func TestValidateIllegalSyllables(t *testing.T) {
	cfg := config.Default()
	illegal := []string{
		"qes",     // bare q onset
		"users",   // úe: no such nucleus
		"useeer",  // broken structure
		"int1234", // digits force restore
		"zans",    // z onset without the ZFWJ flag
		"ces",     // c before e
		"kos",     // k before o
		"ges",     // g before e
	}
	for _, keys := range illegal {
		t.Run(keys, func(t *testing.T) {
			composed := composeFor(t, keys, cfg)
			if Validate(composed, cfg) {
				t.Errorf("Validate(%s) = Valid, want Invalid", keys)
			}
		})
	}
}

func TestValidateStopCodaTones(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		keys  string
		valid bool
	}{
		{"mats", true},  // mát: sắc on stop coda
		{"matj", true},  // mạt: nặng on stop coda
		{"matf", false}, // màt: huyền is illegal before t
		{"matr", false}, // mảt
		{"matx", false}, // mãt
		{"hocj", true},  // học
		{"hocf", false}, // hòc
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			composed := composeFor(t, tt.keys, cfg)
			if got := Validate(composed, cfg); got != tt.valid {
				t.Errorf("Validate(%s) = %v, want %v", tt.keys, got, tt.valid)
			}
		})
	}
}

func TestValidateZFWJFlag(t *testing.T) {
	cfg := config.Default()
	composed := composeFor(t, "zans", cfg)
	if Validate(composed, cfg) {
		t.Error("z onset accepted without the flag")
	}
	cfg.AllowConsonantZFWJ = true
	composed = composeFor(t, "zans", cfg)
	if !Validate(composed, cfg) {
		t.Error("z onset rejected with the flag on")
	}
}

func TestTonePlacement(t *testing.T) {
	enc := newTestEncoder()
	tests := []struct {
		name   string
		keys   string
		modern bool
		want   string
	}{
		{"single vowel", "mas", true, "má"},
		{"marked vowel wins", "muowns", true, "mướn"},
		{"coda takes last vowel", "hoangf", true, "hoàng"},
		{"open oa modern", "hoaf", true, "hoà"},
		{"open oa traditional", "hoaf", false, "hòa"},
		{"open uy modern", "thuys", true, "thuý"},
		{"open uy traditional", "thuys", false, "thúy"},
		{"glide final", "maus", true, "máu"},
		{"ia first vowel", "miaf", true, "mìa"},
		{"triphthong middle", "khoais", true, "khoái"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.ModernOrthography = tt.modern
			composed := composeFor(t, tt.keys, cfg)
			got := enc.RenderAll(composed)
			if got != tt.want {
				t.Errorf("compose(%s) = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}
