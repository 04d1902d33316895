// Package convert re-encodes standalone Vietnamese text between the five
// code tables, with optional case and mark transforms.
package convert

import (
	"strings"
	"unicode"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/vkey"
)

// Options selects the source and target tables and the transforms.
// AllCaps wins over every other case option; AllLower beats the two
// sentence-caps options.
type Options struct {
	From charset.ID
	To   charset.ID

	AllCaps         bool
	AllLower        bool
	CapsFirstLetter bool
	CapsEachWord    bool
	RemoveMark      bool
}

// normalize resolves the option precedence and sanitizes the tables.
func (o Options) normalize() Options {
	o.From = charset.Sanitize(o.From)
	o.To = charset.Sanitize(o.To)
	if o.AllCaps {
		o.AllLower = false
		o.CapsFirstLetter = false
		o.CapsEachWord = false
	} else if o.AllLower {
		o.CapsFirstLetter = false
		o.CapsEachWord = false
	}
	return o
}

func isSentenceBreak(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// String converts a utf-8 string between code tables. Characters with no
// identity in the source table pass through with only the case rules
// applied.
func String(input string, opts Options) string {
	opts = opts.normalize()
	from := charset.Get(opts.From)
	to := charset.Get(opts.To)

	runes := []rune(input)
	var out strings.Builder
	out.Grow(len(input) + 4)

	hasBreak := false
	shouldUpper := opts.CapsFirstLetter || opts.CapsEachWord

	emit := func(v charset.Variant) {
		upper := v.Upper
		if opts.AllCaps || shouldUpper {
			upper = true
		} else if opts.AllLower || opts.CapsFirstLetter || opts.CapsEachWord {
			upper = false
		}
		if opts.RemoveMark {
			key, _, ok := charset.LetterOf(charset.StripMark(v.Base))
			if ok {
				out.WriteRune(vkey.ToASCII(key, upper))
				return
			}
		}
		out.WriteString(to.Render(v.Base, v.Tone, upper))
	}

	for i := 0; i < len(runes); i++ {
		// Double-code candidates: try the two-unit form first.
		if i+1 < len(runes) && charset.IsDoubleCode(opts.From) {
			if v, ok := from.Lookup(string(runes[i : i+2])); ok {
				emit(v)
				i++
				shouldUpper = false
				hasBreak = false
				continue
			}
		}
		if v, ok := from.Lookup(string(runes[i])); ok {
			emit(v)
			shouldUpper = false
			hasBreak = false
			continue
		}

		// Pass-through with case rules.
		r := runes[i]
		switch {
		case opts.AllCaps || shouldUpper:
			out.WriteRune(unicode.ToUpper(r))
		case opts.AllLower || opts.CapsFirstLetter || opts.CapsEachWord:
			out.WriteRune(unicode.ToLower(r))
		default:
			out.WriteRune(r)
		}

		switch {
		case r == '\n' || (hasBreak && r == ' '):
			if opts.CapsFirstLetter || opts.CapsEachWord {
				shouldUpper = true
			}
		case r == ' ' && opts.CapsEachWord:
			shouldUpper = true
		case isSentenceBreak(r):
			hasBreak = true
		default:
			shouldUpper = false
			hasBreak = false
		}
	}

	return out.String()
}
