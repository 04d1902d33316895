// phtvconvert re-encodes Vietnamese text between the five code tables
// from the command line: stdin to stdout, or the arguments joined by
// spaces.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/username/phtv-core/internal/charset"
	"github.com/username/phtv-core/internal/convert"
)

var tableNames = map[string]charset.ID{
	"unicode":   charset.Unicode,
	"tcvn3":     charset.TCVN3,
	"vni":       charset.VNIWindows,
	"composite": charset.UnicodeComposite,
	"cp1258":    charset.CP1258,
}

func parseTable(name string) (charset.ID, error) {
	id, ok := tableNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown code table %q (unicode, tcvn3, vni, composite, cp1258)", name)
	}
	return id, nil
}

func main() {
	from := flag.String("from", "unicode", "source code table")
	to := flag.String("to", "unicode", "target code table")
	allCaps := flag.Bool("caps", false, "uppercase everything")
	allLower := flag.Bool("lower", false, "lowercase everything")
	capsFirst := flag.Bool("caps-first", false, "capitalize sentence starts")
	capsWords := flag.Bool("caps-words", false, "capitalize each word")
	removeMark := flag.Bool("remove-marks", false, "strip tones and diacritics")
	flag.Parse()

	fromID, err := parseTable(*from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	toID, err := parseTable(*to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var input string
	if flag.NArg() > 0 {
		input = strings.Join(flag.Args(), " ")
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		input = string(data)
	}

	fmt.Print(convert.String(input, convert.Options{
		From:            fromID,
		To:              toID,
		AllCaps:         *allCaps,
		AllLower:        *allLower,
		CapsFirstLetter: *capsFirst,
		CapsEachWord:    *capsWords,
		RemoveMark:      *removeMark,
	}))
}
