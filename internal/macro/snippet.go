package macro

import (
	"strconv"
	"strings"
)

// strftime verbs the snippet formats accept. Anything else is copied
// through verbatim.
var strftimeToGo = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'M': "04",
	'S': "05",
	'p': "PM",
	'I': "03",
}

// formatTime renders a strftime-style format string against the table's
// clock.
func (t *Table) formatTime(format string) string {
	now := t.env.Now()
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		i++
		verb := format[i]
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		layout, ok := strftimeToGo[verb]
		if !ok {
			b.WriteByte('%')
			b.WriteByte(verb)
			continue
		}
		b.WriteString(now.Format(layout))
	}
	return b.String()
}

// expand computes the payload of a dynamic entry.
func (t *Table) expand(e *Entry) string {
	switch e.Snippet {
	case Date:
		if strings.Contains(e.Content, "%") {
			return t.formatTime(e.Content)
		}
		return t.env.Now().Format("2006-01-02")
	case Time:
		if strings.Contains(e.Content, "%") {
			return t.formatTime(e.Content)
		}
		return t.env.Now().Format("15:04")
	case DateTime:
		if strings.Contains(e.Content, "%") {
			return t.formatTime(e.Content)
		}
		return t.env.Now().Format("2006-01-02 15:04")
	case Clipboard:
		return t.env.Clipboard()
	case Random:
		choices := strings.Split(e.Content, "|")
		picked := make([]string, 0, len(choices))
		for _, c := range choices {
			if c = strings.TrimSpace(c); c != "" {
				picked = append(picked, c)
			}
		}
		if len(picked) == 0 {
			return ""
		}
		return picked[t.env.Intn(len(picked))]
	case Counter:
		key := normalize(e.Shortcut)
		if _, seen := t.counts[key]; !seen {
			if start, err := strconv.Atoi(strings.TrimSpace(e.Content)); err == nil {
				t.counts[key] = start - 1
			}
		}
		t.counts[key]++
		return strconv.Itoa(t.counts[key])
	}
	return e.Content
}
