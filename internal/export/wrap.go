package export

import "strings"

// wrapText reflows text to at most width columns per line, prepending
// prefix to every line. Words longer than the width get a line of their
// own rather than being split.
func wrapText(text, prefix string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return prefix
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(words[0])
	offset := len(prefix) + len(words[0])

	for _, word := range words[1:] {
		if offset+1+len(word) <= width {
			b.WriteByte(' ')
			b.WriteString(word)
			offset += 1 + len(word)
		} else {
			b.WriteByte('\n')
			b.WriteString(prefix)
			b.WriteString(word)
			offset = len(prefix) + len(word)
		}
	}
	return b.String()
}
