package model

import "strings"

// StorableText returns s as valid UTF-8 without NUL bytes, which is what a
// Postgres text column accepts. Invalid sequences become U+FFFD.
func StorableText(s string) string {
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", "")
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}
