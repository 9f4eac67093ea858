package extract

import (
	"context"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// extractPlainText returns UTF-8 input byte for byte. Anything else is
// decoded by its byte order mark (UTF-16 or UTF-8) or, without one, as
// Windows-1252, which also covers Latin-1.
func extractPlainText(_ context.Context, data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	dec := unicode.BOMOverride(charmap.Windows1252.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
