package extract

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Separators written where a block element opens or closes. Inline
// elements write nothing, so a word split by <b> or <span> stays whole.
var blockBreaks = map[atom.Atom]string{
	atom.P: "\n", atom.Div: "\n", atom.Br: "\n", atom.Hr: "\n",
	atom.H1: "\n", atom.H2: "\n", atom.H3: "\n", atom.H4: "\n", atom.H5: "\n", atom.H6: "\n",
	atom.Ul: "\n", atom.Ol: "\n", atom.Li: "\n", atom.Dl: "\n", atom.Dt: "\n", atom.Dd: "\n",
	atom.Table: "\n", atom.Tr: "\n", atom.Caption: "\n", atom.Td: " ", atom.Th: " ",
	atom.Blockquote: "\n", atom.Pre: "\n", atom.Address: "\n",
	atom.Section: "\n", atom.Article: "\n", atom.Aside: "\n", atom.Nav: "\n",
	atom.Header: "\n", atom.Footer: "\n", atom.Figure: "\n", atom.Figcaption: "\n",
	atom.Details: "\n", atom.Summary: "\n",
}

// htmlStripper keeps the text nodes of a document. The sanitizer drops
// script, style and similar elements with their content and every tag
// except block elements; the remaining tags only mark line breaks.
type htmlStripper struct {
	policy *bluemonday.Policy
}

func newHTMLStripper() *htmlStripper {
	p := bluemonday.StrictPolicy()
	for a := range blockBreaks {
		p.AllowElements(a.String())
	}
	return &htmlStripper{policy: p}
}

func (s *htmlStripper) Extract(_ context.Context, data []byte) (string, error) {
	return s.strip(data), nil
}

func (s *htmlStripper) strip(data []byte) string {
	var text strings.Builder
	z := html.NewTokenizer(bytes.NewReader(s.policy.SanitizeBytes(data)))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseWhitespace(text.String())
		case html.TextToken:
			text.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			text.WriteString(blockBreaks[atom.Lookup(name)])
		}
	}
}

// collapseWhitespace squeezes horizontal whitespace runs to one space, trims
// every line and drops blank lines.
func collapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.FieldsFunc(line, isHorizontalSpace), " ")
		if line == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(line)
	}
	return out.String()
}

func isHorizontalSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}
