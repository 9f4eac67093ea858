package extract

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var (
	errNotRTF        = errors.New("missing {\\rtf header")
	errUnbalancedRTF = errors.New("unbalanced braces")
	errTruncatedRTF  = errors.New("unexpected end of document")
)

// Destinations whose content is formatting data rather than document text.
// fldinst holds hyperlink targets; the visible link text lives in fldrslt.
var rtfSkipDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "object": true, "objdata": true, "fldinst": true,
	"header": true, "headerl": true, "headerr": true, "headerf": true,
	"footer": true, "footerl": true, "footerr": true, "footerf": true,
	"listtable": true, "listoverridetable": true, "rsidtbl": true,
	"generator": true, "filetbl": true, "revtbl": true, "themedata": true,
	"colorschememapping": true, "latentstyles": true, "datastore": true,
	"xmlnstbl": true, "pgdsctbl": true, "bkmkstart": true, "bkmkend": true,
	"operator": true, "author": true, "title": true, "comment": true,
}

var rtfSymbols = map[string]string{
	"par": "\n", "line": "\n", "sect": "\n", "page": "\n", "row": "\n",
	"cell": "\t", "tab": "\t",
	"emdash": "—", "endash": "–", "bullet": "•",
	"lquote": "‘", "rquote": "’", "ldblquote": "“", "rdblquote": "”",
	"emspace": " ", "enspace": " ", "qmspace": " ",
}

type rtfGroup struct {
	skip   bool
	ucSkip int
}

type rtfParser struct {
	data    []byte
	pos     int
	stack   []rtfGroup
	cur     rtfGroup
	fresh   bool // the last token opened a group
	pending int  // fallback characters still to drop after \uN
	out     strings.Builder
}

// extractRTF keeps the text runs of an RTF document, including hyperlink
// result text, with paragraphs on separate lines.
func extractRTF(_ context.Context, data []byte) (string, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if !bytes.HasPrefix(trimmed, []byte(`{\rtf`)) {
		return "", errNotRTF
	}
	p := &rtfParser{data: trimmed, cur: rtfGroup{ucSkip: 1}}
	if err := p.parse(); err != nil {
		return "", err
	}
	return tidyLines(p.out.String()), nil
}

func (p *rtfParser) parse() error {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch c {
		case '{':
			p.pos++
			p.stack = append(p.stack, p.cur)
			p.fresh = true
			continue
		case '}':
			p.pos++
			if len(p.stack) == 0 {
				return errUnbalancedRTF
			}
			p.cur = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pending = 0
			p.fresh = false
		case '\\':
			if err := p.control(); err != nil {
				return err
			}
		case '\r', '\n':
			p.pos++
		default:
			p.pos++
			p.fresh = false
			p.emitByte(c)
		}
	}
	if len(p.stack) != 0 {
		return errTruncatedRTF
	}
	return nil
}

func (p *rtfParser) control() error {
	p.pos++ // backslash
	if p.pos >= len(p.data) {
		return errTruncatedRTF
	}
	fresh := p.fresh
	p.fresh = false

	c := p.data[p.pos]
	if !isASCIILetter(c) {
		p.pos++
		switch c {
		case '\\', '{', '}':
			p.emitByte(c)
		case '\'':
			if p.pos+2 > len(p.data) {
				return errTruncatedRTF
			}
			b, err := strconv.ParseUint(string(p.data[p.pos:p.pos+2]), 16, 8)
			if err != nil {
				return err
			}
			p.pos += 2
			p.emitRune(charmap.Windows1252.DecodeByte(byte(b)))
		case '*':
			if fresh {
				p.cur.skip = true
			}
		case '~':
			p.emit(" ")
		case '_':
			p.emit("-")
		case '\r', '\n':
			p.emit("\n")
		}
		return nil
	}

	start := p.pos
	for p.pos < len(p.data) && isASCIILetter(p.data[p.pos]) {
		p.pos++
	}
	word := string(p.data[start:p.pos])

	hasParam := false
	param := 0
	numStart := p.pos
	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
		p.pos++
	}
	if p.pos > numStart {
		if n, err := strconv.Atoi(string(p.data[numStart:p.pos])); err == nil {
			hasParam = true
			param = n
		}
	}
	if p.pos < len(p.data) && p.data[p.pos] == ' ' {
		p.pos++
	}

	switch {
	case rtfSkipDestinations[word]:
		if fresh || word == "fldinst" {
			p.cur.skip = true
		}
	case word == "uc" && hasParam:
		p.cur.ucSkip = param
	case word == "u" && hasParam:
		if param < 0 {
			param += 65536
		}
		p.pending = 0
		p.emitRune(rune(param))
		p.pending = p.cur.ucSkip
	case word == "bin" && hasParam:
		if param > 0 {
			p.pos += param
		}
	default:
		if s, ok := rtfSymbols[word]; ok {
			p.emit(s)
		}
	}
	return nil
}

func (p *rtfParser) emitByte(c byte) {
	if c < 0x80 {
		p.emitRune(rune(c))
		return
	}
	p.emitRune(charmap.Windows1252.DecodeByte(c))
}

func (p *rtfParser) emitRune(r rune) {
	if p.cur.skip {
		return
	}
	if p.pending > 0 {
		p.pending--
		return
	}
	if r == 0 {
		return
	}
	p.out.WriteRune(r)
}

func (p *rtfParser) emit(s string) {
	if p.cur.skip {
		return
	}
	p.pending = 0
	p.out.WriteString(s)
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// tidyLines trims trailing spaces from each line and the whole text.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
