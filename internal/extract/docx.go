package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

var errArchiveTooLarge = errors.New("archive content exceeds size limit")

// docxExtractor reads word/document.xml and emits one line per paragraph.
// Text runs inside hyperlinks are kept; field instructions and deleted
// text are not.
type docxExtractor struct {
	maxBytes int64
}

func (e *docxExtractor) Extract(_ context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("%s not found in archive", docxBodyPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	return docxText(limitReader(rc, e.maxBytes))
}

func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		out       strings.Builder
		paragraph strings.Builder
		inText    bool
		inRun     bool
	)
	flush := func() {
		text := strings.TrimSpace(paragraph.String())
		paragraph.Reset()
		if text == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(text)
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				// Outside a run, w:tab is a tab stop definition in w:pPr.
				if inRun {
					paragraph.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					paragraph.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}
	flush()
	return out.String(), nil
}

// limitReader fails the read once more than max bytes have been produced,
// which keeps a small archive from inflating without bound.
func limitReader(r io.Reader, max int64) io.Reader {
	return &cappedReader{r: r, remaining: max}
}

type cappedReader struct {
	r         io.Reader
	remaining int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		// Probe for one more byte to tell EOF from overflow.
		var probe [1]byte
		n, err := c.r.Read(probe[:])
		if n > 0 {
			return 0, errArchiveTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	return n, err
}
