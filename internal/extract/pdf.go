package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino/components/document/parser"
)

type pdfExtractor struct {
	parser parser.Parser
}

func newPDFExtractor(ctx context.Context) (*pdfExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, err
	}
	return &pdfExtractor{parser: p}, nil
}

func (e *pdfExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	docs, err := e.parser.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d == nil {
			continue
		}
		if text := strings.TrimSpace(d.Content); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
