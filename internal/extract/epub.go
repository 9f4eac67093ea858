package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
)

// epubExtractor strips every .xhtml/.html entry of the archive, in archive
// order, and joins the results.
type epubExtractor struct {
	html     *htmlStripper
	maxBytes int64
}

func (e *epubExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open epub archive: %w", err)
	}

	budget := e.maxBytes
	var parts []string
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !isMarkupEntry(f.Name) {
			continue
		}
		raw, err := readEntry(f, budget)
		if err != nil {
			return "", err
		}
		budget -= int64(len(raw))
		if text := e.html.strip(raw); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func isMarkupEntry(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xhtml") || strings.HasSuffix(lower, ".html")
}

func readEntry(f *zip.File, max int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(limitReader(rc, max))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return raw, nil
}
