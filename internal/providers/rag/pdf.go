package rag

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sandevgo/pdfchat/internal/core"
)

// ExtractPages returns the text of every page of a PDF that has any.
// Page numbers are 1-based. The parser panics on some malformed files,
// which is reported as an error.
func ExtractPages(name string, data []byte) (pages []core.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("parse %s: %v", name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		for _, fname := range page.Fonts() {
			f := page.Font(fname)
			fonts[fname] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("read %s page %d: %w", name, i, err)
		}

		text = normalizeText(text)
		if text == "" {
			continue
		}
		pages = append(pages, core.Page{Source: name, Number: i, Text: text})
	}

	return pages, nil
}

// normalizeText drops NUL bytes and trailing spaces the text layer tends to carry.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
