package rag

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal single-font PDF with one page per entry in texts.
// An empty entry produces a page without a content stream.
func buildPDF(texts ...string) []byte {
	var objs []string

	n := len(texts)
	fontID := 3 + 2*n
	kids := ""
	for i := range texts {
		kids += fmt.Sprintf("%d 0 R ", 3+i*2)
	}

	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))
	for i, text := range texts {
		contentID := 4 + i*2
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontID, contentID))
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestExtractPages(t *testing.T) {
	data := buildPDF("Contact: jane@example.com", "", "Second page text")

	pages, err := ExtractPages("contact.pdf", data)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "contact.pdf", pages[0].Source)
	assert.Equal(t, 1, pages[0].Number)
	assert.Contains(t, pages[0].Text, "jane@example.com")
	assert.Equal(t, 3, pages[1].Number)
	assert.Contains(t, pages[1].Text, "Second page")
}

func TestExtractPages_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not a pdf", data: []byte("hello, I am a text file")},
		{name: "truncated", data: buildPDF("text")[:60]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPages(tt.name, tt.data)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a\nb", normalizeText("  a  \r\nb\x00\t \n"))
}
