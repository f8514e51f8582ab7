package readers

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"
)

// Page is the extracted text of one PDF page. Number is zero-based.
type Page struct {
	Number int
	Text   string
}

// PdfFileReader extracts text page by page with rsc.io/pdf.
type PdfFileReader struct {
}

func (r *PdfFileReader) CanRead(path string) bool {
	return isPdf(path)
}

func (r *PdfFileReader) ReadPages(path string) (pages []Page, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat pdf document: %w", err)
	}

	// rsc.io/pdf panics on malformed input
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("failed to read pdf document %s: %v", path, rec)
		}
	}()

	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf document: %w", err)
	}

	n := doc.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		p := doc.Page(i)
		var text string
		if !p.V.IsNull() {
			text = pageText(p.Content().Text)
		}

		pages = append(pages, Page{Number: i - 1, Text: text})
	}

	return pages, nil
}

// wordGap is the horizontal gap, as a fraction of the font size, read as a
// word break. rsc.io/pdf does not emit space glyphs.
const wordGap = 0.1

// pageText joins glyph runs in content stream order, breaking lines on a
// baseline change and inserting a space on a horizontal gap.
func pageText(runs []pdf.Text) string {
	var b strings.Builder
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			size := math.Max(math.Max(prev.FontSize, t.FontSize), 1)
			switch {
			case math.Abs(t.Y-prev.Y) > size/2:
				b.WriteByte('\n')
			case t.X-(prev.X+prev.W) > size*wordGap && !endsWithSpace(prev.S) && !startsWithSpace(t.S):
				b.WriteByte(' ')
			}
		}

		b.WriteString(t.S)
	}

	return b.String()
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}

func startsWithSpace(s string) bool {
	return strings.HasPrefix(s, " ")
}

func isPdf(path string) bool {
	name := filepath.Base(path)
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), ".pdf")
}
