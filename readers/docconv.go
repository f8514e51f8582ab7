package readers

import (
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"
)

// DocconvFileReader converts the whole PDF with docconv. Pages are recovered
// from form feeds when the converter emits them; otherwise the document is a
// single page.
type DocconvFileReader struct {
}

func (r *DocconvFileReader) CanRead(path string) bool {
	return isPdf(path)
}

func (r *DocconvFileReader) ReadPages(path string) ([]Page, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf document: %w", err)
	}

	return splitPages(res.Body), nil
}

func splitPages(body string) []Page {
	parts := strings.Split(body, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	pages := make([]Page, len(parts))
	for i, p := range parts {
		pages[i] = Page{Number: i, Text: p}
	}

	return pages
}
