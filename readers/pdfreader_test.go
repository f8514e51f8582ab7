package readers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gamma-omg/pdf-ingest/internal/testpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/pdf"
)

func Test_PdfFileReader_CanRead(t *testing.T) {
	r := PdfFileReader{}
	assert.True(t, r.CanRead("some/file.pdf"))
	assert.True(t, r.CanRead("some/FILE.PDF"))
	assert.False(t, r.CanRead("some/.hidden.pdf"))
	assert.False(t, r.CanRead("some/file.txt"))
	assert.False(t, r.CanRead("some/pdf"))
}

func Test_PdfFileReader_ReadPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pdf")
	testpdf.Write(t, path, "hello world", "second page\nwith two lines", "")

	r := PdfFileReader{}
	pages, err := r.ReadPages(path)
	require.NoError(t, err)

	assert.Equal(t, []Page{
		{Number: 0, Text: "hello world"},
		{Number: 1, Text: "second page\nwith two lines"},
		{Number: 2, Text: ""},
	}, pages)
}

func Test_PdfFileReader_ReadPages_Fonts(t *testing.T) {
	for _, font := range []testpdf.Font{testpdf.Helvetica, testpdf.TimesRoman} {
		t.Run(font.Name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test.pdf")
			testpdf.WriteFont(t, path, font, "the quick brown fox", "jumps over\nthe lazy dog")

			r := PdfFileReader{}
			pages, err := r.ReadPages(path)
			require.NoError(t, err)

			assert.Equal(t, []Page{
				{Number: 0, Text: "the quick brown fox"},
				{Number: 1, Text: "jumps over\nthe lazy dog"},
			}, pages)
		})
	}
}

func Test_PdfFileReader_ReadPages_Escaped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pdf")
	testpdf.Write(t, path, `f(x) = a\b`)

	r := PdfFileReader{}
	pages, err := r.ReadPages(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, `f(x) = a\b`, pages[0].Text)
}

func Test_PdfFileReader_Corrupt(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("%PDF-1.4\nnot really a pdf\n"), 0o644))

	truncated := filepath.Join(dir, "truncated.pdf")
	full := testpdf.Build("hello world")
	require.NoError(t, os.WriteFile(truncated, full[:len(full)/2], 0o644))

	r := PdfFileReader{}
	for _, path := range []string{broken, truncated, filepath.Join(dir, "missing.pdf")} {
		_, err := r.ReadPages(path)
		assert.Error(t, err, path)
	}
}

func Test_pageText(t *testing.T) {
	var cases = []struct {
		name string
		runs []pdf.Text
		out  string
	}{
		{name: "empty", runs: nil, out: ""},
		{
			name: "same line",
			runs: []pdf.Text{
				{FontSize: 10, X: 0, Y: 100, W: 5, S: "a"},
				{FontSize: 10, X: 5, Y: 100, W: 5, S: "b"},
			},
			out: "ab",
		},
		{
			name: "word gap",
			runs: []pdf.Text{
				{FontSize: 10, X: 0, Y: 100, W: 5, S: "a"},
				{FontSize: 10, X: 20, Y: 100, W: 5, S: "b"},
			},
			out: "a b",
		},
		{
			name: "narrow space",
			runs: []pdf.Text{
				{FontSize: 12, X: 0, Y: 100, W: 5.328, S: "o"},
				{FontSize: 12, X: 8.328, Y: 100, W: 3.336, S: "f"},
			},
			out: "o f",
		},
		{
			name: "kerning stays in word",
			runs: []pdf.Text{
				{FontSize: 10, X: 0, Y: 100, W: 5, S: "A"},
				{FontSize: 10, X: 5.5, Y: 100, W: 5, S: "V"},
			},
			out: "AV",
		},
		{
			name: "gap after space",
			runs: []pdf.Text{
				{FontSize: 10, X: 0, Y: 100, W: 5, S: " "},
				{FontSize: 10, X: 20, Y: 100, W: 5, S: "b"},
			},
			out: " b",
		},
		{
			name: "new line",
			runs: []pdf.Text{
				{FontSize: 10, X: 0, Y: 100, W: 5, S: "a"},
				{FontSize: 10, X: 0, Y: 86, W: 5, S: "b"},
			},
			out: "a\nb",
		},
		{
			name: "subscript jitter stays on line",
			runs: []pdf.Text{
				{FontSize: 10, X: 0, Y: 100, W: 5, S: "H"},
				{FontSize: 10, X: 5, Y: 98, W: 5, S: "2"},
			},
			out: "H2",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.out, pageText(c.runs))
		})
	}
}

func Test_splitPages(t *testing.T) {
	assert.Equal(t, []Page{{Number: 0, Text: "single"}}, splitPages("single"))
	assert.Equal(t, []Page{{Number: 0, Text: ""}}, splitPages(""))
	assert.Equal(t,
		[]Page{{Number: 0, Text: "one"}, {Number: 1, Text: "two"}},
		splitPages("one\ftwo\f\n"))
	assert.Equal(t,
		[]Page{{Number: 0, Text: "one"}, {Number: 1, Text: ""}, {Number: 2, Text: "three"}},
		splitPages(strings.Join([]string{"one", "", "three"}, "\f")))
}

func Test_DocconvFileReader_CanRead(t *testing.T) {
	r := DocconvFileReader{}
	assert.True(t, r.CanRead("some/file.pdf"))
	assert.False(t, r.CanRead("some/file.docx"))
}
